// Package dashboard composes the accident views and the clustering chart into
// a two-panel page and renders it as HTML.
package dashboard

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KaramelBytes/trafficdash/internal/analysis"
	"github.com/KaramelBytes/trafficdash/internal/cluster"
	"github.com/KaramelBytes/trafficdash/internal/table"
)

const PageTitle = "Traffic Accident Analysis"

// Options controls page assembly.
type Options struct {
	Analysis analysis.Options
	Chart    cluster.ChartOptions
}

// DefaultOptions returns the defaults of both the aggregator and the chart.
func DefaultOptions() Options {
	return Options{Analysis: analysis.DefaultOptions(), Chart: cluster.DefaultChartOptions()}
}

// Page is everything the dashboard displays for one run.
type Page struct {
	RunID    string
	Title    string
	Source   string
	Rows     int
	Panels   []Panel
	Sections []Section
	Cluster  ClusterSection
	Notices  []string

	Views   *analysis.Views
	Points  []cluster.Point
	Profile *analysis.Profile
}

// Panel is one column of the layout, holding selectable tabs.
type Panel struct {
	ID     string
	Header string
	Tabs   []Tab
}

// Tab shows one view. Views with StatusNotImplemented render as placeholders.
type Tab struct {
	ID      string
	Label   string
	Caption string
	View    *analysis.GroupedView
}

// Section is a full-width block below the panels.
type Section struct {
	Header string
	View   *analysis.GroupedView
}

// ClusterSection holds the scatter chart, or the reason it is missing.
type ClusterSection struct {
	Header string
	Chart  *cluster.Chart
	Err    error
}

// Build aggregates t and assembles the page. Views whose columns are absent are
// logged and shown as notices when opt.Analysis.SkipMissing is set.
func Build(t *table.Table, opt Options, log *zap.Logger) (*Page, error) {
	if log == nil {
		log = zap.NewNop()
	}
	runID := uuid.NewString()
	log = log.With(zap.String("run_id", runID))

	views, err := analysis.Aggregate(t, opt.Analysis)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	p := &Page{
		RunID:   runID,
		Title:   PageTitle,
		Source:  t.Name,
		Rows:    t.Len(),
		Views:   views,
		Profile: analysis.ProfileTable(t),
	}
	for _, v := range views.Skipped() {
		log.Warn("view skipped", zap.String("view", v.Name), zap.String("column", v.Column), zap.Error(v.Err))
		p.Notices = append(p.Notices, fmt.Sprintf("View %s skipped: %v", v.Name, v.Err))
	}

	p.Panels = []Panel{
		{
			ID:     "time",
			Header: "Time Analysis",
			Tabs: []Tab{
				{ID: "time-1", Label: "Tab 1", Caption: "Hourly Analysis:", View: analysis.Placeholder("hourly_chart", analysis.ColumnHour)},
				{ID: "time-2", Label: "Tab 2", Caption: "Monthly Analysis:", View: views.Month},
				{ID: "time-3", Label: "Tab 3", Caption: "Yearly Analysis:", View: views.Year},
			},
		},
		{
			ID:     "location",
			Header: "Location Analysis",
			Tabs: []Tab{
				{ID: "location-1", Label: "Tab 1", Caption: "Hotspots", View: views.Borough},
				{ID: "location-2", Label: "Tab 2", Caption: "Causes", View: views.Cause},
				{ID: "location-3", Label: "Tab 3", Caption: "Vehicle Types", View: views.VehicleTypes},
			},
		},
	}
	p.Sections = []Section{{Header: "Cause-Vehicle Relation", View: views.CauseVehicle}}

	p.Cluster = ClusterSection{Header: "Clustering"}
	points, err := cluster.Points(t)
	if err != nil {
		var se *table.SchemaError
		if !opt.Analysis.SkipMissing || !errors.As(err, &se) {
			return nil, err
		}
		log.Warn("view skipped", zap.String("view", cluster.ViewName), zap.Strings("columns", se.Columns), zap.Error(err))
		p.Notices = append(p.Notices, fmt.Sprintf("View %s skipped: %v", cluster.ViewName, err))
		p.Cluster.Err = err
		p.Points = []cluster.Point{}
		return p, nil
	}
	p.Points = points
	ch, err := cluster.Scatter(points, opt.Chart)
	if err != nil {
		return nil, fmt.Errorf("render clustering chart: %w", err)
	}
	if ch.Omitted > 0 {
		log.Info("points omitted from chart", zap.Int("omitted", ch.Omitted), zap.Int("plotted", ch.Plotted))
	}
	p.Cluster.Chart = ch
	log.Debug("page built", zap.String("source", p.Source), zap.Int("rows", p.Rows))
	return p, nil
}

// Run loads the table at path and builds its page. Load failures surface as
// *table.LoadError before anything is aggregated.
func Run(path string, load table.Options, opt Options, log *zap.Logger) (*Page, error) {
	t, err := table.Load(path, load)
	if err != nil {
		return nil, err
	}
	return Build(t, opt, log)
}
