package cluster

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ChartOptions controls the rendered scatter plot.
type ChartOptions struct {
	Title    string
	WidthIn  float64
	HeightIn float64
	// MarkerSize is the marker area in points squared, as in matplotlib's `s`.
	MarkerSize float64
}

// DefaultChartOptions matches a 6.4x4.8in figure with s=100 markers.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{Title: "Clustering", WidthIn: 6.4, HeightIn: 4.8, MarkerSize: 100}
}

// Chart is a rendered scatter plot.
type Chart struct {
	Title   string
	PNG     []byte
	Labels  []string
	Plotted int
	// Omitted counts points without finite coordinates or without a label.
	Omitted int
}

// Scatter renders points as a PNG scatter plot, one color per prediction label.
func Scatter(points []Point, opt ChartOptions) (*Chart, error) {
	if opt.WidthIn <= 0 || opt.HeightIn <= 0 {
		return nil, fmt.Errorf("invalid chart size %.2fx%.2fin", opt.WidthIn, opt.HeightIn)
	}
	ch := &Chart{Title: opt.Title}
	byLabel := map[string]plotter.XYs{}
	for _, pt := range points {
		if pt.Label == "" || !finite(pt.Killed) || !finite(pt.Injured) {
			ch.Omitted++
			continue
		}
		byLabel[pt.Label] = append(byLabel[pt.Label], plotter.XY{X: pt.Killed, Y: pt.Injured})
		ch.Plotted++
	}
	ch.Labels = sortedLabels(byLabel)

	p := plot.New()
	p.Title.Text = opt.Title
	p.X.Label.Text = "Total Killed"
	p.Y.Label.Text = "Total Injured"
	p.Legend.Top = true

	radius := vg.Points(math.Sqrt(opt.MarkerSize) / 2)
	for i, label := range ch.Labels {
		s, err := plotter.NewScatter(byLabel[label])
		if err != nil {
			return nil, fmt.Errorf("scatter %q: %w", label, err)
		}
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = radius
		s.GlyphStyle.Color = plotutil.Color(i)
		p.Add(s)
		p.Legend.Add(label, s)
	}

	w, err := p.WriterTo(vg.Length(opt.WidthIn)*vg.Inch, vg.Length(opt.HeightIn)*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("chart canvas: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	ch.PNG = buf.Bytes()
	return ch, nil
}

// sortedLabels orders labels numerically when all of them are numbers.
func sortedLabels(m map[string]plotter.XYs) []string {
	labels := make([]string, 0, len(m))
	numeric := true
	for l := range m {
		labels = append(labels, l)
		if _, err := strconv.ParseFloat(l, 64); err != nil {
			numeric = false
		}
	}
	sort.Slice(labels, func(i, j int) bool {
		if numeric {
			a, _ := strconv.ParseFloat(labels[i], 64)
			b, _ := strconv.ParseFloat(labels[j], 64)
			if a != b {
				return a < b
			}
		}
		return labels[i] < labels[j]
	})
	return labels
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
