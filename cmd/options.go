package cmd

import (
	cfgpkg "github.com/KaramelBytes/trafficdash/internal/config"
	"github.com/KaramelBytes/trafficdash/internal/dashboard"
	"github.com/KaramelBytes/trafficdash/internal/table"
)

func loadOptions(c *cfgpkg.Global) (table.Options, error) {
	delim, err := cfgpkg.ParseDelimiter(c.Delimiter)
	if err != nil {
		return table.Options{}, err
	}
	return table.Options{Delimiter: delim, SheetName: c.SheetName, SheetIndex: c.SheetIndex}, nil
}

func dashboardOptions(c *cfgpkg.Global) dashboard.Options {
	opt := dashboard.DefaultOptions()
	opt.Analysis.SortByCount = c.SortBy == cfgpkg.SortByCount
	opt.Analysis.SkipMissing = c.SkipMissingViews
	opt.Chart.WidthIn = c.ChartWidthIn
	opt.Chart.HeightIn = c.ChartHeightIn
	opt.Chart.MarkerSize = c.MarkerSize
	return opt
}

// buildPage runs the full pipeline from the effective configuration.
func buildPage() (*dashboard.Page, error) {
	c, err := requireConfig()
	if err != nil {
		return nil, err
	}
	lo, err := loadOptions(c)
	if err != nil {
		return nil, err
	}
	return dashboard.Run(c.DataPath, lo, dashboardOptions(c), logger)
}
