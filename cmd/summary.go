package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/trafficdash/internal/analysis"
)

var (
	summaryView    string
	summaryProfile bool
	summaryAll     bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the grouped views as terminal tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if summaryView != "" && !knownView(summaryView) {
			return fmt.Errorf("unknown view: %s", summaryView)
		}
		p, err := buildPage()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		heading := color.New(color.FgCyan, color.Bold)
		heading.Fprintf(out, "%s\n", p.Title)
		fmt.Fprintf(out, "Source: %s (%d rows)\n", p.Source, p.Rows)
		for _, n := range p.Notices {
			color.New(color.FgYellow).Fprintf(out, "⚠ %s\n", n)
		}

		if summaryProfile {
			heading.Fprintf(out, "\nProfile\n")
			printProfile(out, p.Profile)
		}
		for _, v := range p.Views.All() {
			if summaryView != "" && v.Name != summaryView {
				continue
			}
			heading.Fprintf(out, "\n%s (%s)\n", v.Name, v.Column)
			printView(out, v, summaryAll)
		}
		if summaryView == "" {
			heading.Fprintf(out, "\n%s\n", p.Cluster.Header)
			if p.Cluster.Chart != nil {
				fmt.Fprintf(out, "%d points, %d plotted, labels: %s\n",
					len(p.Points), p.Cluster.Chart.Plotted, strings.Join(p.Cluster.Chart.Labels, ", "))
			} else {
				fmt.Fprintf(out, "Unavailable: %v\n", p.Cluster.Err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&summaryView, "view", "", "only print this view (e.g. by_hour)")
	summaryCmd.Flags().BoolVar(&summaryProfile, "profile", false, "also print a per-column profile")
	summaryCmd.Flags().BoolVar(&summaryAll, "all-columns", false, "include non-null counts of every other column")
}

func knownView(name string) bool {
	switch name {
	case analysis.ViewByHour, analysis.ViewByMonth, analysis.ViewByYear, analysis.ViewByBorough,
		analysis.ViewByCause, analysis.ViewVehicleTypes, analysis.ViewCauseVehicleRelation:
		return true
	}
	return false
}

func printView(w io.Writer, v *analysis.GroupedView, all bool) {
	switch v.Status {
	case analysis.StatusNotImplemented:
		fmt.Fprintln(w, "Not implemented yet.")
		return
	case analysis.StatusSkipped:
		color.New(color.FgYellow).Fprintf(w, "Unavailable: %v\n", v.Err)
		return
	}
	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	header := []string{v.Column, "count"}
	if all {
		header = append(header, v.Columns...)
	}
	tw.SetHeader(header)
	for _, g := range v.Groups {
		row := []string{g.Key.String(), strconv.Itoa(g.Size)}
		if all {
			for _, c := range g.Counts {
				row = append(row, strconv.Itoa(c))
			}
		}
		tw.Append(row)
	}
	tw.Render()
}

func printProfile(w io.Writer, p *analysis.Profile) {
	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetHeader([]string{"column", "kind", "non_null", "missing", "unique", "min", "max", "mean"})
	for _, c := range p.Columns {
		row := []string{c.Name, c.Kind, strconv.Itoa(c.NonNull), strconv.Itoa(c.Missing), strconv.Itoa(c.Unique), "", "", ""}
		if c.Kind == "numeric" {
			row[5] = strconv.FormatFloat(c.Min, 'g', 6, 64)
			row[6] = strconv.FormatFloat(c.Max, 'g', 6, 64)
			row[7] = strconv.FormatFloat(c.Mean, 'g', 6, 64)
		}
		tw.Append(row)
	}
	tw.Render()
}
