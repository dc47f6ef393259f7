package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/trafficdash/internal/table"
)

const accidentsCSV = `YEAR,MONTH,HOUR,BOROUGH,CONTRIBUTING FACTOR VEHICLE 1,VEHICLE TYPE CODE 1,TOTAL KILLED,TOTAL INJURED,prediction
2019,7,3,BROOKLYN,Driver Inattention/Distraction,Sedan,0,1,0
2020,1,17,,Unspecified,Taxi,0,0,0
2020,1,9,QUEENS,,Sedan,1,2,1
2021,12,17,BROOKLYN,Unspecified,Bike,0,3,1
`

// resetFlag restores a flag's default and clears its Changed state.
func resetFlag(c *cobra.Command, name string) {
	fl := c.Flags().Lookup(name)
	if fl == nil {
		fl = c.PersistentFlags().Lookup(name)
	}
	if fl == nil {
		return
	}
	_ = fl.Value.Set(fl.DefValue)
	fl.Changed = false
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, name := range []string{"data", "config", "debug"} {
		resetFlag(rootCmd, name)
	}
	resetFlag(renderCmd, "output")
	for _, name := range []string{"view", "profile", "all-columns"} {
		resetFlag(summaryCmd, name)
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

// isolate points HOME at a temp dir and writes the accident fixture there.
func isolate(t *testing.T) (home, data string) {
	t.Helper()
	home = t.TempDir()
	oldHome := os.Getenv("HOME")
	t.Cleanup(func() { os.Setenv("HOME", oldHome) })
	os.Setenv("HOME", home)
	data = filepath.Join(home, "output.csv")
	if err := os.WriteFile(data, []byte(accidentsCSV), 0o644); err != nil {
		t.Fatalf("write data: %v", err)
	}
	return home, data
}

func TestCLI_RenderToFile(t *testing.T) {
	home, data := isolate(t)
	outPath := filepath.Join(home, "dashboard.html")

	out := runCmd(t, "render", "--data", data, "-o", outPath)
	if !strings.Contains(out, "Wrote dashboard to") {
		t.Fatalf("unexpected output: %q", out)
	}
	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	html := string(b)
	for _, want := range []string{"Traffic Accident Analysis", "Time Analysis", "Location Analysis", "Clustering", "data:image/png;base64,"} {
		if !strings.Contains(html, want) {
			t.Fatalf("dashboard missing %q", want)
		}
	}
	if _, err := os.Stat(outPath + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestCLI_RenderToStdout(t *testing.T) {
	_, data := isolate(t)
	out := runCmd(t, "render", "--data", data)
	if !strings.HasPrefix(strings.TrimSpace(out), "<!DOCTYPE html>") {
		t.Fatalf("expected an HTML document, got %.80q", out)
	}
}

func TestCLI_SummaryPrintsViews(t *testing.T) {
	_, data := isolate(t)
	out := runCmd(t, "summary", "--data", data)
	for _, want := range []string{"by_hour", "by_borough", "BROOKLYN", "NaN", "Not implemented yet.", "4 points"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
	// Descending keys: 17 is listed before 9, which is listed before 3.
	hour := runCmd(t, "summary", "--data", data, "--view", "by_hour")
	i17, i9, i3 := strings.Index(hour, " 17 "), strings.Index(hour, " 9 "), strings.Index(hour, " 3 ")
	if i17 < 0 || i9 < 0 || i3 < 0 || !(i17 < i9 && i9 < i3) {
		t.Fatalf("hour order wrong:\n%s", hour)
	}
	if strings.Contains(hour, "by_month") {
		t.Fatalf("--view should filter other views:\n%s", hour)
	}
}

func TestCLI_SummaryUnknownView(t *testing.T) {
	_, data := isolate(t)
	if _, err := execute(t, "summary", "--data", data, "--view", "by_weekday"); err == nil {
		t.Fatalf("expected error for unknown view")
	}
}

func TestCLI_MissingDataIsLoadError(t *testing.T) {
	home, _ := isolate(t)
	_, err := execute(t, "render", "--data", filepath.Join(home, "missing.csv"))
	var le *table.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected LoadError, got %v", err)
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home, _ := isolate(t)

	runCmd(t, "config", "set", "sort_by", "count")
	runCmd(t, "config", "set", "marker_size", "64")
	if _, err := os.Stat(filepath.Join(home, ".trafficdash", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	out := runCmd(t, "config", "show")
	for _, want := range []string{"sort_by: count", "marker_size: 64.0", "data_path: output.csv"} {
		if !strings.Contains(out, want) {
			t.Fatalf("config show missing %q:\n%s", want, out)
		}
	}

	if _, err := execute(t, "config", "set", "sort_by", "frequency"); err == nil {
		t.Fatalf("expected invalid sort_by to be rejected")
	}
	if _, err := execute(t, "config", "set", "bogus", "1"); err == nil {
		t.Fatalf("expected unknown key to be rejected")
	}
	out = runCmd(t, "config", "show")
	if !strings.Contains(out, "sort_by: count") {
		t.Fatalf("rejected value should not be saved:\n%s", out)
	}
}

func TestCLI_ConfigSetKeepsOverridesOutOfFile(t *testing.T) {
	home, data := isolate(t)
	t.Setenv("TRAFFICDASH_LISTEN_ADDR", ":9999")

	runCmd(t, "config", "set", "sort_by", "count", "--data", data)
	b, err := os.ReadFile(filepath.Join(home, ".trafficdash", "config.yaml"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	saved := string(b)
	for _, want := range []string{"sort_by: count", "data_path: output.csv", "8501"} {
		if !strings.Contains(saved, want) {
			t.Fatalf("saved config missing %q:\n%s", want, saved)
		}
	}
	if strings.Contains(saved, data) || strings.Contains(saved, ":9999") {
		t.Fatalf("overrides leaked into config file:\n%s", saved)
	}
}
