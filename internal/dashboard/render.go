package dashboard

import (
	_ "embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"

	"github.com/KaramelBytes/trafficdash/internal/analysis"
)

//go:embed dashboard.html
var pageTemplate string

var tmpl = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"pngURI": func(b []byte) template.URL {
		return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(b))
	},
	"ready":          func(v *analysis.GroupedView) bool { return v != nil && v.Status == analysis.StatusReady },
	"notImplemented": func(v *analysis.GroupedView) bool { return v != nil && v.Status == analysis.StatusNotImplemented },
}).Parse(pageTemplate))

// Render writes p as a self-contained HTML document. Output depends only on the
// page contents, so rendering the same input twice yields identical bytes.
func Render(w io.Writer, p *Page) error {
	if err := tmpl.Execute(w, p); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}
