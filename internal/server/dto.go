package server

import (
	"math"

	"github.com/KaramelBytes/trafficdash/internal/analysis"
	"github.com/KaramelBytes/trafficdash/internal/cluster"
)

type viewDTO struct {
	*analysis.GroupedView
	Error string `json:"error,omitempty"`
}

type viewsDTO struct {
	RunID  string    `json:"run_id"`
	Source string    `json:"source"`
	Rows   int       `json:"rows"`
	Views  []viewDTO `json:"views"`
}

// pointDTO carries counts as pointers so null cells encode as JSON null.
type pointDTO struct {
	TotalKilled  *float64 `json:"total_killed"`
	TotalInjured *float64 `json:"total_injured"`
	Prediction   string   `json:"prediction"`
}

func toViewsDTO(runID, source string, rows int, views *analysis.Views) viewsDTO {
	out := viewsDTO{RunID: runID, Source: source, Rows: rows, Views: make([]viewDTO, 0, len(views.All()))}
	for _, v := range views.All() {
		d := viewDTO{GroupedView: v}
		if v.Err != nil {
			d.Error = v.Err.Error()
		}
		out.Views = append(out.Views, d)
	}
	return out
}

func toPointDTOs(points []cluster.Point) []pointDTO {
	out := make([]pointDTO, len(points))
	for i, p := range points {
		out[i] = pointDTO{TotalKilled: finiteOrNil(p.Killed), TotalInjured: finiteOrNil(p.Injured), Prediction: p.Label}
	}
	return out
}

func finiteOrNil(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
