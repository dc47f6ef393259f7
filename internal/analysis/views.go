package analysis

import (
	"errors"

	"github.com/KaramelBytes/trafficdash/internal/table"
)

// Accident table columns. Names are case- and spacing-sensitive.
const (
	ColumnYear        = "YEAR"
	ColumnMonth       = "MONTH"
	ColumnHour        = "HOUR"
	ColumnBorough     = "BOROUGH"
	ColumnCause       = "CONTRIBUTING FACTOR VEHICLE 1"
	ColumnVehicleType = "VEHICLE TYPE CODE 1"
)

// View names.
const (
	ViewByHour               = "by_hour"
	ViewByMonth              = "by_month"
	ViewByYear               = "by_year"
	ViewByBorough            = "by_borough"
	ViewByCause              = "by_cause"
	ViewVehicleTypes         = "vehicle_types"
	ViewCauseVehicleRelation = "cause_vehicle_relation"
)

// Views holds every grouped view of the accident table.
type Views struct {
	Hour    *GroupedView `json:"by_hour"`
	Month   *GroupedView `json:"by_month"`
	Year    *GroupedView `json:"by_year"`
	Borough *GroupedView `json:"by_borough"`
	Cause   *GroupedView `json:"by_cause"`

	VehicleTypes *GroupedView `json:"vehicle_types"`
	CauseVehicle *GroupedView `json:"cause_vehicle_relation"`
}

// All returns the views in a fixed order, computed views first.
func (v *Views) All() []*GroupedView {
	return []*GroupedView{v.Hour, v.Month, v.Year, v.Borough, v.Cause, v.VehicleTypes, v.CauseVehicle}
}

// Computed returns the five grouped-count views.
func (v *Views) Computed() []*GroupedView {
	return []*GroupedView{v.Hour, v.Month, v.Year, v.Borough, v.Cause}
}

// Skipped returns views that could not be computed.
func (v *Views) Skipped() []*GroupedView {
	var out []*GroupedView
	for _, gv := range v.All() {
		if gv.Status == StatusSkipped {
			out = append(out, gv)
		}
	}
	return out
}

// Placeholder returns an empty view marked as not implemented.
func Placeholder(name, column string) *GroupedView {
	return &GroupedView{Name: name, Column: column, Status: StatusNotImplemented, Columns: []string{}, Groups: []Group{}}
}

// Aggregate computes the five grouped views. A view whose column is absent is
// marked skipped when opt.SkipMissing is set; otherwise its SchemaError is returned.
func Aggregate(t *table.Table, opt Options) (*Views, error) {
	v := &Views{
		VehicleTypes: Placeholder(ViewVehicleTypes, ColumnVehicleType),
		CauseVehicle: Placeholder(ViewCauseVehicleRelation, ColumnCause),
	}
	grouped := []struct {
		dst    **GroupedView
		name   string
		column string
	}{
		{&v.Hour, ViewByHour, ColumnHour},
		{&v.Month, ViewByMonth, ColumnMonth},
		{&v.Year, ViewByYear, ColumnYear},
		{&v.Borough, ViewByBorough, ColumnBorough},
		{&v.Cause, ViewByCause, ColumnCause},
	}
	for _, s := range grouped {
		gv, err := GroupBy(t, s.name, s.column, opt)
		if err != nil {
			var se *table.SchemaError
			if !opt.SkipMissing || !errors.As(err, &se) {
				return nil, err
			}
			gv = &GroupedView{Name: s.name, Column: s.column, Status: StatusSkipped, Columns: []string{}, Groups: []Group{}, Err: err}
		}
		*s.dst = gv
	}
	return v, nil
}
