package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dateLayout = "2006-01-02"

var (
	// ErrInvalidDate indicates a date parameter could not be parsed.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidObjectID indicates an identifier parameter is not a valid object id.
	ErrInvalidObjectID = errors.New("invalid object id")
)

// DailyDepartmentReport is one department's activity for one reporting day.
// At most one report exists per (ReportDate, DepartmentID, ShowroomID).
type DailyDepartmentReport struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ReportDate   time.Time           `bson:"reportDate" json:"reportDate"`
	DepartmentID primitive.ObjectID  `bson:"departmentId" json:"departmentId"`
	ShowroomID   *primitive.ObjectID `bson:"showroomId" json:"showroomId"`
	SubmittedBy  primitive.ObjectID  `bson:"submittedBy,omitempty" json:"submittedBy,omitempty"`

	Tracking          *TrackingMetrics          `bson:"tracking" json:"tracking,omitempty"`
	SpeedGovernor     *SpeedGovernorMetrics     `bson:"speedGovernor" json:"speedGovernor,omitempty"`
	Radio             *RadioMetrics             `bson:"radio" json:"radio,omitempty"`
	Fuel              *FuelMetrics              `bson:"fuel" json:"fuel,omitempty"`
	VehicleTelematics *VehicleTelematicsMetrics `bson:"vehicleTelematics" json:"vehicleTelematics,omitempty"`
	Online            *OnlineMetrics            `bson:"online" json:"online,omitempty"`

	Notes   string   `bson:"notes,omitempty" json:"notes,omitempty"`
	Revenue *Revenue `bson:"revenue,omitempty" json:"revenue,omitempty"`

	CreatedAt time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// MetricsFor returns the metric variant owned by the given department code,
// or nil when the report does not carry it.
func (r *DailyDepartmentReport) MetricsFor(code DepartmentCode) Metrics {
	switch code {
	case CodeTracking:
		if r.Tracking != nil {
			return r.Tracking
		}
	case CodeSpeedGovernor:
		if r.SpeedGovernor != nil {
			return r.SpeedGovernor
		}
	case CodeRadio:
		if r.Radio != nil {
			return r.Radio
		}
	case CodeFuel:
		if r.Fuel != nil {
			return r.Fuel
		}
	case CodeVehicleTelematics:
		if r.VehicleTelematics != nil {
			return r.VehicleTelematics
		}
	case CodeOnline:
		if r.Online != nil {
			return r.Online
		}
	}
	return nil
}

// Metrics returns the first populated metric variant, or nil.
func (r *DailyDepartmentReport) Metrics() Metrics {
	for _, code := range KnownCodes {
		if m := r.MetricsFor(code); m != nil {
			return m
		}
	}
	return nil
}

// SetMetrics replaces every metric sub-object with the given variant.
func (r *DailyDepartmentReport) SetMetrics(m Metrics) {
	r.Tracking = nil
	r.SpeedGovernor = nil
	r.Radio = nil
	r.Fuel = nil
	r.VehicleTelematics = nil
	r.Online = nil

	switch v := m.(type) {
	case *TrackingMetrics:
		r.Tracking = v
	case *SpeedGovernorMetrics:
		r.SpeedGovernor = v
	case *RadioMetrics:
		r.Radio = v
	case *FuelMetrics:
		r.Fuel = v
	case *VehicleTelematicsMetrics:
		r.VehicleTelematics = v
	case *OnlineMetrics:
		r.Online = v
	}
}

// PopulatedFamilies lists the codes of every non-nil metric sub-object.
func (r *DailyDepartmentReport) PopulatedFamilies() []DepartmentCode {
	var out []DepartmentCode
	for _, code := range KnownCodes {
		if r.MetricsFor(code) != nil {
			out = append(out, code)
		}
	}
	return out
}

// SameShowroom compares nullable showroom references; nil equals nil.
func SameShowroom(a, b *primitive.ObjectID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// TruncateToDay returns midnight UTC of the day t falls on in UTC.
func TruncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay accepts 2006-01-02 or RFC3339 values and returns the UTC day.
func ParseDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return TruncateToDay(t), nil
}

// FormatDay renders a reporting day as 2006-01-02.
func FormatDay(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// ParseObjectID wraps primitive.ObjectIDFromHex with ErrInvalidObjectID.
func ParseObjectID(value string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(value))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidObjectID, value)
	}
	return id, nil
}
