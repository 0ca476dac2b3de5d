// Package memory keeps reports and reference data in process. It mirrors
// the MongoDB repository's semantics and backs development mode and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nebsam/opsdash/internal/analytics"
	"github.com/nebsam/opsdash/internal/domain/models"
)

// Repository is a mutex guarded in-memory store.
type Repository struct {
	mu          sync.RWMutex
	reports     []models.DailyDepartmentReport
	departments []models.Department
	showrooms   []models.Showroom
	now         func() time.Time
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{now: time.Now}
}

// DefaultDepartments returns one department per known metric family.
func DefaultDepartments() []models.Department {
	names := map[models.DepartmentCode]string{
		models.CodeTracking:          "Tracking",
		models.CodeSpeedGovernor:     "Speed Governors",
		models.CodeRadio:             "Radio",
		models.CodeFuel:              "Fuel Monitoring",
		models.CodeVehicleTelematics: "Vehicle Telematics",
		models.CodeOnline:            "Online",
	}

	out := make([]models.Department, 0, len(models.KnownCodes))
	for _, code := range models.KnownCodes {
		out = append(out, models.Department{ID: primitive.NewObjectID(), Name: names[code], Code: code})
	}
	return out
}

// AddDepartments registers reference departments.
func (r *Repository) AddDepartments(departments ...models.Department) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.departments = append(r.departments, departments...)
}

// AddShowrooms registers reference showrooms.
func (r *Repository) AddShowrooms(showrooms ...models.Showroom) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.showrooms = append(r.showrooms, showrooms...)
}

// FindReports returns copies of the matching reports ordered by date.
func (r *Repository) FindReports(ctx context.Context, filter models.ReportFilter) ([]models.DailyDepartmentReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.DailyDepartmentReport, 0)
	for i := range r.reports {
		if analytics.Matches(&r.reports[i], filter) {
			out = append(out, r.reports[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReportDate.Before(out[j].ReportDate) })
	return out, nil
}

// CountReports counts the matching reports.
func (r *Repository) CountReports(ctx context.Context, filter models.ReportFilter) (int64, error) {
	reports, err := r.FindReports(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(reports)), nil
}

// SummarizeReports counts matching reports by date, department and overall.
func (r *Repository) SummarizeReports(ctx context.Context, filter models.ReportFilter) (models.DailySummary, error) {
	reports, err := r.FindReports(ctx, filter)
	if err != nil {
		return models.DailySummary{}, err
	}
	return analytics.Summarize(reports), nil
}

// UpsertReport replaces the report stored for the same day, department and
// showroom, or inserts it.
func (r *Repository) UpsertReport(ctx context.Context, report models.DailyDepartmentReport) (models.DailyDepartmentReport, error) {
	if err := ctx.Err(); err != nil {
		return models.DailyDepartmentReport{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	report.ReportDate = models.TruncateToDay(report.ReportDate)
	if report.UpdatedAt.IsZero() {
		report.UpdatedAt = r.now().UTC()
	}

	for i := range r.reports {
		existing := &r.reports[i]
		if existing.ReportDate.Equal(report.ReportDate) &&
			existing.DepartmentID == report.DepartmentID &&
			models.SameShowroom(existing.ShowroomID, report.ShowroomID) {
			report.ID = existing.ID
			report.CreatedAt = existing.CreatedAt
			r.reports[i] = report
			return report, nil
		}
	}

	report.ID = primitive.NewObjectID()
	report.CreatedAt = report.UpdatedAt
	r.reports = append(r.reports, report)
	return report, nil
}

// FindDepartmentByID loads one department.
func (r *Repository) FindDepartmentByID(ctx context.Context, id primitive.ObjectID) (models.Department, error) {
	return r.findDepartment(ctx, func(d models.Department) bool { return d.ID == id })
}

// FindDepartmentByCode loads the department owning a code.
func (r *Repository) FindDepartmentByCode(ctx context.Context, code models.DepartmentCode) (models.Department, error) {
	return r.findDepartment(ctx, func(d models.Department) bool { return d.Code == code })
}

func (r *Repository) findDepartment(ctx context.Context, match func(models.Department) bool) (models.Department, error) {
	if err := ctx.Err(); err != nil {
		return models.Department{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.departments {
		if match(d) {
			return d, nil
		}
	}
	return models.Department{}, models.ErrUnknownDepartment
}

// ListDepartments returns every department ordered by code.
func (r *Repository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]models.Department(nil), r.departments...)
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// CountDepartments counts every department.
func (r *Repository) CountDepartments(ctx context.Context) (int64, error) {
	departments, err := r.ListDepartments(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(departments)), nil
}

// FindShowroomByID loads one showroom.
func (r *Repository) FindShowroomByID(ctx context.Context, id primitive.ObjectID) (models.Showroom, error) {
	if err := ctx.Err(); err != nil {
		return models.Showroom{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.showrooms {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Showroom{}, models.ErrUnknownShowroom
}

// ListActiveShowrooms returns active showrooms ordered by code.
func (r *Repository) ListActiveShowrooms(ctx context.Context) ([]models.Showroom, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Showroom, 0, len(r.showrooms))
	for _, s := range r.showrooms {
		if s.IsActive {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// CountActiveShowrooms counts active showrooms.
func (r *Repository) CountActiveShowrooms(ctx context.Context) (int64, error) {
	showrooms, err := r.ListActiveShowrooms(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(showrooms)), nil
}
