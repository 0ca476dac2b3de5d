package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nebsam/opsdash/internal/analytics"
	"github.com/nebsam/opsdash/internal/domain/models"
)

// ErrInvalidReport indicates a submitted report is inconsistent with its department.
var ErrInvalidReport = errors.New("invalid report")

// Store is the persistence surface the reporting service reads from.
type Store interface {
	FindReports(ctx context.Context, filter models.ReportFilter) ([]models.DailyDepartmentReport, error)
	CountReports(ctx context.Context, filter models.ReportFilter) (int64, error)
	SummarizeReports(ctx context.Context, filter models.ReportFilter) (models.DailySummary, error)
	UpsertReport(ctx context.Context, report models.DailyDepartmentReport) (models.DailyDepartmentReport, error)

	FindDepartmentByID(ctx context.Context, id primitive.ObjectID) (models.Department, error)
	FindDepartmentByCode(ctx context.Context, code models.DepartmentCode) (models.Department, error)
	ListDepartments(ctx context.Context) ([]models.Department, error)
	CountDepartments(ctx context.Context) (int64, error)

	FindShowroomByID(ctx context.Context, id primitive.ObjectID) (models.Showroom, error)
	ListActiveShowrooms(ctx context.Context) ([]models.Showroom, error)
	CountActiveShowrooms(ctx context.Context) (int64, error)
}

// Service exposes the dashboard analytics over a Store.
type Service struct {
	store        Store
	trackingCode models.DepartmentCode
	policy       analytics.AveragePolicy
	logger       *zap.Logger
	now          func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTrackingCode sets the department that reports once per showroom.
func WithTrackingCode(code models.DepartmentCode) Option {
	return func(s *Service) { s.trackingCode = code }
}

// WithAveragePolicy sets the trailing-week average denominator.
func WithAveragePolicy(policy analytics.AveragePolicy) Option {
	return func(s *Service) { s.policy = policy }
}

// NewService wires a new reporting service instance.
func NewService(store Store, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:        store,
		trackingCode: models.CodeTracking,
		policy:       analytics.AverageFixedWindow,
		logger:       logger,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Daily counts reports by date, by department and overall for the filter.
func (s *Service) Daily(ctx context.Context, filter models.ReportFilter) (models.DailySummary, error) {
	summary, err := s.store.SummarizeReports(ctx, filter)
	if err != nil {
		return models.DailySummary{}, fmt.Errorf("summarize reports: %w", err)
	}
	return summary, nil
}

// Trends compares today's activity volume with yesterday and the past week.
func (s *Service) Trends(ctx context.Context, departmentID, showroomID *primitive.ObjectID) (models.TrendReport, error) {
	now := s.now()

	filter := analytics.TrendWindow(now).Filter()
	filter.DepartmentID = departmentID
	filter.ShowroomID = showroomID

	reports, err := s.store.FindReports(ctx, filter)
	if err != nil {
		return models.TrendReport{}, fmt.Errorf("load trend window: %w", err)
	}

	trend := analytics.Trends(reports, now, s.policy)
	s.logger.Debug("trend computed",
		zap.Int("reports", len(reports)),
		zap.Float64("today", trend.Today),
		zap.Float64("last_week_avg", trend.LastWeekAvg))
	return trend, nil
}

// SubmissionStatus reports expected versus submitted reports for day, or
// for today when day is nil.
func (s *Service) SubmissionStatus(ctx context.Context, day *time.Time) (models.SubmissionStatus, error) {
	target := s.now()
	if day != nil {
		target = *day
	}
	target = models.TruncateToDay(target)
	window := analytics.Window{From: target, Until: target.AddDate(0, 0, 1)}

	var departments, showrooms, submitted int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.store.CountDepartments(gctx)
		if err != nil {
			return fmt.Errorf("count departments: %w", err)
		}
		departments = n
		return nil
	})
	g.Go(func() error {
		n, err := s.store.CountActiveShowrooms(gctx)
		if err != nil {
			return fmt.Errorf("count active showrooms: %w", err)
		}
		showrooms = n
		return nil
	})
	g.Go(func() error {
		n, err := s.store.CountReports(gctx, window.Filter())
		if err != nil {
			return fmt.Errorf("count submitted reports: %w", err)
		}
		submitted = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.SubmissionStatus{}, err
	}

	return analytics.Completeness(target, departments, showrooms, submitted), nil
}

// MissingSubmissions lists departments and showrooms without a report for
// day, or for today when day is nil.
func (s *Service) MissingSubmissions(ctx context.Context, day *time.Time) (models.MissingSubmissions, error) {
	target := s.now()
	if day != nil {
		target = *day
	}
	target = models.TruncateToDay(target)
	window := analytics.Window{From: target, Until: target.AddDate(0, 0, 1)}

	var (
		departments []models.Department
		showrooms   []models.Showroom
		reports     []models.DailyDepartmentReport
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if departments, err = s.store.ListDepartments(gctx); err != nil {
			return fmt.Errorf("list departments: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if showrooms, err = s.store.ListActiveShowrooms(gctx); err != nil {
			return fmt.Errorf("list active showrooms: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if reports, err = s.store.FindReports(gctx, window.Filter()); err != nil {
			return fmt.Errorf("load reports: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.MissingSubmissions{}, err
	}

	return analytics.Missing(target, s.trackingCode, departments, showrooms, reports), nil
}

// Monthly rolls up the current month to date and the whole previous month.
// Both periods and the department index are loaded concurrently.
func (s *Service) Monthly(ctx context.Context) (models.MonthlyRollup, error) {
	current, previous := analytics.MonthWindows(s.now())

	var (
		departments     []models.Department
		currentReports  []models.DailyDepartmentReport
		previousReports []models.DailyDepartmentReport
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if departments, err = s.store.ListDepartments(gctx); err != nil {
			return fmt.Errorf("list departments: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if currentReports, err = s.store.FindReports(gctx, current.Filter()); err != nil {
			return fmt.Errorf("load current month: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if previousReports, err = s.store.FindReports(gctx, previous.Filter()); err != nil {
			return fmt.Errorf("load previous month: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.MonthlyRollup{}, err
	}

	codeOf := analytics.ResolverFromDepartments(departments)
	out := models.MonthlyRollup{
		Current:  analytics.Rollup(currentReports, codeOf),
		Previous: analytics.Rollup(previousReports, codeOf),
	}
	out.Delta = analytics.Compare(out.Current, out.Previous)

	if unknown, ok := out.Current[models.CodeUnknown]; ok {
		s.logger.Warn("reports with unresolved departments in current month", zap.Int64("reports", unknown.Reports))
	}
	return out, nil
}

// SubmitReport validates a report against its department and upserts it on
// its (day, department, showroom) key, replacing any earlier submission.
func (s *Service) SubmitReport(ctx context.Context, report models.DailyDepartmentReport) (models.DailyDepartmentReport, error) {
	dept, err := s.store.FindDepartmentByID(ctx, report.DepartmentID)
	if err != nil {
		if errors.Is(err, models.ErrUnknownDepartment) {
			return models.DailyDepartmentReport{}, fmt.Errorf("%w: %w", ErrInvalidReport, err)
		}
		return models.DailyDepartmentReport{}, fmt.Errorf("load department: %w", err)
	}

	families := report.PopulatedFamilies()
	if len(families) != 1 {
		return models.DailyDepartmentReport{}, fmt.Errorf("%w: exactly one metric object expected, got %d", ErrInvalidReport, len(families))
	}
	if families[0] != dept.Code {
		return models.DailyDepartmentReport{}, fmt.Errorf("%w: department %s cannot carry %s metrics", ErrInvalidReport, dept.Code, families[0])
	}

	if dept.Code == s.trackingCode {
		if report.ShowroomID == nil {
			return models.DailyDepartmentReport{}, fmt.Errorf("%w: %s reports require a showroom", ErrInvalidReport, dept.Code)
		}
		if _, err := s.store.FindShowroomByID(ctx, *report.ShowroomID); err != nil {
			if errors.Is(err, models.ErrUnknownShowroom) {
				return models.DailyDepartmentReport{}, fmt.Errorf("%w: %w", ErrInvalidReport, err)
			}
			return models.DailyDepartmentReport{}, fmt.Errorf("load showroom: %w", err)
		}
	} else if report.ShowroomID != nil {
		return models.DailyDepartmentReport{}, fmt.Errorf("%w: only %s reports carry a showroom", ErrInvalidReport, s.trackingCode)
	}

	report.ReportDate = models.TruncateToDay(report.ReportDate)
	report.UpdatedAt = s.now().UTC()

	saved, err := s.store.UpsertReport(ctx, report)
	if err != nil {
		return models.DailyDepartmentReport{}, fmt.Errorf("save report: %w", err)
	}

	s.logger.Info("daily report submitted",
		zap.String("department", string(dept.Code)),
		zap.String("report_date", models.FormatDay(saved.ReportDate)))
	return saved, nil
}

// DailyDigest renders a short plain-text summary of today's submissions and
// activity for the SMS digest.
func (s *Service) DailyDigest(ctx context.Context) (string, error) {
	status, err := s.SubmissionStatus(ctx, nil)
	if err != nil {
		return "", err
	}
	trend, err := s.Trends(ctx, nil, nil)
	if err != nil {
		return "", err
	}
	missing, err := s.MissingSubmissions(ctx, nil)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Daily digest %s\n", models.FormatDay(status.Date))
	fmt.Fprintf(&b, "Submissions: %d/%d (%.1f%%)\n", status.Submitted, status.Expected, status.Completion*100)
	fmt.Fprintf(&b, "Activity: %.0f today, %.0f yesterday (%s), week avg %.1f (%s)",
		trend.Today, trend.Yesterday, formatPct(trend.PctVsYesterday), trend.LastWeekAvg, formatPct(trend.PctVsLastWeekAvg))

	var pending []string
	for _, d := range missing.Departments {
		pending = append(pending, string(d.Code))
	}
	for _, sr := range missing.Showrooms {
		pending = append(pending, sr.Code)
	}
	if len(pending) > 0 {
		fmt.Fprintf(&b, "\nPending: %s", strings.Join(pending, ", "))
	}

	return b.String(), nil
}

func formatPct(pct *float64) string {
	if pct == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", *pct)
}
