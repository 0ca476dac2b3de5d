package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nebsam/opsdash/internal/domain/models"
)

func TestUpsertReplacesOnSameKey(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	dept := primitive.NewObjectID()
	showroom := primitive.NewObjectID()
	day := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	first, err := repo.UpsertReport(ctx, models.DailyDepartmentReport{
		ReportDate:   day.Add(9 * time.Hour),
		DepartmentID: dept,
		ShowroomID:   &showroom,
		Tracking:     &models.TrackingMetrics{Tracker1Install: 2, OfflineVehicles: 1},
	})
	require.NoError(t, err)

	same := showroom
	second, err := repo.UpsertReport(ctx, models.DailyDepartmentReport{
		ReportDate:   day,
		DepartmentID: dept,
		ShowroomID:   &same,
		Tracking:     &models.TrackingMetrics{Tracker1Install: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	reports, err := repo.FindReports(ctx, models.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, int64(5), reports[0].Tracking.Tracker1Install)
	assert.Equal(t, int64(0), reports[0].Tracking.OfflineVehicles, "metric object replaced, not merged")
	assert.Equal(t, day, reports[0].ReportDate)
}

func TestUpsertNullShowroomIsItsOwnKey(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	dept := primitive.NewObjectID()
	showroom := primitive.NewObjectID()
	day := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	_, err := repo.UpsertReport(ctx, models.DailyDepartmentReport{ReportDate: day, DepartmentID: dept})
	require.NoError(t, err)
	_, err = repo.UpsertReport(ctx, models.DailyDepartmentReport{ReportDate: day, DepartmentID: dept, ShowroomID: &showroom})
	require.NoError(t, err)
	_, err = repo.UpsertReport(ctx, models.DailyDepartmentReport{ReportDate: day, DepartmentID: dept})
	require.NoError(t, err)

	n, err := repo.CountReports(ctx, models.ReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.CountReports(ctx, models.ReportFilter{ShowroomID: &showroom})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSummarizeReportsWithFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	gov, radio := primitive.NewObjectID(), primitive.NewObjectID()
	d1 := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)

	for _, r := range []models.DailyDepartmentReport{
		{ReportDate: d1, DepartmentID: gov},
		{ReportDate: d1, DepartmentID: radio},
		{ReportDate: d2, DepartmentID: gov},
		{ReportDate: d2.AddDate(0, 0, 1), DepartmentID: gov},
	} {
		_, err := repo.UpsertReport(ctx, r)
		require.NoError(t, err)
	}

	until := d2.AddDate(0, 0, 1)
	summary, err := repo.SummarizeReports(ctx, models.ReportFilter{From: &d1, Until: &until})
	require.NoError(t, err)

	assert.Equal(t, []models.DateCount{{ID: d1, Reports: 2}, {ID: d2, Reports: 1}}, summary.ByDate)
	assert.Len(t, summary.ByDept, 2)
	require.Len(t, summary.Total, 1)
	assert.Nil(t, summary.Total[0].ID)
	assert.Equal(t, int64(3), summary.Total[0].Reports)

	summary, err = repo.SummarizeReports(ctx, models.ReportFilter{DepartmentID: &radio, From: &d2})
	require.NoError(t, err)
	assert.Empty(t, summary.ByDate)
	assert.Empty(t, summary.Total)
}

func TestReferenceLookups(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	departments := DefaultDepartments()
	repo.AddDepartments(departments...)
	repo.AddShowrooms(
		models.Showroom{ID: primitive.NewObjectID(), Code: "NRB", IsActive: true},
		models.Showroom{ID: primitive.NewObjectID(), Code: "MSA", IsActive: false},
	)

	n, err := repo.CountDepartments(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)

	n, err = repo.CountActiveShowrooms(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	track, err := repo.FindDepartmentByCode(ctx, models.CodeTracking)
	require.NoError(t, err)
	assert.Equal(t, "Tracking", track.Name)

	_, err = repo.FindDepartmentByID(ctx, primitive.NewObjectID())
	assert.True(t, errors.Is(err, models.ErrUnknownDepartment))

	_, err = repo.FindShowroomByID(ctx, primitive.NewObjectID())
	assert.True(t, errors.Is(err, models.ErrUnknownShowroom))
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRepository().FindReports(ctx, models.ReportFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}
