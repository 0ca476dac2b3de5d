package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nebsam/opsdash/internal/domain/models"
)

type fixture struct {
	departments []models.Department
	ids         map[models.DepartmentCode]primitive.ObjectID
}

func newFixture() fixture {
	f := fixture{ids: make(map[models.DepartmentCode]primitive.ObjectID)}
	for _, code := range models.KnownCodes {
		id := primitive.NewObjectID()
		f.ids[code] = id
		f.departments = append(f.departments, models.Department{ID: id, Name: string(code), Code: code})
	}
	return f
}

func (f fixture) report(code models.DepartmentCode, day time.Time, m models.Metrics) models.DailyDepartmentReport {
	r := models.DailyDepartmentReport{ReportDate: day, DepartmentID: f.ids[code]}
	r.SetMetrics(m)
	return r
}

var day = time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

func TestRollupEmptyHasEveryCode(t *testing.T) {
	out := Rollup(nil, nil)

	require.Len(t, out, len(models.KnownCodes))
	for _, code := range models.KnownCodes {
		assert.Equal(t, models.Totals{}, out[code], code)
	}
	assert.NotContains(t, out, models.CodeUnknown)
}

func TestRollupPerFamily(t *testing.T) {
	f := newFixture()
	reports := []models.DailyDepartmentReport{
		f.report(models.CodeTracking, day, &models.TrackingMetrics{
			Tracker1Install: 1, Tracker2Install: 2, MagneticInstall: 3,
			Tracker1Renewal: 4, Tracker2Renewal: 5, MagneticRenewal: 6, OfflineVehicles: 7,
		}),
		f.report(models.CodeSpeedGovernor, day, &models.SpeedGovernorMetrics{
			Nebsam:      &models.GovernorVendor{OfficeInstall: 1, AgentInstall: 1, OfficeRenewal: 2, AgentRenewal: 2, Offline: 1, Checkups: 3},
			MockMombasa: &models.RenewalOnlyVendor{OfficeRenewal: 3, AgentRenewal: 2, Offline: 1, Checkups: 1},
			Sinotrack:   &models.GovernorVendor{OfficeInstall: 4, Offline: 2},
		}),
		f.report(models.CodeRadio, day, &models.RadioMetrics{OfficeSale: 2, AgentSale: 3, OfficeRenewal: 1, AgentRenewal: 1}),
		f.report(models.CodeFuel, day, &models.FuelMetrics{InstallationMetrics: models.InstallationMetrics{
			OfficeInstall: 1, AgentInstall: 2, OfficeRenewal: 3, AgentRenewal: 4, Offline: 5, Checkups: 6,
		}}),
		f.report(models.CodeVehicleTelematics, day, &models.VehicleTelematicsMetrics{InstallationMetrics: models.InstallationMetrics{
			OfficeInstall: 10, Checkups: 1,
		}}),
		f.report(models.CodeOnline, day, &models.OnlineMetrics{
			Installs: &models.OnlineProducts{Bluetooth: 1, Hybrid: 1, Comprehensive: 1, HybridAlarm: 1},
			Renewals: &models.OnlineProducts{Hybrid: 2},
		}),
	}

	out := Rollup(reports, ResolverFromDepartments(f.departments))

	assert.Equal(t, models.Totals{Reports: 1, Installs: 6, Renewals: 15, Offline: 7}, out[models.CodeTracking])
	assert.Equal(t, models.Totals{Reports: 1, Installs: 6, Renewals: 9, Offline: 4, Checkups: 4}, out[models.CodeSpeedGovernor])
	assert.Equal(t, models.Totals{Reports: 1, Sales: 5, Renewals: 2}, out[models.CodeRadio])
	assert.Equal(t, models.Totals{Reports: 1, Installs: 3, Renewals: 7, Offline: 5, Checkups: 6}, out[models.CodeFuel])
	assert.Equal(t, models.Totals{Reports: 1, Installs: 10, Checkups: 1}, out[models.CodeVehicleTelematics])
	assert.Equal(t, models.Totals{Reports: 1, Installs: 4, Renewals: 2}, out[models.CodeOnline])
}

func TestRollupGovernorWithoutInstallFields(t *testing.T) {
	f := newFixture()
	reports := []models.DailyDepartmentReport{
		f.report(models.CodeSpeedGovernor, day, &models.SpeedGovernorMetrics{
			MockMombasa: &models.RenewalOnlyVendor{OfficeRenewal: 3, AgentRenewal: 2, Offline: 1, Checkups: 1},
		}),
	}

	out := Rollup(reports, ResolverFromDepartments(f.departments))

	gov := out[models.CodeSpeedGovernor]
	assert.Equal(t, 5.0, gov.Renewals)
	assert.Equal(t, 0.0, gov.Installs)
	assert.Equal(t, 1.0, gov.Offline)
	assert.Equal(t, 1.0, gov.Checkups)
}

func TestRollupUnknownDepartmentBucket(t *testing.T) {
	f := newFixture()
	orphan := models.DailyDepartmentReport{ReportDate: day, DepartmentID: primitive.NewObjectID()}
	orphan.SetMetrics(&models.RadioMetrics{OfficeSale: 4})

	empty := models.DailyDepartmentReport{ReportDate: day, DepartmentID: primitive.NewObjectID()}

	out := Rollup([]models.DailyDepartmentReport{orphan, empty}, ResolverFromDepartments(f.departments))

	assert.Equal(t, models.Totals{Reports: 2, Sales: 4}, out[models.CodeUnknown])
	assert.Equal(t, models.Totals{}, out[models.CodeRadio])
}

func TestRollupUnregisteredCodeIsUnknown(t *testing.T) {
	hr := models.Department{ID: primitive.NewObjectID(), Code: "HR"}
	r := models.DailyDepartmentReport{ReportDate: day, DepartmentID: hr.ID}
	r.SetMetrics(&models.FuelMetrics{InstallationMetrics: models.InstallationMetrics{Offline: 2}})

	out := Rollup([]models.DailyDepartmentReport{r}, ResolverFromDepartments([]models.Department{hr}))

	assert.Equal(t, models.Totals{Reports: 1, Offline: 2}, out[models.CodeUnknown])
	assert.NotContains(t, out, models.DepartmentCode("HR"))
}

func TestRollupReadsDepartmentVariantOnly(t *testing.T) {
	f := newFixture()
	mismatched := models.DailyDepartmentReport{ReportDate: day, DepartmentID: f.ids[models.CodeTracking]}
	mismatched.SetMetrics(&models.RadioMetrics{OfficeSale: 9})

	out := Rollup([]models.DailyDepartmentReport{mismatched}, ResolverFromDepartments(f.departments))

	assert.Equal(t, models.Totals{Reports: 1}, out[models.CodeTracking])
	assert.Equal(t, models.Totals{}, out[models.CodeRadio])
}

func TestRollupIgnoresReportOrder(t *testing.T) {
	f := newFixture()
	reports := []models.DailyDepartmentReport{
		f.report(models.CodeTracking, day, &models.TrackingMetrics{Tracker1Install: 2}),
		f.report(models.CodeRadio, day, &models.RadioMetrics{AgentSale: 1}),
		f.report(models.CodeTracking, day.AddDate(0, 0, -1), &models.TrackingMetrics{MagneticInstall: 3, OfflineVehicles: 1}),
		f.report(models.CodeOnline, day, &models.OnlineMetrics{Renewals: &models.OnlineProducts{Bluetooth: 5}}),
	}
	resolver := ResolverFromDepartments(f.departments)

	want := Rollup(reports, resolver)
	reversed := make([]models.DailyDepartmentReport, len(reports))
	for i, r := range reports {
		reversed[len(reports)-1-i] = r
	}

	assert.Equal(t, want, Rollup(reversed, resolver))
	assert.Equal(t, models.Totals{Reports: 2, Installs: 5, Offline: 1}, want[models.CodeTracking])
}

func TestMonthWindows(t *testing.T) {
	now := time.Date(2026, 3, 31, 18, 5, 0, 0, time.UTC)
	current, previous := MonthWindows(now)

	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), current.From)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), current.Until)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), previous.From)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), previous.Until)

	current, previous = MonthWindows(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), previous.From)
	assert.True(t, current.Contains(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, current.Contains(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)))
}

func TestCompare(t *testing.T) {
	current := EmptyRollup()
	previous := EmptyRollup()
	current[models.CodeRadio] = models.Totals{Reports: 3, Sales: 30}
	previous[models.CodeRadio] = models.Totals{Reports: 2, Sales: 20}
	previous[models.CodeUnknown] = models.Totals{Reports: 1}

	delta := Compare(current, previous)

	require.NotNil(t, delta[models.CodeRadio].Sales)
	assert.InDelta(t, 50.0, *delta[models.CodeRadio].Sales, 1e-9)
	assert.Nil(t, delta[models.CodeRadio].Installs)
	assert.Nil(t, delta[models.CodeFuel].Reports)
	require.Contains(t, delta, models.CodeUnknown)
	assert.InDelta(t, -100.0, *delta[models.CodeUnknown].Reports, 1e-9)
}
