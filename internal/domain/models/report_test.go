package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRevenueBSONRoundTrip(t *testing.T) {
	in := DailyDepartmentReport{
		ReportDate: time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
		Revenue:    &Revenue{Currency: "KES", Amount: decimal.RequireFromString("12500.75")},
	}

	raw, err := bson.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, bson.TypeDecimal128, bson.Raw(raw).Lookup("revenue", "amount").Type)

	var out DailyDepartmentReport
	require.NoError(t, bson.Unmarshal(raw, &out))
	require.NotNil(t, out.Revenue)
	assert.Equal(t, "KES", out.Revenue.Currency)
	assert.True(t, in.Revenue.Amount.Equal(out.Revenue.Amount))
}

func TestRevenueDecodesLegacyNumbers(t *testing.T) {
	tests := []struct {
		name   string
		amount interface{}
		want   string
	}{
		{name: "double", amount: 99.5, want: "99.5"},
		{name: "int32", amount: int32(40), want: "40"},
		{name: "int64", amount: int64(7000), want: "7000"},
		{name: "string", amount: "15.25", want: "15.25"},
		{name: "null", amount: nil, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := bson.Marshal(bson.M{"currency": "KES", "amount": tt.amount})
			require.NoError(t, err)

			var rev Revenue
			require.NoError(t, bson.Unmarshal(raw, &rev))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(rev.Amount), "got %s", rev.Amount)
		})
	}
}

func TestShowroomDecodesMissingAsNil(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"reportDate": time.Now(), "departmentId": primitive.NewObjectID()})
	require.NoError(t, err)

	var out DailyDepartmentReport
	require.NoError(t, bson.Unmarshal(raw, &out))
	assert.Nil(t, out.ShowroomID)
	assert.Nil(t, out.Metrics())
}

func TestSetMetricsKeepsSingleVariant(t *testing.T) {
	r := DailyDepartmentReport{Tracking: &TrackingMetrics{Tracker1Install: 1}}
	r.SetMetrics(&RadioMetrics{OfficeSale: 2})

	assert.Nil(t, r.Tracking)
	assert.Equal(t, []DepartmentCode{CodeRadio}, r.PopulatedFamilies())
	assert.Equal(t, CodeRadio, r.Metrics().Family())
	assert.Nil(t, r.MetricsFor(CodeTracking))
}

func TestMetricFieldLookup(t *testing.T) {
	gov := &SpeedGovernorMetrics{MockMombasa: &RenewalOnlyVendor{OfficeRenewal: 3}}

	v, ok := gov.Field("mockMombasa.officeRenewal")
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	_, ok = gov.Field("mockMombasa.officeInstall")
	assert.False(t, ok)
	_, ok = gov.Field("nebsam.officeInstall")
	assert.False(t, ok, "absent vendor group resolves nothing")

	fuel := &FuelMetrics{InstallationMetrics{Offline: 4}}
	v, ok = fuel.Field("offline")
	assert.True(t, ok)
	assert.Equal(t, 4.0, v)

	var nilOnline *OnlineMetrics
	_, ok = nilOnline.Field("installs.hybrid")
	assert.False(t, ok)
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2026-10-16")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), day)

	day, err = ParseDay("2026-10-16T23:30:00+03:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), day)

	_, err = ParseDay("16/10/2026")
	assert.True(t, errors.Is(err, ErrInvalidDate))

	_, err = ParseObjectID("nope")
	assert.True(t, errors.Is(err, ErrInvalidObjectID))
}

func TestParseDepartmentCode(t *testing.T) {
	code, ok := ParseDepartmentCode(" gov ")
	assert.True(t, ok)
	assert.Equal(t, CodeSpeedGovernor, code)

	code, ok = ParseDepartmentCode("HR")
	assert.False(t, ok)
	assert.Equal(t, CodeUnknown, code)
}
