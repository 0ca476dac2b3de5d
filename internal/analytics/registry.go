// Package analytics turns daily department reports into rollups, trends and
// submission completeness figures. Every function here is pure: callers
// supply the reports and the reference time.
package analytics

import "github.com/nebsam/opsdash/internal/domain/models"

// FieldReader resolves dotted metric paths. Every metric variant implements it.
type FieldReader interface {
	Field(path string) (float64, bool)
}

// SumFields adds the values found at paths. Missing paths count as zero.
func SumFields(r FieldReader, paths []string) float64 {
	if r == nil {
		return 0
	}
	var total float64
	for _, path := range paths {
		if v, ok := r.Field(path); ok {
			total += v
		}
	}
	return total
}

// Schema groups the metric paths of one department family.
type Schema struct {
	Code     models.DepartmentCode
	Installs []string
	Renewals []string
	Sales    []string
	Offline  []string
	Checkups []string
}

// Countable returns every path that contributes to activity volume.
func (s Schema) Countable() []string {
	out := make([]string, 0, len(s.Installs)+len(s.Renewals)+len(s.Sales)+len(s.Offline)+len(s.Checkups))
	out = append(out, s.Installs...)
	out = append(out, s.Renewals...)
	out = append(out, s.Sales...)
	out = append(out, s.Offline...)
	out = append(out, s.Checkups...)
	return out
}

// Totals reads one report's counters through the schema.
func (s Schema) Totals(r FieldReader) models.Totals {
	return models.Totals{
		Reports:  1,
		Installs: SumFields(r, s.Installs),
		Renewals: SumFields(r, s.Renewals),
		Sales:    SumFields(r, s.Sales),
		Offline:  SumFields(r, s.Offline),
		Checkups: SumFields(r, s.Checkups),
	}
}

var (
	trackingSchema = Schema{
		Code:     models.CodeTracking,
		Installs: []string{"tracker1Install", "tracker2Install", "magneticInstall"},
		Renewals: []string{"tracker1Renewal", "tracker2Renewal", "magneticRenewal"},
		Offline:  []string{"offlineVehicles"},
	}

	// mockMombasa install paths never resolve; they are listed so that all
	// three vendor groups are summed the same way.
	speedGovernorSchema = Schema{
		Code: models.CodeSpeedGovernor,
		Installs: []string{
			"nebsam.officeInstall", "nebsam.agentInstall",
			"mockMombasa.officeInstall", "mockMombasa.agentInstall",
			"sinotrack.officeInstall", "sinotrack.agentInstall",
		},
		Renewals: []string{
			"nebsam.officeRenewal", "nebsam.agentRenewal",
			"mockMombasa.officeRenewal", "mockMombasa.agentRenewal",
			"sinotrack.officeRenewal", "sinotrack.agentRenewal",
		},
		Offline:  []string{"nebsam.offline", "mockMombasa.offline", "sinotrack.offline"},
		Checkups: []string{"nebsam.checkups", "mockMombasa.checkups", "sinotrack.checkups"},
	}

	radioSchema = Schema{
		Code:     models.CodeRadio,
		Sales:    []string{"officeSale", "agentSale"},
		Renewals: []string{"officeRenewal", "agentRenewal"},
	}

	fuelSchema              = installationSchema(models.CodeFuel)
	vehicleTelematicsSchema = installationSchema(models.CodeVehicleTelematics)

	onlineSchema = Schema{
		Code:     models.CodeOnline,
		Installs: []string{"installs.bluetooth", "installs.hybrid", "installs.comprehensive", "installs.hybridAlarm"},
		Renewals: []string{"renewals.bluetooth", "renewals.hybrid", "renewals.comprehensive", "renewals.hybridAlarm"},
	}
)

func installationSchema(code models.DepartmentCode) Schema {
	return Schema{
		Code:     code,
		Installs: []string{"officeInstall", "agentInstall"},
		Renewals: []string{"officeRenewal", "agentRenewal"},
		Offline:  []string{"offline"},
		Checkups: []string{"checkups"},
	}
}

// SchemaFor returns the schema registered for a department code.
func SchemaFor(code models.DepartmentCode) (Schema, bool) {
	switch code {
	case models.CodeTracking:
		return trackingSchema, true
	case models.CodeSpeedGovernor:
		return speedGovernorSchema, true
	case models.CodeRadio:
		return radioSchema, true
	case models.CodeFuel:
		return fuelSchema, true
	case models.CodeVehicleTelematics:
		return vehicleTelematicsSchema, true
	case models.CodeOnline:
		return onlineSchema, true
	}
	return Schema{}, false
}

// SchemaOf returns the schema matching a metric variant.
func SchemaOf(m models.Metrics) (Schema, bool) {
	switch m.(type) {
	case *models.TrackingMetrics:
		return trackingSchema, true
	case *models.SpeedGovernorMetrics:
		return speedGovernorSchema, true
	case *models.RadioMetrics:
		return radioSchema, true
	case *models.FuelMetrics:
		return fuelSchema, true
	case *models.VehicleTelematicsMetrics:
		return vehicleTelematicsSchema, true
	case *models.OnlineMetrics:
		return onlineSchema, true
	}
	return Schema{}, false
}

// Volume is the activity volume of a metric record: the sum of every
// countable counter of its family.
func Volume(m models.Metrics) float64 {
	schema, ok := SchemaOf(m)
	if !ok {
		return 0
	}
	return SumFields(m, schema.Countable())
}
