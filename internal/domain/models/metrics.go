package models

import "strings"

// Metrics is the per-department metric record carried by a daily report.
// Exactly one variant is populated per report, selected by the owning
// department's code. Field resolves a dotted path relative to the variant
// root; it reports false for paths the variant does not define.
type Metrics interface {
	Family() DepartmentCode
	Field(path string) (float64, bool)
}

// TrackingMetrics are reported once per showroom by the tracking department.
type TrackingMetrics struct {
	Tracker1Install int64 `bson:"tracker1Install" json:"tracker1Install"`
	Tracker2Install int64 `bson:"tracker2Install" json:"tracker2Install"`
	MagneticInstall int64 `bson:"magneticInstall" json:"magneticInstall"`
	Tracker1Renewal int64 `bson:"tracker1Renewal" json:"tracker1Renewal"`
	Tracker2Renewal int64 `bson:"tracker2Renewal" json:"tracker2Renewal"`
	MagneticRenewal int64 `bson:"magneticRenewal" json:"magneticRenewal"`
	OfflineVehicles int64 `bson:"offlineVehicles" json:"offlineVehicles"`
}

func (m *TrackingMetrics) Family() DepartmentCode { return CodeTracking }

func (m *TrackingMetrics) Field(path string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	switch path {
	case "tracker1Install":
		return float64(m.Tracker1Install), true
	case "tracker2Install":
		return float64(m.Tracker2Install), true
	case "magneticInstall":
		return float64(m.MagneticInstall), true
	case "tracker1Renewal":
		return float64(m.Tracker1Renewal), true
	case "tracker2Renewal":
		return float64(m.Tracker2Renewal), true
	case "magneticRenewal":
		return float64(m.MagneticRenewal), true
	case "offlineVehicles":
		return float64(m.OfflineVehicles), true
	}
	return 0, false
}

// GovernorVendor holds the counters of a speed governor vendor that installs.
type GovernorVendor struct {
	OfficeInstall int64 `bson:"officeInstall" json:"officeInstall"`
	AgentInstall  int64 `bson:"agentInstall" json:"agentInstall"`
	OfficeRenewal int64 `bson:"officeRenewal" json:"officeRenewal"`
	AgentRenewal  int64 `bson:"agentRenewal" json:"agentRenewal"`
	Offline       int64 `bson:"offline" json:"offline"`
	Checkups      int64 `bson:"checkups" json:"checkups"`
}

func (v *GovernorVendor) field(name string) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch name {
	case "officeInstall":
		return float64(v.OfficeInstall), true
	case "agentInstall":
		return float64(v.AgentInstall), true
	case "officeRenewal":
		return float64(v.OfficeRenewal), true
	case "agentRenewal":
		return float64(v.AgentRenewal), true
	case "offline":
		return float64(v.Offline), true
	case "checkups":
		return float64(v.Checkups), true
	}
	return 0, false
}

// RenewalOnlyVendor is the Mock Mombasa group: it renews and services
// governors but never installs them.
type RenewalOnlyVendor struct {
	OfficeRenewal int64 `bson:"officeRenewal" json:"officeRenewal"`
	AgentRenewal  int64 `bson:"agentRenewal" json:"agentRenewal"`
	Offline       int64 `bson:"offline" json:"offline"`
	Checkups      int64 `bson:"checkups" json:"checkups"`
}

func (v *RenewalOnlyVendor) field(name string) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch name {
	case "officeRenewal":
		return float64(v.OfficeRenewal), true
	case "agentRenewal":
		return float64(v.AgentRenewal), true
	case "offline":
		return float64(v.Offline), true
	case "checkups":
		return float64(v.Checkups), true
	}
	return 0, false
}

// SpeedGovernorMetrics groups the three governor vendors.
type SpeedGovernorMetrics struct {
	Nebsam      *GovernorVendor    `bson:"nebsam,omitempty" json:"nebsam,omitempty"`
	MockMombasa *RenewalOnlyVendor `bson:"mockMombasa,omitempty" json:"mockMombasa,omitempty"`
	Sinotrack   *GovernorVendor    `bson:"sinotrack,omitempty" json:"sinotrack,omitempty"`
}

func (m *SpeedGovernorMetrics) Family() DepartmentCode { return CodeSpeedGovernor }

func (m *SpeedGovernorMetrics) Field(path string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	group, name, ok := strings.Cut(path, ".")
	if !ok {
		return 0, false
	}
	switch group {
	case "nebsam":
		return m.Nebsam.field(name)
	case "mockMombasa":
		return m.MockMombasa.field(name)
	case "sinotrack":
		return m.Sinotrack.field(name)
	}
	return 0, false
}

// RadioMetrics counts radio sales and licence renewals.
type RadioMetrics struct {
	OfficeSale    int64 `bson:"officeSale" json:"officeSale"`
	AgentSale     int64 `bson:"agentSale" json:"agentSale"`
	OfficeRenewal int64 `bson:"officeRenewal" json:"officeRenewal"`
	AgentRenewal  int64 `bson:"agentRenewal" json:"agentRenewal"`
}

func (m *RadioMetrics) Family() DepartmentCode { return CodeRadio }

func (m *RadioMetrics) Field(path string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	switch path {
	case "officeSale":
		return float64(m.OfficeSale), true
	case "agentSale":
		return float64(m.AgentSale), true
	case "officeRenewal":
		return float64(m.OfficeRenewal), true
	case "agentRenewal":
		return float64(m.AgentRenewal), true
	}
	return 0, false
}

// InstallationMetrics is the counter shape shared by fuel and telematics.
type InstallationMetrics struct {
	OfficeInstall int64 `bson:"officeInstall" json:"officeInstall"`
	AgentInstall  int64 `bson:"agentInstall" json:"agentInstall"`
	OfficeRenewal int64 `bson:"officeRenewal" json:"officeRenewal"`
	AgentRenewal  int64 `bson:"agentRenewal" json:"agentRenewal"`
	Offline       int64 `bson:"offline" json:"offline"`
	Checkups      int64 `bson:"checkups" json:"checkups"`
}

func (m *InstallationMetrics) field(path string) (float64, bool) {
	switch path {
	case "officeInstall":
		return float64(m.OfficeInstall), true
	case "agentInstall":
		return float64(m.AgentInstall), true
	case "officeRenewal":
		return float64(m.OfficeRenewal), true
	case "agentRenewal":
		return float64(m.AgentRenewal), true
	case "offline":
		return float64(m.Offline), true
	case "checkups":
		return float64(m.Checkups), true
	}
	return 0, false
}

// FuelMetrics counts fuel monitoring installs and renewals.
type FuelMetrics struct {
	InstallationMetrics `bson:",inline"`
}

func (m *FuelMetrics) Family() DepartmentCode { return CodeFuel }

func (m *FuelMetrics) Field(path string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	return m.InstallationMetrics.field(path)
}

// VehicleTelematicsMetrics counts telematics installs and renewals.
type VehicleTelematicsMetrics struct {
	InstallationMetrics `bson:",inline"`
}

func (m *VehicleTelematicsMetrics) Family() DepartmentCode { return CodeVehicleTelematics }

func (m *VehicleTelematicsMetrics) Field(path string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	return m.InstallationMetrics.field(path)
}

// OnlineProducts holds one counter per online product variant.
type OnlineProducts struct {
	Bluetooth     int64 `bson:"bluetooth" json:"bluetooth"`
	Hybrid        int64 `bson:"hybrid" json:"hybrid"`
	Comprehensive int64 `bson:"comprehensive" json:"comprehensive"`
	HybridAlarm   int64 `bson:"hybridAlarm" json:"hybridAlarm"`
}

func (p *OnlineProducts) field(name string) (float64, bool) {
	if p == nil {
		return 0, false
	}
	switch name {
	case "bluetooth":
		return float64(p.Bluetooth), true
	case "hybrid":
		return float64(p.Hybrid), true
	case "comprehensive":
		return float64(p.Comprehensive), true
	case "hybridAlarm":
		return float64(p.HybridAlarm), true
	}
	return 0, false
}

// OnlineMetrics counts installs and renewals per online product.
type OnlineMetrics struct {
	Installs *OnlineProducts `bson:"installs,omitempty" json:"installs,omitempty"`
	Renewals *OnlineProducts `bson:"renewals,omitempty" json:"renewals,omitempty"`
}

func (m *OnlineMetrics) Family() DepartmentCode { return CodeOnline }

func (m *OnlineMetrics) Field(path string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	group, name, ok := strings.Cut(path, ".")
	if !ok {
		return 0, false
	}
	switch group {
	case "installs":
		return m.Installs.field(name)
	case "renewals":
		return m.Renewals.field(name)
	}
	return 0, false
}
