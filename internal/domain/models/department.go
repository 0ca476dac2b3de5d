package models

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrUnknownDepartment indicates a department id or code did not resolve.
	ErrUnknownDepartment = errors.New("unknown department")
	// ErrUnknownShowroom indicates a showroom id did not resolve.
	ErrUnknownShowroom = errors.New("unknown showroom")
)

// DepartmentCode is the stable short identifier of a metric family.
type DepartmentCode string

const (
	CodeTracking          DepartmentCode = "TRACK"
	CodeSpeedGovernor     DepartmentCode = "GOV"
	CodeRadio             DepartmentCode = "RADIO"
	CodeFuel              DepartmentCode = "FUEL"
	CodeVehicleTelematics DepartmentCode = "VTEL"
	CodeOnline            DepartmentCode = "ONLINE"

	// CodeUnknown groups reports whose department could not be resolved.
	CodeUnknown DepartmentCode = "UNKNOWN"
)

// KnownCodes lists every metric family in presentation order.
var KnownCodes = []DepartmentCode{
	CodeTracking,
	CodeSpeedGovernor,
	CodeRadio,
	CodeFuel,
	CodeVehicleTelematics,
	CodeOnline,
}

// ParseDepartmentCode normalizes user supplied codes.
func ParseDepartmentCode(value string) (DepartmentCode, bool) {
	code := DepartmentCode(strings.ToUpper(strings.TrimSpace(value)))
	for _, known := range KnownCodes {
		if code == known {
			return code, true
		}
	}
	return CodeUnknown, false
}

// Department is slow-changing reference data maintained outside the analytics core.
type Department struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Code      DepartmentCode     `bson:"code" json:"code"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Showroom is a physical location of the tracking department.
type Showroom struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Code       string             `bson:"code" json:"code"`
	Department primitive.ObjectID `bson:"department" json:"department"`
	IsActive   bool               `bson:"isActive" json:"isActive"`
}
