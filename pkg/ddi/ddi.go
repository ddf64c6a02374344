// Package ddi defines Data Description Index constants from ISO 11783-11.
//
// A DDI identifies a process variable within a Device Descriptor Object
// Pool. The standard range is assigned by ISO; 57344-65534 is reserved
// for proprietary use.
package ddi

import "fmt"

// DDI is a 16-bit Data Description Index.
type DDI uint16

// Standard DDIs used by the implement model.
const (
	// SetpointVolumePerAreaApplicationRate is the commanded application rate.
	SetpointVolumePerAreaApplicationRate DDI = 1

	// ActualVolumePerAreaApplicationRate is the currently applied rate.
	ActualVolumePerAreaApplicationRate DDI = 2

	// ActualWorkingWidth is the effective working width in millimeters.
	ActualWorkingWidth DDI = 67

	// MaximumVolumeContent is the tank capacity.
	MaximumVolumeContent DDI = 71

	// ActualVolumeContent is the current tank volume.
	ActualVolumeContent DDI = 72

	// TotalArea is the accumulated worked area.
	TotalArea DDI = 116

	// EffectiveTotalTime is the accumulated effective working time.
	EffectiveTotalTime DDI = 119

	// LifetimeApplicationTotalVolume is the lifetime applied volume.
	LifetimeApplicationTotalVolume DDI = 121

	// DeviceElementOffsetX is the element X offset from its parent.
	DeviceElementOffsetX DDI = 134

	// DeviceElementOffsetY is the element Y offset from its parent.
	DeviceElementOffsetY DDI = 135

	// DeviceElementOffsetZ is the element Z offset from its parent.
	DeviceElementOffsetZ DDI = 136

	// SetpointWorkState is the commanded work state.
	SetpointWorkState DDI = 140

	// ActualWorkState is the reported work state.
	ActualWorkState DDI = 141

	// ConnectorType identifies the hitch/connector kind.
	ConnectorType DDI = 157

	// PrescriptionControlState selects prescription-driven control.
	PrescriptionControlState DDI = 158

	// SectionControlState selects automatic section control.
	SectionControlState DDI = 160

	// ActualCondensedWorkState1To16 packs the actual state of sections
	// 1-16, two bits per section.
	ActualCondensedWorkState1To16 DDI = 161

	// ActualCulturalPractice is the operation being performed.
	ActualCulturalPractice DDI = 179

	// SetpointCondensedWorkState1To16 packs the commanded state of
	// sections 1-16, two bits per section.
	SetpointCondensedWorkState1To16 DDI = 290

	// RequestDefaultProcessData asks the client for its default set.
	RequestDefaultProcessData DDI = 57342
)

// Proprietary DDI range boundaries.
const (
	ProprietaryRangeFirst DDI = 57344
	ProprietaryRangeLast  DDI = 65534
)

// HashtagAuthResult is the proprietary DDI carrying the GNSS
// authentication result parsed from the PHTG sentence feed.
const HashtagAuthResult DDI = 65432

// IsProprietary reports whether d falls in the proprietary range.
func (d DDI) IsProprietary() bool {
	return d >= ProprietaryRangeFirst && d <= ProprietaryRangeLast
}

// String returns the DDI as a decimal with hex annotation, with names
// for the indices this implement reports.
func (d DDI) String() string {
	if name, ok := ddiNames[d]; ok {
		return fmt.Sprintf("%s(%d)", name, uint16(d))
	}
	return fmt.Sprintf("DDI(%d/0x%04X)", uint16(d), uint16(d))
}

var ddiNames = map[DDI]string{
	SetpointVolumePerAreaApplicationRate: "SetpointVolumePerAreaApplicationRate",
	ActualVolumePerAreaApplicationRate:   "ActualVolumePerAreaApplicationRate",
	ActualWorkingWidth:                   "ActualWorkingWidth",
	MaximumVolumeContent:                 "MaximumVolumeContent",
	ActualVolumeContent:                  "ActualVolumeContent",
	TotalArea:                            "TotalArea",
	EffectiveTotalTime:                   "EffectiveTotalTime",
	LifetimeApplicationTotalVolume:       "LifetimeApplicationTotalVolume",
	DeviceElementOffsetX:                 "DeviceElementOffsetX",
	DeviceElementOffsetY:                 "DeviceElementOffsetY",
	DeviceElementOffsetZ:                 "DeviceElementOffsetZ",
	SetpointWorkState:                    "SetpointWorkState",
	ActualWorkState:                      "ActualWorkState",
	ConnectorType:                        "ConnectorType",
	PrescriptionControlState:             "PrescriptionControlState",
	SectionControlState:                  "SectionControlState",
	ActualCondensedWorkState1To16:        "ActualCondensedWorkState1To16",
	ActualCulturalPractice:               "ActualCulturalPractice",
	SetpointCondensedWorkState1To16:      "SetpointCondensedWorkState1To16",
	RequestDefaultProcessData:            "RequestDefaultProcessData",
	HashtagAuthResult:                    "HashtagAuthResult",
}
