package ddop

import (
	"errors"
	"fmt"

	"github.com/hashtag-agritech/hashtag-go/pkg/ddi"
)

// MaxSections is the largest section count a pool can describe.
const MaxSections = 256

// ErrSectionCount is recorded when the configured section count is
// outside 1..MaxSections.
var ErrSectionCount = errors.New("ddop: section count out of range")

// Object IDs are assigned from a fixed table so that identical inputs
// always produce identical pools. The per-section blocks are sized for
// MaxSections regardless of the configured count.
const (
	idDevice ObjectID = iota
	idMainElement
	idDeviceActualWorkState
	idRequestDefaultPD
	idDeviceTotalTime
	idAuthResult
	idConnector
	idConnectorXOffset
	idConnectorYOffset
	idConnectorType
	idBoom
	idBoomXOffset
	idBoomYOffset
	idBoomZOffset
	idActualWorkingWidth
	idSetpointWorkState
	idSectionControlState
	idAreaTotal
	idActualCondensed
	idSetpointCondensed
	idProduct
	idTankCapacity
	idTankVolume
	idLifetimeVolume
	idPrescriptionControl
	idCulturalPractice
	idTargetRate
	idActualRate
	idMMPresentation
	idMinutesPresentation
	idRawPresentation
	idRatePresentation
)

const (
	idSectionBase        ObjectID = 32
	idSectionXOffsetBase ObjectID = idSectionBase + MaxSections
	idSectionYOffsetBase ObjectID = idSectionXOffsetBase + MaxSections
	idSectionWidthBase   ObjectID = idSectionYOffsetBase + MaxSections
)

// Element numbers assigned during the build. Sections follow the fixed
// elements, numbered elementSectionBase..elementSectionBase+count-1.
const (
	elementMain        uint16 = 0
	elementConnector   uint16 = 1
	elementBoom        uint16 = 2
	elementProduct     uint16 = 3
	elementSectionBase uint16 = 4
)

// Identity carries the device identity strings embedded in the pool.
type Identity struct {
	Designator      string
	SoftwareVersion string
	SerialNumber    string
	StructureLabel  string

	// Localization is the 7-byte language/units descriptor.
	Localization [7]byte
}

// BuildConfig is everything the implement builder needs.
type BuildConfig struct {
	Identity Identity

	// SectionCount is the number of boom sections (1..MaxSections).
	SectionCount int

	// WorkingWidthMM is the full boom width in millimeters.
	WorkingWidthMM int32

	// ConnectorType is the fixed connector-type property value.
	ConnectorType int32

	// ClientNAME is the externally assigned unique client identifier
	// embedded in the device record.
	ClientNAME []byte
}

// Builder assembles the sprayer capability graph.
//
// Build never short-circuits: every add step runs even after earlier
// failures, and the result is the logical AND of all steps. On a false
// result the pool may be partially populated and must be discarded, not
// used or exported.
type Builder struct {
	cfg      BuildConfig
	failures []error
}

// NewBuilder returns a builder for the given configuration.
func NewBuilder(cfg BuildConfig) *Builder {
	return &Builder{cfg: cfg}
}

// Failures returns the per-step errors collected by the last Build.
func (b *Builder) Failures() []error {
	return b.failures
}

// step records a failed add and folds it into the aggregate flag.
func (b *Builder) step(err error) bool {
	if err != nil {
		b.failures = append(b.failures, err)
		return false
	}
	return true
}

// Build clears pool and repopulates it from the configuration. It
// returns true only if every add step succeeded.
func (b *Builder) Build(pool *Pool) bool {
	b.failures = nil
	pool.Clear()

	ok := true

	sections := b.cfg.SectionCount
	if sections < 1 || sections > MaxSections {
		b.failures = append(b.failures, fmt.Errorf("%w: %d", ErrSectionCount, sections))
		ok = false
		sections = 0
	}

	var sectionWidth int32
	if sections > 0 {
		sectionWidth = b.cfg.WorkingWidthMM / int32(sections)
	}

	id := b.cfg.Identity
	ok = b.step(pool.AddDevice(idDevice, id.Designator, id.SoftwareVersion,
		id.SerialNumber, id.StructureLabel, id.Localization[:], nil, b.cfg.ClientNAME)) && ok

	// Main device element and its process data.
	ok = b.step(pool.AddDeviceElement(idMainElement, "Sprayer", elementMain,
		idDevice, ElementDevice)) && ok
	ok = b.step(pool.AddDeviceProcessData(idDeviceActualWorkState, "Actual Work State",
		ddi.ActualWorkState, NullObjectID,
		PropertyMemberOfDefaultSet, TriggerOnChange)) && ok
	ok = b.step(pool.AddDeviceProcessData(idRequestDefaultPD, "Request Default Process Data",
		ddi.RequestDefaultProcessData, NullObjectID,
		0, TriggerTotal)) && ok
	ok = b.step(pool.AddDeviceProcessData(idDeviceTotalTime, "Total Time",
		ddi.EffectiveTotalTime, idMinutesPresentation,
		PropertyMemberOfDefaultSet|PropertySettable, TriggerTotal)) && ok
	ok = b.step(pool.AddDeviceProcessData(idAuthResult, "GNSS Auth Result",
		ddi.HashtagAuthResult, idRawPresentation,
		PropertyMemberOfDefaultSet|PropertySettable, TriggerOnChange)) && ok

	// Connector element.
	ok = b.step(pool.AddDeviceElement(idConnector, "Connector", elementConnector,
		idMainElement, ElementConnector)) && ok
	ok = b.step(pool.AddDeviceProcessData(idConnectorXOffset, "Connector X",
		ddi.DeviceElementOffsetX, idMMPresentation,
		PropertySettable, 0)) && ok
	ok = b.step(pool.AddDeviceProcessData(idConnectorYOffset, "Connector Y",
		ddi.DeviceElementOffsetY, idMMPresentation,
		PropertySettable, 0)) && ok
	ok = b.step(pool.AddDeviceProperty(idConnectorType, "Type",
		ddi.ConnectorType, b.cfg.ConnectorType, NullObjectID)) && ok

	// Boom element with geometry and the condensed work states.
	ok = b.step(pool.AddDeviceElement(idBoom, "Boom", elementBoom,
		idMainElement, ElementFunction)) && ok
	ok = b.step(pool.AddDeviceProperty(idBoomXOffset, "Offset X",
		ddi.DeviceElementOffsetX, 0, idMMPresentation)) && ok
	ok = b.step(pool.AddDeviceProperty(idBoomYOffset, "Offset Y",
		ddi.DeviceElementOffsetY, 0, idMMPresentation)) && ok
	ok = b.step(pool.AddDeviceProperty(idBoomZOffset, "Offset Z",
		ddi.DeviceElementOffsetZ, 0, idMMPresentation)) && ok
	ok = b.step(pool.AddDeviceProcessData(idActualWorkingWidth, "Actual Working Width",
		ddi.ActualWorkingWidth, idMMPresentation,
		PropertyMemberOfDefaultSet, TriggerOnChange)) && ok
	ok = b.step(pool.AddDeviceProcessData(idSetpointWorkState, "Setpoint Work State",
		ddi.SetpointWorkState, NullObjectID,
		PropertyMemberOfDefaultSet|PropertySettable, TriggerOnChange)) && ok
	ok = b.step(pool.AddDeviceProcessData(idSectionControlState, "Section Control State",
		ddi.SectionControlState, NullObjectID,
		PropertyMemberOfDefaultSet|PropertySettable, TriggerOnChange)) && ok
	ok = b.step(pool.AddDeviceProcessData(idAreaTotal, "Total Area",
		ddi.TotalArea, NullObjectID,
		PropertyMemberOfDefaultSet, TriggerTotal)) && ok
	ok = b.step(pool.AddDeviceProcessData(idActualCondensed, "Actual Condensed Work State 1-16",
		ddi.ActualCondensedWorkState1To16, NullObjectID,
		PropertyMemberOfDefaultSet, TriggerOnChange)) && ok
	ok = b.step(pool.AddDeviceProcessData(idSetpointCondensed, "Setpoint Condensed Work State 1-16",
		ddi.SetpointCondensedWorkState1To16, NullObjectID,
		PropertyMemberOfDefaultSet|PropertySettable, TriggerOnChange)) && ok

	// Per-section elements, centered on the boom.
	for i := 0; i < sections; i++ {
		sid := idSectionBase + ObjectID(i)
		yOffset := -b.cfg.WorkingWidthMM/2 + sectionWidth/2 + int32(i)*sectionWidth

		ok = b.step(pool.AddDeviceElement(sid, fmt.Sprintf("Section %d", i+1),
			elementSectionBase+uint16(i), idBoom, ElementSection)) && ok
		ok = b.step(pool.AddDeviceProperty(idSectionXOffsetBase+ObjectID(i), "Offset X",
			ddi.DeviceElementOffsetX, 0, idMMPresentation)) && ok
		ok = b.step(pool.AddDeviceProperty(idSectionYOffsetBase+ObjectID(i), "Offset Y",
			ddi.DeviceElementOffsetY, yOffset, idMMPresentation)) && ok
		ok = b.step(pool.AddDeviceProperty(idSectionWidthBase+ObjectID(i), "Width",
			ddi.ActualWorkingWidth, sectionWidth, idMMPresentation)) && ok
	}

	// Liquid product bin.
	ok = b.step(pool.AddDeviceElement(idProduct, "Product", elementProduct,
		idMainElement, ElementBin)) && ok
	ok = b.step(pool.AddDeviceProcessData(idTankCapacity, "Tank Capacity",
		ddi.MaximumVolumeContent, NullObjectID,
		PropertyMemberOfDefaultSet, TriggerOnChange)) && ok
	ok = b.step(pool.AddDeviceProcessData(idTankVolume, "Tank Volume",
		ddi.ActualVolumeContent, NullObjectID,
		PropertyMemberOfDefaultSet|PropertySettable, TriggerOnChange)) && ok
	ok = b.step(pool.AddDeviceProcessData(idLifetimeVolume, "Lifetime Total Volume",
		ddi.LifetimeApplicationTotalVolume, NullObjectID,
		PropertyMemberOfDefaultSet, TriggerTotal)) && ok
	ok = b.step(pool.AddDeviceProcessData(idPrescriptionControl, "Prescription Control State",
		ddi.PrescriptionControlState, NullObjectID,
		PropertyMemberOfDefaultSet|PropertySettable, TriggerOnChange)) && ok
	ok = b.step(pool.AddDeviceProcessData(idCulturalPractice, "Actual Cultural Practice",
		ddi.ActualCulturalPractice, NullObjectID,
		PropertyMemberOfDefaultSet, TriggerOnChange)) && ok
	ok = b.step(pool.AddDeviceProcessData(idTargetRate, "Target Rate",
		ddi.SetpointVolumePerAreaApplicationRate, idRatePresentation,
		PropertyMemberOfDefaultSet|PropertySettable, TriggerOnChange)) && ok
	ok = b.step(pool.AddDeviceProcessData(idActualRate, "Actual Rate",
		ddi.ActualVolumePerAreaApplicationRate, idRatePresentation,
		PropertyMemberOfDefaultSet, TriggerOnChange)) && ok

	// Presentations, shared across process data by reference.
	ok = b.step(pool.AddDeviceValuePresentation(idMMPresentation, "mm", 0, 1.0, 0)) && ok
	ok = b.step(pool.AddDeviceValuePresentation(idMinutesPresentation, "minutes", 0, 1.0, 1)) && ok
	ok = b.step(pool.AddDeviceValuePresentation(idRawPresentation, "raw", 0, 1.0, 0)) && ok
	ok = b.step(pool.AddDeviceValuePresentation(idRatePresentation, "mm3/m2", 0, 1.0, 0)) && ok

	b.wireChildren(pool, sections)

	return ok
}

// wireChildren appends the parent->child references. Lookups that do
// not resolve to an element are skipped rather than failing the build;
// the final Validate pass is where dangling references surface.
func (b *Builder) wireChildren(pool *Pool, sections int) {
	if main, found := pool.Element(idMainElement); found {
		main.AddChildReference(idDeviceActualWorkState)
		main.AddChildReference(idRequestDefaultPD)
		main.AddChildReference(idDeviceTotalTime)
		main.AddChildReference(idAuthResult)
	}

	if connector, found := pool.Element(idConnector); found {
		connector.AddChildReference(idConnectorXOffset)
		connector.AddChildReference(idConnectorYOffset)
		connector.AddChildReference(idConnectorType)
	}

	if boom, found := pool.Element(idBoom); found {
		boom.AddChildReference(idBoomXOffset)
		boom.AddChildReference(idBoomYOffset)
		boom.AddChildReference(idBoomZOffset)
		boom.AddChildReference(idActualWorkingWidth)
		boom.AddChildReference(idSetpointWorkState)
		boom.AddChildReference(idSectionControlState)
		boom.AddChildReference(idAreaTotal)
		boom.AddChildReference(idActualCondensed)
		boom.AddChildReference(idSetpointCondensed)
	}

	for i := 0; i < sections; i++ {
		if section, found := pool.Element(idSectionBase + ObjectID(i)); found {
			section.AddChildReference(idSectionXOffsetBase + ObjectID(i))
			section.AddChildReference(idSectionYOffsetBase + ObjectID(i))
			section.AddChildReference(idSectionWidthBase + ObjectID(i))
		}
	}

	if product, found := pool.Element(idProduct); found {
		product.AddChildReference(idTankCapacity)
		product.AddChildReference(idTankVolume)
		product.AddChildReference(idLifetimeVolume)
		product.AddChildReference(idPrescriptionControl)
		product.AddChildReference(idCulturalPractice)
		product.AddChildReference(idTargetRate)
		product.AddChildReference(idActualRate)
	}
}
