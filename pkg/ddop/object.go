package ddop

import "github.com/hashtag-agritech/hashtag-go/pkg/ddi"

// ObjectID identifies an object within one pool.
type ObjectID uint16

// NullObjectID marks an absent object reference.
const NullObjectID ObjectID = 0xFFFF

// ObjectKind discriminates the pool object types.
type ObjectKind uint8

const (
	KindDevice ObjectKind = iota
	KindDeviceElement
	KindProcessData
	KindProperty
	KindValuePresentation
)

// TableID returns the ISO 11783-10 XML table identifier for the kind.
func (k ObjectKind) TableID() string {
	switch k {
	case KindDevice:
		return "DVC"
	case KindDeviceElement:
		return "DET"
	case KindProcessData:
		return "DPD"
	case KindProperty:
		return "DPT"
	case KindValuePresentation:
		return "DVP"
	default:
		return "???"
	}
}

// Object is any entry in the pool.
type Object interface {
	// ID returns the object's pool-unique identifier.
	ID() ObjectID

	// Kind returns the object type.
	Kind() ObjectKind

	// Designator returns the human-readable object name.
	Designator() string
}

// ElementType classifies a DeviceElement per ISO 11783-10.
type ElementType uint8

const (
	ElementDevice              ElementType = 1
	ElementFunction            ElementType = 2
	ElementBin                 ElementType = 3
	ElementSection             ElementType = 4
	ElementUnit                ElementType = 5
	ElementConnector           ElementType = 6
	ElementNavigationReference ElementType = 7
)

// Process data property bits.
const (
	PropertyMemberOfDefaultSet uint8 = 1 << 0
	PropertySettable           uint8 = 1 << 1
)

// Process data trigger method bits.
const (
	TriggerTimeInterval     uint8 = 1 << 0
	TriggerDistanceInterval uint8 = 1 << 1
	TriggerThresholdLimits  uint8 = 1 << 2
	TriggerOnChange         uint8 = 1 << 3
	TriggerTotal            uint8 = 1 << 4
)

// Device is the root entity of a pool. Exactly one exists per pool.
type Device struct {
	id ObjectID

	designator      string
	softwareVersion string
	serialNumber    string
	structureLabel  string

	localization   []byte
	extendedLabel  []byte
	clientNAMEData []byte
}

func (d *Device) ID() ObjectID       { return d.id }
func (d *Device) Kind() ObjectKind   { return KindDevice }
func (d *Device) Designator() string { return d.designator }

// SoftwareVersion returns the device software version string.
func (d *Device) SoftwareVersion() string { return d.softwareVersion }

// SerialNumber returns the device serial number string.
func (d *Device) SerialNumber() string { return d.serialNumber }

// StructureLabel returns the pool structure label.
func (d *Device) StructureLabel() string { return d.structureLabel }

// Localization returns the localization byte sequence.
func (d *Device) Localization() []byte { return d.localization }

// ClientNAME returns the client identifier embedded in the device.
func (d *Device) ClientNAME() []byte { return d.clientNAMEData }

// DeviceElement is a typed node of the element tree. Children are held
// as an ordered list of non-owning object IDs.
type DeviceElement struct {
	id ObjectID

	designator    string
	elementNumber uint16
	elementType   ElementType
	parent        ObjectID
	children      []ObjectID
}

func (e *DeviceElement) ID() ObjectID       { return e.id }
func (e *DeviceElement) Kind() ObjectKind   { return KindDeviceElement }
func (e *DeviceElement) Designator() string { return e.designator }

// ElementNumber returns the caller-assigned element number.
func (e *DeviceElement) ElementNumber() uint16 { return e.elementNumber }

// ElementType returns the element classification.
func (e *DeviceElement) ElementType() ElementType { return e.elementType }

// Parent returns the parent object ID, or NullObjectID for the root.
func (e *DeviceElement) Parent() ObjectID { return e.parent }

// AddChildReference appends an object ID to the element's child list.
// The reference is not checked here; resolution happens at lookup.
func (e *DeviceElement) AddChildReference(id ObjectID) {
	e.children = append(e.children, id)
}

// Children returns a copy of the ordered child reference list.
func (e *DeviceElement) Children() []ObjectID {
	out := make([]ObjectID, len(e.children))
	copy(out, e.children)
	return out
}

// DeviceProcessData declares one addressable process variable.
type DeviceProcessData struct {
	id ObjectID

	designator   string
	index        ddi.DDI
	properties   uint8
	triggers     uint8
	presentation ObjectID
}

func (p *DeviceProcessData) ID() ObjectID       { return p.id }
func (p *DeviceProcessData) Kind() ObjectKind   { return KindProcessData }
func (p *DeviceProcessData) Designator() string { return p.designator }

// DDI returns the process variable's data description index.
func (p *DeviceProcessData) DDI() ddi.DDI { return p.index }

// Properties returns the properties bitmask.
func (p *DeviceProcessData) Properties() uint8 { return p.properties }

// TriggerMethods returns the trigger-method bitmask.
func (p *DeviceProcessData) TriggerMethods() uint8 { return p.triggers }

// Presentation returns the referenced presentation, or NullObjectID.
func (p *DeviceProcessData) Presentation() ObjectID { return p.presentation }

// DeviceProperty is a fixed, read-only attribute with a value.
type DeviceProperty struct {
	id ObjectID

	designator   string
	index        ddi.DDI
	value        int32
	presentation ObjectID
}

func (p *DeviceProperty) ID() ObjectID       { return p.id }
func (p *DeviceProperty) Kind() ObjectKind   { return KindProperty }
func (p *DeviceProperty) Designator() string { return p.designator }

// DDI returns the property's data description index.
func (p *DeviceProperty) DDI() ddi.DDI { return p.index }

// Value returns the fixed property value.
func (p *DeviceProperty) Value() int32 { return p.value }

// Presentation returns the referenced presentation, or NullObjectID.
func (p *DeviceProperty) Presentation() ObjectID { return p.presentation }

// DeviceValuePresentation carries shared scaling metadata. It is
// referenced by any number of process data and property objects and
// lives as long as the pool.
type DeviceValuePresentation struct {
	id ObjectID

	unit     string
	offset   int32
	scale    float32
	decimals uint8
}

func (v *DeviceValuePresentation) ID() ObjectID       { return v.id }
func (v *DeviceValuePresentation) Kind() ObjectKind   { return KindValuePresentation }
func (v *DeviceValuePresentation) Designator() string { return v.unit }

// Unit returns the unit designator string.
func (v *DeviceValuePresentation) Unit() string { return v.unit }

// Offset returns the presentation offset.
func (v *DeviceValuePresentation) Offset() int32 { return v.offset }

// Scale returns the presentation scale factor.
func (v *DeviceValuePresentation) Scale() float32 { return v.scale }

// Decimals returns the displayed decimal count.
func (v *DeviceValuePresentation) Decimals() uint8 { return v.decimals }
