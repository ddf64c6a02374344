package ddop

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hashtag-agritech/hashtag-go/pkg/ddi"
)

// Pool errors.
var (
	ErrDuplicateObjectID = errors.New("ddop: duplicate object ID")
	ErrReservedObjectID  = errors.New("ddop: object ID is reserved")
	ErrDeviceExists      = errors.New("ddop: pool already has a device")
	ErrNoDevice          = errors.New("ddop: pool has no device")
	ErrNoRootElement     = errors.New("ddop: pool has no root device element")
	ErrDanglingReference = errors.New("ddop: child reference does not resolve")
)

// Pool is the object arena. Object IDs are unique within one pool;
// insertion order is preserved so identical build sequences produce
// identical pools.
type Pool struct {
	mu      sync.RWMutex
	objects map[ObjectID]Object
	order   []ObjectID
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{objects: make(map[ObjectID]Object)}
}

// Clear removes every object. Destruction is pool-wide only.
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.objects = make(map[ObjectID]Object)
	p.order = nil
}

// Size returns the number of objects in the pool.
func (p *Pool) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.objects)
}

// insert stores an object after the shared ID checks.
func (p *Pool) insert(obj Object) error {
	id := obj.ID()
	if id == NullObjectID {
		return fmt.Errorf("%w: %d", ErrReservedObjectID, id)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.objects[id]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateObjectID, id)
	}
	if obj.Kind() == KindDevice {
		for _, existing := range p.objects {
			if existing.Kind() == KindDevice {
				return ErrDeviceExists
			}
		}
	}
	p.objects[id] = obj
	p.order = append(p.order, id)
	return nil
}

// AddDevice adds the pool's root device entity. A pool holds exactly
// one; a second add fails.
func (p *Pool) AddDevice(id ObjectID, designator, softwareVersion, serialNumber, structureLabel string, localization, extendedLabel, clientNAME []byte) error {
	return p.insert(&Device{
		id:              id,
		designator:      designator,
		softwareVersion: softwareVersion,
		serialNumber:    serialNumber,
		structureLabel:  structureLabel,
		localization:    append([]byte(nil), localization...),
		extendedLabel:   append([]byte(nil), extendedLabel...),
		clientNAMEData:  append([]byte(nil), clientNAME...),
	})
}

// AddDeviceElement adds a typed element node. parent refers to the
// owning object and is not resolved here.
func (p *Pool) AddDeviceElement(id ObjectID, designator string, elementNumber uint16, parent ObjectID, elementType ElementType) error {
	return p.insert(&DeviceElement{
		id:            id,
		designator:    designator,
		elementNumber: elementNumber,
		elementType:   elementType,
		parent:        parent,
	})
}

// AddDeviceProcessData declares a process variable.
func (p *Pool) AddDeviceProcessData(id ObjectID, designator string, index ddi.DDI, presentation ObjectID, properties, triggerMethods uint8) error {
	return p.insert(&DeviceProcessData{
		id:           id,
		designator:   designator,
		index:        index,
		properties:   properties,
		triggers:     triggerMethods,
		presentation: presentation,
	})
}

// AddDeviceProperty adds a fixed read-only attribute.
func (p *Pool) AddDeviceProperty(id ObjectID, designator string, index ddi.DDI, value int32, presentation ObjectID) error {
	return p.insert(&DeviceProperty{
		id:           id,
		designator:   designator,
		index:        index,
		value:        value,
		presentation: presentation,
	})
}

// AddDeviceValuePresentation adds shared scaling metadata.
func (p *Pool) AddDeviceValuePresentation(id ObjectID, unit string, offset int32, scale float32, decimals uint8) error {
	return p.insert(&DeviceValuePresentation{
		id:       id,
		unit:     unit,
		offset:   offset,
		scale:    scale,
		decimals: decimals,
	})
}

// Get returns the object with the given ID.
func (p *Pool) Get(id ObjectID) (Object, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	obj, ok := p.objects[id]
	return obj, ok
}

// Element returns the device element with the given ID, or false when
// the ID is absent or names a different object kind. Builders use this
// tolerant lookup when wiring children.
func (p *Pool) Element(id ObjectID) (*DeviceElement, bool) {
	obj, ok := p.Get(id)
	if !ok {
		return nil, false
	}
	el, ok := obj.(*DeviceElement)
	return el, ok
}

// DeviceObject returns the pool's device entity, if present.
func (p *Pool) DeviceObject() (*Device, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, id := range p.order {
		if d, ok := p.objects[id].(*Device); ok {
			return d, true
		}
	}
	return nil, false
}

// Objects returns every object in insertion order.
func (p *Pool) Objects() []Object {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Object, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.objects[id])
	}
	return out
}

// Validate checks the structural invariants: exactly one device,
// exactly one root element of type device, and every child reference
// resolving to an object in this pool.
func (p *Pool) Validate() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	devices := 0
	rootElements := 0
	for _, obj := range p.objects {
		switch o := obj.(type) {
		case *Device:
			devices++
		case *DeviceElement:
			if o.elementType == ElementDevice {
				rootElements++
			}
			for _, child := range o.children {
				if _, ok := p.objects[child]; !ok {
					return fmt.Errorf("%w: element %d -> %d", ErrDanglingReference, o.id, child)
				}
			}
		}
	}

	if devices != 1 {
		return fmt.Errorf("%w: found %d", ErrNoDevice, devices)
	}
	if rootElements != 1 {
		return fmt.Errorf("%w: found %d", ErrNoRootElement, rootElements)
	}
	return nil
}
