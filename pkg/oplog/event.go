package oplog

import (
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Direction says which way a process variable moved.
type Direction uint8

const (
	// DirectionRead is a requestValue answered by the dispatch.
	DirectionRead Direction = 1

	// DirectionWrite is a commandValue applied by the dispatch.
	DirectionWrite Direction = 2
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionRead:
		return "read"
	case DirectionWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Event is one dispatched read or write.
type Event struct {
	// Timestamp is when the dispatch handled the operation.
	Timestamp time.Time `cbor:"1,keyasint"`

	// Direction distinguishes reads from writes.
	Direction Direction `cbor:"2,keyasint"`

	// ElementNumber is the addressed device element.
	ElementNumber uint16 `cbor:"3,keyasint"`

	// DDI is the addressed data description index.
	DDI uint16 `cbor:"4,keyasint"`

	// Value is the value returned (read) or commanded (write).
	Value int32 `cbor:"5,keyasint"`
}

// encMode is the CBOR encoder mode for events. Canonical sorting keeps
// the encoding deterministic; timestamps carry nanosecond precision.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for events.
var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create oplog CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create oplog CBOR decoder mode: %v", err))
	}
}

// EncodeEvent encodes an event to CBOR bytes.
func EncodeEvent(event Event) ([]byte, error) {
	return encMode.Marshal(event)
}

// DecodeEvent decodes CBOR bytes into an event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := decMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder creates a CBOR event encoder writing to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder creates a CBOR event decoder reading from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
