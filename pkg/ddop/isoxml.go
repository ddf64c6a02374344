package ddop

import (
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
)

// ISOXML export per ISO 11783-10. The exchange format uses one-letter
// attribute names; object references are carried as decimal object IDs
// and DDIs as four uppercase hex digits.

type xmlTaskData struct {
	XMLName            xml.Name  `xml:"ISO11783_TaskData"`
	VersionMajor       int       `xml:"VersionMajor,attr"`
	VersionMinor       int       `xml:"VersionMinor,attr"`
	DataTransferOrigin int       `xml:"DataTransferOrigin,attr"`
	Device             xmlDevice `xml:"DVC"`
}

type xmlDevice struct {
	ID              string `xml:"A,attr"`
	Designator      string `xml:"B,attr"`
	SoftwareVersion string `xml:"C,attr"`
	ClientNAME      string `xml:"D,attr"`
	SerialNumber    string `xml:"E,attr"`
	StructureLabel  string `xml:"F,attr"`
	Localization    string `xml:"G,attr"`

	Elements      []xmlElement      `xml:"DET"`
	ProcessData   []xmlProcessData  `xml:"DPD"`
	Properties    []xmlProperty     `xml:"DPT"`
	Presentations []xmlPresentation `xml:"DVP"`
}

type xmlElement struct {
	ID            string      `xml:"A,attr"`
	ObjectID      uint16      `xml:"B,attr"`
	Type          uint8       `xml:"C,attr"`
	Designator    string      `xml:"D,attr"`
	ElementNumber uint16      `xml:"E,attr"`
	Parent        uint16      `xml:"F,attr"`
	References    []xmlObjRef `xml:"DOR"`
}

type xmlObjRef struct {
	ObjectID uint16 `xml:"A,attr"`
}

type xmlProcessData struct {
	ObjectID     uint16 `xml:"A,attr"`
	DDI          string `xml:"B,attr"`
	Properties   uint8  `xml:"C,attr"`
	Triggers     uint8  `xml:"D,attr"`
	Designator   string `xml:"E,attr"`
	Presentation string `xml:"F,attr,omitempty"`
}

type xmlProperty struct {
	ObjectID     uint16 `xml:"A,attr"`
	DDI          string `xml:"B,attr"`
	Value        int32  `xml:"C,attr"`
	Designator   string `xml:"D,attr"`
	Presentation string `xml:"E,attr,omitempty"`
}

type xmlPresentation struct {
	ObjectID uint16  `xml:"A,attr"`
	Offset   int32   `xml:"B,attr"`
	Scale    float32 `xml:"C,attr"`
	Decimals uint8   `xml:"D,attr"`
	Unit     string  `xml:"E,attr"`
}

func ddiHex(v uint16) string {
	return fmt.Sprintf("%04X", v)
}

func presentationRef(id ObjectID) string {
	if id == NullObjectID {
		return ""
	}
	return strconv.Itoa(int(id))
}

// Marshal serializes the pool as an ISO 11783-10 task-data document.
// The pool is validated first: a partially populated or dangling pool
// is refused rather than exported.
func Marshal(pool *Pool) ([]byte, error) {
	if err := pool.Validate(); err != nil {
		return nil, fmt.Errorf("ddop: refusing to export invalid pool: %w", err)
	}

	device, _ := pool.DeviceObject()
	doc := xmlTaskData{
		VersionMajor:       4,
		VersionMinor:       3,
		DataTransferOrigin: 1,
		Device: xmlDevice{
			ID:              KindDevice.TableID() + "-1",
			Designator:      device.Designator(),
			SoftwareVersion: device.SoftwareVersion(),
			ClientNAME:      hex.EncodeToString(device.ClientNAME()),
			SerialNumber:    device.SerialNumber(),
			StructureLabel:  device.StructureLabel(),
			Localization:    hex.EncodeToString(device.Localization()),
		},
	}

	detIndex := 0
	for _, obj := range pool.Objects() {
		switch o := obj.(type) {
		case *DeviceElement:
			detIndex++
			el := xmlElement{
				ID:            fmt.Sprintf("%s-%d", KindDeviceElement.TableID(), detIndex),
				ObjectID:      uint16(o.ID()),
				Type:          uint8(o.ElementType()),
				Designator:    o.Designator(),
				ElementNumber: o.ElementNumber(),
				Parent:        uint16(o.Parent()),
			}
			for _, child := range o.Children() {
				el.References = append(el.References, xmlObjRef{ObjectID: uint16(child)})
			}
			doc.Device.Elements = append(doc.Device.Elements, el)

		case *DeviceProcessData:
			doc.Device.ProcessData = append(doc.Device.ProcessData, xmlProcessData{
				ObjectID:     uint16(o.ID()),
				DDI:          ddiHex(uint16(o.DDI())),
				Properties:   o.Properties(),
				Triggers:     o.TriggerMethods(),
				Designator:   o.Designator(),
				Presentation: presentationRef(o.Presentation()),
			})

		case *DeviceProperty:
			doc.Device.Properties = append(doc.Device.Properties, xmlProperty{
				ObjectID:     uint16(o.ID()),
				DDI:          ddiHex(uint16(o.DDI())),
				Value:        o.Value(),
				Designator:   o.Designator(),
				Presentation: presentationRef(o.Presentation()),
			})

		case *DeviceValuePresentation:
			doc.Device.Presentations = append(doc.Device.Presentations, xmlPresentation{
				ObjectID: uint16(o.ID()),
				Offset:   o.Offset(),
				Scale:    o.Scale(),
				Decimals: o.Decimals(),
				Unit:     o.Unit(),
			})
		}
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("ddop: xml marshal: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}

// WriteFile exports the pool to path. Failures to serialize or write
// are reported synchronously; there is no retry.
func WriteFile(pool *Pool, path string) error {
	data, err := Marshal(pool)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("ddop: write %s: %w", path, err)
	}
	return nil
}
