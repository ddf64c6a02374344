package nmea

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Tag is the fixed 5-character sentence identifier, including the
// leading sentinel.
const Tag = "$PHTG"

// Sentence parsing errors.
var (
	ErrUnknownTag    = errors.New("nmea: not a PHTG sentence")
	ErrNoChecksum    = errors.New("nmea: missing or truncated checksum")
	ErrChecksum      = errors.New("nmea: checksum mismatch")
	ErrTooFewFields  = errors.New("nmea: fewer than six fields")
	ErrInvalidNumber = errors.New("nmea: invalid numeric field")
)

// Sentence is one decoded PHTG record.
type Sentence struct {
	Date    string
	Time    string
	System  string
	Service string

	// AuthResult is the authentication outcome; an empty field decodes
	// as zero.
	AuthResult int32

	// Warning is the receiver warning code; an empty field decodes as
	// zero.
	Warning int32
}

// Checksum computes the XOR of every byte of line strictly between the
// leading sentinel and the '*' delimiter. The sentinel itself is
// excluded. If no '*' is present the XOR runs to the end of the line.
func Checksum(line string) byte {
	var cs byte
	for i := 1; i < len(line); i++ {
		if line[i] == '*' {
			break
		}
		cs ^= line[i]
	}
	return cs
}

// validateChecksum checks the two hexadecimal digits following '*'
// against the computed XOR.
func validateChecksum(line string) error {
	star := strings.IndexByte(line, '*')
	if star < 0 || star+2 >= len(line) {
		return ErrNoChecksum
	}

	received, err := strconv.ParseUint(line[star+1:star+3], 16, 8)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrNoChecksum, line[star+1:star+3])
	}

	if Checksum(line) != byte(received) {
		return ErrChecksum
	}
	return nil
}

// Parse decodes a single PHTG line. Lines that do not start with the
// PHTG tag return ErrUnknownTag; callers treat those as not addressed
// to them rather than as corruption. Any other error means the line
// was recognized but must be dropped without mutating prior state.
func Parse(line string) (Sentence, error) {
	if len(line) < len(Tag) || line[:len(Tag)] != Tag {
		return Sentence{}, ErrUnknownTag
	}

	if err := validateChecksum(line); err != nil {
		return Sentence{}, err
	}

	// Payload starts after the tag and its trailing separator. A '*'
	// before that point means there is no payload at all.
	star := strings.IndexByte(line, '*')
	if star < len(Tag)+1 {
		return Sentence{}, ErrTooFewFields
	}
	body := line[len(Tag)+1 : star]
	fields := strings.Split(body, ",")
	if len(fields) < 6 {
		return Sentence{}, ErrTooFewFields
	}

	s := Sentence{
		Date:    fields[0],
		Time:    fields[1],
		System:  fields[2],
		Service: fields[3],
	}

	var err error
	if s.AuthResult, err = parseField(fields[4]); err != nil {
		return Sentence{}, err
	}
	if s.Warning, err = parseField(fields[5]); err != nil {
		return Sentence{}, err
	}
	return s, nil
}

// parseField decodes a signed integer field, treating empty as zero.
func parseField(field string) (int32, error) {
	if field == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(field, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, field)
	}
	return int32(v), nil
}

// Format renders s as a complete PHTG line with a valid checksum.
func Format(s Sentence) string {
	payload := fmt.Sprintf("%s,%s,%s,%s,%s,%d,%d",
		Tag, s.Date, s.Time, s.System, s.Service, s.AuthResult, s.Warning)
	return fmt.Sprintf("%s*%02X", payload, Checksum(payload))
}
