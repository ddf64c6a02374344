// Package nmea parses the proprietary PHTG status sentence.
//
// PHTG is an NMEA 0183 style sentence carrying the GNSS authentication
// result and warning code produced by the receiver firmware:
//
//	$PHTG,<date>,<time>,<system>,<service>,<authResult>,<warning>*<CS>
//
// The checksum is the XOR of every byte between the leading '$' and the
// '*' delimiter (both exclusive), transmitted as two hexadecimal digits.
//
// The package only interprets complete lines; framing and line splitting
// belong to the transport feeding it.
package nmea
