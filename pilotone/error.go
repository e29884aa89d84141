package pilotone

import (
	"fmt"
)

// ParseError describes why a byte sequence could not be decoded as a PB
// frame. It implements the error interface, and each variant remains
// distinguishable by comparison, so callers can treat, e. g., a length
// error differently from a malformed data field.
type ParseError uint8

// Parse error constants.
const (
	// ParseErrorMessageLength indicates an input which is not exactly
	// FrameLength bytes long.
	ParseErrorMessageLength ParseError = iota + 1

	// ParseErrorNonASCII indicates an input containing a byte outside
	// the single-byte ASCII range.
	ParseErrorNonASCII

	// ParseErrorSender indicates a sender byte which is neither 'M' nor
	// 'S'.
	ParseErrorSender

	// ParseErrorAddress indicates an address field which is not valid
	// 2-digit hexadecimal.
	ParseErrorAddress

	// ParseErrorData indicates a data field which is neither the no-data
	// placeholder nor valid 4-digit hexadecimal.
	ParseErrorData
)

// parseErrorStrings maps parse errors to a textual representation.
var parseErrorStrings = map[ParseError]string{
	ParseErrorMessageLength: "invalid message length",
	ParseErrorNonASCII:      "non-ASCII input",
	ParseErrorSender:        "invalid sender",
	ParseErrorAddress:       "invalid command address",
	ParseErrorData:          "invalid command data",
}

// Error returns a textual representation of this parse error.
func (pe ParseError) Error() string {
	s, ok := parseErrorStrings[pe]
	if !ok {
		s = fmt.Sprintf("unknown parse error %d", uint8(pe))
	}
	return "PB parse error: " + s
}
