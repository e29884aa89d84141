package pilotone

// ParseCommandBytes decodes a single PB frame from the given bytes. The
// caller is expected to deliver exactly one frame; this function does
// not resynchronize on a byte stream. Decoding is all-or-nothing: on
// error, the returned error is a ParseError identifying the first
// failed check, and the returned command is the zero value.
//
// The start marker and the frame terminator are consumed but not
// validated. Hex digits are accepted in either case on input.
func ParseCommandBytes(frame []byte) (Command, error) {
	if len(frame) != FrameLength {
		return Command{}, ParseErrorMessageLength
	}
	for _, b := range frame {
		if b > 0x7F {
			return Command{}, ParseErrorNonASCII
		}
	}
	sender := Sender(frame[offsetSender])
	if !sender.IsValid() {
		return Command{}, ParseErrorSender
	}
	address, ok := parseHex(frame[offsetAddress:offsetData])
	if !ok {
		return Command{}, ParseErrorAddress
	}
	cmd := Command{
		Sender:  sender,
		Address: RegisterAddress(address),
	}
	if string(frame[offsetData:offsetEnd]) != noData {
		data, ok := parseHex(frame[offsetData:offsetEnd])
		if !ok {
			return Command{}, ParseErrorData
		}
		cmd.Data = data
		cmd.HasData = true
	}
	return cmd, nil
}

// ParseCommand decodes a single PB frame from the given string. The
// length check counts bytes, not runes, so a multi-byte encoded
// character makes the input either too long or non-ASCII, never a
// silently misparsed field.
func ParseCommand(frame string) (Command, error) {
	return ParseCommandBytes([]byte(frame))
}

// parseHex parses up to four hex digits as a big-endian unsigned
// integer. Both digit cases are accepted.
func parseHex(digits []byte) (uint16, bool) {
	var value uint16
	for _, d := range digits {
		var nibble byte
		switch {
		case d >= '0' && d <= '9':
			nibble = d - '0'
		case d >= 'A' && d <= 'F':
			nibble = d - 'A' + 10
		case d >= 'a' && d <= 'f':
			nibble = d - 'a' + 10
		default:
			return 0, false
		}
		value = value<<4 | uint16(nibble)
	}
	return value, true
}
