package pilotone

const (
	// FrameLength is the length of a PB frame, in bytes. All PB frames
	// have exactly this length.
	FrameLength = 10

	// frameStart is the literal start marker of a PB frame.
	frameStart = '{'

	// frameEndCR and frameEndLF terminate a PB frame.
	frameEndCR = '\r'
	frameEndLF = '\n'
)

// Field offsets within a PB frame.
const (
	offsetStart   = 0
	offsetSender  = 1
	offsetAddress = 2
	offsetData    = 4
	offsetEnd     = 8
)

// noData is the placeholder for the data field of a frame which carries
// no data, i. e., a request to the peer to report the addressed value.
const noData = "****"

// upperHexDigits maps a nibble to its wire representation. The PB
// protocol requires uppercase hex digits on output.
const upperHexDigits = "0123456789ABCDEF"

// Command describes a single decoded PB frame. It is a plain value
// type: two commands with equal fields are interchangeable, and
// encoding or decoding never mutates an existing value.
type Command struct {
	// Sender is the link endpoint which produced the frame.
	Sender Sender

	// Address is the register or parameter identifier the frame refers
	// to. The codec passes the raw value through without consulting the
	// register table.
	Address RegisterAddress

	// Data is the 16-bit payload of the frame. It is only meaningful if
	// HasData is true.
	Data uint16

	// HasData determines whether the frame carries a data value. A
	// frame without data is a request to the peer to report the
	// addressed value.
	HasData bool
}

// NewCommand returns a command carrying the given data value.
func NewCommand(sender Sender, address RegisterAddress, data uint16) Command {
	return Command{
		Sender:  sender,
		Address: address,
		Data:    data,
		HasData: true,
	}
}

// NewQuery returns a command with an empty data field, i. e., a request
// to the peer to report the value of the addressed register.
func NewQuery(sender Sender, address RegisterAddress) Command {
	return Command{
		Sender:  sender,
		Address: address,
	}
}

// Bytes encodes this command as a PB frame. Encoding cannot fail: every
// command value is representable, since the address and data fields are
// range-constrained by their storage width. The sender byte is written
// as-is; it is the caller's responsibility to use a valid Sender.
func (c Command) Bytes() [FrameLength]byte {
	var frame [FrameLength]byte
	frame[offsetStart] = frameStart
	frame[offsetSender] = byte(c.Sender)
	frame[offsetAddress] = upperHexDigits[c.Address>>4]
	frame[offsetAddress+1] = upperHexDigits[c.Address&0x0F]
	if c.HasData {
		frame[offsetData] = upperHexDigits[c.Data>>12]
		frame[offsetData+1] = upperHexDigits[c.Data>>8&0x0F]
		frame[offsetData+2] = upperHexDigits[c.Data>>4&0x0F]
		frame[offsetData+3] = upperHexDigits[c.Data&0x0F]
	} else {
		copy(frame[offsetData:offsetEnd], noData)
	}
	frame[offsetEnd] = frameEndCR
	frame[offsetEnd+1] = frameEndLF
	return frame
}

// String renders this command as its wire frame, without the
// terminating CR LF.
func (c Command) String() string {
	frame := c.Bytes()
	return string(frame[:offsetEnd])
}
