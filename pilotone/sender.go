package pilotone

import (
	"fmt"
)

// Sender describes which of the two link endpoints produced a PB frame.
// Its value is the raw sender byte of the wire frame.
type Sender byte

// Sender constants.
const (
	// SenderMaster identifies the controlling side of the link,
	// usually a PC or PLC.
	SenderMaster Sender = 'M'

	// SenderSlave identifies the controlled device, i. e., the
	// temperature control unit.
	SenderSlave Sender = 'S'
)

// IsValid checks whether this sender is one of the two defined link
// endpoints.
func (s Sender) IsValid() bool {
	return s == SenderMaster || s == SenderSlave
}

// String renders this sender as a string.
func (s Sender) String() string {
	switch s {
	case SenderMaster:
		return "master"
	case SenderSlave:
		return "slave"
	default:
		return fmt.Sprintf("unknown sender %02X", byte(s))
	}
}
