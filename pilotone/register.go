package pilotone

import (
	"fmt"
)

// RegisterAddress describes a Pilot ONE register or parameter
// identifier. Any 8-bit value is a syntactically valid address; the
// constants below name the registers the device documents.
type RegisterAddress uint8

// Register address constants.
const (
	// RegisterSetpoint is the setpoint of the temperature controller.
	RegisterSetpoint RegisterAddress = 0x00

	// RegisterInternalTemp is the internal (bath) temperature.
	RegisterInternalTemp RegisterAddress = 0x01

	// RegisterErrorReport is the error report register.
	RegisterErrorReport RegisterAddress = 0x05

	// RegisterWarningMessage is the warning message register.
	RegisterWarningMessage RegisterAddress = 0x06

	// RegisterSetProcessTemp sets the process temperature.
	RegisterSetProcessTemp RegisterAddress = 0x09

	// RegisterTempControlMode selects the temperature control mode.
	RegisterTempControlMode RegisterAddress = 0x13

	// RegisterTempControl switches temperature control on or off.
	RegisterTempControl RegisterAddress = 0x14

	// RegisterOperationLock is the operating lock.
	RegisterOperationLock RegisterAddress = 0x17

	// RegisterProcessTempActualMode selects the process temperature
	// actual value setting mode.
	RegisterProcessTempActualMode RegisterAddress = 0x19
)

// registerNames maps known register addresses to a textual
// representation.
var registerNames = map[RegisterAddress]string{
	RegisterSetpoint:              "setpoint temperature controller",
	RegisterInternalTemp:          "internal temperature",
	RegisterErrorReport:           "error report",
	RegisterWarningMessage:        "warning message",
	RegisterSetProcessTemp:        "setting process temperature",
	RegisterTempControlMode:       "temperature control mode",
	RegisterTempControl:           "temperature control",
	RegisterOperationLock:         "operating lock",
	RegisterProcessTempActualMode: "process temperature actual value setting mode",
}

// IsKnown determines whether this address names a documented Pilot ONE
// register. The codec itself accepts any address; this check is a
// convenience for callers which want to restrict traffic to documented
// registers.
func (ra RegisterAddress) IsKnown() bool {
	_, ok := registerNames[ra]
	return ok
}

// String renders this register address as a string.
func (ra RegisterAddress) String() string {
	if s, ok := registerNames[ra]; ok {
		return s
	}
	return fmt.Sprintf("unknown register %02X", uint8(ra))
}
