package pilotone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandBytes(t *testing.T) {
	tcs := []struct {
		name     string
		cmd      Command
		expected string
	}{
		{
			name:     "master write",
			cmd:      NewCommand(SenderMaster, RegisterSetProcessTemp, 0x05E8),
			expected: "{M0905E8\r\n",
		},
		{
			name:     "slave reply",
			cmd:      NewCommand(SenderSlave, RegisterProcessTempActualMode, 0x0001),
			expected: "{S190001\r\n",
		},
		{
			name:     "master query",
			cmd:      NewQuery(SenderMaster, 0x31),
			expected: "{M31****\r\n",
		},
		{
			name:     "zero-padded address",
			cmd:      NewQuery(SenderSlave, 0x07),
			expected: "{S07****\r\n",
		},
		{
			name:     "maximum address and data",
			cmd:      NewCommand(SenderMaster, 0xFF, 0xFFFF),
			expected: "{MFFFFFF\r\n",
		},
		{
			name:     "minimum data",
			cmd:      NewCommand(SenderMaster, 0x07, 0x0001),
			expected: "{M070001\r\n",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			frame := tc.cmd.Bytes()
			assert.Equal(t, tc.expected, string(frame[:]))
		})
	}
}

func TestCommandBytesLayout(t *testing.T) {
	frame := NewCommand(SenderMaster, 0xFF, 0xFFFF).Bytes()
	assert.EqualValues(t, '{', frame[0])
	assert.Equal(t, "FFFFFF", string(frame[2:8]))
	assert.Equal(t, "\r\n", string(frame[8:10]))
}

func TestCommandBytesUppercaseOnly(t *testing.T) {
	cmds := []Command{
		NewCommand(SenderMaster, 0xAB, 0xCDEF),
		NewCommand(SenderSlave, 0xFA, 0xBEEF),
		NewQuery(SenderMaster, 0xDE),
	}
	for _, cmd := range cmds {
		frame := cmd.Bytes()
		for i, b := range frame {
			assert.False(t, b >= 'a' && b <= 'f',
				"lowercase hex digit %q at offset %d in %q", b, i, frame)
		}
	}
}

func TestCommandRoundTrip(t *testing.T) {
	senders := []Sender{SenderMaster, SenderSlave}
	addresses := []RegisterAddress{0x00, 0x07, 0x31, 0xAB, 0xFF}
	values := []uint16{0x0000, 0x0001, 0x00AB, 0x3219, 0xFFFF}
	for _, sender := range senders {
		for _, address := range addresses {
			cmds := []Command{NewQuery(sender, address)}
			for _, value := range values {
				cmds = append(cmds, NewCommand(sender, address, value))
			}
			for _, cmd := range cmds {
				frame := cmd.Bytes()
				decoded, err := ParseCommandBytes(frame[:])
				require.NoError(t, err, "frame %q", frame)
				assert.Equal(t, cmd, decoded)
			}
		}
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "{M31****", NewQuery(SenderMaster, 0x31).String())
	assert.Equal(t, "{S223219", NewCommand(SenderSlave, 0x22, 0x3219).String())
}
