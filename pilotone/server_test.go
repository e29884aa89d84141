package pilotone

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerDispatch(t *testing.T) {
	srv := NewServer()
	err := srv.SetCommandHandler(func(
		_ context.Context, request Command, _ *Server,
	) (uint16, error) {
		if request.HasData {
			return request.Data, nil
		}
		return 0x1234, nil
	}, RegisterSetpoint, RegisterInternalTemp)
	require.NoError(t, err)

	reply, err := srv.Request(context.Background(),
		NewQuery(SenderMaster, RegisterInternalTemp))
	require.NoError(t, err)
	assert.Equal(t, NewCommand(SenderSlave, RegisterInternalTemp, 0x1234), reply)

	reply, err = srv.Request(context.Background(),
		NewCommand(SenderMaster, RegisterSetpoint, 0x05E8))
	require.NoError(t, err)
	assert.Equal(t, NewCommand(SenderSlave, RegisterSetpoint, 0x05E8), reply)
}

func TestServerFallback(t *testing.T) {
	srv := NewServer()
	_, err := srv.Request(context.Background(),
		NewQuery(SenderMaster, RegisterSetpoint))
	assert.ErrorIs(t, err, ErrUnknownRegister)

	fallbackErr := errors.New("device busy")
	srv.SetFallbackCommandHandler(func(
		context.Context, Command, *Server,
	) (uint16, error) {
		return 0, fallbackErr
	})
	_, err = srv.Request(context.Background(),
		NewQuery(SenderMaster, RegisterSetpoint))
	assert.ErrorIs(t, err, fallbackErr)

	srv.SetFallbackCommandHandler(nil)
	_, err = srv.Request(context.Background(),
		NewQuery(SenderMaster, RegisterSetpoint))
	assert.ErrorIs(t, err, ErrUnknownRegister)
}

func TestServerHandlerCollision(t *testing.T) {
	srv := NewServer()
	h := func(context.Context, Command, *Server) (uint16, error) {
		return 0, nil
	}
	require.NoError(t, srv.SetCommandHandler(h, RegisterSetpoint))
	assert.Error(t, srv.SetCommandHandler(h, RegisterSetpoint))

	// Deleting the handler frees the address again.
	require.NoError(t, srv.SetCommandHandler(nil, RegisterSetpoint))
	require.NoError(t, srv.SetCommandHandler(h, RegisterSetpoint))

	_, err := srv.Request(context.Background(),
		NewQuery(SenderMaster, RegisterSetpoint))
	assert.NoError(t, err)
}
