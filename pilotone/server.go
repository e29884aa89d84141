package pilotone

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownRegister is returned for requests addressing a register
// without a registered command handler.
var ErrUnknownRegister = errors.New("no handler for register")

// CommandHandler is the handler function type to handle PB commands on
// the slave side. The handler should return the 16-bit value for the
// reply frame: the current register value for a query, or the value as
// applied for a write. On error, no reply frame is produced and the
// caller decides how to react on the link.
//
// A Server may invoke multiple handlers concurrently. Therefore,
// handlers are responsible for protecting shared resources from
// concurrent access.
type CommandHandler func(
	ctx context.Context, request Command, srv *Server,
) (uint16, error)

// Server describes the slave side of a PB link: it dispatches decoded
// master frames to per-register handlers and builds the reply frames.
// It does not perform any I/O itself.
type Server struct {
	// mx protects direct access to the server fields.
	mx sync.RWMutex

	// commandHandlers maps register addresses to their handler.
	commandHandlers map[RegisterAddress]CommandHandler

	// fallbackCommandHandler is used for addresses not in
	// commandHandlers.
	fallbackCommandHandler CommandHandler
}

// defaultCommandHandler is the initial fallback handler for PB commands
// used by servers returned by NewServer. It simply returns
// ErrUnknownRegister.
func defaultCommandHandler(context.Context, Command, *Server) (uint16, error) {
	return 0, ErrUnknownRegister
}

// NewServer returns a new server.
// Initially, all incoming requests fail with ErrUnknownRegister.
func NewServer() *Server {
	return &Server{
		commandHandlers:        make(map[RegisterAddress]CommandHandler),
		fallbackCommandHandler: defaultCommandHandler,
	}
}

// SetFallbackCommandHandler sets the handler to be called by this
// server for incoming requests without a specific handler set by
// s.SetCommandHandler. If the argument is nil, a default handler, which
// simply returns ErrUnknownRegister for all requests, will be used.
func (s *Server) SetFallbackCommandHandler(h CommandHandler) {
	if h == nil {
		h = defaultCommandHandler
	}
	s.mx.Lock()
	defer s.mx.Unlock()
	s.fallbackCommandHandler = h
}

// SetCommandHandler sets a handler in this server for the specified
// register addresses. If the given handler is nil, any existing
// handlers at the specified addresses will be deleted instead. Further
// requests matching the addresses will use the fallback handler
// instead.
//
// This implementation accepts all addresses, including addresses the
// device documentation does not name.
func (s *Server) SetCommandHandler(
	h CommandHandler, addresses ...RegisterAddress,
) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	if h == nil {
		for _, addr := range addresses {
			delete(s.commandHandlers, addr)
		}
		return nil
	}
	// Check for collisions first, and then add the new handlers.
	for _, addr := range addresses {
		if s.commandHandlers[addr] != nil {
			return fmt.Errorf("handler for register %02X already present",
				uint8(addr))
		}
	}
	for _, addr := range addresses {
		s.commandHandlers[addr] = h
	}
	return nil
}

// Request performs a request on this server with an already decoded
// master frame and returns the slave reply frame. It is used by
// implementations of higher-level functionality, such as a serial link
// frontend feeding decoded frames into the server.
//
// If an error occurs, the error usually comes from the command handler,
// and no reply is produced. The caller may choose how to handle such
// errors on the link, e. g., by not answering at all.
func (s *Server) Request(ctx context.Context, request Command) (Command, error) {
	s.mx.RLock()
	h := s.commandHandlers[request.Address]
	if h == nil {
		h = s.fallbackCommandHandler
	}
	s.mx.RUnlock()
	value, err := h(ctx, request, s)
	if err != nil {
		return Command{}, err
	}
	return NewCommand(SenderSlave, request.Address, value), nil
}
