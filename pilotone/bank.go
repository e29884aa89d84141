package pilotone

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/TheCount/go-multilocker/multilocker"
)

// Errors returned by register bank operations.
var (
	// ErrNoSuchRegister is returned for addresses outside the modelled
	// register ranges.
	ErrNoSuchRegister = errors.New("no such register")

	// ErrReadOnlyRegister is returned for link writes to a read-only
	// register.
	ErrReadOnlyRegister = errors.New("read-only register")
)

// RegisterRange defines a continuous stretch of register addresses in a
// bank model.
type RegisterRange struct {
	// Start is the address of the first register in the range.
	Start RegisterAddress

	// Len is the length of the register range. Must be positive.
	Len uint16

	// ReadOnly determines whether the range rejects writes arriving
	// over the link. The device itself can still update such registers
	// through Set, e. g., to publish a measured temperature.
	ReadOnly bool
}

// Validate checks whether this register range is valid.
func (rr RegisterRange) Validate() error {
	if rr.Len == 0 {
		return errors.New("zero length range")
	}
	if int(rr.Start)+int(rr.Len) > 256 {
		return errors.New("length exceeds address space")
	}
	return nil
}

// BankModel describes the register layout of a PB device. Each range is
// allocated its own block of memory which can be changed atomically.
type BankModel struct {
	// Ranges is the list of register ranges in the bank model.
	Ranges []RegisterRange
}

// registerBlock describes a basic block of registers in a register
// bank.
type registerBlock struct {
	// mx synchronises access to this register block.
	mx sync.RWMutex

	// values are the raw register values of this block.
	values []uint16
}

// bankRef references registers in a register block.
type bankRef struct {
	// block points to the referenced register block.
	block *registerBlock

	// start is the first address covered by the referenced block.
	start int

	// readOnly determines whether link writes to the referenced block
	// are rejected.
	readOnly bool
}

// end returns the first address past the referenced block.
func (br bankRef) end() int {
	return br.start + len(br.block.values)
}

// RegisterBank represents the 16-bit registers of a PB device installed
// in a Server. All operations are safe for concurrent use.
type RegisterBank struct {
	// refs is the list of register references according to the
	// BankModel from which this bank was created, sorted by start
	// address.
	refs []bankRef
}

// NewRegisterBank creates a new register bank specified by the given
// model.
func NewRegisterBank(model BankModel) (*RegisterBank, error) {
	result := &RegisterBank{}
	for i, rr := range model.Ranges {
		if err := rr.Validate(); err != nil {
			return nil, fmt.Errorf("register range %d invalid: %w", i, err)
		}
		result.refs = append(result.refs, bankRef{
			block: &registerBlock{
				values: make([]uint16, rr.Len),
			},
			start:    int(rr.Start),
			readOnly: rr.ReadOnly,
		})
	}
	sort.Slice(result.refs, func(i, j int) bool {
		return result.refs[i].start < result.refs[j].start
	})
	// Check that there is no overlap
	smallestLegalAddr := 0
	for _, ref := range result.refs {
		if ref.start < smallestLegalAddr {
			return nil, fmt.Errorf(
				"register range starting at %02X overlaps with previous range",
				ref.start)
		}
		smallestLegalAddr = ref.end()
	}
	return result, nil
}

// ref returns the reference covering the specified address.
func (b *RegisterBank) ref(addr RegisterAddress) (*bankRef, error) {
	idx := sort.Search(len(b.refs), func(i int) bool {
		return int(addr) < b.refs[i].end()
	})
	if idx == len(b.refs) || int(addr) < b.refs[idx].start {
		return nil, ErrNoSuchRegister
	}
	return &b.refs[idx], nil
}

// lockerFor returns a locker for the specified list of references. The
// returned locker atomically locks all specified references. Each
// underlying block is locked at most once, even if referenced multiple
// times.
func (*RegisterBank) lockerFor(refs []*bankRef, write bool) sync.Locker {
	blocks := make(map[*registerBlock]struct{})
	lockers := make([]sync.Locker, 0, len(refs))
	for _, ref := range refs {
		if _, ok := blocks[ref.block]; ok {
			continue
		}
		blocks[ref.block] = struct{}{}
		if write {
			lockers = append(lockers, &ref.block.mx)
		} else {
			lockers = append(lockers, ref.block.mx.RLocker())
		}
	}
	return multilocker.New(lockers...)
}

// Read returns the value of the register at the specified address.
func (b *RegisterBank) Read(addr RegisterAddress) (uint16, error) {
	ref, err := b.ref(addr)
	if err != nil {
		return 0, err
	}
	ref.block.mx.RLock()
	defer ref.block.mx.RUnlock()
	return ref.block.values[int(addr)-ref.start], nil
}

// ReadAtomic returns the values of the registers at the specified
// addresses as one atomic snapshot, even if the addresses are spread
// over multiple register blocks. The returned values are in the order
// of the given addresses.
func (b *RegisterBank) ReadAtomic(addrs ...RegisterAddress) ([]uint16, error) {
	refs := make([]*bankRef, len(addrs))
	for i, addr := range addrs {
		ref, err := b.ref(addr)
		if err != nil {
			return nil, err
		}
		refs[i] = ref
	}
	ml := b.lockerFor(refs, false)
	ml.Lock()
	defer ml.Unlock()
	values := make([]uint16, len(addrs))
	for i, addr := range addrs {
		values[i] = refs[i].block.values[int(addr)-refs[i].start]
	}
	return values, nil
}

// WriteAtomic sets the registers at the specified addresses to the
// given values as one atomic update, even if the addresses are spread
// over multiple register blocks. Like Write, it acts on behalf of the
// link peer and rejects read-only registers; in that case no register
// is changed.
func (b *RegisterBank) WriteAtomic(
	addrs []RegisterAddress, values []uint16,
) error {
	if len(addrs) != len(values) {
		return fmt.Errorf("%d addresses for %d values", len(addrs), len(values))
	}
	refs := make([]*bankRef, len(addrs))
	for i, addr := range addrs {
		ref, err := b.ref(addr)
		if err != nil {
			return err
		}
		if ref.readOnly {
			return ErrReadOnlyRegister
		}
		refs[i] = ref
	}
	ml := b.lockerFor(refs, true)
	ml.Lock()
	defer ml.Unlock()
	for i, addr := range addrs {
		refs[i].block.values[int(addr)-refs[i].start] = values[i]
	}
	return nil
}

// Write sets the register at the specified address to the given value
// on behalf of the link peer. Writes to read-only registers fail with
// ErrReadOnlyRegister.
func (b *RegisterBank) Write(addr RegisterAddress, value uint16) error {
	ref, err := b.ref(addr)
	if err != nil {
		return err
	}
	if ref.readOnly {
		return ErrReadOnlyRegister
	}
	ref.block.mx.Lock()
	defer ref.block.mx.Unlock()
	ref.block.values[int(addr)-ref.start] = value
	return nil
}

// Set sets the register at the specified address to the given value on
// behalf of the device itself. Unlike Write, Set also updates read-only
// registers, e. g., to publish a new measured value.
func (b *RegisterBank) Set(addr RegisterAddress, value uint16) error {
	ref, err := b.ref(addr)
	if err != nil {
		return err
	}
	ref.block.mx.Lock()
	defer ref.block.mx.Unlock()
	ref.block.values[int(addr)-ref.start] = value
	return nil
}

// SetTemperature is a convenience function which sets the register at
// the specified address to the given temperature in degrees Celsius.
// The Pilot ONE carries temperatures as signed centidegrees in a single
// register, so the representable range is -327.68 to 327.67 degrees.
func (b *RegisterBank) SetTemperature(addr RegisterAddress, celsius float64) error {
	centi := math.Round(celsius * 100)
	if centi < math.MinInt16 || centi > math.MaxInt16 {
		return fmt.Errorf("temperature %g out of range", celsius)
	}
	return b.Set(addr, uint16(int16(centi)))
}

// Temperature is a convenience function which returns the register at
// the specified address as a temperature in degrees Celsius.
func (b *RegisterBank) Temperature(addr RegisterAddress) (float64, error) {
	raw, err := b.Read(addr)
	if err != nil {
		return 0, err
	}
	return float64(int16(raw)) / 100, nil
}

// CommandHandler is the PB command handler for this register bank. A
// request without data reports the addressed register; a request with
// data writes it and reports the value as applied.
func (b *RegisterBank) CommandHandler(
	ctx context.Context, request Command, srv *Server,
) (uint16, error) {
	if request.HasData {
		if err := b.Write(request.Address, request.Data); err != nil {
			return 0, err
		}
		return request.Data, nil
	}
	return b.Read(request.Address)
}

// AddToServer adds this register bank to the specified server.
// Normally, the bank will be added for all addresses its model covers.
// Optionally, if it is desired to add the bank only for a restricted
// set of addresses (e. g. because the server already uses other
// handlers for some addresses), these can be given as arguments.
// It is permissible to add a single register bank to multiple servers.
func (b *RegisterBank) AddToServer(
	srv *Server, addresses ...RegisterAddress,
) error {
	// Check addresses arg
	if len(addresses) == 0 {
		for _, ref := range b.refs {
			for addr := ref.start; addr < ref.end(); addr++ {
				addresses = append(addresses, RegisterAddress(addr))
			}
		}
	} else {
		sort.Slice(addresses, func(i, j int) bool {
			return addresses[i] < addresses[j]
		})
		for i := 1; i < len(addresses); i++ {
			if addresses[i-1] == addresses[i] {
				return fmt.Errorf("duplicate address %02X", uint8(addresses[i]))
			}
		}
		for _, addr := range addresses {
			if _, err := b.ref(addr); err != nil {
				return fmt.Errorf("address %02X not covered by bank", uint8(addr))
			}
		}
	}
	// Add to server
	if srv == nil {
		return errors.New("nil server")
	}
	return srv.SetCommandHandler(b.CommandHandler, addresses...)
}
