package vm

import (
	"errors"
	"fmt"
)

// Sentinel kernel errors, per spec.md §7. Every fallible core operation
// returns one of these wrapped in an *Error; callers can compare with
// errors.Is. Grounded on gopher-os/kernel/error.go's allocation-free
// *Error{Module,Message} shape, extended with the Unwrap/Is support
// smoynes-elsie/internal/vm/mem.go's MemoryError provides.
var (
	// ErrBadAddress is returned when the caller supplied no address
	// space, the faulting address lies outside every region and the
	// stack window, or the fault is a write to a write-protected page.
	ErrBadAddress = errors.New("bad address")

	// ErrOutOfMemory is returned when a frame or small-object allocator
	// failed. Partial work is always rolled back before this is returned.
	ErrOutOfMemory = errors.New("out of memory")
)

// Error describes a single VM-core failure: the operation it occurred in,
// the offending address (when one applies), and the sentinel it wraps.
type Error struct {
	Op   string
	Addr uintptr
	Err  error
}

func (e *Error) Error() string {
	if e.Addr == 0 && e.Op == "" {
		return e.Err.Error()
	}

	return fmt.Sprintf("vm: %s: %s (addr=0x%x)", e.Op, e.Err, e.Addr)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func badAddress(op string, addr uintptr) error {
	return &Error{Op: op, Addr: addr, Err: ErrBadAddress}
}

func outOfMemory(op string) error {
	return &Error{Op: op, Err: ErrOutOfMemory}
}
