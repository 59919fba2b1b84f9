// Package snowflake generates process-unique, roughly time-ordered 64-bit
// identifiers. An ID packs three bitfields:
//
//	bits 23..63  seconds since the Unix epoch
//	bits 13..22  machine id (10 bits, fixed at startup)
//	bits  0..12  per-second sequence counter (13 bits)
//
// Within one machine an ID is unique as long as fewer than 8192 ids are
// requested in a single clock second; past that the counter wraps and ids
// from the same second collide. Ordering across machines is only as good
// as their second-granularity clocks.
package snowflake

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	timestampShift = 23
	machineIDShift = 13

	// MaxMachineID is the exclusive upper bound for machine ids (10 bits).
	MaxMachineID = 1 << (timestampShift - machineIDShift)

	// counterModulus is the exclusive upper bound for the sequence counter (13 bits).
	counterModulus = 1 << machineIDShift
)

var (
	// ErrInvalidMachineID is returned by New for machine ids outside [0, 1024).
	ErrInvalidMachineID = errors.New("machine id out of range")

	// ErrClock is returned by Generate when the wall clock reads before the epoch.
	ErrClock = errors.New("system clock is before the epoch")
)

// ID is a generated 64-bit identifier.
type ID int64

// Int64 returns the identifier as a plain int64 (e.g. for a BIGINT column).
func (id ID) Int64() int64 { return int64(id) }

// Time returns the second-granularity timestamp encoded in the identifier.
func (id ID) Time() time.Time { return time.Unix(int64(id)>>timestampShift, 0) }

// MachineID returns the machine id encoded in the identifier.
func (id ID) MachineID() int64 { return (int64(id) >> machineIDShift) & (MaxMachineID - 1) }

// Sequence returns the per-second sequence counter encoded in the identifier.
func (id ID) Sequence() int64 { return int64(id) & (counterModulus - 1) }

// Generator produces IDs for a single machine. The counter is the only
// mutable state and is guarded by a mutex, so Generate is safe for use from
// concurrent request handlers. The critical section never does I/O.
type Generator struct {
	mu        sync.Mutex
	machineID int64
	counter   int64

	now func() time.Time
}

// New creates a Generator for the given machine id. An id outside [0, 1024)
// is a configuration error and fails construction.
func New(machineID int64) (*Generator, error) {
	if machineID < 0 || machineID >= MaxMachineID {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidMachineID, machineID, MaxMachineID)
	}
	return &Generator{machineID: machineID, now: time.Now}, nil
}

// Generate returns the next identifier. Calls are serialized: no two calls
// observe the same (second, counter) pair. The counter wraps at 8192 without
// detection, so more than 8192 calls within one clock second can collide.
func (g *Generator) Generate() (ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	seconds := g.now().Unix()
	if seconds < 0 {
		return 0, ErrClock
	}

	id := ID(seconds<<timestampShift | g.machineID<<machineIDShift | g.counter)
	g.counter = (g.counter + 1) % counterModulus

	return id, nil
}
