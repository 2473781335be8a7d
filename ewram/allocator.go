package ewram

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/ewramkit/arena/ewram/internal/utils"
	"github.com/ewramkit/arena/memutils"
	"github.com/ewramkit/arena/memutils/freelist"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"golang.org/x/exp/slog"
)

// Address is an absolute device address inside the arena window
type Address int

const (
	// Null is returned by Acquire when no block could be handed out
	Null Address = 0
)

func (a Address) String() string {
	return fmt.Sprintf("0x%07x", int(a))
}

const (
	createdFillPattern   uint8 = 0xDC
	destroyedFillPattern uint8 = 0xEF
)

// Allocator hands out blocks from a single fixed arena. Acquire and Release are O(n) in the number of
// blocks in the arena.
//
// Callbacks provided through CreateOptions run while the allocator is locked, so they must not call
// back into the allocator.
type Allocator struct {
	logger      *slog.Logger
	createFlags CreateFlags

	base          int
	end           int
	mutex         utils.OptionalMutex
	memory        []byte
	releaseMemory func() error

	metadata  freelist.BlockMetadata
	callbacks memoryCallbacks
	tracker   *allocationTracker
}

// Base returns the address of the first byte of the arena
func (a *Allocator) Base() Address { return Address(a.base) }

// End returns the address one past the last byte of the arena
func (a *Allocator) End() Address { return Address(a.end) }

// Size returns the size of the arena in bytes
func (a *Allocator) Size() int { return a.end - a.base }

// Flags returns the CreateFlags the allocator was created with
func (a *Allocator) Flags() CreateFlags { return a.createFlags }

func (a *Allocator) addressOf(ptr freelist.Pointer) Address {
	return Address(a.base + int(ptr))
}

func (a *Allocator) pointerOf(address Address) (freelist.Pointer, bool) {
	offset := int(address) - a.base
	if offset < freelist.HeaderSize || offset >= a.end-a.base {
		return freelist.NoAllocation, false
	}

	return freelist.Pointer(offset), true
}

func (a *Allocator) checkAlive() error {
	if a.metadata == nil {
		return errors.New("the allocator has already been destroyed")
	}

	return nil
}

func (a *Allocator) validateIfRequested() {
	if a.createFlags&AllocatorCreateValidateAlways == 0 {
		return
	}

	err := a.validate()
	if err != nil {
		panic(errors.Wrapf(memutils.ErrHeapCorruption, "arena failed validation: %v", err))
	}
}

// Acquire hands out a block able to hold size bytes and returns the address of its payload. alignment
// may be 0 or any power of two up to memutils.WordSize; every payload is word aligned regardless.
//
// When no free block is large enough, Null is returned along with an error wrapping
// memutils.ErrOutOfMemory.
func (a *Allocator) Acquire(size int, alignment uint) (Address, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return a.acquire("", size, alignment)
}

// AcquireNamed behaves like Acquire. When AllocatorCreateTrackAllocations is set, the name is recorded
// and printed in the leak report produced by Destroy.
func (a *Allocator) AcquireNamed(name string, size int, alignment uint) (Address, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	return a.acquire(name, size, alignment)
}

// AcquireSlice acquires a word-aligned block of size bytes and returns a view of its payload along with
// its address
func (a *Allocator) AcquireSlice(size int) (Address, []byte, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	address, err := a.acquire("", size, memutils.WordSize)
	if err != nil {
		return Null, nil, err
	}

	ptr, _ := a.pointerOf(address)
	data, err := a.metadata.Bytes(ptr, size)
	if err != nil {
		return Null, nil, err
	}

	return address, data, nil
}

func (a *Allocator) acquire(name string, size int, alignment uint) (Address, error) {
	if err := a.checkAlive(); err != nil {
		return Null, err
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "Allocator::Acquire",
		slog.Int("size", size),
		slog.Uint64("alignment", uint64(alignment)),
		slog.String("name", name),
	)

	ptr, err := a.metadata.Acquire(size, alignment)
	if err != nil {
		a.logger.LogAttrs(context.Background(), slog.LevelDebug, "    Acquire failed", slog.Any("error", err))
		return Null, err
	}

	capacity, err := a.metadata.AllocationSize(ptr)
	if err != nil {
		panic(errors.Wrapf(memutils.ErrHeapCorruption, "block %d was just acquired but cannot be read back: %v", ptr, err))
	}

	address := a.addressOf(ptr)
	a.fillAllocation(ptr, capacity, createdFillPattern)
	if a.tracker != nil {
		a.tracker.Register(address, name, size)
	}

	a.validateIfRequested()
	a.callbacks.Acquire(address, capacity)

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "    Acquired block",
		slog.String("address", address.String()),
		slog.Int("capacity", capacity),
	)
	return address, nil
}

// Release returns a block to the arena and merges it with any free blocks that immediately follow it.
//
// Addresses outside the arena are always rejected with memutils.ErrInvalidRelease. Other invalid
// addresses, and addresses released twice, are only reliably detected when the allocator was created
// with AllocatorCreateTrackAllocations.
func (a *Allocator) Release(address Address) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if err := a.checkAlive(); err != nil {
		return err
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "Allocator::Release",
		slog.String("address", address.String()),
	)

	ptr, inArena := a.pointerOf(address)
	if !inArena {
		return errors.Wrapf(memutils.ErrInvalidRelease, "address %s is outside of the arena [%s, %s)", address, a.Base(), a.End())
	}

	if a.tracker != nil && !a.tracker.Unregister(address) {
		return errors.Wrapf(memutils.ErrInvalidRelease, "address %s was not acquired from this allocator or was already released", address)
	}

	capacity, err := a.metadata.AllocationSize(ptr)
	if err != nil {
		return errors.Wrapf(memutils.ErrInvalidRelease, "address %s: %v", address, err)
	}

	a.fillAllocation(ptr, capacity, destroyedFillPattern)
	a.metadata.Release(ptr)

	a.validateIfRequested()
	a.callbacks.Release(address, capacity)

	return nil
}

// Slice returns a view of the first n payload bytes of a live allocation
func (a *Allocator) Slice(address Address, n int) ([]byte, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if err := a.checkAlive(); err != nil {
		return nil, err
	}

	ptr, inArena := a.pointerOf(address)
	if !inArena {
		return nil, errors.Newf("address %s is outside of the arena [%s, %s)", address, a.Base(), a.End())
	}

	data, err := a.metadata.Bytes(ptr, n)
	if err != nil {
		return nil, errors.Wrapf(err, "address %s", address)
	}

	return data, nil
}

// VisitAllBlocks calls handleBlock once for each block in the arena, in address order. offset and
// size describe the whole block, header included.
func (a *Allocator) VisitAllBlocks(handleBlock func(handle freelist.Pointer, offset int, size int, free bool) error) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if err := a.checkAlive(); err != nil {
		return err
	}

	return a.metadata.VisitAllRegions(handleBlock)
}

// CalculateStatistics clears the provided statistics object and fills it with the current state
// of the arena
func (a *Allocator) CalculateStatistics(stats *memutils.DetailedStatistics) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	stats.Clear()
	if a.metadata != nil {
		a.metadata.AddDetailedStatistics(stats)
	}
}

// BuildStatsString produces a json document describing the allocator. When detailedMap is true the
// document also lists every block in the arena.
func (a *Allocator) BuildStatsString(detailedMap bool) string {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	writer := jwriter.NewWriter()
	rootObj := writer.Object()

	generalObj := rootObj.Name("General").Object()
	generalObj.Name("Base").String(a.Base().String())
	generalObj.Name("End").String(a.End().String())
	generalObj.Name("Flags").String(a.createFlags.String())
	generalObj.End()

	var stats memutils.DetailedStatistics
	stats.Clear()
	if a.metadata != nil {
		a.metadata.AddDetailedStatistics(&stats)
	}

	totalObj := rootObj.Name("Total").Object()
	stats.PrintJson(&totalObj)
	totalObj.End()

	if detailedMap && a.metadata != nil {
		arenaObj := rootObj.Name("Arena").Object()
		a.metadata.PrintDetailedMap(&arenaObj)
		arenaObj.End()
	}

	rootObj.End()
	return string(writer.Bytes())
}

// Validate walks every block in the arena and returns an error if the arena is inconsistent
func (a *Allocator) Validate() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if err := a.checkAlive(); err != nil {
		return err
	}

	return a.validate()
}

func (a *Allocator) validate() error {
	err := a.metadata.Validate()
	if err != nil {
		return err
	}

	if a.tracker != nil && a.tracker.Count() != a.metadata.AllocationCount() {
		return errors.Newf("allocator is tracking %d allocations, but the arena holds %d", a.tracker.Count(), a.metadata.AllocationCount())
	}

	return nil
}

// CheckCorruption returns an error if any block header in the arena has lost its marker
func (a *Allocator) CheckCorruption() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if err := a.checkAlive(); err != nil {
		return err
	}

	return a.metadata.CheckCorruption()
}

// Destroy releases the arena's backing memory. If any allocation is still live, each one is logged
// as unreleased memory, nothing is released, and an error is returned.
func (a *Allocator) Destroy() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if err := a.checkAlive(); err != nil {
		return err
	}

	if !a.metadata.IsEmpty() {
		// Log all remaining allocations
		err := a.metadata.VisitAllRegions(func(handle freelist.Pointer, offset int, size int, free bool) error {
			if free {
				return nil
			}

			a.logUnreleasedMemory(handle, offset, size)
			return nil
		})
		if err != nil {
			a.logger.LogAttrs(context.Background(),
				slog.LevelError,
				"[UNRELEASED MEMORY] error while iterating unreleased memory",
				slog.Any("error", err))
		}

		return errors.Newf("%d allocations were not released before the destruction of this allocator!", a.metadata.AllocationCount())
	}

	if a.releaseMemory != nil {
		err := a.releaseMemory()
		if err != nil {
			return err
		}
	}

	if a.tracker != nil {
		a.tracker.Clear()
	}

	a.memory = nil
	a.releaseMemory = nil
	a.metadata = nil
	return nil
}

func (a *Allocator) logUnreleasedMemory(handle freelist.Pointer, offset, size int) {
	address := a.addressOf(handle)

	name := ""
	if a.tracker != nil {
		tracked, ok := a.tracker.Lookup(address)
		if ok {
			name = tracked.name
		}
	}
	if name == "" {
		name = "empty"
	}

	a.logger.LogAttrs(context.Background(), slog.LevelError, "[UNRELEASED MEMORY] unreleased allocation",
		slog.String("address", address.String()),
		slog.Int("offset", offset),
		slog.Int("size", size),
		slog.String("name", name),
	)
}
