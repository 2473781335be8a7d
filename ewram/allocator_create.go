package ewram

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ewramkit/arena/ewram/internal/utils"
	"github.com/ewramkit/arena/memutils"
	"github.com/ewramkit/arena/memutils/freelist"
	"golang.org/x/exp/slog"
)

// CreateFlags indicate specific allocator behaviors to activate or deactivate
type CreateFlags int32

var allocatorCreateFlagsMapping = map[CreateFlags]string{}

func (f CreateFlags) Register(str string) {
	allocatorCreateFlagsMapping[f] = str
}

func (f CreateFlags) String() string {
	if f == 0 {
		return "None"
	}

	var names []string
	for bit := CreateFlags(1); bit != 0 && bit <= f; bit <<= 1 {
		if f&bit == 0 {
			continue
		}

		name, ok := allocatorCreateFlagsMapping[bit]
		if !ok {
			name = fmt.Sprintf("CreateFlags(0x%x)", int32(bit))
		}
		names = append(names, name)
	}

	return strings.Join(names, "|")
}

const (
	// AllocatorCreateInternallySynchronized causes every entry point of the allocator to take a mutex.
	// By default the allocator is not synchronized and the consumer must guarantee it is used from
	// only one goroutine at a time.
	AllocatorCreateInternallySynchronized CreateFlags = 1 << iota
	// AllocatorCreateTrackAllocations records every live allocation. Releasing an address the allocator
	// did not hand out, or releasing an address twice, returns memutils.ErrInvalidRelease instead of
	// damaging the arena.
	AllocatorCreateTrackAllocations
	// AllocatorCreateValidateAlways walks the whole arena after every Acquire and Release and panics
	// with memutils.ErrHeapCorruption if it is inconsistent. It is slow and intended for debugging.
	AllocatorCreateValidateAlways
)

func init() {
	AllocatorCreateInternallySynchronized.Register("AllocatorCreateInternallySynchronized")
	AllocatorCreateTrackAllocations.Register("AllocatorCreateTrackAllocations")
	AllocatorCreateValidateAlways.Register("AllocatorCreateValidateAlways")
}

const (
	// DefaultBase is the first address of the work RAM window used when CreateOptions leaves the
	// arena bounds empty
	DefaultBase int = 0x2000000
	// DefaultEnd is the exclusive end address of the default work RAM window
	DefaultEnd int = 0x2033FF0
)

// CreateOptions contains optional settings when creating an allocator
type CreateOptions struct {
	// Base is the address of the first byte of the arena. If both Base and End are zero,
	// DefaultBase and DefaultEnd are used.
	Base int
	// End is the address one past the last byte of the arena
	End int
	// Flags indicates specific allocator behaviors to activate or deactivate
	Flags CreateFlags

	// MemoryCallbackOptions is an optional set of callbacks that will be executed whenever a block
	// is acquired from or released to this allocator
	MemoryCallbackOptions *MemoryCallbackOptions

	// Backing selects where the arena's bytes live. The zero value is BackingHeap.
	Backing Backing
}

func (o CreateOptions) bounds() (base, end int) {
	if o.Base == 0 && o.End == 0 {
		return DefaultBase, DefaultEnd
	}

	return o.Base, o.End
}

func validateBounds(base, end int) error {
	if base < 0 || end <= base {
		return errors.Wrapf(memutils.ErrInvalidArena, "arena [0x%x, 0x%x) is empty or negative", base, end)
	}

	if err := memutils.CheckWordAligned(base, "arena base"); err != nil {
		return errors.Wrapf(memutils.ErrInvalidArena, "%v", err)
	}

	size := end - base
	if err := memutils.CheckWordAligned(size, "arena size"); err != nil {
		return errors.Wrapf(memutils.ErrInvalidArena, "%v", err)
	}

	if size < freelist.MinBlockSize {
		return errors.Wrapf(memutils.ErrInvalidArena, "arena size %d is smaller than the minimum block size %d", size, freelist.MinBlockSize)
	}

	if uint64(size) > math.MaxUint32 {
		return errors.Wrapf(memutils.ErrInvalidArena, "arena size %d cannot be described by a block header", size)
	}

	return nil
}

// New creates a new Allocator over a freshly formatted arena
//
// logger - Receives the allocator's debug trace and leak reports. If nil, slog.Default() is used.
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, options CreateOptions) (*Allocator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	base, end := options.bounds()
	err := validateBounds(base, end)
	if err != nil {
		return nil, err
	}

	size := end - base
	memory, releaseMemory, err := allocateBacking(options.Backing, size)
	if err != nil {
		return nil, err
	}

	metadata := freelist.NewFreeListBlockMetadata(logger, memory)
	metadata.Init(size)

	allocator := newAllocator(logger, options, base, end, metadata)
	allocator.memory = memory
	allocator.releaseMemory = releaseMemory

	logger.LogAttrs(context.Background(), slog.LevelDebug, "Allocator::New",
		slog.String("base", fmt.Sprintf("0x%x", base)),
		slog.String("end", fmt.Sprintf("0x%x", end)),
		slog.String("flags", options.Flags.String()),
		slog.String("backing", options.Backing.String()),
	)

	return allocator, nil
}

func newAllocator(logger *slog.Logger, options CreateOptions, base, end int, metadata freelist.BlockMetadata) *Allocator {
	useMutex := options.Flags&AllocatorCreateInternallySynchronized != 0

	allocator := &Allocator{
		logger:      logger,
		createFlags: options.Flags,
		base:        base,
		end:         end,
		mutex:       utils.OptionalMutex{UseMutex: useMutex},
		metadata:    metadata,
	}
	allocator.callbacks = memoryCallbacks{
		Callbacks: options.MemoryCallbackOptions,
		Allocator: allocator,
	}

	if options.Flags&AllocatorCreateTrackAllocations != 0 {
		allocator.tracker = newAllocationTracker()
	}

	return allocator
}
