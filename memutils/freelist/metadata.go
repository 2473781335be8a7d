package freelist

import (
	"context"

	"github.com/ewramkit/arena/memutils"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"golang.org/x/exp/slog"
)

//go:generate mockgen -destination=mocks/metadata.go -package=mock_freelist . BlockMetadata

// BlockMetadata represents a single arena of memory. It manages the blocks within the arena, allowing
// allocations to be acquired and released, as well as enumerated and queried.
type BlockMetadata interface {
	// Init must be called before the BlockMetadata is used. It formats the first size bytes of the
	// arena as a single free block. Any blocks that existed before are forgotten.
	Init(size int)
	// Size retrieves the size in bytes that the arena was initialized with
	Size() int

	// Validate performs internal consistency checks on the metadata by walking every block header in the
	// arena. When the implementation is functioning correctly, it should not be possible for this method
	// to return an error, but this may assist in diagnosing heap corruption.
	Validate() error
	// AllocationCount returns the number of blocks currently in use. This number should be the number of
	// successful calls to Acquire minus the number of calls to Release.
	AllocationCount() int
	// FreeRegionsCount returns the number of free blocks in the arena. Adjacent free blocks are only
	// counted as one block when forward coalescing was able to merge them.
	FreeRegionsCount() int
	// SumFreeSize returns the number of bytes in free blocks, headers included.
	SumFreeSize() int
	// IsEmpty will return true if no block in the arena is in use
	IsEmpty() bool

	// VisitAllRegions will call the provided callback once for each block in the arena, in address order.
	// handle is the payload pointer the block has (or would have) when in use.
	VisitAllRegions(handleBlock func(handle Pointer, offset int, size int, free bool) error) error
	// AllocationSize returns the number of payload bytes available behind a pointer returned by Acquire.
	// This may be larger than the size that was requested.
	AllocationSize(ptr Pointer) (int, error)
	// Bytes returns a view of the first n payload bytes behind a pointer returned by Acquire.
	Bytes(ptr Pointer, n int) ([]byte, error)

	// AddDetailedStatistics sums this arena's block statistics into the statistics currently present
	// in the provided memutils.DetailedStatistics object.
	AddDetailedStatistics(stats *memutils.DetailedStatistics)
	// AddStatistics sums this arena's allocation statistics into the statistics currently present in the
	// provided memutils.Statistics object.
	AddStatistics(stats *memutils.Statistics)

	// Clear instantly releases all allocations and reformats the arena as a single free block
	Clear()
	// BlockJsonData populates a json object with summary information about this arena
	BlockJsonData(json *jwriter.ObjectState)
	// PrintDetailedMap populates a json object with summary information about this arena, followed by
	// one entry for every block
	PrintDetailedMap(json *jwriter.ObjectState)

	// CheckCorruption will return nil if every block header in the arena carries BlockMarker. The
	// marker is never consulted by Acquire or Release, so this method is the only way a damaged marker
	// is noticed. It walks the whole arena and should only be run as part of some sort of diagnostic regime.
	CheckCorruption() error

	// Acquire finds the first free block able to hold size payload bytes, marks it used, and returns a
	// pointer to the payload. The alignment may not be wider than memutils.WordSize. When no block is
	// large enough, NoAllocation is returned along with an error wrapping memutils.ErrOutOfMemory.
	//
	// Acquire panics with an error wrapping memutils.ErrHeapCorruption if it encounters a header that
	// cannot be trusted.
	Acquire(size int, alignment uint) (Pointer, error)
	// Release marks the block behind a pointer returned by Acquire as free and merges it with any free
	// blocks that immediately follow it.
	//
	// Releasing a pointer that was not returned by Acquire, or releasing a pointer twice, is undefined
	// behavior.
	Release(ptr Pointer)
}

// BlockMetadataBase is a simple struct that provides a few shared utilities for BlockMetadata
// implementations in the memutils module.
type BlockMetadataBase struct {
	size   int
	logger *slog.Logger
}

// NewBlockMetadata creates a new BlockMetadataBase. The logger may be nil, in which case no trace
// of allocator activity is written.
func NewBlockMetadata(logger *slog.Logger) BlockMetadataBase {
	return BlockMetadataBase{
		size:   0,
		logger: logger,
	}
}

// Init prepares this structure for allocations and sizes the block in bytes based on the parameter size.
func (m *BlockMetadataBase) Init(size int) {
	m.size = size
}

// Size returns the size of the arena in bytes
func (m *BlockMetadataBase) Size() int { return m.size }

// BlockJsonData populates a json object with information about this arena
func (m *BlockMetadataBase) BlockJsonData(json *jwriter.ObjectState, unusedBytes, allocationCount, freeBlockCount int) {
	json.Name("TotalBytes").Int(m.Size())
	json.Name("UnusedBytes").Int(unusedBytes)
	json.Name("Allocations").Int(allocationCount)
	json.Name("FreeBlocks").Int(freeBlockCount)
}

func (m *BlockMetadataBase) trace(msg string, attrs ...slog.Attr) {
	if m.logger == nil || !m.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	m.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}
