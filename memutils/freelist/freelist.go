package freelist

import (
	"fmt"
	"math"

	"github.com/ewramkit/arena/memutils"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/pkg/errors"
	"golang.org/x/exp/slog"
)

// FreeListBlockMetadata is a BlockMetadata implementation that keeps its block list inside the arena
// it manages. Every block starts with an 8-byte header, and the list is the sequence of headers found
// by starting at offset 0 and stepping forward by each block's size. There is no other index.
//
// Allocation is first-fit: the first free block large enough for a request is split, leaving the
// remainder as a new free block, unless the remainder would be smaller than MinBlockSize. Release
// merges the freed block with the free blocks that follow it, but never with a free block before it.
//
// FreeListBlockMetadata is not safe for concurrent use.
type FreeListBlockMetadata struct {
	BlockMetadataBase

	memory      []byte
	allocCount  int
	freeCount   int
	sumFreeSize int
}

var _ BlockMetadata = &FreeListBlockMetadata{}

// NewFreeListBlockMetadata creates a new FreeListBlockMetadata that manages the provided memory. The
// metadata must be sized with Init before use. memory must not be read or written by anything other
// than the metadata and the holders of payload views returned by Bytes.
func NewFreeListBlockMetadata(logger *slog.Logger, memory []byte) *FreeListBlockMetadata {
	return &FreeListBlockMetadata{
		BlockMetadataBase: NewBlockMetadata(logger),
		memory:            memory,
	}
}

// Init prepares this structure for allocations and sizes the arena in bytes based on the parameter size.
// size must be a multiple of memutils.WordSize, at least MinBlockSize, no larger than the memory
// passed to NewFreeListBlockMetadata, and must fit in a block header.
func (m *FreeListBlockMetadata) Init(size int) {
	if size < MinBlockSize || size > len(m.memory) || uint64(size) > math.MaxUint32 {
		panic(errors.Wrapf(memutils.ErrInvalidArena, "cannot initialize an arena of %d bytes over %d bytes of memory", size, len(m.memory)))
	}
	err := memutils.CheckWordAligned(size, "arena size")
	if err != nil {
		panic(errors.Wrapf(memutils.ErrInvalidArena, "%v", err))
	}

	m.BlockMetadataBase.Init(size)
	m.Clear()
}

// Clear instantly releases all allocations and reformats the arena as a single free block
func (m *FreeListBlockMetadata) Clear() {
	m.formatBlock(0, m.size)
	m.allocCount = 0
	m.freeCount = 1
	m.sumFreeSize = m.size
}

// AllocationCount returns the number of blocks currently in use
func (m *FreeListBlockMetadata) AllocationCount() int { return m.allocCount }

// FreeRegionsCount returns the number of free blocks in the arena
func (m *FreeListBlockMetadata) FreeRegionsCount() int { return m.freeCount }

// SumFreeSize returns the number of bytes in free blocks, headers included
func (m *FreeListBlockMetadata) SumFreeSize() int { return m.sumFreeSize }

// IsEmpty will return true if no block in the arena is in use
func (m *FreeListBlockMetadata) IsEmpty() bool { return m.allocCount == 0 }

func (m *FreeListBlockMetadata) readHeader(offset int) blockHeader {
	if offset < 0 || offset+HeaderSize > m.size {
		m.corrupted(offset, "header would extend past the end of the arena (%d bytes)", m.size)
	}

	return decodeHeader(m.memory[offset : offset+HeaderSize])
}

func (m *FreeListBlockMetadata) writeHeader(offset int, header blockHeader) {
	memutils.DebugCheckWordAligned(int(header.size), "block size")
	encodeHeader(m.memory[offset:offset+HeaderSize], header)
}

// formatBlock writes the header of a free block spanning size bytes at offset
func (m *FreeListBlockMetadata) formatBlock(offset, size int) {
	m.trace("Formatting free block", slog.Int("offset", offset), slog.Int("size", size))

	m.writeHeader(offset, blockHeader{
		size:   uint32(size),
		marker: BlockMarker,
		free:   true,
		filler: false,
	})
}

func (m *FreeListBlockMetadata) corrupted(offset int, format string, args ...any) {
	panic(errors.Wrapf(memutils.ErrHeapCorruption, "block at offset %d: %s", offset, fmt.Sprintf(format, args...)))
}

// checkedSize returns the size of a header found while walking the block chain, panicking if the
// chain cannot continue from it
func (m *FreeListBlockMetadata) checkedSize(offset int, header blockHeader) int {
	if header.size == 0 {
		m.corrupted(offset, "block size is zero")
	}

	size := int(header.size)
	if offset+size > m.size {
		m.corrupted(offset, "block of %d bytes runs past the end of the arena (%d bytes)", size, m.size)
	}

	return size
}

// Acquire finds the first free block able to hold size payload bytes, marks it used, and returns a
// pointer to the payload
func (m *FreeListBlockMetadata) Acquire(size int, alignment uint) (Pointer, error) {
	if size < 0 {
		return NoAllocation, errors.Wrapf(memutils.ErrInvalidSize, "requested %d bytes", size)
	}

	err := memutils.CheckAlignment(alignment)
	if err != nil {
		return NoAllocation, err
	}

	if size > m.size {
		return NoAllocation, errors.Wrapf(memutils.ErrOutOfMemory, "requested %d bytes from an arena of %d bytes", size, m.size)
	}

	needed := HeaderSize + memutils.AlignUp(size, memutils.WordSize)

	for offset := 0; offset < m.size; {
		header := m.readHeader(offset)
		blockSize := m.checkedSize(offset, header)

		m.trace("Checking block", slog.Int("offset", offset), slog.String("header", header.String()))

		if header.free && blockSize >= needed {
			leftover := blockSize - needed

			if leftover >= MinBlockSize {
				header.size = uint32(needed)
				m.formatBlock(offset+needed, leftover)
				m.sumFreeSize -= needed
			} else {
				m.trace("Leftover space is too small for a new block", slog.Int("offset", offset), slog.Int("leftover", leftover))
				m.freeCount--
				m.sumFreeSize -= blockSize
			}

			header.free = false
			m.writeHeader(offset, header)
			m.allocCount++

			m.trace("Acquired block", slog.Int("offset", offset), slog.Int("size", int(header.size)))
			memutils.DebugValidate(m)

			return Pointer(offset + HeaderSize), nil
		}

		offset += blockSize
	}

	return NoAllocation, errors.Wrapf(memutils.ErrOutOfMemory, "no free block can hold %d bytes (%d requested)", needed, size)
}

// Release marks the block behind a pointer returned by Acquire as free and merges it with any free
// blocks that immediately follow it
func (m *FreeListBlockMetadata) Release(ptr Pointer) {
	offset := ptr.BlockOffset()
	if offset < 0 || offset+HeaderSize > m.size {
		panic(errors.Wrapf(memutils.ErrInvalidRelease, "pointer %d is outside of the arena", ptr))
	}

	header := m.readHeader(offset)
	m.trace("Releasing block", slog.Int("offset", offset), slog.String("header", header.String()))

	header.free = true
	m.writeHeader(offset, header)

	m.allocCount--
	m.freeCount++
	m.sumFreeSize += int(header.size)

	m.coalesceForward(offset)
	memutils.DebugValidate(m)
}

// coalesceForward merges the free block at offset with every free block that immediately follows it.
// It does nothing if the block at offset is in use.
func (m *FreeListBlockMetadata) coalesceForward(offset int) {
	header := m.readHeader(offset)
	if !header.free {
		return
	}

	next := offset + m.checkedSize(offset, header)
	merged := 0

	for next < m.size {
		nextHeader := m.readHeader(next)
		nextSize := m.checkedSize(next, nextHeader)

		if !nextHeader.free {
			break
		}

		header.size += nextHeader.size
		next += nextSize
		merged++

		m.trace("Merging blocks", slog.Int("offset", offset), slog.Int("size", int(header.size)), slog.Int("next", next))
	}

	m.freeCount -= merged
	m.writeHeader(offset, header)
}

// AllocationSize returns the number of payload bytes available behind a pointer returned by Acquire
func (m *FreeListBlockMetadata) AllocationSize(ptr Pointer) (int, error) {
	offset := ptr.BlockOffset()
	if offset < 0 || offset+HeaderSize > m.size {
		return 0, errors.Errorf("pointer %d is outside of the arena", ptr)
	}

	header := m.readHeader(offset)
	if header.free {
		return 0, errors.Errorf("pointer %d refers to a free block", ptr)
	}

	return int(header.size) - HeaderSize, nil
}

// Bytes returns a view of the first n payload bytes behind a pointer returned by Acquire. The view is
// capped at n bytes, so appending to it can't write into the next block.
func (m *FreeListBlockMetadata) Bytes(ptr Pointer, n int) ([]byte, error) {
	capacity, err := m.AllocationSize(ptr)
	if err != nil {
		return nil, err
	}

	if n < 0 || n > capacity {
		return nil, errors.Errorf("cannot view %d bytes of an allocation that holds %d", n, capacity)
	}

	start := int(ptr)
	return m.memory[start : start+n : start+n], nil
}

// Validate walks every block in the arena and verifies that the chain lands exactly on the end of
// the arena and that the cached counters agree with it
func (m *FreeListBlockMetadata) Validate() error {
	if m.size < MinBlockSize {
		return errors.Errorf("the arena is only %d bytes", m.size)
	}

	var allocCount, freeCount, freeSize int
	offset := 0

	for offset < m.size {
		if offset+HeaderSize > m.size {
			return errors.Errorf("block at offset %d does not have room for a header", offset)
		}

		header := decodeHeader(m.memory[offset : offset+HeaderSize])
		size := int(header.size)

		if size == 0 {
			return errors.Errorf("block at offset %d has a size of zero", offset)
		}
		if size < HeaderSize {
			return errors.Errorf("block at offset %d is %d bytes, which cannot hold its own header", offset, size)
		}
		if err := memutils.CheckWordAligned(size, fmt.Sprintf("size of block at offset %d", offset)); err != nil {
			return err
		}

		if header.free {
			freeCount++
			freeSize += size
		} else {
			allocCount++
		}

		offset += size
	}

	if offset != m.size {
		return errors.Errorf("the block chain ended at offset %d, but the arena is %d bytes", offset, m.size)
	}

	if allocCount != m.allocCount {
		return errors.Errorf("the allocation count of the metadata is %d, but the used blocks only added up to %d", m.allocCount, allocCount)
	}

	if freeCount != m.freeCount {
		return errors.Errorf("the free block count of the metadata is %d, but there were %d free blocks", m.freeCount, freeCount)
	}

	if freeSize != m.sumFreeSize {
		return errors.Errorf("the free size of the metadata is %d, but the free blocks added up to %d", m.sumFreeSize, freeSize)
	}

	return nil
}

// CheckCorruption will return nil if every block header in the arena carries BlockMarker
func (m *FreeListBlockMetadata) CheckCorruption() error {
	return m.VisitAllRegions(func(handle Pointer, offset int, size int, free bool) error {
		header := m.readHeader(offset)
		if header.marker != BlockMarker {
			return errors.Wrapf(memutils.ErrHeapCorruption, "block at offset %d has marker 0x%04X instead of 0x%04X", offset, header.marker, BlockMarker)
		}

		return nil
	})
}

// VisitAllRegions will call the provided callback once for each block in the arena, in address order
func (m *FreeListBlockMetadata) VisitAllRegions(handleBlock func(handle Pointer, offset int, size int, free bool) error) error {
	for offset := 0; offset < m.size; {
		header := m.readHeader(offset)
		size := m.checkedSize(offset, header)

		err := handleBlock(Pointer(offset+HeaderSize), offset, size, header.free)
		if err != nil {
			return err
		}

		offset += size
	}

	return nil
}

func (m *FreeListBlockMetadata) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	stats.ArenaCount++
	stats.ArenaBytes += m.size

	_ = m.VisitAllRegions(func(handle Pointer, offset int, size int, free bool) error {
		if free {
			stats.AddFreeBlock(size, HeaderSize)
		} else {
			stats.AddAllocation(size, HeaderSize)
		}

		return nil
	})
}

func (m *FreeListBlockMetadata) AddStatistics(stats *memutils.Statistics) {
	stats.ArenaCount++
	stats.AllocationCount += m.allocCount
	stats.ArenaBytes += m.size
	stats.AllocationBytes += m.size - m.sumFreeSize
}

// BlockJsonData populates a json object with summary information about this arena
func (m *FreeListBlockMetadata) BlockJsonData(json *jwriter.ObjectState) {
	m.BlockMetadataBase.BlockJsonData(json, m.sumFreeSize, m.allocCount, m.freeCount)
}

// PrintDetailedMap populates a json object with summary information about this arena, followed by
// one entry for every block
func (m *FreeListBlockMetadata) PrintDetailedMap(json *jwriter.ObjectState) {
	m.BlockJsonData(json)

	arrayState := json.Name("Blocks").Array()
	defer arrayState.End()

	_ = m.VisitAllRegions(func(handle Pointer, offset int, size int, free bool) error {
		obj := arrayState.Object()
		defer obj.End()

		obj.Name("Offset").Int(offset)
		obj.Name("Size").Int(size)
		if free {
			obj.Name("Type").String("FREE")
		} else {
			obj.Name("Type").String("USED")
			obj.Name("Payload").Int(int(handle))
		}

		return nil
	})
}

// DebugLogAllAllocations calls logFunc once for every block that is in use
func (m *FreeListBlockMetadata) DebugLogAllAllocations(logger *slog.Logger, logFunc func(log *slog.Logger, offset int, size int)) {
	_ = m.VisitAllRegions(func(handle Pointer, offset int, size int, free bool) error {
		if !free {
			logFunc(logger, offset, size)
		}

		return nil
	})
}
