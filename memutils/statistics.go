package memutils

import (
	"math"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Statistics is a cheap summary of one or more arenas. Byte counts are measured in whole blocks, so
// AllocationBytes includes block headers and the padding added to each request.
type Statistics struct {
	ArenaCount      int
	AllocationCount int
	ArenaBytes      int
	AllocationBytes int
}

func (s *Statistics) Clear() {
	s.ArenaCount = 0
	s.AllocationCount = 0
	s.ArenaBytes = 0
	s.AllocationBytes = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.ArenaCount += other.ArenaCount
	s.AllocationCount += other.AllocationCount
	s.ArenaBytes += other.ArenaBytes
	s.AllocationBytes += other.AllocationBytes
}

// FreeBytes is the number of bytes not covered by a used block
func (s *Statistics) FreeBytes() int {
	return s.ArenaBytes - s.AllocationBytes
}

// DetailedStatistics extends Statistics with per-block size ranges, gathered by walking every header
// in the arena.
type DetailedStatistics struct {
	Statistics
	FreeBlockCount    int
	HeaderBytes       int
	AllocationSizeMin int
	AllocationSizeMax int
	FreeBlockSizeMin  int
	FreeBlockSizeMax  int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.FreeBlockCount = 0
	s.HeaderBytes = 0
	s.AllocationSizeMin = math.MaxInt
	s.AllocationSizeMax = 0
	s.FreeBlockSizeMin = math.MaxInt
	s.FreeBlockSizeMax = 0
}

func (s *DetailedStatistics) AddFreeBlock(size, headerSize int) {
	s.FreeBlockCount++
	s.HeaderBytes += headerSize

	if size < s.FreeBlockSizeMin {
		s.FreeBlockSizeMin = size
	}

	if size > s.FreeBlockSizeMax {
		s.FreeBlockSizeMax = size
	}
}

func (s *DetailedStatistics) AddAllocation(size, headerSize int) {
	s.AllocationCount++
	s.AllocationBytes += size
	s.HeaderBytes += headerSize

	if size < s.AllocationSizeMin {
		s.AllocationSizeMin = size
	}

	if size > s.AllocationSizeMax {
		s.AllocationSizeMax = size
	}
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.FreeBlockCount += other.FreeBlockCount
	s.HeaderBytes += other.HeaderBytes

	if other.FreeBlockSizeMin < s.FreeBlockSizeMin {
		s.FreeBlockSizeMin = other.FreeBlockSizeMin
	}

	if other.FreeBlockSizeMax > s.FreeBlockSizeMax {
		s.FreeBlockSizeMax = other.FreeBlockSizeMax
	}

	if other.AllocationSizeMin < s.AllocationSizeMin {
		s.AllocationSizeMin = other.AllocationSizeMin
	}

	if other.AllocationSizeMax > s.AllocationSizeMax {
		s.AllocationSizeMax = other.AllocationSizeMax
	}
}

// PrintJson writes these statistics into a json object. Size ranges are omitted when no block
// contributed to them.
func (s *DetailedStatistics) PrintJson(json *jwriter.ObjectState) {
	json.Name("ArenaCount").Int(s.ArenaCount)
	json.Name("ArenaBytes").Int(s.ArenaBytes)
	json.Name("AllocationCount").Int(s.AllocationCount)
	json.Name("AllocationBytes").Int(s.AllocationBytes)
	json.Name("FreeBlockCount").Int(s.FreeBlockCount)
	json.Name("FreeBytes").Int(s.FreeBytes())
	json.Name("HeaderBytes").Int(s.HeaderBytes)

	if s.AllocationCount > 0 {
		json.Name("AllocationSizeMin").Int(s.AllocationSizeMin)
		json.Name("AllocationSizeMax").Int(s.AllocationSizeMax)
	}

	if s.FreeBlockCount > 0 {
		json.Name("FreeBlockSizeMin").Int(s.FreeBlockSizeMin)
		json.Name("FreeBlockSizeMax").Int(s.FreeBlockSizeMax)
	}
}
