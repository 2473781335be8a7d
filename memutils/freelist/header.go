package freelist

import (
	"encoding/binary"
	"fmt"
)

const (
	// HeaderSize is the size in bytes of the header at the start of every block. A payload pointer is
	// always its block's offset plus HeaderSize.
	HeaderSize int = 8
	// MinBlockSize is the smallest free block a split may leave behind. Smaller remainders stay attached
	// to the allocation that produced them.
	MinBlockSize int = 16
	// BlockMarker is written into every header formatted by the arena. It is only ever checked by
	// diagnostics.
	BlockMarker uint16 = 0xDEAD

	headerSizeOffset   = 0
	headerMarkerOffset = 4
	headerFreeOffset   = 6
	headerFillerOffset = 7
)

// blockHeader is the decoded form of the 8 bytes at the start of a block:
//
//	0..3  size   little-endian, header included
//	4..5  marker little-endian
//	6     free
//	7     filler
type blockHeader struct {
	size   uint32
	marker uint16
	free   bool
	filler bool
}

func (h blockHeader) String() string {
	return fmt.Sprintf("{size: %d, marker: 0x%04X, free: %t}", h.size, h.marker, h.free)
}

func decodeHeader(data []byte) blockHeader {
	_ = data[HeaderSize-1]

	return blockHeader{
		size:   binary.LittleEndian.Uint32(data[headerSizeOffset:]),
		marker: binary.LittleEndian.Uint16(data[headerMarkerOffset:]),
		free:   data[headerFreeOffset] != 0,
		filler: data[headerFillerOffset] != 0,
	}
}

func encodeHeader(data []byte, h blockHeader) {
	_ = data[HeaderSize-1]

	binary.LittleEndian.PutUint32(data[headerSizeOffset:], h.size)
	binary.LittleEndian.PutUint16(data[headerMarkerOffset:], h.marker)
	data[headerFreeOffset] = boolByte(h.free)
	data[headerFillerOffset] = boolByte(h.filler)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
