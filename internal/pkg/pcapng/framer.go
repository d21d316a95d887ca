package pcapng

import (
	"encoding/binary"
	"errors"
	"io"
)

const (
	// type + total length + trailing total length
	blockOverhead = 12

	// DefaultMaxBlockLength bounds the allocation done for a single block
	DefaultMaxBlockLength = 64 << 20
)

// ReadBlock frames the next block of r with the default limits.
func ReadBlock(r io.Reader) (*RawBlock, error) {
	return defaultDecoder.ReadBlock(r)
}

// ReadBlock reads one block envelope: type, total length, padded payload and
// the repeated total length. It returns io.EOF, unwrapped, only when r ends
// exactly on a block boundary. Only the byte-order magic of a section header
// is looked at, the payload is otherwise not interpreted.
func (d *Decoder) ReadBlock(r io.Reader) (*RawBlock, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, readError(0, err)
	}
	bt := BlockType(binary.LittleEndian.Uint32(hdr[0:4]))
	totalLength := binary.LittleEndian.Uint32(hdr[4:8])

	// the length of a big endian section header is meaningless until the magic is known
	var magic []byte
	if bt == BlockTypeSectionHeader {
		magic = make([]byte, 4)
		if _, err := io.ReadFull(r, magic); err != nil {
			return nil, readError(bt, err)
		}
		if binary.LittleEndian.Uint32(magic) == SwappedByteOrderMagic {
			return nil, errBigEndianSection()
		}
	}

	if totalLength < blockOverhead+uint32(len(magic)) {
		return nil, framingError(bt, "total length %d is shorter than the block envelope", totalLength)
	}
	if d.MaxBlockLength > 0 && totalLength > d.MaxBlockLength {
		return nil, framingError(bt, "total length %d exceeds limit %d", totalLength, d.MaxBlockLength)
	}

	dataLength := totalLength - blockOverhead
	data := make([]byte, Align4(dataLength))
	copy(data, magic)
	if _, err := io.ReadFull(r, data[len(magic):]); err != nil {
		return nil, readError(bt, err)
	}
	data = data[:dataLength]

	var trailer [4]byte
	if _, err := io.ReadFull(r, trailer[:]); err != nil {
		return nil, readError(bt, err)
	}
	if trailing := binary.LittleEndian.Uint32(trailer[:]); trailing != totalLength {
		return nil, framingError(bt, "mismatch between header and trailer lengths (%d, %d)", totalLength, trailing)
	}

	return &RawBlock{Type: bt, Data: data}, nil
}
