package pcapng

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// UnknownOptionPolicy tells what to do with option codes a block type does not define.
type UnknownOptionPolicy int

const (
	// FailOnUnknownOption fails the whole block decode with ErrUnknownOption
	FailOnUnknownOption UnknownOptionPolicy = iota
	// KeepUnknownOption skips over the option using its length and keeps it as Unrecognized
	KeepUnknownOption
)

func (p UnknownOptionPolicy) String() string {
	switch p {
	case FailOnUnknownOption:
		return "fail"
	case KeepUnknownOption:
		return "keep"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParseUnknownOptionPolicy accepts the String() forms, case insensitive.
func ParseUnknownOptionPolicy(s string) (UnknownOptionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail":
		return FailOnUnknownOption, nil
	case "keep":
		return KeepUnknownOption, nil
	}
	return 0, fmt.Errorf("unknown option policy %q, expected fail or keep", s)
}

// Decoder holds the decoding policies. The zero value fails on unknown
// options and does not bound block lengths. A Decoder has no mutable state and
// can be shared between goroutines decoding different streams.
type Decoder struct {
	UnknownOptions UnknownOptionPolicy
	// MaxBlockLength rejects larger blocks before allocating, 0 disables the check
	MaxBlockLength uint32
}

// NewDecoder returns a decoder with the default configuration
func NewDecoder() *Decoder {
	return &Decoder{
		UnknownOptions: FailOnUnknownOption,
		MaxBlockLength: DefaultMaxBlockLength,
	}
}

var defaultDecoder = NewDecoder()

// Decode interprets a framed block. Block types other than the four decoded
// kinds are returned unchanged as *RawBlock.
func (d *Decoder) Decode(raw *RawBlock) (Block, error) {
	src := NewBytesSource(raw.Data)
	switch raw.Type {
	case BlockTypeSectionHeader:
		return nonNil(d.DecodeSectionHeader(src))
	case BlockTypeInterfaceDescription:
		return nonNil(d.DecodeInterfaceDescription(src))
	case BlockTypeInterfaceStatistics:
		return nonNil(d.DecodeInterfaceStatistics(src))
	case BlockTypeEnhancedPacket:
		return nonNil(d.DecodeEnhancedPacket(src))
	default:
		return raw, nil
	}
}

// nonNil keeps a failed decode from surfacing as a typed nil Block.
func nonNil[B Block](b B, err error) (Block, error) {
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Decode interprets a framed block with the default decoder.
func Decode(raw *RawBlock) (Block, error) {
	return defaultDecoder.Decode(raw)
}

func (d *Decoder) unknownOption(bt BlockType, raw RawOption) (Unrecognized, error) {
	if d.UnknownOptions != KeepUnknownOption {
		return Unrecognized{}, &Error{
			Kind:  KindUnknownOption,
			Block: bt,
			Code:  raw.Code,
			Err:   fmt.Errorf("%d bytes value", len(raw.Value)),
		}
	}
	return Unrecognized{Code: raw.Code, Value: append([]byte(nil), raw.Value...)}, nil
}

// readOptions runs the option chain of a block and maps each record with parse.
// Nothing is returned unless the whole chain resolved.
func readOptions[T Option](src Source, bt BlockType, parse func(RawOption) (T, error)) ([]T, error) {
	var opts []T
	dec := NewOptionDecoder(src)
	for {
		raw, ok, err := dec.Next()
		if err != nil {
			return nil, readError(bt, err)
		}
		if !ok {
			return opts, nil
		}
		opt, err := parse(raw)
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)
	}
}

// fields reads the fixed part of a block.
type fields struct {
	src Source
	bt  BlockType
	err error
}

func (f *fields) read(n int) []byte {
	if f.err != nil {
		return nil
	}
	b, err := f.src.ReadFull(n)
	if err != nil {
		f.err = readError(f.bt, err)
		return nil
	}
	return b
}

func (f *fields) uint16() uint16 {
	if b := f.read(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (f *fields) uint32() uint32 {
	if b := f.read(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (f *fields) uint64() uint64 {
	if b := f.read(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

// timestamp reads the high and low 32 bits words of a timestamp.
func (f *fields) timestamp() uint64 {
	high := f.uint32()
	low := f.uint32()
	return uint64(high)<<32 | uint64(low)
}

// skip consumes reserved bytes.
func (f *fields) skip(n int) {
	f.read(n)
}
