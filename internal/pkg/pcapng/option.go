package pcapng

import (
	"encoding/binary"
	"unicode/utf8"
)

const (
	// OptionCodeEnd terminates an option chain, it is never a decoded option
	OptionCodeEnd uint16 = 0
	// OptionCodeComment is shared by every block type
	OptionCodeComment uint16 = 1
)

// RawOption is one code/value record of an option chain, without padding.
type RawOption struct {
	Code  uint16
	Value []byte
}

// OptionDecoder walks the option chain that follows the fixed fields of a block.
// It does not know what the codes mean, each block type has its own vocabulary.
type OptionDecoder struct {
	src  Source
	done bool
}

func NewOptionDecoder(src Source) *OptionDecoder {
	return &OptionDecoder{src: src}
}

// Next returns the next option. ok is false once the end of options record
// has been read or the source is exhausted on an option boundary.
func (d *OptionDecoder) Next() (opt RawOption, ok bool, err error) {
	if d.done || d.src.EOF() {
		d.done = true
		return RawOption{}, false, nil
	}
	hdr, err := d.src.ReadFull(4)
	if err != nil {
		d.done = true
		return RawOption{}, false, readError(0, err)
	}
	code := binary.LittleEndian.Uint16(hdr[0:2])
	length := binary.LittleEndian.Uint16(hdr[2:4])

	value, err := d.src.ReadFull(int(Align4(uint32(length))))
	if err != nil {
		d.done = true
		return RawOption{}, false, readError(0, err)
	}
	if code == OptionCodeEnd {
		d.done = true
		return RawOption{}, false, nil
	}
	return RawOption{Code: code, Value: value[:length]}, true, nil
}

// Option is implemented by every typed option of every block.
type Option interface {
	OptionCode() uint16
}

// Comment is the opt_comment option, valid in every block.
type Comment string

func (Comment) OptionCode() uint16 { return OptionCodeComment }

// Unrecognized keeps an option whose code is outside the vocabulary of its
// block, when the decoder is configured with KeepUnknownOption.
type Unrecognized struct {
	Code  uint16
	Value []byte
}

func (o Unrecognized) OptionCode() uint16 { return o.Code }

func (Comment) sectionHeaderOption()             {}
func (Comment) interfaceDescriptionOption()      {}
func (Comment) interfaceStatisticsOption()       {}
func (Comment) enhancedPacketOption()            {}
func (Unrecognized) sectionHeaderOption()        {}
func (Unrecognized) interfaceDescriptionOption() {}
func (Unrecognized) interfaceStatisticsOption()  {}
func (Unrecognized) enhancedPacketOption()       {}

// optionValue reads the fixed sub-fields of a structured option.
type optionValue struct {
	*BytesSource
}

func newOptionValue(raw RawOption) optionValue {
	return optionValue{NewBytesSource(raw.Value)}
}

func (v optionValue) uint8() (uint8, error) {
	b, err := v.ReadFull(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (v optionValue) uint32() (uint32, error) {
	b, err := v.ReadFull(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (v optionValue) uint64() (uint64, error) {
	b, err := v.ReadFull(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// uintN folds n little endian bytes into an integer, n <= 8.
func (v optionValue) uintN(n int) (uint64, error) {
	b, err := v.ReadFull(n)
	if err != nil {
		return 0, err
	}
	var x uint64
	for i := n - 1; i >= 0; i-- {
		x = x<<8 | uint64(b[i])
	}
	return x, nil
}

// timestamp reads a high/low pair of 32 bits words.
func (v optionValue) timestamp() (uint64, error) {
	high, err := v.uint32()
	if err != nil {
		return 0, err
	}
	low, err := v.uint32()
	if err != nil {
		return 0, err
	}
	return uint64(high)<<32 | uint64(low), nil
}

func (v optionValue) rest() []byte {
	b, _ := v.ReadFull(v.Len())
	return append([]byte(nil), b...)
}

func optionText(bt BlockType, raw RawOption) (string, error) {
	if !utf8.Valid(raw.Value) {
		return "", &Error{Kind: KindInvalidText, Block: bt, Code: raw.Code, Err: errInvalidUTF8(raw.Value)}
	}
	return string(raw.Value), nil
}

func optionError(bt BlockType, raw RawOption, err error) error {
	e := *readError(bt, err).(*Error)
	e.Code = raw.Code
	return &e
}
