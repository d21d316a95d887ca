package pcapng

import "fmt"

const (
	// ByteOrderMagic as read from a section written in little endian
	ByteOrderMagic uint32 = 0x1A2B3C4D
	// SwappedByteOrderMagic is ByteOrderMagic read from a big endian section
	SwappedByteOrderMagic uint32 = 0x4D3C2B1A
	// SectionLengthUnspecified is the section length of sections that cannot be skipped
	SectionLengthUnspecified uint64 = 0xFFFFFFFFFFFFFFFF
)

// Section header block option codes
const (
	OptionCodeShbHardware        uint16 = 2
	OptionCodeShbOS              uint16 = 3
	OptionCodeShbUserApplication uint16 = 4
)

// SectionHeaderBlock starts a section, block type 0x0A0D0D0A.
type SectionHeaderBlock struct {
	// Magic is always ByteOrderMagic once decoded
	Magic        uint32
	MajorVersion uint16
	MinorVersion uint16
	// SectionLength is the length of the section after this block, in bytes,
	// or SectionLengthUnspecified
	SectionLength uint64
	Options       []SectionHeaderOption
}

func (*SectionHeaderBlock) BlockType() BlockType { return BlockTypeSectionHeader }
func (*SectionHeaderBlock) isBlock()             {}

// Version formats the section version, e.g. 1.0
func (b *SectionHeaderBlock) Version() string {
	return fmt.Sprintf("%d.%d", b.MajorVersion, b.MinorVersion)
}

// SectionLengthKnown tells whether the section can be skipped using SectionLength.
func (b *SectionHeaderBlock) SectionLengthKnown() bool {
	return b.SectionLength != SectionLengthUnspecified
}

// SectionHeaderOption is one of Comment, ShbHardware, ShbOS, ShbUserApplication or Unrecognized.
type SectionHeaderOption interface {
	Option
	sectionHeaderOption()
}

// ShbHardware describes the hardware used to create the section
type ShbHardware string

// ShbOS names the operating system used to create the section
type ShbOS string

// ShbUserApplication names the application used to create the section
type ShbUserApplication string

func (ShbHardware) OptionCode() uint16        { return OptionCodeShbHardware }
func (ShbOS) OptionCode() uint16              { return OptionCodeShbOS }
func (ShbUserApplication) OptionCode() uint16 { return OptionCodeShbUserApplication }

func (ShbHardware) sectionHeaderOption()        {}
func (ShbOS) sectionHeaderOption()              {}
func (ShbUserApplication) sectionHeaderOption() {}

// DecodeSectionHeader decodes a section header payload with the default decoder.
func DecodeSectionHeader(src Source) (*SectionHeaderBlock, error) {
	return defaultDecoder.DecodeSectionHeader(src)
}

// DecodeSectionHeader decodes the payload of a section header block. Only
// little endian sections are supported, any other magic is ErrUnsupportedFormat.
func (d *Decoder) DecodeSectionHeader(src Source) (*SectionHeaderBlock, error) {
	f := fields{src: src, bt: BlockTypeSectionHeader}
	magic := f.uint32()
	if f.err != nil {
		return nil, f.err
	}
	if magic != ByteOrderMagic {
		if magic == SwappedByteOrderMagic {
			return nil, errBigEndianSection()
		}
		return nil, &Error{Kind: KindUnsupportedFormat, Block: BlockTypeSectionHeader, Err: fmt.Errorf("byte-order magic 0x%08X", magic)}
	}
	major := f.uint16()
	minor := f.uint16()
	sectionLength := f.uint64()
	if f.err != nil {
		return nil, f.err
	}

	options, err := readOptions(src, BlockTypeSectionHeader, func(raw RawOption) (SectionHeaderOption, error) {
		switch raw.Code {
		case OptionCodeComment, OptionCodeShbHardware, OptionCodeShbOS, OptionCodeShbUserApplication:
			s, err := optionText(BlockTypeSectionHeader, raw)
			if err != nil {
				return nil, err
			}
			switch raw.Code {
			case OptionCodeComment:
				return Comment(s), nil
			case OptionCodeShbHardware:
				return ShbHardware(s), nil
			case OptionCodeShbOS:
				return ShbOS(s), nil
			default:
				return ShbUserApplication(s), nil
			}
		default:
			return d.unknownOption(BlockTypeSectionHeader, raw)
		}
	})
	if err != nil {
		return nil, err
	}

	return &SectionHeaderBlock{
		Magic:         magic,
		MajorVersion:  major,
		MinorVersion:  minor,
		SectionLength: sectionLength,
		Options:       options,
	}, nil
}

func errBigEndianSection() error {
	return &Error{
		Kind:  KindUnsupportedFormat,
		Block: BlockTypeSectionHeader,
		Err:   fmt.Errorf("byte-order magic 0x%08X: big endian sections are not supported", SwappedByteOrderMagic),
	}
}
