package pcapng

import "fmt"

type BlockType uint32

const (
	BlockTypeInterfaceDescription BlockType = 0x00000001
	BlockTypeSimplePacket         BlockType = 0x00000003
	BlockTypeNameResolution       BlockType = 0x00000004
	BlockTypeInterfaceStatistics  BlockType = 0x00000005
	BlockTypeEnhancedPacket       BlockType = 0x00000006
	BlockTypeSectionHeader        BlockType = 0x0A0D0D0A
)

func (t BlockType) String() string {
	switch t {
	case BlockTypeSectionHeader:
		return "SectionHeader"
	case BlockTypeInterfaceDescription:
		return "InterfaceDescription"
	case BlockTypeSimplePacket:
		return "SimplePacket"
	case BlockTypeNameResolution:
		return "NameResolution"
	case BlockTypeInterfaceStatistics:
		return "InterfaceStatistics"
	case BlockTypeEnhancedPacket:
		return "EnhancedPacket"
	default:
		return fmt.Sprintf("Block(0x%08X)", uint32(t))
	}
}

// Block is one of *SectionHeaderBlock, *InterfaceDescriptionBlock,
// *InterfaceStatisticsBlock, *EnhancedPacketBlock, or *RawBlock for the block
// types this package does not decode.
type Block interface {
	BlockType() BlockType
	isBlock()
}

// RawBlock is a framed block whose payload has not been interpreted.
// Data holds the logical payload, without padding nor length fields.
type RawBlock struct {
	Type BlockType
	Data []byte
}

func (b *RawBlock) BlockType() BlockType { return b.Type }
func (*RawBlock) isBlock()               {}

// TotalLength is the length the block occupies on the wire.
func (b *RawBlock) TotalLength() uint32 {
	return blockOverhead + Align4(uint32(len(b.Data)))
}

// OptionsOf returns the options of a decoded block, nil for a *RawBlock.
func OptionsOf(b Block) []Option {
	switch b := b.(type) {
	case *SectionHeaderBlock:
		return asOptions(b.Options)
	case *InterfaceDescriptionBlock:
		return asOptions(b.Options)
	case *InterfaceStatisticsBlock:
		return asOptions(b.Options)
	case *EnhancedPacketBlock:
		return asOptions(b.Options)
	default:
		return nil
	}
}

func asOptions[T Option](opts []T) []Option {
	out := make([]Option, len(opts))
	for i, o := range opts {
		out[i] = o
	}
	return out
}
