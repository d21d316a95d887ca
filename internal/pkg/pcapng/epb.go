package pcapng

import "io"

// Enhanced packet block option codes
const (
	OptionCodeEpbFlags     uint16 = 2
	OptionCodeEpbHash      uint16 = 3
	OptionCodeEpbDropCount uint16 = 4
)

// EnhancedPacketBlock holds one captured packet, block type 6.
type EnhancedPacketBlock struct {
	InterfaceID uint32
	// Timestamp is expressed in the resolution of the interface
	Timestamp uint64
	// CapturedLen is the number of bytes of Data
	CapturedLen uint32
	// Len is the length of the packet when it was transmitted on the network
	Len     uint32
	Data    []byte
	Options []EnhancedPacketOption
}

func (*EnhancedPacketBlock) BlockType() BlockType { return BlockTypeEnhancedPacket }
func (*EnhancedPacketBlock) isBlock()             {}

// Comments returns the text of every opt_comment option, in order.
func (b *EnhancedPacketBlock) Comments() []string {
	var comments []string
	for _, o := range b.Options {
		if c, ok := o.(Comment); ok {
			comments = append(comments, string(c))
		}
	}
	return comments
}

// EnhancedPacketOption is one of Comment, EpbFlags, EpbHash, EpbDropCount or Unrecognized.
type EnhancedPacketOption interface {
	Option
	enhancedPacketOption()
}

// EpbFlags is the link-layer flags word of the packet
type EpbFlags uint32

type PacketDirection uint8

const (
	DirectionUnknown PacketDirection = iota
	DirectionInbound
	DirectionOutbound
)

func (d PacketDirection) String() string {
	switch d {
	case DirectionInbound:
		return "inbound"
	case DirectionOutbound:
		return "outbound"
	default:
		return "unknown"
	}
}

// Direction is held in bits 0-1.
func (f EpbFlags) Direction() PacketDirection {
	return PacketDirection(f & 0x3)
}

// ReceptionType is held in bits 2-4: 1 unicast, 2 multicast, 3 broadcast, 4 promiscuous.
func (f EpbFlags) ReceptionType() uint8 {
	return uint8(f>>2) & 0x7
}

// FCSLen is held in bits 5-8, in octets.
func (f EpbFlags) FCSLen() uint8 {
	return uint8(f>>5) & 0xF
}

// EpbHash is a hash of the packet, the first byte of the option names the algorithm
type EpbHash struct {
	Algorithm uint8
	Digest    []byte
}

// EpbDropCount counts packets lost between this packet and the previous one
type EpbDropCount uint64

func (EpbFlags) OptionCode() uint16     { return OptionCodeEpbFlags }
func (EpbHash) OptionCode() uint16      { return OptionCodeEpbHash }
func (EpbDropCount) OptionCode() uint16 { return OptionCodeEpbDropCount }

func (EpbFlags) enhancedPacketOption()     {}
func (EpbHash) enhancedPacketOption()      {}
func (EpbDropCount) enhancedPacketOption() {}

// DecodeEnhancedPacket decodes an enhanced packet payload with the default decoder.
func DecodeEnhancedPacket(src Source) (*EnhancedPacketBlock, error) {
	return defaultDecoder.DecodeEnhancedPacket(src)
}

func (d *Decoder) DecodeEnhancedPacket(src Source) (*EnhancedPacketBlock, error) {
	const bt = BlockTypeEnhancedPacket
	f := fields{src: src, bt: bt}
	interfaceID := f.uint32()
	ts := f.timestamp()
	capturedLen := f.uint32()
	length := f.uint32()
	data := f.read(int(Align4(capturedLen)))
	if f.err == nil && uint64(len(data)) < uint64(capturedLen) {
		// Align4 wrapped around on a bogus length
		f.err = readError(bt, io.ErrUnexpectedEOF)
	}
	if f.err != nil {
		return nil, f.err
	}
	data = append([]byte(nil), data[:capturedLen]...)

	options, err := readOptions(src, bt, func(raw RawOption) (EnhancedPacketOption, error) {
		v := newOptionValue(raw)
		switch raw.Code {
		case OptionCodeComment:
			s, err := optionText(bt, raw)
			if err != nil {
				return nil, err
			}
			return Comment(s), nil

		case OptionCodeEpbFlags:
			x, err := v.uint32()
			if err != nil {
				return nil, optionError(bt, raw, err)
			}
			return EpbFlags(x), nil

		case OptionCodeEpbHash:
			algo, err := v.uint8()
			if err != nil {
				return nil, optionError(bt, raw, err)
			}
			return EpbHash{Algorithm: algo, Digest: v.rest()}, nil

		case OptionCodeEpbDropCount:
			x, err := v.uint64()
			if err != nil {
				return nil, optionError(bt, raw, err)
			}
			return EpbDropCount(x), nil

		default:
			return d.unknownOption(bt, raw)
		}
	})
	if err != nil {
		return nil, err
	}

	return &EnhancedPacketBlock{
		InterfaceID: interfaceID,
		Timestamp:   ts,
		CapturedLen: capturedLen,
		Len:         length,
		Data:        data,
		Options:     options,
	}, nil
}
