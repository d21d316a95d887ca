package pcapng

import (
	"encoding/binary"
	"net"
	"net/netip"
)

// Interface description block option codes
const (
	OptionCodeIfName         uint16 = 2
	OptionCodeIfDescription  uint16 = 3
	OptionCodeIfIPv4Addr     uint16 = 4
	OptionCodeIfIPv6Addr     uint16 = 5
	OptionCodeIfMACAddr      uint16 = 6
	OptionCodeIfEUIAddr      uint16 = 7
	OptionCodeIfSpeed        uint16 = 8
	OptionCodeIfTsResolution uint16 = 9
	OptionCodeIfTimezone     uint16 = 10
	OptionCodeIfFilter       uint16 = 11
	OptionCodeIfOS           uint16 = 12
	OptionCodeIfFCSLen       uint16 = 13
	OptionCodeIfTsOffset     uint16 = 14
)

// InterfaceDescriptionBlock describes a capture interface, block type 1.
// Interfaces are numbered from 0 in their order of appearance in the section.
type InterfaceDescriptionBlock struct {
	// LinkType is a LINKTYPE_ value, see https://www.tcpdump.org/linktypes.html
	LinkType uint16
	// SnapLen is the maximum number of bytes stored from each packet, 0 for no limit
	SnapLen uint32
	Options []InterfaceDescriptionOption
}

func (*InterfaceDescriptionBlock) BlockType() BlockType { return BlockTypeInterfaceDescription }
func (*InterfaceDescriptionBlock) isBlock()             {}

// Name returns the if_name option, or an empty string.
func (b *InterfaceDescriptionBlock) Name() string {
	for _, o := range b.Options {
		if n, ok := o.(IfName); ok {
			return string(n)
		}
	}
	return ""
}

// TsResolution returns the if_tsresol option, microseconds when absent.
func (b *InterfaceDescriptionBlock) TsResolution() IfTsResolution {
	for _, o := range b.Options {
		if r, ok := o.(IfTsResolution); ok {
			return r
		}
	}
	return DefaultTsResolution
}

// TsOffset returns the if_tsoffset option in seconds, 0 when absent.
func (b *InterfaceDescriptionBlock) TsOffset() int64 {
	for _, o := range b.Options {
		if off, ok := o.(IfTsOffset); ok {
			return int64(off)
		}
	}
	return 0
}

// InterfaceDescriptionOption is one of Comment, IfName, IfDescription,
// IfIPv4Addr, IfIPv6Addr, IfMACAddr, IfEUIAddr, IfSpeed, IfTsResolution,
// IfTimezone, IfFilter, IfOS, IfFCSLen, IfTsOffset or Unrecognized.
type InterfaceDescriptionOption interface {
	Option
	interfaceDescriptionOption()
}

// IfName is the name of the capture device
type IfName string

// IfDescription describes the capture device
type IfDescription string

// IfOS names the operating system of the machine owning the interface,
// which differs from ShbOS for remote captures
type IfOS string

// IfIPv4Addr holds an interface address and its netmask, both read as little endian integers.
type IfIPv4Addr struct {
	Addr uint32
	Mask uint32
}

// IP returns the address bytes in their wire order.
func (o IfIPv4Addr) IP() netip.Addr {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], o.Addr)
	return netip.AddrFrom4(b)
}

func (o IfIPv4Addr) Netmask() net.IPMask {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], o.Mask)
	return net.IPv4Mask(b[0], b[1], b[2], b[3])
}

// IfIPv6Addr holds an interface address and its prefix length.
type IfIPv6Addr struct {
	Addr      netip.Addr
	PrefixLen uint8
}

// IfMACAddr is the 48 bits hardware address, first wire byte in the lowest bits.
type IfMACAddr uint64

func (o IfMACAddr) HardwareAddr() net.HardwareAddr {
	return foldedAddr(uint64(o), 6)
}

// IfEUIAddr is the 64 bits EUI address, first wire byte in the lowest bits.
type IfEUIAddr uint64

func (o IfEUIAddr) HardwareAddr() net.HardwareAddr {
	return foldedAddr(uint64(o), 8)
}

func foldedAddr(x uint64, n int) net.HardwareAddr {
	addr := make(net.HardwareAddr, n)
	for i := range addr {
		addr[i] = byte(x >> (8 * i))
	}
	return addr
}

// IfSpeed is the interface speed in bits per second
type IfSpeed uint64

// IfTsResolution is the timestamp resolution of the interface.
// When the most significant bit is 0 the other bits are a negative power of 10
// (6 is microseconds), otherwise a negative power of 2 (0x8A is 1/1024 s).
type IfTsResolution uint8

// DefaultTsResolution applies to interfaces without if_tsresol: microseconds.
const DefaultTsResolution IfTsResolution = 6

// Base2 tells whether the exponent is a power of 2.
func (r IfTsResolution) Base2() bool {
	return r&0x80 != 0
}

func (r IfTsResolution) Exponent() uint8 {
	return uint8(r) & 0x7F
}

// UnitsPerSecond returns how many timestamp units make one second. ok is
// false when the value does not fit 64 bits.
func (r IfTsResolution) UnitsPerSecond() (units uint64, ok bool) {
	exp := r.Exponent()
	if r.Base2() {
		if exp > 63 {
			return 0, false
		}
		return 1 << exp, true
	}
	if exp > 19 {
		return 0, false
	}
	units = 1
	for i := uint8(0); i < exp; i++ {
		units *= 10
	}
	return units, true
}

// IfTimezone is the if_tszone option
type IfTimezone uint32

// IfFilter is the capture filter, Kind tells how to read Expr
// (0 for a libpcap filter string, 1 for BPF bytecode).
type IfFilter struct {
	Kind uint8
	Expr []byte
}

// IfFCSLen is the length of the frame check sequence, in bits
type IfFCSLen uint8

// IfTsOffset is added, in seconds, to every timestamp of the interface
type IfTsOffset uint64

func (IfName) OptionCode() uint16         { return OptionCodeIfName }
func (IfDescription) OptionCode() uint16  { return OptionCodeIfDescription }
func (IfIPv4Addr) OptionCode() uint16     { return OptionCodeIfIPv4Addr }
func (IfIPv6Addr) OptionCode() uint16     { return OptionCodeIfIPv6Addr }
func (IfMACAddr) OptionCode() uint16      { return OptionCodeIfMACAddr }
func (IfEUIAddr) OptionCode() uint16      { return OptionCodeIfEUIAddr }
func (IfSpeed) OptionCode() uint16        { return OptionCodeIfSpeed }
func (IfTsResolution) OptionCode() uint16 { return OptionCodeIfTsResolution }
func (IfTimezone) OptionCode() uint16     { return OptionCodeIfTimezone }
func (IfFilter) OptionCode() uint16       { return OptionCodeIfFilter }
func (IfOS) OptionCode() uint16           { return OptionCodeIfOS }
func (IfFCSLen) OptionCode() uint16       { return OptionCodeIfFCSLen }
func (IfTsOffset) OptionCode() uint16     { return OptionCodeIfTsOffset }

func (IfName) interfaceDescriptionOption()         {}
func (IfDescription) interfaceDescriptionOption()  {}
func (IfIPv4Addr) interfaceDescriptionOption()     {}
func (IfIPv6Addr) interfaceDescriptionOption()     {}
func (IfMACAddr) interfaceDescriptionOption()      {}
func (IfEUIAddr) interfaceDescriptionOption()      {}
func (IfSpeed) interfaceDescriptionOption()        {}
func (IfTsResolution) interfaceDescriptionOption() {}
func (IfTimezone) interfaceDescriptionOption()     {}
func (IfFilter) interfaceDescriptionOption()       {}
func (IfOS) interfaceDescriptionOption()           {}
func (IfFCSLen) interfaceDescriptionOption()       {}
func (IfTsOffset) interfaceDescriptionOption()     {}

// DecodeInterfaceDescription decodes an interface description payload with the default decoder.
func DecodeInterfaceDescription(src Source) (*InterfaceDescriptionBlock, error) {
	return defaultDecoder.DecodeInterfaceDescription(src)
}

func (d *Decoder) DecodeInterfaceDescription(src Source) (*InterfaceDescriptionBlock, error) {
	const bt = BlockTypeInterfaceDescription
	f := fields{src: src, bt: bt}
	linkType := f.uint16()
	f.skip(2) // reserved
	snapLen := f.uint32()
	if f.err != nil {
		return nil, f.err
	}

	options, err := readOptions(src, bt, func(raw RawOption) (InterfaceDescriptionOption, error) {
		v := newOptionValue(raw)
		switch raw.Code {
		case OptionCodeComment, OptionCodeIfName, OptionCodeIfDescription, OptionCodeIfOS:
			s, err := optionText(bt, raw)
			if err != nil {
				return nil, err
			}
			switch raw.Code {
			case OptionCodeComment:
				return Comment(s), nil
			case OptionCodeIfName:
				return IfName(s), nil
			case OptionCodeIfDescription:
				return IfDescription(s), nil
			default:
				return IfOS(s), nil
			}

		case OptionCodeIfIPv4Addr:
			addr, err := v.uint32()
			if err != nil {
				return nil, optionError(bt, raw, err)
			}
			mask, err := v.uint32()
			if err != nil {
				return nil, optionError(bt, raw, err)
			}
			return IfIPv4Addr{Addr: addr, Mask: mask}, nil

		case OptionCodeIfIPv6Addr:
			b, err := v.ReadFull(16)
			if err != nil {
				return nil, optionError(bt, raw, err)
			}
			prefix, err := v.uint8()
			if err != nil {
				return nil, optionError(bt, raw, err)
			}
			return IfIPv6Addr{Addr: netip.AddrFrom16([16]byte(b)), PrefixLen: prefix}, nil

		case OptionCodeIfMACAddr:
			x, err := v.uintN(6)
			if err != nil {
				return nil, optionError(bt, raw, err)
			}
			return IfMACAddr(x), nil

		case OptionCodeIfEUIAddr:
			x, err := v.uintN(8)
			if err != nil {
				return nil, optionError(bt, raw, err)
			}
			return IfEUIAddr(x), nil

		case OptionCodeIfSpeed:
			x, err := v.uint64()
			if err != nil {
				return nil, optionError(bt, raw, err)
			}
			return IfSpeed(x), nil

		case OptionCodeIfTsResolution:
			x, err := v.uint8()
			if err != nil {
				return nil, optionError(bt, raw, err)
			}
			return IfTsResolution(x), nil

		case OptionCodeIfTimezone:
			x, err := v.uint32()
			if err != nil {
				return nil, optionError(bt, raw, err)
			}
			return IfTimezone(x), nil

		case OptionCodeIfFilter:
			kind, err := v.uint8()
			if err != nil {
				return nil, optionError(bt, raw, err)
			}
			return IfFilter{Kind: kind, Expr: v.rest()}, nil

		case OptionCodeIfFCSLen:
			x, err := v.uint8()
			if err != nil {
				return nil, optionError(bt, raw, err)
			}
			return IfFCSLen(x), nil

		case OptionCodeIfTsOffset:
			x, err := v.uint64()
			if err != nil {
				return nil, optionError(bt, raw, err)
			}
			return IfTsOffset(x), nil

		default:
			return d.unknownOption(bt, raw)
		}
	})
	if err != nil {
		return nil, err
	}

	return &InterfaceDescriptionBlock{
		LinkType: linkType,
		SnapLen:  snapLen,
		Options:  options,
	}, nil
}
