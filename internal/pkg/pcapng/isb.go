package pcapng

// Interface statistics block option codes
const (
	OptionCodeIsbStartTime    uint16 = 2
	OptionCodeIsbEndTime      uint16 = 3
	OptionCodeIsbIfRecv       uint16 = 4
	OptionCodeIsbIfDrop       uint16 = 5
	OptionCodeIsbFilterAccept uint16 = 6
	OptionCodeIsbOSDrop       uint16 = 7
	OptionCodeIsbUsrDeliv     uint16 = 8
)

// InterfaceStatisticsBlock holds capture statistics of one interface, block type 5.
type InterfaceStatisticsBlock struct {
	InterfaceID uint32
	// Timestamp is expressed in the resolution of the interface
	Timestamp uint64
	Options   []InterfaceStatisticsOption
}

func (*InterfaceStatisticsBlock) BlockType() BlockType { return BlockTypeInterfaceStatistics }
func (*InterfaceStatisticsBlock) isBlock()             {}

// InterfaceStatisticsOption is one of Comment, IsbStartTime, IsbEndTime,
// IsbIfRecv, IsbIfDrop, IsbFilterAccept, IsbOSDrop, IsbUsrDeliv or Unrecognized.
type InterfaceStatisticsOption interface {
	Option
	interfaceStatisticsOption()
}

// IsbStartTime is the time the capture started, in the resolution of the interface
type IsbStartTime uint64

// IsbEndTime is the time the capture ended, in the resolution of the interface
type IsbEndTime uint64

// IsbIfRecv counts packets received from the physical interface
type IsbIfRecv uint64

// IsbIfDrop counts packets dropped by the interface for lack of resources
type IsbIfDrop uint64

// IsbFilterAccept counts packets accepted by the capture filter
type IsbFilterAccept uint64

// IsbOSDrop counts packets dropped by the operating system
type IsbOSDrop uint64

// IsbUsrDeliv counts packets delivered to the user. It can differ from
// accepted minus dropped as some packets may still sit in OS buffers.
type IsbUsrDeliv uint64

func (IsbStartTime) OptionCode() uint16    { return OptionCodeIsbStartTime }
func (IsbEndTime) OptionCode() uint16      { return OptionCodeIsbEndTime }
func (IsbIfRecv) OptionCode() uint16       { return OptionCodeIsbIfRecv }
func (IsbIfDrop) OptionCode() uint16       { return OptionCodeIsbIfDrop }
func (IsbFilterAccept) OptionCode() uint16 { return OptionCodeIsbFilterAccept }
func (IsbOSDrop) OptionCode() uint16       { return OptionCodeIsbOSDrop }
func (IsbUsrDeliv) OptionCode() uint16     { return OptionCodeIsbUsrDeliv }

func (IsbStartTime) interfaceStatisticsOption()    {}
func (IsbEndTime) interfaceStatisticsOption()      {}
func (IsbIfRecv) interfaceStatisticsOption()       {}
func (IsbIfDrop) interfaceStatisticsOption()       {}
func (IsbFilterAccept) interfaceStatisticsOption() {}
func (IsbOSDrop) interfaceStatisticsOption()       {}
func (IsbUsrDeliv) interfaceStatisticsOption()     {}

// DecodeInterfaceStatistics decodes an interface statistics payload with the default decoder.
func DecodeInterfaceStatistics(src Source) (*InterfaceStatisticsBlock, error) {
	return defaultDecoder.DecodeInterfaceStatistics(src)
}

func (d *Decoder) DecodeInterfaceStatistics(src Source) (*InterfaceStatisticsBlock, error) {
	const bt = BlockTypeInterfaceStatistics
	f := fields{src: src, bt: bt}
	interfaceID := f.uint32()
	ts := f.timestamp()
	if f.err != nil {
		return nil, f.err
	}

	options, err := readOptions(src, bt, func(raw RawOption) (InterfaceStatisticsOption, error) {
		v := newOptionValue(raw)
		switch raw.Code {
		case OptionCodeComment:
			s, err := optionText(bt, raw)
			if err != nil {
				return nil, err
			}
			return Comment(s), nil

		case OptionCodeIsbStartTime, OptionCodeIsbEndTime:
			x, err := v.timestamp()
			if err != nil {
				return nil, optionError(bt, raw, err)
			}
			if raw.Code == OptionCodeIsbStartTime {
				return IsbStartTime(x), nil
			}
			return IsbEndTime(x), nil

		case OptionCodeIsbIfRecv, OptionCodeIsbIfDrop, OptionCodeIsbFilterAccept,
			OptionCodeIsbOSDrop, OptionCodeIsbUsrDeliv:
			x, err := v.uint64()
			if err != nil {
				return nil, optionError(bt, raw, err)
			}
			switch raw.Code {
			case OptionCodeIsbIfRecv:
				return IsbIfRecv(x), nil
			case OptionCodeIsbIfDrop:
				return IsbIfDrop(x), nil
			case OptionCodeIsbFilterAccept:
				return IsbFilterAccept(x), nil
			case OptionCodeIsbOSDrop:
				return IsbOSDrop(x), nil
			default:
				return IsbUsrDeliv(x), nil
			}

		default:
			return d.unknownOption(bt, raw)
		}
	})
	if err != nil {
		return nil, err
	}

	return &InterfaceStatisticsBlock{
		InterfaceID: interfaceID,
		Timestamp:   ts,
		Options:     options,
	}, nil
}
