package capture

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/netobserv/pcapng-reader/internal/pkg/pcapng"
)

// DescribeOption returns the pcapng name of an option and a printable value.
func DescribeOption(opt pcapng.Option) (name, value string) {
	switch o := opt.(type) {
	case pcapng.Comment:
		return "opt_comment", strconv.Quote(string(o))
	case pcapng.Unrecognized:
		return fmt.Sprintf("opt_%d", o.Code), hex.EncodeToString(o.Value)

	case pcapng.ShbHardware:
		return "shb_hardware", string(o)
	case pcapng.ShbOS:
		return "shb_os", string(o)
	case pcapng.ShbUserApplication:
		return "shb_userappl", string(o)

	case pcapng.IfName:
		return "if_name", string(o)
	case pcapng.IfDescription:
		return "if_description", string(o)
	case pcapng.IfIPv4Addr:
		ones, _ := o.Netmask().Size()
		return "if_IPv4addr", fmt.Sprintf("%s/%d", o.IP(), ones)
	case pcapng.IfIPv6Addr:
		return "if_IPv6addr", fmt.Sprintf("%s/%d", o.Addr, o.PrefixLen)
	case pcapng.IfMACAddr:
		return "if_MACaddr", o.HardwareAddr().String()
	case pcapng.IfEUIAddr:
		return "if_EUIaddr", o.HardwareAddr().String()
	case pcapng.IfSpeed:
		return "if_speed", fmt.Sprintf("%d bps", uint64(o))
	case pcapng.IfTsResolution:
		if o.Base2() {
			return "if_tsresol", fmt.Sprintf("2^-%d s", o.Exponent())
		}
		return "if_tsresol", fmt.Sprintf("10^-%d s", o.Exponent())
	case pcapng.IfTimezone:
		return "if_tzone", strconv.FormatUint(uint64(o), 10)
	case pcapng.IfFilter:
		if o.Kind == 0 {
			return "if_filter", strconv.Quote(string(o.Expr))
		}
		return "if_filter", fmt.Sprintf("kind %d: %s", o.Kind, hex.EncodeToString(o.Expr))
	case pcapng.IfOS:
		return "if_os", string(o)
	case pcapng.IfFCSLen:
		return "if_fcslen", strconv.Itoa(int(o))
	case pcapng.IfTsOffset:
		return "if_tsoffset", fmt.Sprintf("%d s", uint64(o))

	case pcapng.IsbStartTime:
		return "isb_starttime", strconv.FormatUint(uint64(o), 10)
	case pcapng.IsbEndTime:
		return "isb_endtime", strconv.FormatUint(uint64(o), 10)
	case pcapng.IsbIfRecv:
		return "isb_ifrecv", strconv.FormatUint(uint64(o), 10)
	case pcapng.IsbIfDrop:
		return "isb_ifdrop", strconv.FormatUint(uint64(o), 10)
	case pcapng.IsbFilterAccept:
		return "isb_filteraccept", strconv.FormatUint(uint64(o), 10)
	case pcapng.IsbOSDrop:
		return "isb_osdrop", strconv.FormatUint(uint64(o), 10)
	case pcapng.IsbUsrDeliv:
		return "isb_usrdeliv", strconv.FormatUint(uint64(o), 10)

	case pcapng.EpbFlags:
		return "epb_flags", fmt.Sprintf("0x%08x (%s)", uint32(o), o.Direction())
	case pcapng.EpbHash:
		return "epb_hash", fmt.Sprintf("algorithm %d: %s", o.Algorithm, hex.EncodeToString(o.Digest))
	case pcapng.EpbDropCount:
		return "epb_dropcount", strconv.FormatUint(uint64(o), 10)
	}
	return fmt.Sprintf("opt_%d", opt.OptionCode()), fmt.Sprintf("%v", opt)
}
