package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/jpillora/sizestr"
	"github.com/netobserv/pcapng-reader/internal/pkg/capture"
	"github.com/netobserv/pcapng-reader/internal/pkg/pcapng"
	"github.com/spf13/cobra"
)

var blocksCmd = &cobra.Command{
	Use:   "blocks FILE",
	Short: "List every block of a capture with its options",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runBlocks(args[0])
	},
}

func runBlocks(path string) error {
	return scanFile(path, nil, false, func(rec *capture.Record) error {
		fmt.Fprintf(out(), "#%d @%d %s (%s) %s\n", rec.Index, rec.Offset, rec.Block.BlockType(), sizestr.ToString(int64(rec.Length)), blockSummary(rec))
		for _, o := range pcapng.OptionsOf(rec.Block) {
			name, value := capture.DescribeOption(o)
			fmt.Fprintf(out(), "    %s: %s\n", name, value)
		}
		return nil
	})
}

// blockSummary describes the fixed fields of a block on one line.
func blockSummary(rec *capture.Record) string {
	switch b := rec.Block.(type) {
	case *pcapng.SectionHeaderBlock:
		length := "unspecified"
		if b.SectionLengthKnown() {
			length = sizestr.ToString(int64(b.SectionLength))
		}
		return fmt.Sprintf("section %d, version %s, length %s", rec.Section, b.Version(), length)

	case *pcapng.InterfaceDescriptionBlock:
		return fmt.Sprintf("interface %d, link type %s, snap length %d", rec.Interface.ID, rec.Interface.LinkType, b.SnapLen)

	case *pcapng.InterfaceStatisticsBlock:
		ts := "?"
		if t, err := rec.Interface.Timestamp(b.Timestamp); err == nil {
			ts = t.Format(time.RFC3339Nano)
		}
		return fmt.Sprintf("interface %d, at %s", b.InterfaceID, ts)

	case *pcapng.EnhancedPacketBlock:
		p := rec.Packet
		return fmt.Sprintf("interface %d, at %s, %d/%d bytes, %s", p.Interface, p.Timestamp.Format(time.RFC3339Nano), p.CapturedLen, p.Len, flowText(p.Summary))

	case *pcapng.RawBlock:
		return fmt.Sprintf("not decoded, %d bytes payload", len(b.Data))
	}
	return ""
}

// flowText prints the protocol and the endpoints of a packet.
func flowText(s capture.Summary) string {
	if s.Src == "" {
		return strings.Join(s.Layers, "/")
	}
	src, dst := s.Src, s.Dst
	if s.SrcPort != 0 || s.DstPort != 0 {
		src = fmt.Sprintf("%s:%d", s.Src, s.SrcPort)
		dst = fmt.Sprintf("%s:%d", s.Dst, s.DstPort)
	}
	return fmt.Sprintf("%s %s > %s", s.Protocol, src, dst)
}
