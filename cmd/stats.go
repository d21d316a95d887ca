package cmd

import (
	"fmt"

	"github.com/gopacket/gopacket/layers"
	"github.com/jpillora/sizestr"
	"github.com/netobserv/pcapng-reader/internal/pkg/capture"
	"github.com/netobserv/pcapng-reader/internal/pkg/metrics"
	"github.com/netobserv/pcapng-reader/internal/pkg/pcapng"
	"github.com/spf13/cobra"
)

var (
	statsFormat string

	statsCmd = &cobra.Command{
		Use:   "stats FILE",
		Short: "Count blocks, packets and bytes of a capture",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runStats(args[0], statsFormat)
		},
	}
)

func init() {
	statsCmd.Flags().StringVarP(&statsFormat, "format", "f", "text", "Output format: text or prom")
}

type interfaceStats struct {
	section  int
	id       int
	name     string
	linkType layers.LinkType
	packets  int
	bytes    uint64
	received string
	dropped  string
}

type captureStats struct {
	blockTypes []pcapng.BlockType
	blocks     map[pcapng.BlockType]int
	interfaces []*interfaceStats
	sections   int
	bytes      int64
}

func (s *captureStats) add(rec *capture.Record) {
	bt := rec.Block.BlockType()
	if _, ok := s.blocks[bt]; !ok {
		s.blockTypes = append(s.blockTypes, bt)
	}
	s.blocks[bt]++
	s.bytes += int64(rec.Length)
	s.sections = rec.Section

	if rec.Interface == nil {
		return
	}
	var is *interfaceStats
	for _, candidate := range s.interfaces {
		if candidate.section == rec.Section && candidate.id == rec.Interface.ID {
			is = candidate
		}
	}
	if is == nil {
		is = &interfaceStats{
			section:  rec.Section,
			id:       rec.Interface.ID,
			name:     rec.Interface.Name,
			linkType: rec.Interface.LinkType,
			received: emptyText,
			dropped:  emptyText,
		}
		s.interfaces = append(s.interfaces, is)
	}
	is.packets = rec.Interface.Packets
	is.bytes = rec.Interface.Bytes
	if isb, ok := rec.Block.(*pcapng.InterfaceStatisticsBlock); ok {
		for _, o := range isb.Options {
			switch v := o.(type) {
			case pcapng.IsbIfRecv:
				is.received = fmt.Sprint(uint64(v))
			case pcapng.IsbIfDrop:
				is.dropped = fmt.Sprint(uint64(v))
			}
		}
	}
}

func runStats(path, format string) error {
	if format != "text" && format != "prom" {
		return fmt.Errorf("unknown format %q, expected text or prom", format)
	}

	m := metrics.New()
	stats := &captureStats{blocks: map[pcapng.BlockType]int{}}
	err := scanFile(path, m, true, func(rec *capture.Record) error {
		stats.add(rec)
		return nil
	})

	if format == "prom" {
		if werr := m.Write(out()); werr != nil {
			return werr
		}
		return err
	}

	blocks := newTable("Block type", "Count")
	for _, bt := range stats.blockTypes {
		blocks.AddRow(bt.String(), stats.blocks[bt])
	}
	blocks.Print()
	fmt.Fprintln(out())

	interfaces := newTable("Section", "Interface", "Name", "Link type", "Packets", "Bytes", "Received", "Dropped")
	for _, is := range stats.interfaces {
		interfaces.AddRow(is.section, is.id, toText(is.name), is.linkType.String(), is.packets, sizestr.ToString(int64(is.bytes)), is.received, is.dropped)
	}
	interfaces.Print()
	fmt.Fprintln(out())

	fmt.Fprintf(out(), "%d sections, %d interfaces, %s read\n", stats.sections, len(stats.interfaces), sizestr.ToString(stats.bytes))
	return err
}
