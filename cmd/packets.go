package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/jpillora/sizestr"
	"github.com/netobserv/pcapng-reader/internal/pkg/capture"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

var (
	packetColumns []string

	packetsCmd = &cobra.Command{
		Use:   "packets FILE",
		Short: "Print the packets of a capture as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runPackets(args[0])
		},
	}
)

func init() {
	packetsCmd.Flags().StringSliceVarP(&packetColumns, "columns", "c", nil, "Column ids to display, defaults to the configured ones")
}

func newTable(headers ...interface{}) table.Table {
	headerFmt := color.New(color.BgHiBlue, color.Bold).SprintfFunc()
	columnFmt := color.New(color.FgHiYellow).SprintfFunc()
	tbl := table.New(headers...).WithWriter(out())
	tbl.WithHeaderFormatter(headerFmt).WithFirstColumnFormatter(columnFmt).WithPadding(2)
	return tbl
}

func runPackets(path string) error {
	cols := packetColumns
	if len(cols) == 0 {
		cols = defaultColumns()
	}
	headers := make([]interface{}, len(cols))
	for i, id := range cols {
		headers[i] = toColName(id)
	}
	tbl := newTable(headers...)

	var packetCount, byteCount int64
	err := scanFile(path, nil, false, func(rec *capture.Record) error {
		if rec.Packet == nil {
			return nil
		}
		tbl.AddRow(ToTableRow(rec, cols)...)
		packetCount++
		byteCount += int64(rec.Packet.CapturedLen)
		return nil
	})

	// print what could be read even when the capture is corrupted
	tbl.Print()
	fmt.Fprintf(out(), "%d packets, %s\n", packetCount, sizestr.ToString(byteCount))
	return err
}
