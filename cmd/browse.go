package cmd

import (
	"fmt"
	"strings"
	"time"

	hexview "github.com/jmhobbs/tview-hexview"
	"github.com/jpillora/sizestr"
	"github.com/navidys/tvxwidgets"
	"github.com/netobserv/pcapng-reader/internal/pkg/capture"
	"github.com/netobserv/pcapng-reader/internal/pkg/pcapng"
	"github.com/spf13/cobra"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

var browseCmd = &cobra.Command{
	Use:   "browse FILE",
	Short: "Browse the blocks of a capture in a terminal UI",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		records, err := loadRecords(args[0])
		if err != nil {
			if len(records) == 0 {
				return err
			}
			log.Warnf("Showing the %d blocks read before the error: %v", len(records), err)
		}
		return newBrowser(args[0], records).run()
	},
}

var browseColumns = []string{"Index", "Offset", "Type", "Size", "Summary"}

// loadRecords reads the capture at path, returning the records read before any error.
func loadRecords(path string) ([]*capture.Record, error) {
	var records []*capture.Record
	err := scanFile(path, nil, false, func(rec *capture.Record) error {
		records = append(records, rec)
		return nil
	})
	return records, err
}

// blockDetails lists the fields and options of a block, one per line.
func blockDetails(rec *capture.Record) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Block #%d: %s\n", rec.Index, rec.Block.BlockType())
	fmt.Fprintf(&sb, "Offset: %d\n", rec.Offset)
	fmt.Fprintf(&sb, "Length: %d\n", rec.Length)
	fmt.Fprintf(&sb, "Section: %d\n", rec.Section)
	if summary := blockSummary(rec); summary != "" {
		fmt.Fprintf(&sb, "%s\n", summary)
	}
	if rec.Packet != nil && len(rec.Packet.Summary.Layers) > 0 {
		fmt.Fprintf(&sb, "Layers: %s\n", strings.Join(rec.Packet.Summary.Layers, "/"))
	}

	options := pcapng.OptionsOf(rec.Block)
	if len(options) > 0 {
		sb.WriteString("\nOptions:\n")
	}
	for _, o := range options {
		name, value := capture.DescribeOption(o)
		fmt.Fprintf(&sb, "  %s: %s\n", name, value)
	}
	return sb.String()
}

// payloadOf returns the bytes shown in the hex viewer, at most limit of them when limit is positive.
func payloadOf(rec *capture.Record, limit int) []byte {
	var data []byte
	switch b := rec.Block.(type) {
	case *pcapng.EnhancedPacketBlock:
		data = b.Data
	case *pcapng.RawBlock:
		data = b.Data
	}
	if limit > 0 && len(data) > limit {
		data = data[:limit]
	}
	return data
}

func browseCell(rec *capture.Record, col string) string {
	switch col {
	case "Index":
		return fmt.Sprint(rec.Index)
	case "Offset":
		return fmt.Sprint(rec.Offset)
	case "Type":
		return rec.Block.BlockType().String()
	case "Size":
		return sizestr.ToString(int64(rec.Length))
	case "Summary":
		return blockSummary(rec)
	}
	return emptyText
}

// maxTrafficPoints bounds the plot width, the step doubles until the capture fits
const maxTrafficPoints = 600

// trafficSeries counts packets per step from the earliest packet.
type trafficSeries struct {
	start   time.Time
	step    time.Duration
	packets []float64
}

func newTrafficSeries(records []*capture.Record) trafficSeries {
	series := trafficSeries{step: time.Second}
	var first, last time.Time
	for _, rec := range records {
		if rec.Packet == nil {
			continue
		}
		ts := rec.Packet.Timestamp
		if first.IsZero() || ts.Before(first) {
			first = ts
		}
		if last.IsZero() || ts.After(last) {
			last = ts
		}
	}
	if first.IsZero() {
		return series
	}

	span := last.Sub(first)
	for span/series.step >= maxTrafficPoints {
		series.step *= 2
	}
	series.start = first.Truncate(series.step)
	points := int(last.Sub(series.start)/series.step) + 1
	series.packets = make([]float64, points)
	for _, rec := range records {
		if rec.Packet == nil {
			continue
		}
		i := int(rec.Packet.Timestamp.Sub(series.start) / series.step)
		series.packets[i]++
	}
	return series
}

func getTrafficPlot(series trafficSeries) *tvxwidgets.Plot {
	plot := tvxwidgets.NewPlot()
	plot.SetBorder(true)
	plot.SetTitle(fmt.Sprintf("Packets per %s", series.step))
	plot.SetAxesColor(tcell.ColorWhite)
	plot.SetAxesLabelColor(tcell.ColorWhite)
	plot.SetPlotType(tvxwidgets.PlotTypeLineChart)
	plot.SetMarker(tvxwidgets.PlotMarkerBraille)
	plot.SetLineColor([]tcell.Color{tcell.ColorGreen})
	plot.SetXAxisLabelFunc(func(i int) string {
		return series.start.Add(time.Duration(i) * series.step).Format(cfg.Packets.TimeFormat)
	})
	plot.SetData([][]float64{series.packets})
	return plot
}

type browser struct {
	path    string
	records []*capture.Record

	app     *tview.Application
	table   *tview.Table
	details *tview.TextView
	payload *tview.Flex
	traffic *tvxwidgets.Plot
	focus   []tview.Primitive
	focused int
}

func newBrowser(path string, records []*capture.Record) *browser {
	b := &browser{
		path:    path,
		records: records,
		app:     tview.NewApplication(),
		details: tview.NewTextView(),
		payload: tview.NewFlex(),
	}
	b.details.SetBorder(true).SetTitle("Details")
	b.payload.SetBorder(true).SetTitle("Payload")

	b.table = tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0).
		SetSelectionChangedFunc(func(row, _ int) {
			b.selectRow(row)
		})
	for i, col := range browseColumns {
		b.table.SetCell(0, i, tview.NewTableCell(col).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false))
	}
	for r, rec := range records {
		for i, col := range browseColumns {
			cell := tview.NewTableCell(browseCell(rec, col))
			if col == "Summary" {
				cell.SetExpansion(1)
			}
			b.table.SetCell(r+1, i, cell)
		}
	}
	b.table.SetBorder(true).SetTitle(fmt.Sprintf(" %s: %d blocks ", path, len(records)))
	b.focus = []tview.Primitive{b.table, b.details, b.payload}

	// a single point draws no line
	if series := newTrafficSeries(records); len(series.packets) > 1 {
		b.traffic = getTrafficPlot(series)
		b.focus = append(b.focus, b.traffic)
	}
	return b
}

func (b *browser) selectRow(row int) {
	index := row - 1
	b.payload.Clear()
	if index < 0 || index >= len(b.records) {
		b.details.SetText("")
		return
	}
	rec := b.records[index]
	b.details.SetText(blockDetails(rec)).ScrollToBeginning()
	if data := payloadOf(rec, cfg.Browse.MaxPayload); len(data) > 0 {
		b.payload.AddItem(hexview.NewHexView(data), 0, 1, false)
	}
}

func (b *browser) run() error {
	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(b.table, 0, 2, true).
		AddItem(tview.NewFlex().SetDirection(tview.FlexColumn).
			AddItem(b.details, 0, 1, false).
			AddItem(b.payload, 0, 1, false), 0, 1, false)
	if b.traffic != nil {
		layout.AddItem(b.traffic, 12, 0, false)
	}
	layout.AddItem(tview.NewTextView().SetText("Tab: switch view, Esc: back to blocks, Ctrl-C: quit"), 1, 0, false)

	if len(b.records) > 0 {
		b.table.Select(1, 0)
		b.selectRow(1)
	}

	b.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		//nolint:exhaustive
		switch event.Key() {
		case tcell.KeyCtrlC:
			log.Info("Ctrl-C pressed, exiting program.")
			b.app.Stop()
			return nil
		case tcell.KeyESC:
			b.focused = 0
			b.app.SetFocus(b.table)
			return nil
		case tcell.KeyTab:
			b.focused = (b.focused + 1) % len(b.focus)
			b.app.SetFocus(b.focus[b.focused])
			return nil
		default:
			// nothing to do here
		}
		return event
	})

	return b.app.SetRoot(layout, true).EnableMouse(true).Run()
}
