package cmd

import (
	"strconv"
	"strings"

	"github.com/jpillora/sizestr"
	"github.com/netobserv/pcapng-reader/internal/pkg/capture"
)

const emptyText = "n/a"

func toPort(port uint16) interface{} {
	if port == 0 {
		return emptyText
	}
	return port
}

func toText(s string) interface{} {
	if s == "" {
		return emptyText
	}
	return s
}

func toColName(id string) string {
	if c := columnConfig(id); c != nil {
		return c.Name
	}
	return id
}

// ToTableRow returns the values of cols for the packet of rec.
func ToTableRow(rec *capture.Record, cols []string) []interface{} {
	p := rec.Packet
	row := []interface{}{}

	for _, col := range cols {
		switch col {
		case "Index":
			row = append(row, rec.Index)
		case "Time":
			row = append(row, p.Timestamp.Format(cfg.Packets.TimeFormat))
		case "Interface":
			name := strconv.Itoa(p.Interface)
			if rec.Interface != nil && rec.Interface.Name != "" {
				name = rec.Interface.Name
			}
			row = append(row, name)
		case "Proto":
			row = append(row, toText(p.Summary.Protocol))
		case "Src":
			row = append(row, toText(p.Summary.Src))
		case "Dst":
			row = append(row, toText(p.Summary.Dst))
		case "SrcPort":
			row = append(row, toPort(p.Summary.SrcPort))
		case "DstPort":
			row = append(row, toPort(p.Summary.DstPort))
		case "CapLen":
			row = append(row, sizestr.ToString(int64(p.CapturedLen)))
		case "Len":
			row = append(row, sizestr.ToString(int64(p.Len)))
		case "Direction":
			row = append(row, p.Direction.String())
		case "Layers":
			row = append(row, toText(strings.Join(p.Summary.Layers, "/")))
		case "Comments":
			row = append(row, toText(strings.Join(p.Comments, " | ")))
		default:
			row = append(row, emptyText)
		}
	}

	return row
}
