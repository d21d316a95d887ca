package capture

import (
	"errors"
	"time"

	"github.com/gopacket/gopacket/layers"
	"github.com/netobserv/pcapng-reader/internal/pkg/pcapng"
)

var (
	// ErrNoSection is returned when a block shows up before any section header
	ErrNoSection = errors.New("block outside of a section")
	// ErrUnknownInterface is returned for packets and statistics referencing an undeclared interface
	ErrUnknownInterface = errors.New("unknown interface")
	// ErrUnsupportedResolution is returned for timestamps that cannot be converted to time.Time
	ErrUnsupportedResolution = errors.New("unsupported timestamp resolution")
)

// Interface is a capture interface declared in the current section.
type Interface struct {
	ID         int
	Name       string
	LinkType   layers.LinkType
	SnapLen    uint32
	Resolution pcapng.IfTsResolution
	// TsOffset is added to every timestamp, in seconds
	TsOffset    int64
	Description *pcapng.InterfaceDescriptionBlock
	// Stats is the last statistics block seen for the interface, nil until then
	Stats *pcapng.InterfaceStatisticsBlock

	Packets int
	Bytes   uint64
}

func newInterface(id int, idb *pcapng.InterfaceDescriptionBlock) *Interface {
	return &Interface{
		ID:          id,
		Name:        idb.Name(),
		LinkType:    layers.LinkType(idb.LinkType),
		SnapLen:     idb.SnapLen,
		Resolution:  idb.TsResolution(),
		TsOffset:    idb.TsOffset(),
		Description: idb,
	}
}

// Packet is an enhanced packet block resolved against its interface.
type Packet struct {
	Interface   int
	Timestamp   time.Time
	CapturedLen uint32
	Len         uint32
	Data        []byte
	Comments    []string
	Direction   pcapng.PacketDirection
	Summary     Summary
}

// Record is one block of the stream along with the session state it was read in.
type Record struct {
	// Index is the position of the block in the stream, starting at 0
	Index int
	// Offset is the position of the first byte of the block in the stream
	Offset int64
	// Length is the number of bytes the block occupies in the stream
	Length uint32
	// Section counts section headers, starting at 1
	Section int
	Block   pcapng.Block

	// Interface is set for interface description, statistics and packet blocks
	Interface *Interface
	// Packet is set for enhanced packet blocks
	Packet *Packet
}
