package capture

import (
	"fmt"
	"io"

	"github.com/netobserv/pcapng-reader/internal/pkg/metrics"
	"github.com/netobserv/pcapng-reader/internal/pkg/pcapng"
	"github.com/sirupsen/logrus"
)

type Options struct {
	// Decoder defaults to pcapng.NewDecoder()
	Decoder *pcapng.Decoder
	// Logger defaults to the logrus standard logger
	Logger  logrus.FieldLogger
	Metrics *metrics.Metrics
	// SkipSummary leaves Packet.Summary empty, packets are not decoded with gopacket
	SkipSummary bool
}

// Scanner walks a pcapng stream and keeps track of its sections and interfaces.
// The first error stops the scan, later calls to Next return it again.
type Scanner struct {
	reader  *pcapng.BlockReader
	decoder *pcapng.Decoder
	opts    Options
	log     logrus.FieldLogger

	section    *pcapng.SectionHeaderBlock
	sections   int
	interfaces []*Interface
	index      int
	err        error
}

func NewScanner(r io.Reader, opts Options) *Scanner {
	if opts.Decoder == nil {
		opts.Decoder = pcapng.NewDecoder()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Scanner{
		reader:  pcapng.NewBlockReader(r, opts.Decoder),
		decoder: opts.Decoder,
		opts:    opts,
		log:     opts.Logger.WithField("component", "capture"),
	}
}

// Section returns the header of the current section, nil before the first one.
func (s *Scanner) Section() *pcapng.SectionHeaderBlock {
	return s.section
}

// Interfaces returns the interfaces declared so far in the current section, indexed by id.
func (s *Scanner) Interfaces() []*Interface {
	return s.interfaces
}

// Next reads the next block. It returns io.EOF once the stream ends on a block boundary.
func (s *Scanner) Next() (*Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	rec, err := s.next()
	if err != nil {
		s.err = err
		if err != io.EOF {
			s.opts.Metrics.DecodeError(err)
			s.log.WithError(err).WithField("index", s.index).Debug("scan stopped")
		}
		return nil, err
	}
	s.index++
	return rec, nil
}

func (s *Scanner) next() (*Record, error) {
	offset := s.reader.Offset()
	raw, err := s.reader.NextRaw()
	if err != nil {
		if err == io.EOF {
			return nil, err
		}
		return nil, fmt.Errorf("block %d at offset %d: %w", s.index, offset, err)
	}
	s.opts.Metrics.BlockRead(raw.Type, raw.TotalLength())

	b, err := s.decoder.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("block %d at offset %d: %w", s.index, offset, err)
	}
	s.opts.Metrics.OptionsRead(raw.Type, pcapng.OptionsOf(b))

	rec := &Record{
		Index:   s.index,
		Offset:  offset,
		Length:  raw.TotalLength(),
		Section: s.sections,
		Block:   b,
	}
	s.log.WithFields(logrus.Fields{
		"index":  rec.Index,
		"offset": rec.Offset,
		"type":   raw.Type.String(),
		"length": rec.Length,
	}).Debug("block read")

	if shb, ok := b.(*pcapng.SectionHeaderBlock); ok {
		s.section = shb
		s.sections++
		s.interfaces = nil
		rec.Section = s.sections
		return rec, nil
	}
	if s.section == nil {
		return nil, fmt.Errorf("block %d (%s) at offset %d: %w", s.index, raw.Type, offset, ErrNoSection)
	}

	switch b := b.(type) {
	case *pcapng.InterfaceDescriptionBlock:
		iface := newInterface(len(s.interfaces), b)
		s.interfaces = append(s.interfaces, iface)
		rec.Interface = iface
		s.log.WithFields(logrus.Fields{
			"id":       iface.ID,
			"name":     iface.Name,
			"linktype": iface.LinkType.String(),
		}).Debug("interface declared")

	case *pcapng.InterfaceStatisticsBlock:
		iface, err := s.lookup(b.InterfaceID, raw.Type, offset)
		if err != nil {
			return nil, err
		}
		iface.Stats = b
		rec.Interface = iface

	case *pcapng.EnhancedPacketBlock:
		iface, err := s.lookup(b.InterfaceID, raw.Type, offset)
		if err != nil {
			return nil, err
		}
		ts, err := iface.Timestamp(b.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("block %d at offset %d: %w", s.index, offset, err)
		}
		p := &Packet{
			Interface:   iface.ID,
			Timestamp:   ts,
			CapturedLen: b.CapturedLen,
			Len:         b.Len,
			Data:        b.Data,
			Comments:    b.Comments(),
		}
		for _, o := range b.Options {
			if flags, ok := o.(pcapng.EpbFlags); ok {
				p.Direction = flags.Direction()
			}
		}
		if !s.opts.SkipSummary {
			p.Summary = Summarize(b.Data, iface.LinkType)
		}
		iface.Packets++
		iface.Bytes += uint64(b.CapturedLen)
		s.opts.Metrics.PacketRead(iface.ID, len(b.Data))
		rec.Interface = iface
		rec.Packet = p
	}
	return rec, nil
}

func (s *Scanner) lookup(id uint32, bt pcapng.BlockType, offset int64) (*Interface, error) {
	if int64(id) >= int64(len(s.interfaces)) {
		return nil, fmt.Errorf("block %d (%s) at offset %d: %w %d, %d declared",
			s.index, bt, offset, ErrUnknownInterface, id, len(s.interfaces))
	}
	return s.interfaces[id], nil
}
