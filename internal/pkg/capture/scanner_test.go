package capture

import (
	"io"
	"time"

	"github.com/gopacket/gopacket/layers"
	"github.com/netobserv/pcapng-reader/internal/pkg/metrics"
	"github.com/netobserv/pcapng-reader/internal/pkg/pcapng"
	g "github.com/onsi/ginkgo/v2"
	o "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func readAll(s *Scanner) ([]*Record, error) {
	var records []*Record
	for {
		rec, err := s.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

var _ = g.Describe("Scanner", func() {
	var (
		start  time.Time
		logger *logrus.Logger
		hook   *test.Hook
	)

	g.BeforeEach(func() {
		start = time.Date(2024, 3, 1, 12, 30, 0, 250000000, time.UTC)
		logger, hook = test.NewNullLogger()
		logger.SetLevel(logrus.DebugLevel)
	})

	g.Context("reading a pcapgo capture", func() {
		g.It("resolves packets against their interface", func() {
			m := metrics.New()
			buf := writeCapture(start, udpFrame("query one"), udpFrame("query two"))
			s := NewScanner(buf, Options{Logger: logger, Metrics: m})

			records, err := readAll(s)
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(records).To(o.HaveLen(4))

			o.Expect(records[0].Block).To(o.BeAssignableToTypeOf(&pcapng.SectionHeaderBlock{}))
			o.Expect(records[0].Section).To(o.Equal(1))
			o.Expect(records[0].Offset).To(o.Equal(int64(0)))

			o.Expect(records[1].Interface).NotTo(o.BeNil())
			o.Expect(records[1].Interface.ID).To(o.Equal(0))
			o.Expect(records[1].Interface.LinkType).To(o.Equal(layers.LinkTypeEthernet))
			o.Expect(records[1].Offset).To(o.Equal(int64(records[0].Length)))

			for i, rec := range records[2:] {
				o.Expect(rec.Packet).NotTo(o.BeNil())
				o.Expect(rec.Index).To(o.Equal(i + 2))
				o.Expect(rec.Packet.Interface).To(o.Equal(0))
				o.Expect(rec.Packet.Timestamp).To(o.BeTemporally("==", start.Add(time.Duration(i)*time.Second)))
				o.Expect(rec.Packet.Summary.Protocol).To(o.Equal("UDP"))
				o.Expect(rec.Packet.Summary.Src).To(o.Equal("10.0.0.1"))
				o.Expect(rec.Packet.Summary.Dst).To(o.Equal("10.0.0.2"))
				o.Expect(rec.Packet.Summary.SrcPort).To(o.Equal(uint16(12345)))
				o.Expect(rec.Packet.Summary.DstPort).To(o.Equal(uint16(53)))
				o.Expect(rec.Packet.Summary.Layers).To(o.ContainElements("Ethernet", "IPv4", "UDP"))
			}

			iface := s.Interfaces()[0]
			o.Expect(iface.Packets).To(o.Equal(2))
			o.Expect(iface.Bytes).To(o.Equal(uint64(records[2].Packet.CapturedLen + records[3].Packet.CapturedLen)))

			series, err := testutil.GatherAndCount(m.Registry(), "pcapng_blocks_total", "pcapng_packets_total")
			o.Expect(err).NotTo(o.HaveOccurred())
			// three block types and one interface
			o.Expect(series).To(o.Equal(4))
		})

		g.It("logs every block at debug level", func() {
			buf := writeCapture(start, udpFrame("x"))
			_, err := readAll(NewScanner(buf, Options{Logger: logger}))
			o.Expect(err).NotTo(o.HaveOccurred())

			var blocks int
			for _, e := range hook.AllEntries() {
				if e.Message == "block read" {
					blocks++
					o.Expect(e.Data).To(o.HaveKeyWithValue("component", "capture"))
				}
			}
			o.Expect(blocks).To(o.Equal(3))
		})

		g.It("can skip packet summaries", func() {
			buf := writeCapture(start, udpFrame("x"))
			records, err := readAll(NewScanner(buf, Options{Logger: logger, SkipSummary: true}))
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(records[2].Packet.Summary.Layers).To(o.BeEmpty())
		})
	})

	g.Context("session state", func() {
		g.It("requires a section header first", func() {
			s := NewScanner(stream(idb(layers.LinkTypeEthernet)), Options{Logger: logger})
			rec, err := s.Next()
			o.Expect(rec).To(o.BeNil())
			o.Expect(err).To(o.MatchError(ErrNoSection))
		})

		g.It("rejects packets of undeclared interfaces", func() {
			m := metrics.New()
			s := NewScanner(stream(
				shb(),
				idb(layers.LinkTypeEthernet),
				epb(1, 0, []byte{1, 2, 3}),
			), Options{Logger: logger, Metrics: m})

			records, err := readAll(s)
			o.Expect(records).To(o.HaveLen(2))
			o.Expect(err).To(o.MatchError(ErrUnknownInterface))
			o.Expect(err.Error()).To(o.ContainSubstring("1 declared"))

			// the error is sticky
			_, again := s.Next()
			o.Expect(again).To(o.Equal(err))
		})

		g.It("resets interfaces on a new section", func() {
			s := NewScanner(stream(
				shb(),
				idb(layers.LinkTypeEthernet),
				idb(layers.LinkTypeRaw),
				shb(),
				idb(layers.LinkTypeLinuxSLL),
				epb(0, 0, []byte{}),
			), Options{Logger: logger, SkipSummary: true})

			records, err := readAll(s)
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(records).To(o.HaveLen(6))
			o.Expect(records[2].Interface.ID).To(o.Equal(1))
			o.Expect(records[4].Section).To(o.Equal(2))
			o.Expect(records[4].Interface.ID).To(o.Equal(0))
			o.Expect(records[5].Interface.LinkType).To(o.Equal(layers.LinkTypeLinuxSLL))
			o.Expect(s.Interfaces()).To(o.HaveLen(1))
		})

		g.It("attaches statistics to their interface", func() {
			s := NewScanner(stream(
				shb(),
				idb(layers.LinkTypeEthernet, opt(pcapng.OptionCodeIfName, []byte("eth0"))),
				isb(0, opt(pcapng.OptionCodeIsbIfRecv, le64(10)), opt(pcapng.OptionCodeIsbIfDrop, le64(1))),
			), Options{Logger: logger})

			records, err := readAll(s)
			o.Expect(err).NotTo(o.HaveOccurred())
			iface := records[2].Interface
			o.Expect(iface.Name).To(o.Equal("eth0"))
			o.Expect(iface.Stats).NotTo(o.BeNil())
			o.Expect(iface.Stats.Options).To(o.ConsistOf(pcapng.IsbIfRecv(10), pcapng.IsbIfDrop(1)))
		})

		g.It("applies resolution, offset and flags of the interface", func() {
			s := NewScanner(stream(
				shb(),
				idb(layers.LinkTypeEthernet,
					opt(pcapng.OptionCodeIfTsResolution, []byte{9}),
					opt(pcapng.OptionCodeIfTsOffset, le64(100)),
				),
				epb(0, 1500000000, []byte{0xFF}, opt(pcapng.OptionCodeEpbFlags, le32(2)), opt(pcapng.OptionCodeComment, []byte("late"))),
			), Options{Logger: logger, SkipSummary: true})

			records, err := readAll(s)
			o.Expect(err).NotTo(o.HaveOccurred())
			p := records[2].Packet
			o.Expect(p.Timestamp).To(o.BeTemporally("==", time.Unix(101, 500000000)))
			o.Expect(p.Direction).To(o.Equal(pcapng.DirectionOutbound))
			o.Expect(p.Comments).To(o.Equal([]string{"late"}))
		})
	})

	g.Context("decoding errors", func() {
		g.It("surfaces framing errors and counts them", func() {
			m := metrics.New()
			corrupt := epb(0, 0, []byte{1, 2, 3, 4})
			corrupt[len(corrupt)-4] = 0
			s := NewScanner(stream(shb(), idb(layers.LinkTypeEthernet), corrupt), Options{Logger: logger, Metrics: m})

			records, err := readAll(s)
			o.Expect(records).To(o.HaveLen(2))
			o.Expect(err).To(o.MatchError(pcapng.ErrFraming))
			o.Expect(err.Error()).To(o.ContainSubstring("block 2 at offset"))
			o.Expect(pcapng.KindOf(err)).To(o.Equal(pcapng.KindFraming))

			series, err := testutil.GatherAndCount(m.Registry(), "pcapng_decode_errors_total")
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(series).To(o.Equal(1))
		})

		g.It("honors the unknown option policy of its decoder", func() {
			input := func() io.Reader {
				return stream(shb(), idb(layers.LinkTypeEthernet, opt(99, []byte("vendor"))))
			}

			_, err := readAll(NewScanner(input(), Options{Logger: logger}))
			o.Expect(err).To(o.MatchError(pcapng.ErrUnknownOption))

			d := pcapng.NewDecoder()
			d.UnknownOptions = pcapng.KeepUnknownOption
			records, err := readAll(NewScanner(input(), Options{Logger: logger, Decoder: d}))
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(records[1].Interface.Description.Options).To(o.ContainElement(pcapng.Unrecognized{Code: 99, Value: []byte("vendor")}))
		})
	})
})

var _ = g.DescribeTable("Timestamp",
	func(ts uint64, res pcapng.IfTsResolution, offset int64, want time.Time) {
		got, err := Timestamp(ts, res, offset)
		o.Expect(err).NotTo(o.HaveOccurred())
		o.Expect(got).To(o.BeTemporally("==", want))
		o.Expect(got.Location()).To(o.Equal(time.UTC))
	},
	g.Entry("microseconds by default", uint64(1709296200123456), pcapng.DefaultTsResolution, int64(0), time.Unix(1709296200, 123456000).UTC()),
	g.Entry("nanoseconds", uint64(1709296200123456789), pcapng.IfTsResolution(9), int64(0), time.Unix(1709296200, 123456789).UTC()),
	g.Entry("seconds", uint64(1709296200), pcapng.IfTsResolution(0), int64(0), time.Unix(1709296200, 0).UTC()),
	g.Entry("power of two", uint64(3*1024+512), pcapng.IfTsResolution(0x8A), int64(0), time.Unix(3, 500000000).UTC()),
	g.Entry("with offset", uint64(1500000), pcapng.DefaultTsResolution, int64(-1), time.Unix(0, 500000000).UTC()),
)

var _ = g.Describe("Timestamp errors", func() {
	g.It("rejects resolutions beyond 64 bits", func() {
		_, err := Timestamp(1, pcapng.IfTsResolution(20), 0)
		o.Expect(err).To(o.MatchError(ErrUnsupportedResolution))
		_, err = Timestamp(1, pcapng.IfTsResolution(0xC0), 0)
		o.Expect(err).To(o.MatchError(ErrUnsupportedResolution))
	})
})
