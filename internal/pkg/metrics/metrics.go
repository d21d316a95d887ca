package metrics

import (
	"io"
	"strconv"

	"github.com/netobserv/pcapng-reader/internal/pkg/pcapng"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "pcapng"

// Metrics counts what a capture stream is made of. Every method is a no-op on
// a nil *Metrics so callers can leave metrics disabled.
type Metrics struct {
	registry    *prometheus.Registry
	blocks      *prometheus.CounterVec
	blockBytes  prometheus.Counter
	options     *prometheus.CounterVec
	errors      *prometheus.CounterVec
	packets     *prometheus.CounterVec
	packetBytes *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		blocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_total",
			Help:      "Number of blocks read, by block type",
		}, []string{"type"}),
		blockBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "block_bytes_total",
			Help:      "Number of bytes framed into blocks",
		}),
		options: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "options_total",
			Help:      "Number of options decoded, by block type and kind (known or unrecognized)",
		}, []string{"type", "kind"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "Number of decoding errors, by error kind",
		}, []string{"kind"}),
		packets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_total",
			Help:      "Number of enhanced packets, by interface",
		}, []string{"interface"}),
		packetBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packet_bytes_total",
			Help:      "Number of captured packet bytes, by interface",
		}, []string{"interface"}),
	}
	m.registry.MustRegister(m.blocks, m.blockBytes, m.options, m.errors, m.packets, m.packetBytes)
	return m
}

// Registry exposes the private registry, e.g. to serve it over HTTP.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) BlockRead(bt pcapng.BlockType, totalLength uint32) {
	if m == nil {
		return
	}
	m.blocks.WithLabelValues(bt.String()).Inc()
	m.blockBytes.Add(float64(totalLength))
}

// OptionsRead counts the options of a decoded block.
func (m *Metrics) OptionsRead(bt pcapng.BlockType, opts []pcapng.Option) {
	if m == nil {
		return
	}
	for _, o := range opts {
		kind := "known"
		if _, ok := o.(pcapng.Unrecognized); ok {
			kind = "unrecognized"
		}
		m.options.WithLabelValues(bt.String(), kind).Inc()
	}
}

// DecodeError counts err under its pcapng error kind, "other" when it does not come from the decoder.
func (m *Metrics) DecodeError(err error) {
	if m == nil || err == nil {
		return
	}
	kind := "other"
	if k := pcapng.KindOf(err); k != 0 {
		kind = k.String()
	}
	m.errors.WithLabelValues(kind).Inc()
}

func (m *Metrics) PacketRead(iface int, capturedLen int) {
	if m == nil {
		return
	}
	id := strconv.Itoa(iface)
	m.packets.WithLabelValues(id).Inc()
	m.packetBytes.WithLabelValues(id).Add(float64(capturedLen))
}

// Write renders every metric in the prometheus text exposition format.
func (m *Metrics) Write(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
