package capture

import (
	"bytes"
	"encoding/binary"
	"time"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/gopacket/gopacket/pcapgo"
	"github.com/netobserv/pcapng-reader/internal/pkg/pcapng"
	o "github.com/onsi/gomega"
)

func udpFrame(payload string) []byte {
	eth := &layers.Ethernet{
		SrcMAC:       []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		DstMAC:       []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF},
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    []byte{10, 0, 0, 1},
		DstIP:    []byte{10, 0, 0, 2},
	}
	udp := &layers.UDP{
		SrcPort: 12345,
		DstPort: 53,
	}
	o.Expect(udp.SetNetworkLayerForChecksum(ip)).To(o.Succeed())

	buffer := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{
		FixLengths:       true,
		ComputeChecksums: true,
	}
	err := gopacket.SerializeLayers(buffer, opts, eth, ip, udp, gopacket.Payload(payload))
	o.Expect(err).NotTo(o.HaveOccurred())
	return buffer.Bytes()
}

// writeCapture writes frames with pcapgo, one second apart starting at start.
func writeCapture(start time.Time, frames ...[]byte) *bytes.Buffer {
	var buf bytes.Buffer
	w, err := pcapgo.NewNgWriter(&buf, layers.LinkTypeEthernet)
	o.Expect(err).NotTo(o.HaveOccurred())
	for i, f := range frames {
		err = w.WritePacket(gopacket.CaptureInfo{
			Timestamp:     start.Add(time.Duration(i) * time.Second),
			Length:        len(f),
			CaptureLength: len(f),
		}, f)
		o.Expect(err).NotTo(o.HaveOccurred())
	}
	o.Expect(w.Flush()).To(o.Succeed())
	return &buf
}

// hand-built blocks, for streams pcapgo would refuse to write

func le16(v uint16) []byte { return binary.LittleEndian.AppendUint16(nil, v) }
func le32(v uint32) []byte { return binary.LittleEndian.AppendUint32(nil, v) }
func le64(v uint64) []byte { return binary.LittleEndian.AppendUint64(nil, v) }

func pad(b []byte) []byte {
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}

func opt(code uint16, value []byte) []byte {
	return pad(append(append(le16(code), le16(uint16(len(value)))...), value...))
}

func block(bt pcapng.BlockType, parts ...[]byte) []byte {
	var payload []byte
	for _, p := range parts {
		payload = append(payload, p...)
	}
	payload = pad(payload)
	total := uint32(12 + len(payload))
	out := append(le32(uint32(bt)), le32(total)...)
	out = append(out, payload...)
	return append(out, le32(total)...)
}

func shb() []byte {
	return block(pcapng.BlockTypeSectionHeader, le32(pcapng.ByteOrderMagic), le16(1), le16(0), le64(pcapng.SectionLengthUnspecified))
}

func idb(linkType layers.LinkType, options ...[]byte) []byte {
	parts := [][]byte{le16(uint16(linkType)), le16(0), le32(0)}
	parts = append(parts, options...)
	if len(options) > 0 {
		parts = append(parts, opt(pcapng.OptionCodeEnd, nil))
	}
	return block(pcapng.BlockTypeInterfaceDescription, parts...)
}

func epb(iface uint32, ts uint64, data []byte, options ...[]byte) []byte {
	parts := [][]byte{le32(iface), le32(uint32(ts >> 32)), le32(uint32(ts)), le32(uint32(len(data))), le32(uint32(len(data))), pad(append([]byte(nil), data...))}
	parts = append(parts, options...)
	return block(pcapng.BlockTypeEnhancedPacket, parts...)
}

func isb(iface uint32, options ...[]byte) []byte {
	parts := [][]byte{le32(iface), le32(0), le32(0)}
	parts = append(parts, options...)
	return block(pcapng.BlockTypeInterfaceStatistics, parts...)
}

func stream(blocks ...[]byte) *bytes.Reader {
	var out []byte
	for _, b := range blocks {
		out = append(out, b...)
	}
	return bytes.NewReader(out)
}
