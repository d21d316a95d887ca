package capture

import (
	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
)

// Summary is what the network and transport layers of a packet tell about it.
type Summary struct {
	Layers   []string
	Protocol string
	Src      string
	Dst      string
	SrcPort  uint16
	DstPort  uint16
	// Error is set when a layer could not be decoded
	Error string
}

// Summarize decodes data as a frame of the given link type.
func Summarize(data []byte, linkType layers.LinkType) Summary {
	packet := gopacket.NewPacket(data, linkType, gopacket.DecodeOptions{Lazy: true, NoCopy: true})

	var s Summary
	for _, l := range packet.Layers() {
		s.Layers = append(s.Layers, l.LayerType().String())
	}
	if fail := packet.ErrorLayer(); fail != nil {
		s.Error = fail.Error().Error()
	}

	if ipv4Layer := packet.Layer(layers.LayerTypeIPv4); ipv4Layer != nil {
		ipv4, _ := ipv4Layer.(*layers.IPv4)
		s.Src = ipv4.SrcIP.String()
		s.Dst = ipv4.DstIP.String()
		s.Protocol = ipv4.Protocol.String()
	}

	if ipv6Layer := packet.Layer(layers.LayerTypeIPv6); ipv6Layer != nil {
		ipv6, _ := ipv6Layer.(*layers.IPv6)
		s.Src = ipv6.SrcIP.String()
		s.Dst = ipv6.DstIP.String()
		s.Protocol = ipv6.NextHeader.String()
	}

	if tcpLayer := packet.Layer(layers.LayerTypeTCP); tcpLayer != nil {
		tcp, _ := tcpLayer.(*layers.TCP)
		s.SrcPort = uint16(tcp.SrcPort)
		s.DstPort = uint16(tcp.DstPort)
		s.Protocol = "TCP"
	}

	if udpLayer := packet.Layer(layers.LayerTypeUDP); udpLayer != nil {
		udp, _ := udpLayer.(*layers.UDP)
		s.SrcPort = uint16(udp.SrcPort)
		s.DstPort = uint16(udp.DstPort)
		s.Protocol = "UDP"
	}

	if packet.Layer(layers.LayerTypeICMPv4) != nil {
		s.Protocol = "ICMPv4"
	}
	if packet.Layer(layers.LayerTypeICMPv6) != nil {
		s.Protocol = "ICMPv6"
	}

	// frames without a network layer, ARP for instance
	if s.Protocol == "" && len(s.Layers) > 1 {
		s.Protocol = s.Layers[len(s.Layers)-1]
	}
	return s
}
