package pcapng

import (
	"encoding/binary"
)

func le16(v uint16) []byte { return binary.LittleEndian.AppendUint16(nil, v) }
func le32(v uint32) []byte { return binary.LittleEndian.AppendUint32(nil, v) }
func le64(v uint64) []byte { return binary.LittleEndian.AppendUint64(nil, v) }

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// opt encodes one option record with its padding.
func opt(code uint16, value []byte) []byte {
	out := concat(le16(code), le16(uint16(len(value))), value)
	for len(out)%4 != 0 {
		out = append(out, 0)
	}
	return out
}

func endOfOpt() []byte { return opt(OptionCodeEnd, nil) }

// block wraps a payload into a block envelope, padding it to 32 bits.
func block(bt BlockType, payload []byte) []byte {
	padded := append([]byte(nil), payload...)
	for len(padded)%4 != 0 {
		padded = append(padded, 0)
	}
	total := uint32(blockOverhead + len(padded))
	return concat(le32(uint32(bt)), le32(total), padded, le32(total))
}

func shbPayload(magic uint32, options ...[]byte) []byte {
	return concat(le32(magic), le16(1), le16(0), le64(SectionLengthUnspecified), concat(options...))
}

func idbPayload(linkType uint16, snapLen uint32, options ...[]byte) []byte {
	return concat(le16(linkType), le16(0), le32(snapLen), concat(options...))
}

func epbPayload(interfaceID uint32, ts uint64, data []byte, options ...[]byte) []byte {
	padded := append([]byte(nil), data...)
	for len(padded)%4 != 0 {
		padded = append(padded, 0)
	}
	return concat(le32(interfaceID), le32(uint32(ts>>32)), le32(uint32(ts)),
		le32(uint32(len(data))), le32(uint32(len(data))), padded, concat(options...))
}
