package pcapng

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSectionHeader(t *testing.T) {
	payload := shbPayload(ByteOrderMagic, opt(OptionCodeComment, []byte("test")), endOfOpt())

	shb, err := DecodeSectionHeader(NewBytesSource(payload))
	require.NoError(t, err)
	assert.Equal(t, ByteOrderMagic, shb.Magic)
	assert.Equal(t, uint16(1), shb.MajorVersion)
	assert.Equal(t, uint16(0), shb.MinorVersion)
	assert.Equal(t, "1.0", shb.Version())
	assert.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), shb.SectionLength)
	assert.False(t, shb.SectionLengthKnown())
	assert.Equal(t, []SectionHeaderOption{Comment("test")}, shb.Options)
}

func TestDecodeSectionHeaderFramed(t *testing.T) {
	data := block(BlockTypeSectionHeader, shbPayload(ByteOrderMagic,
		opt(OptionCodeShbHardware, []byte("x86_64")),
		opt(OptionCodeShbOS, []byte("Linux 6.1")),
		opt(OptionCodeShbUserApplication, []byte("pcapng-reader")),
		endOfOpt(),
	))

	raw, err := ReadBlock(bytes.NewReader(data))
	require.NoError(t, err)
	b, err := Decode(raw)
	require.NoError(t, err)

	shb, ok := b.(*SectionHeaderBlock)
	require.True(t, ok)
	assert.Equal(t, BlockTypeSectionHeader, shb.BlockType())
	assert.Equal(t, []SectionHeaderOption{
		ShbHardware("x86_64"),
		ShbOS("Linux 6.1"),
		ShbUserApplication("pcapng-reader"),
	}, shb.Options)
}

func TestDecodeSectionHeaderSwappedMagic(t *testing.T) {
	payload := shbPayload(SwappedByteOrderMagic, opt(OptionCodeComment, []byte("test")), endOfOpt())

	shb, err := DecodeSectionHeader(NewBytesSource(payload))
	assert.Nil(t, shb)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "big endian")
	assert.Equal(t, KindUnsupportedFormat, KindOf(err))

	_, err = DecodeSectionHeader(NewBytesSource(shbPayload(0xDEADBEEF)))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "0xDEADBEEF")
}

func TestDecodeSectionHeaderInvalidText(t *testing.T) {
	payload := shbPayload(ByteOrderMagic, opt(OptionCodeComment, []byte{'o', 'k', 0xC3, 0x28}), endOfOpt())

	shb, err := DecodeSectionHeader(NewBytesSource(payload))
	assert.Nil(t, shb)
	assert.ErrorIs(t, err, ErrInvalidText)
	assert.False(t, errors.Is(err, ErrUnknownOption))
	assert.Contains(t, err.Error(), "offset 2")

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, OptionCodeComment, e.Code)
	assert.Equal(t, BlockTypeSectionHeader, e.Block)
}

func TestDecodeSectionHeaderTruncated(t *testing.T) {
	payload := shbPayload(ByteOrderMagic)
	_, err := DecodeSectionHeader(NewBytesSource(payload[:10]))
	assert.ErrorIs(t, err, ErrTransport)

	_, err = DecodeSectionHeader(NewBytesSource(nil))
	assert.ErrorIs(t, err, ErrTransport)
}
