package pcapng

import (
	"bufio"
	"io"
)

// BlockReader frames and decodes the blocks of a stream one at a time.
// It is not safe for concurrent use.
type BlockReader struct {
	dec *Decoder
	r   *countingReader
}

// NewBlockReader reads blocks from r, with the default decoder when d is nil.
func NewBlockReader(r io.Reader, d *Decoder) *BlockReader {
	if d == nil {
		d = defaultDecoder
	}
	buf, ok := r.(*bufio.Reader)
	if !ok {
		buf = bufio.NewReader(r)
	}
	return &BlockReader{dec: d, r: &countingReader{r: buf}}
}

// Next returns the next block, io.EOF once the stream ends cleanly after a block.
func (br *BlockReader) Next() (Block, error) {
	raw, err := br.NextRaw()
	if err != nil {
		return nil, err
	}
	return br.dec.Decode(raw)
}

// NextRaw frames the next block without decoding its payload.
func (br *BlockReader) NextRaw() (*RawBlock, error) {
	return br.dec.ReadBlock(br.r)
}

// Offset returns the number of bytes consumed from the stream so far.
func (br *BlockReader) Offset() int64 {
	return br.r.n
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
