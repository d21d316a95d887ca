package pcapng

import (
	"bufio"
	"io"
)

// Source is the only capability the decoders need from their input:
// sequential reads of an exact length and an end of input query.
type Source interface {
	// ReadFull returns exactly n bytes, io.ErrUnexpectedEOF when fewer are
	// available and io.EOF when the input is already exhausted.
	ReadFull(n int) ([]byte, error)
	EOF() bool
}

// BytesSource reads from an in-memory block payload.
// Returned slices alias the payload.
type BytesSource struct {
	data []byte
	off  int
}

func NewBytesSource(data []byte) *BytesSource {
	return &BytesSource{data: data}
}

func (s *BytesSource) ReadFull(n int) ([]byte, error) {
	if n < 0 {
		return nil, io.ErrUnexpectedEOF
	}
	if n == 0 {
		return []byte{}, nil
	}
	remaining := len(s.data) - s.off
	if remaining == 0 {
		return nil, io.EOF
	}
	if remaining < n {
		s.off = len(s.data)
		return nil, io.ErrUnexpectedEOF
	}
	b := s.data[s.off : s.off+n : s.off+n]
	s.off += n
	return b, nil
}

func (s *BytesSource) EOF() bool {
	return s.off >= len(s.data)
}

// Len returns the number of unread bytes.
func (s *BytesSource) Len() int {
	return len(s.data) - s.off
}

// StreamSource adapts any io.Reader, files and sockets included.
// Each read allocates its own buffer so returned slices stay valid.
type StreamSource struct {
	r *bufio.Reader
	// err is a read failure seen by EOF, returned by the next read
	err error
}

func NewStreamSource(r io.Reader) *StreamSource {
	if br, ok := r.(*bufio.Reader); ok {
		return &StreamSource{r: br}
	}
	return &StreamSource{r: bufio.NewReader(r)}
}

func (s *StreamSource) ReadFull(n int) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	if n < 0 {
		return nil, io.ErrUnexpectedEOF
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(s.r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// EOF is true only when the reader ended cleanly. Any other failure is kept
// for the next read to return.
func (s *StreamSource) EOF() bool {
	if s.err != nil {
		return false
	}
	_, err := s.r.Peek(1)
	switch {
	case err == nil:
		return false
	case err == io.EOF:
		return true
	default:
		s.err = err
		return false
	}
}

// Read lets a StreamSource be handed back to ReadBlock.
func (s *StreamSource) Read(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.r.Read(p)
}
