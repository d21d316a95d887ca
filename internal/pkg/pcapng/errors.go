package pcapng

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

type ErrorKind int

const (
	// KindTransport is a short read or a failure of the underlying stream
	KindTransport ErrorKind = iota + 1
	// KindFraming is a block whose leading and trailing lengths disagree or cannot be valid
	KindFraming
	// KindUnsupportedFormat is a section header with an unexpected byte-order magic
	KindUnsupportedFormat
	// KindUnknownOption is an option code outside the vocabulary of its block
	KindUnknownOption
	// KindInvalidText is a string option that is not valid UTF-8
	KindInvalidText
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindFraming:
		return "framing"
	case KindUnsupportedFormat:
		return "unsupported format"
	case KindUnknownOption:
		return "unknown option"
	case KindInvalidText:
		return "invalid text"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	ErrTransport         = errors.New("pcapng: transport failure")
	ErrFraming           = errors.New("pcapng: framing corruption")
	ErrUnsupportedFormat = errors.New("pcapng: unsupported format or byte order")
	ErrUnknownOption     = errors.New("pcapng: unknown option")
	ErrInvalidText       = errors.New("pcapng: invalid text encoding")
)

var kindSentinels = map[ErrorKind]error{
	KindTransport:         ErrTransport,
	KindFraming:           ErrFraming,
	KindUnsupportedFormat: ErrUnsupportedFormat,
	KindUnknownOption:     ErrUnknownOption,
	KindInvalidText:       ErrInvalidText,
}

// Error is returned by every decoding operation of this package.
// Both the kind sentinel (ErrFraming, ErrUnknownOption...) and the origin
// error (io.ErrUnexpectedEOF, a stream error...) match with errors.Is.
type Error struct {
	Kind ErrorKind
	// Block is the type of the block being decoded, zero when unknown
	Block BlockType
	// Code is the option code involved, only meaningful for option errors
	Code uint16
	Err  error
}

func (e *Error) Error() string {
	msg := "pcapng: " + e.Kind.String()
	if e.Block != 0 {
		msg += " in " + e.Block.String()
	}
	if e.Kind == KindUnknownOption || e.Kind == KindInvalidText {
		msg += fmt.Sprintf(" (option code %d)", e.Code)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s, ok := kindSentinels[e.Kind]; ok {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the kind of a decoding error, or 0 when err does not come from this package.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// readError reports a failed read while decoding a block of type bt. An *Error
// from a nested read keeps its kind and gets bt when it has no block type yet,
// any other error becomes a transport error.
func readError(bt BlockType, err error) error {
	if e, ok := err.(*Error); ok {
		if e.Block != 0 || bt == 0 {
			return e
		}
		withBlock := *e
		withBlock.Block = bt
		return &withBlock
	}
	// a block or an option is always read in one go, running dry is never a clean end
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return &Error{Kind: KindTransport, Block: bt, Err: err}
}

func framingError(bt BlockType, format string, args ...any) error {
	return &Error{Kind: KindFraming, Block: bt, Err: fmt.Errorf(format, args...)}
}

func errInvalidUTF8(b []byte) error {
	off := 0
	for off < len(b) {
		r, size := utf8.DecodeRune(b[off:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		off += size
	}
	return fmt.Errorf("invalid UTF-8 byte 0x%02x at offset %d", b[off], off)
}
