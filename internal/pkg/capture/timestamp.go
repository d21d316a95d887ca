package capture

import (
	"fmt"
	"math"
	"math/bits"
	"time"

	"github.com/netobserv/pcapng-reader/internal/pkg/pcapng"
)

// Timestamp converts a raw block timestamp expressed in units of res into UTC time,
// adding offset seconds.
func Timestamp(ts uint64, res pcapng.IfTsResolution, offset int64) (time.Time, error) {
	units, ok := res.UnitsPerSecond()
	if !ok {
		return time.Time{}, fmt.Errorf("%w: if_tsresol 0x%02x", ErrUnsupportedResolution, uint8(res))
	}
	secs := ts / units
	if secs > math.MaxInt64 {
		return time.Time{}, fmt.Errorf("%w: timestamp %d overflows", ErrUnsupportedResolution, ts)
	}
	// rem < units so the 128 bits product divided by units fits 64 bits
	hi, lo := bits.Mul64(ts%units, uint64(time.Second))
	nanos, _ := bits.Div64(hi, lo, units)
	return time.Unix(int64(secs)+offset, int64(nanos)).UTC(), nil
}

func (i *Interface) Timestamp(ts uint64) (time.Time, error) {
	return Timestamp(ts, i.Resolution, i.TsOffset)
}
