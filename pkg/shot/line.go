package shot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/itohio/goetarget/pkg/sensor"
)

// LinePrefix starts every shot line. Other lines on the link are free text.
const LinePrefix = "S"

// ErrNotShot is returned by ParseLine for lines that do not carry a shot.
var ErrNotShot = errors.New("not a shot line")

const lineFields = 9

// FormatLine encodes a captured record for the serial link:
//
//	S,<shot>,<ms>,<N>,<E>,<S>,<W>,<face>,<mask>
//
// ms is the session time in milliseconds and mask is the latch mask as
// printed by sensor.Mask.
func FormatLine(rec Record) string {
	var b strings.Builder
	b.WriteString(LinePrefix)
	b.WriteByte(',')
	b.WriteString(strconv.FormatUint(rec.Number, 10))
	b.WriteByte(',')
	b.WriteString(strconv.FormatInt(rec.Time.Milliseconds(), 10))
	for _, c := range rec.RawCounts {
		b.WriteByte(',')
		b.WriteString(strconv.FormatUint(uint64(c), 10))
	}
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(rec.FaceStrikes))
	b.WriteByte(',')
	b.WriteString(rec.LatchMask.String())
	return b.String()
}

// ParseLine decodes a line produced by FormatLine.
func ParseLine(line string) (Record, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, LinePrefix+",") {
		return Record{}, ErrNotShot
	}

	parts := strings.Split(line, ",")
	if len(parts) != lineFields {
		return Record{}, fmt.Errorf("invalid shot line: expected %d comma-separated values, got %d", lineFields, len(parts))
	}

	number, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("invalid shot number: %w", err)
	}

	ms, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("invalid shot time: %w", err)
	}
	if ms < 0 {
		return Record{}, fmt.Errorf("invalid shot time: %d", ms)
	}

	var counts [sensor.Count]uint32
	for i := range counts {
		c, err := strconv.ParseUint(parts[3+i], 10, 32)
		if err != nil {
			return Record{}, fmt.Errorf("invalid %s count: %w", sensor.ID(i), err)
		}
		counts[i] = uint32(c)
	}

	face, err := strconv.Atoi(parts[7])
	if err != nil || face < 0 {
		return Record{}, fmt.Errorf("invalid face count %q", parts[7])
	}

	mask, err := sensor.ParseMask(parts[8])
	if err != nil {
		return Record{}, err
	}

	return Record{
		Number:      number,
		Time:        time.Duration(ms) * time.Millisecond,
		RawCounts:   counts,
		FaceStrikes: face,
		LatchMask:   mask,
	}, nil
}
