package shot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/goetarget/pkg/sensor"
)

func TestRecord_Incomplete(t *testing.T) {
	assert.True(t, Record{}.Incomplete())
	assert.True(t, Record{RawCounts: [4]uint32{1, 2, 0, 4}}.Incomplete())
	assert.False(t, Record{RawCounts: [4]uint32{1, 2, 3, 4}}.Incomplete())
}

func TestResult(t *testing.T) {
	miss := MissResult(FaceStrike)
	assert.True(t, miss.IsMiss())
	assert.Equal(t, "miss", miss.Kind.String())
	assert.Equal(t, "face_strike", miss.Reason.String())

	hit := Result{Kind: Position}
	assert.False(t, hit.IsMiss())
	assert.Equal(t, "position", hit.Kind.String())
	assert.Equal(t, "none", hit.Reason.String())
	assert.Equal(t, "incomplete", IncompleteCapture.String())
}

func TestFormatLine(t *testing.T) {
	rec := Record{
		Number:      12,
		Time:        3250 * time.Millisecond,
		RawCounts:   [4]uint32{17374, 17425, 17274, 0},
		FaceStrikes: 1,
		LatchMask:   sensor.Bit(sensor.North) | sensor.Bit(sensor.East) | sensor.Bit(sensor.South),
	}
	assert.Equal(t, "S,12,3250,17374,17425,17274,0,1,NES.", FormatLine(rec))
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Record
		wantErr error
		anyErr  bool
	}{
		{
			name: "complete shot",
			line: "S,1,1500,100,200,300,400,0,NESW",
			want: Record{
				Number:    1,
				Time:      1500 * time.Millisecond,
				RawCounts: [4]uint32{100, 200, 300, 400},
				LatchMask: sensor.AllMask,
			},
		},
		{
			name: "trailing whitespace",
			line: "S,2,0,0,0,5,0,3,..S.\r\n",
			want: Record{
				Number:      2,
				RawCounts:   [4]uint32{0, 0, 5, 0},
				FaceStrikes: 3,
				LatchMask:   sensor.Bit(sensor.South),
			},
		},
		{name: "boot banner", line: "etarget ready", wantErr: ErrNotShot},
		{name: "empty", line: "", wantErr: ErrNotShot},
		{name: "too few fields", line: "S,1,1500,100,200,300,400,0", anyErr: true},
		{name: "too many fields", line: "S,1,1500,100,200,300,400,0,NESW,x", anyErr: true},
		{name: "bad number", line: "S,x,1500,100,200,300,400,0,NESW", anyErr: true},
		{name: "negative time", line: "S,1,-5,100,200,300,400,0,NESW", anyErr: true},
		{name: "count overflow", line: "S,1,5,4294967296,200,300,400,0,NESW", anyErr: true},
		{name: "bad face", line: "S,1,5,100,200,300,400,-1,NESW", anyErr: true},
		{name: "bad mask", line: "S,1,5,100,200,300,400,0,NEWS", anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLine_RoundTrip(t *testing.T) {
	rec := Record{
		Number:      99,
		Time:        42 * time.Second,
		RawCounts:   [4]uint32{1, 2, 3, 4294967295},
		FaceStrikes: 0,
		LatchMask:   sensor.AllMask,
	}
	got, err := ParseLine(FormatLine(rec))
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}
