package acquisition

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/goetarget/pkg/sensor"
	"github.com/itohio/goetarget/pkg/timers"
)

type fakeHardware struct {
	mask   sensor.Mask
	counts [sensor.Count]uint32
	face   int
	arms   int
	stops  int
}

func (f *fakeHardware) LatchMask() sensor.Mask         { return f.mask }
func (f *fakeHardware) Counters() [sensor.Count]uint32 { return f.counts }
func (f *fakeHardware) FaceStrikes() int               { return f.face }
func (f *fakeHardware) Stop()                          { f.stops++ }
func (f *fakeHardware) release()                       { f.mask = 0 }

func (f *fakeHardware) Arm() {
	f.arms++
	f.mask = 0
	f.face = 0
}

func (f *fakeHardware) latch(ids ...sensor.ID) {
	for _, id := range ids {
		f.mask |= sensor.Bit(id)
	}
}

type countingRecorder struct {
	exhausted int
	states    []int
}

func (c *countingRecorder) TimerExhausted()        { c.exhausted++ }
func (c *countingRecorder) RingOverrun(uint64)     {}
func (c *countingRecorder) AcquisitionState(s int) { c.states = append(c.states, s) }

func newMachine(hw Hardware, opts ...Option) *Machine {
	return New(hw, 10, 5, opts...)
}

func TestMachine_IdleStaysIdleWithoutLatch(t *testing.T) {
	hw := &fakeHardware{}
	m := newMachine(hw)

	for i := 0; i < 100; i++ {
		m.Tick()
	}
	assert.Equal(t, Idle, m.State())
	assert.Equal(t, 0, m.Shots().Pending())
}

func TestMachine_AllSensorsCapture(t *testing.T) {
	hw := &fakeHardware{counts: [4]uint32{100, 200, 300, 400}}
	m := newMachine(hw)

	hw.latch(sensor.North)
	m.Tick()
	require.Equal(t, Waiting, m.State())

	hw.latch(sensor.East, sensor.South)
	m.Tick()
	require.Equal(t, Waiting, m.State())

	hw.latch(sensor.West)
	m.Tick()
	require.Equal(t, RingDown, m.State())
	assert.Equal(t, 1, hw.stops)

	recs, lost := m.Shots().Poll()
	require.Len(t, recs, 1)
	assert.Zero(t, lost)
	assert.Equal(t, uint64(0), recs[0].Number)
	assert.Equal(t, [4]uint32{100, 200, 300, 400}, recs[0].RawCounts)
	assert.Equal(t, sensor.AllMask, recs[0].LatchMask)
	assert.False(t, recs[0].Incomplete())
	assert.Equal(t, 2*time.Millisecond, recs[0].Time)
}

func TestMachine_PartialCaptureOnTimeout(t *testing.T) {
	hw := &fakeHardware{counts: [4]uint32{100, 0, 300, 0}}
	m := newMachine(hw)

	hw.latch(sensor.North, sensor.South)
	m.Tick()
	require.Equal(t, Waiting, m.State())

	// The wait timer started at 10 and was decremented once on entry.
	for i := 0; i < 9; i++ {
		m.Tick()
		require.Equal(t, Waiting, m.State(), "tick %d", i)
	}
	m.Tick()
	require.Equal(t, RingDown, m.State())

	recs, _ := m.Shots().Poll()
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Incomplete())
	assert.Equal(t, sensor.Bit(sensor.North)|sensor.Bit(sensor.South), recs[0].LatchMask)
}

func TestMachine_FaceStrikeCaptured(t *testing.T) {
	hw := &fakeHardware{counts: [4]uint32{1, 2, 3, 4}, face: 2}
	m := newMachine(hw)

	hw.latch(sensor.North, sensor.East, sensor.South, sensor.West)
	m.Tick()
	m.Tick()

	recs, _ := m.Shots().Poll()
	require.Len(t, recs, 1)
	assert.Equal(t, 2, recs[0].FaceStrikes)
}

func TestMachine_RingDownHoldAndRearm(t *testing.T) {
	hw := &fakeHardware{counts: [4]uint32{1, 2, 3, 4}}
	m := newMachine(hw)

	hw.latch(sensor.North, sensor.East, sensor.South, sensor.West)
	m.Tick() // Idle -> Waiting
	m.Tick() // Waiting -> RingDown
	require.Equal(t, RingDown, m.State())
	hw.release()

	// Ring for a few ticks, then an echo re-latches.
	m.Tick()
	m.Tick()
	hw.latch(sensor.East)
	m.Tick()
	assert.Equal(t, RingDown, m.State())
	assert.Equal(t, 2, hw.stops)
	hw.release()

	// The echo reloaded the ring-down timer to 5; it needs the full period again.
	for i := 0; i < 4; i++ {
		m.Tick()
		require.Equal(t, RingDown, m.State(), "tick %d", i)
	}
	assert.Equal(t, 0, hw.arms)

	m.Tick()
	assert.Equal(t, Idle, m.State())
	assert.Equal(t, 1, hw.arms)

	recs, _ := m.Shots().Poll()
	assert.Len(t, recs, 1, "echo must not produce a second record")
}

func TestMachine_NeverArmsWhileLatched(t *testing.T) {
	hw := &fakeHardware{counts: [4]uint32{1, 2, 3, 4}}
	m := newMachine(hw)

	hw.latch(sensor.North, sensor.East, sensor.South, sensor.West)
	m.Tick()
	m.Tick()

	// Sensors keep ringing far beyond the ring-down time.
	for i := 0; i < 50; i++ {
		m.Tick()
		require.Equal(t, RingDown, m.State())
	}
	assert.Equal(t, 0, hw.arms)
}

func TestMachine_ShotNumbersIncrease(t *testing.T) {
	hw := &fakeHardware{counts: [4]uint32{1, 2, 3, 4}}
	m := New(hw, 10, 1)

	for n := 0; n < 3; n++ {
		hw.latch(sensor.North, sensor.East, sensor.South, sensor.West)
		m.Tick()
		m.Tick()
		hw.release()
		for m.State() != Idle {
			m.Tick()
		}
	}

	recs, _ := m.Shots().Poll()
	require.Len(t, recs, 3)
	for i, rec := range recs {
		assert.Equal(t, uint64(i), rec.Number)
	}
}

func TestMachine_TimerBankExhausted(t *testing.T) {
	var buf bytes.Buffer
	bank := timers.New(1)
	_, err := bank.Start(1000) // Someone else holds the only slot.
	require.NoError(t, err)

	rec := &countingRecorder{}
	hw := &fakeHardware{counts: [4]uint32{1, 0, 0, 0}}
	m := newMachine(hw, WithTimers(bank), WithRecorder(rec), WithLogger(zerolog.New(&buf)))

	hw.latch(sensor.North)
	m.Tick()
	require.Equal(t, Waiting, m.State())
	assert.Equal(t, 1, rec.exhausted)
	assert.Contains(t, buf.String(), "timer not started")

	// Without a wait timer the window closes on the next tick.
	m.Tick()
	assert.Equal(t, RingDown, m.State())
	recs, _ := m.Shots().Poll()
	assert.Len(t, recs, 1)
}

func TestMachine_RecordsStateChanges(t *testing.T) {
	rec := &countingRecorder{}
	hw := &fakeHardware{counts: [4]uint32{1, 2, 3, 4}}
	m := New(hw, 10, 1, WithRecorder(rec))

	hw.latch(sensor.North, sensor.East, sensor.South, sensor.West)
	m.Tick()
	m.Tick()
	hw.release()
	m.Tick()
	m.Tick()

	assert.Equal(t, []int{int(Waiting), int(RingDown), int(Idle)}, rec.states)
}

func TestMachine_SetTiming(t *testing.T) {
	hw := &fakeHardware{counts: [4]uint32{1, 0, 0, 0}}
	m := newMachine(hw)
	m.SetTiming(2, 1)

	hw.latch(sensor.North)
	m.Tick()
	m.Tick()
	assert.Equal(t, Waiting, m.State())
	m.Tick()
	assert.Equal(t, RingDown, m.State())
}

func TestMachine_Run(t *testing.T) {
	hw := &fakeHardware{}
	m := newMachine(hw, WithTickPeriod(time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.Equal(t, Idle, m.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "waiting", Waiting.String())
	assert.Equal(t, "ring-down", RingDown.String())
	assert.Equal(t, "unknown", State(9).String())
}
