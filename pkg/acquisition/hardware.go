package acquisition

import "github.com/itohio/goetarget/pkg/sensor"

// Hardware is the counter board seen from the tick handler.
type Hardware interface {
	// LatchMask returns the sensors whose run flip-flop is set.
	LatchMask() sensor.Mask
	// Counters returns the per-sensor elapsed counts.
	Counters() [sensor.Count]uint32
	// FaceStrikes returns face sensor triggers since the last Arm.
	FaceStrikes() int
	// Arm clears the counters and enables them for the next shot.
	Arm()
	// Stop halts the counters and releases the latches.
	Stop()
}

// Recorder receives acquisition diagnostics. *metrics.Manager satisfies it.
type Recorder interface {
	TimerExhausted()
	RingOverrun(lost uint64)
	AcquisitionState(state int)
}

type nopRecorder struct{}

func (nopRecorder) TimerExhausted()      {}
func (nopRecorder) RingOverrun(uint64)   {}
func (nopRecorder) AcquisitionState(int) {}
