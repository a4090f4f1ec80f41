package device

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/itohio/goetarget/pkg/acquisition"
	"github.com/itohio/goetarget/pkg/calibration"
	"github.com/itohio/goetarget/pkg/config"
	"github.com/itohio/goetarget/pkg/geometry"
	"github.com/itohio/goetarget/pkg/sensor"
	"github.com/itohio/goetarget/pkg/shot"
)

// Mock simulates a target: a Simulator board driven by an acquisition
// Machine, with shots fired at random positions on the face.
type Mock struct {
	cfg      *config.MockConfig
	params   calibration.Parameters
	log      zerolog.Logger
	recorder acquisition.Recorder

	shots     chan shot.Record
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
	done      chan struct{}

	sim     *Simulator
	machine *acquisition.Machine
	rng     *rand.Rand
	fired   chan Impact
}

// MockOption configures a Mock.
type MockOption func(*Mock)

// WithMockLogger sets the mock's logger.
func WithMockLogger(log zerolog.Logger) MockOption {
	return func(m *Mock) {
		m.log = log
	}
}

// WithMockRecorder sets the recorder for acquisition diagnostics.
func WithMockRecorder(r acquisition.Recorder) MockOption {
	return func(m *Mock) {
		if r != nil {
			m.recorder = r
		}
	}
}

// NewMock creates a new mocked target.
func NewMock(cfg *config.MockConfig, p calibration.Parameters, env calibration.Environment, opts ...MockOption) *Mock {
	if cfg == nil {
		def := config.Default().Mock
		cfg = &def
	}

	m := &Mock{
		cfg:      cfg,
		params:   p,
		log:      zerolog.Nop(),
		shots:    make(chan shot.Record, DefaultBufferSize),
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		fired:    make(chan Impact, 4),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.sim = NewSimulator(geometry.Rebuild(p, env.TemperatureC, env.Humidity))

	machineOpts := []acquisition.Option{
		acquisition.WithLogger(m.log),
		acquisition.WithTickPeriod(m.tickPeriod()),
	}
	if m.recorder != nil {
		machineOpts = append(machineOpts, acquisition.WithRecorder(m.recorder))
	}
	m.machine = acquisition.New(m.sim, p.MaxWaitTime, p.MinRingTime, machineOpts...)

	return m
}

func (m *Mock) tickPeriod() time.Duration {
	if m.cfg.TickPeriod > 0 {
		return m.cfg.TickPeriod
	}
	return acquisition.DefaultTickPeriod
}

// Connect starts the simulation.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return ErrAlreadyConnected
	}

	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.done = make(chan struct{})
	m.connected = true

	go m.run(m.ctx, m.done)

	return nil
}

// Close stops the simulation and closes the shots channel.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}

	m.cancel()
	<-m.done
	m.connected = false
	close(m.shots)

	return nil
}

// Shots returns the channel for reading shots.
func (m *Mock) Shots() <-chan shot.Record {
	return m.shots
}

// IsConnected returns whether the simulation is running.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// Fire queues an impact at (x, y) mm on the face.
func (m *Mock) Fire(x, y float64, face bool) error {
	if !m.IsConnected() {
		return ErrNotConnected
	}

	select {
	case m.fired <- m.toSensorFrame(Impact{X: x, Y: y, Face: face}):
		return nil
	default:
		return ErrBusy
	}
}

// Machine returns the acquisition machine driving the simulation.
func (m *Mock) Machine() *acquisition.Machine {
	return m.machine
}

// run ticks the machine and forwards completed shots.
func (m *Mock) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	period := m.tickPeriod()
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	var sinceShot time.Duration
	for {
		select {
		case <-ctx.Done():
			return
		case im := <-m.fired:
			m.sim.Fire(im)
		case <-ticker.C:
			m.sim.Advance(period)
			m.machine.Tick()

			sinceShot += period
			if m.cfg.ShotPeriod > 0 && sinceShot >= m.cfg.ShotPeriod {
				sinceShot = 0
				if !m.sim.Fire(m.randomImpact()) {
					m.log.Debug().Msg("Target not armed, shot lost")
				}
			}

			m.forward(ctx)
		}
	}
}

// forward drains the machine's ring into the shots channel.
func (m *Mock) forward(ctx context.Context) {
	recs, lost := m.machine.Shots().Poll()
	if lost > 0 {
		m.log.Warn().Uint64("lost", lost).Msg("Shot ring overrun")
		if m.recorder != nil {
			m.recorder.RingOverrun(lost)
		}
	}

	for _, rec := range recs {
		select {
		case m.shots <- rec:
		case <-ctx.Done():
			return
		default:
			m.log.Warn().Uint64("shot", rec.Number).Msg("Shots channel full, dropping shot")
		}
	}
}

// randomImpact picks a point uniformly in the spread circle.
func (m *Mock) randomImpact() Impact {
	r := m.cfg.Spread * math.Sqrt(m.rng.Float64())
	a := 2 * math.Pi * m.rng.Float64()

	im := Impact{
		X:    r * math.Cos(a),
		Y:    r * math.Sin(a),
		Face: m.rng.Float64() < m.cfg.FaceProbability,
	}
	if m.rng.Float64() < m.cfg.MissProbability {
		im.Missing = sensor.Bit(sensor.ID(m.rng.Intn(sensor.Count)))
	}
	return m.toSensorFrame(im)
}

// toSensorFrame undoes the sensor mount rotation so the solved face
// position matches the requested one.
func (m *Mock) toSensorFrame(im Impact) Impact {
	rad := -m.params.SensorAngle * math.Pi / 180
	x := im.X*math.Cos(rad) - im.Y*math.Sin(rad)
	y := im.X*math.Sin(rad) + im.Y*math.Cos(rad)
	im.X, im.Y = x, y
	return im
}
