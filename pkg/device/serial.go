// Package device connects to a target and delivers captured shot records.
package device

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"go.bug.st/serial"

	"github.com/itohio/goetarget/pkg/shot"
)

const (
	// DefaultBaudRate matches the firmware UART.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the shots channel buffer.
	DefaultBufferSize = 32
)

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial reads shot lines from the target firmware.
type Serial struct {
	port     string
	baudRate int
	log      zerolog.Logger

	conn      io.ReadCloser
	open      func() (io.ReadCloser, error)
	shots     chan shot.Record
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
	done      chan struct{}
}

// New creates a serial device with the specified port, baud rate, and buffer size.
func New(port string, baudRate int, bufSize int, log zerolog.Logger) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	d := &Serial{
		port:     port,
		baudRate: baudRate,
		log:      log,
		shots:    make(chan shot.Record, bufSize),
	}
	d.open = d.openPort
	return d
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

func (d *Serial) openPort() (io.ReadCloser, error) {
	mode := &serial.Mode{
		BaudRate: d.baudRate,
	}

	port, err := serial.Open(d.port, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}
	return port, nil
}

// Connect opens the port and starts reading shots.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return ErrAlreadyConnected
	}

	conn, err := d.open()
	if err != nil {
		return err
	}

	d.conn = conn
	d.ctx, d.cancel = context.WithCancel(context.Background())
	d.done = make(chan struct{})
	d.connected = true

	go d.readShots(d.ctx, conn, d.done)

	d.log.Info().Str("port", d.port).Int("baud", d.baudRate).Msg("Connected")
	return nil
}

// Close closes the connection and the shots channel. A closed device
// cannot be reconnected.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	d.cancel()

	if err := d.conn.Close(); err != nil {
		d.log.Warn().Err(err).Msg("Error closing serial port")
	}
	d.conn = nil

	// The reader unblocks once the port is closed.
	<-d.done

	d.connected = false
	close(d.shots)

	return nil
}

// Shots returns the channel for reading shots.
func (d *Serial) Shots() <-chan shot.Record {
	return d.shots
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// readShots reads lines from the port and parses them into shot records.
func (d *Serial) readShots(ctx context.Context, r io.Reader, done chan<- struct{}) {
	defer close(done)
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Msg("Panic in readShots")
		}
	}()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := scanner.Text()
		rec, err := shot.ParseLine(line)
		if errors.Is(err, shot.ErrNotShot) {
			if line != "" {
				d.log.Debug().Str("line", line).Msg("Target")
			}
			continue
		}
		if err != nil {
			d.log.Warn().Err(err).Str("line", line).Msg("Failed to parse line")
			continue
		}

		select {
		case d.shots <- rec:
		case <-ctx.Done():
			return
		default:
			d.log.Warn().Uint64("shot", rec.Number).Msg("Shots channel full, dropping shot")
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		d.log.Error().Err(err).Msg("Error reading from serial port")
	}
}
