package device

import (
	"errors"

	"github.com/itohio/goetarget/pkg/shot"
)

var (
	ErrAlreadyConnected = errors.New("already connected")
	ErrNotConnected     = errors.New("not connected")
	ErrBusy             = errors.New("device busy")
)

// Device defines the interface for targets (real or mocked).
type Device interface {
	Connect() error
	Close() error
	Shots() <-chan shot.Record
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)
