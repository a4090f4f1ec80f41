// Package targetview is a Fyne widget that draws the target face and the
// shots fired at it.
package targetview

import (
	"image/color"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/goetarget/pkg/shot"
	"github.com/itohio/goetarget/pkg/target"
)

const (
	// DefaultMaxShots is how many holes stay on the face.
	DefaultMaxShots = 60

	tenRing   = 0.5 // 10 ring diameter (mm)
	ringStep  = 5.0 // Diameter growth per ring (mm)
	blackFrom = 4   // Rings 4 and up are printed on the black aiming mark
	viewSlack = 3.0 // Margin around the outermost ring (mm)
)

// TargetWidget displays the target face with shot holes.
type TargetWidget struct {
	widget.BaseWidget

	// Data (protected by mu)
	mu         sync.RWMutex
	shots      []shot.Record
	calibre    float64
	targetType int
	maxShots   int
}

// New creates a new TargetWidget instance.
func New(calibre float64, targetType int) *TargetWidget {
	t := &TargetWidget{
		shots:      make([]shot.Record, 0, DefaultMaxShots),
		calibre:    calibre,
		targetType: targetType,
		maxShots:   DefaultMaxShots,
	}
	t.ExtendBaseWidget(t)
	return t
}

// AddShot puts a hole on the face. Misses are ignored. Call from the UI
// goroutine or via fyne.Do.
func (t *TargetWidget) AddShot(rec shot.Record) {
	t.mu.Lock()
	t.shots = append(t.shots, rec)
	if len(t.shots) > t.maxShots {
		t.shots = append(t.shots[:0], t.shots[len(t.shots)-t.maxShots:]...)
	}
	t.mu.Unlock()

	t.Refresh()
}

// Clear removes every hole.
func (t *TargetWidget) Clear() {
	t.mu.Lock()
	t.shots = t.shots[:0]
	t.mu.Unlock()

	t.Refresh()
}

// SetTarget changes the pellet size and the printed layout.
func (t *TargetWidget) SetTarget(calibre float64, targetType int) {
	t.mu.Lock()
	t.calibre = calibre
	t.targetType = targetType
	t.mu.Unlock()

	t.Refresh()
}

// Shots returns a copy of the displayed shots, oldest first.
func (t *TargetWidget) Shots() []shot.Record {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]shot.Record(nil), t.shots...)
}

// CreateRenderer creates the widget renderer.
func (t *TargetWidget) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 235, G: 230, B: 215, A: 255}) // Card
	return &targetRenderer{
		target:  t,
		bg:      bg,
		objects: []fyne.CanvasObject{bg},
	}
}

// bulls returns the aiming mark centres for a target type.
func bulls(targetType int) []target.Point {
	if l, ok := target.Layouts[targetType]; ok {
		return l.Bulls
	}
	return []target.Point{{X: 0, Y: 0}}
}

// ringDiameter returns the printed diameter of ring n (1..10) in mm.
func ringDiameter(n int) float64 {
	return tenRing + float64(10-n)*ringStep
}

// extent is the half width of face that must be visible, in mm.
func extent(targetType int) float64 {
	bs := bulls(targetType)
	half := ringDiameter(1) / 2
	if len(bs) > 1 {
		// Multi-bull cards print only the black.
		half = ringDiameter(blackFrom) / 2
	}

	var far float64
	for _, b := range bs {
		far = math.Max(far, math.Max(math.Abs(b.X), math.Abs(b.Y)))
	}
	return far + half + viewSlack
}

// viewport maps face millimetres onto widget pixels. +Y points up on the
// face and down on screen.
type viewport struct {
	cx, cy float32
	scale  float32 // Pixels per mm
}

func newViewport(size fyne.Size, extentMM float64) viewport {
	side := size.Width
	if size.Height < side {
		side = size.Height
	}
	return viewport{
		cx:    size.Width / 2,
		cy:    size.Height / 2,
		scale: side / 2 / float32(extentMM),
	}
}

func (v viewport) toPixel(x, y float64) fyne.Position {
	return fyne.NewPos(v.cx+float32(x)*v.scale, v.cy-float32(y)*v.scale)
}

func (v viewport) length(mm float64) float32 {
	return float32(mm) * v.scale
}
