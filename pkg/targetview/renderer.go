package targetview

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"github.com/itohio/goetarget/pkg/shot"
)

var (
	colorBlack     = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	colorRingDark  = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	colorRingLight = color.RGBA{R: 235, G: 230, B: 215, A: 255}
	colorHole      = color.RGBA{R: 255, G: 165, B: 0, A: 200} // Orange
	colorLastHole  = color.RGBA{R: 220, G: 40, B: 40, A: 230}
	colorLabel     = color.RGBA{R: 60, G: 60, B: 60, A: 255}
)

// targetRenderer renders the target widget.
type targetRenderer struct {
	target *TargetWidget

	// Background
	bg *canvas.Rectangle

	// Objects list for Fyne
	objects []fyne.CanvasObject

	// Track last size to detect changes
	lastSize fyne.Size
}

// MinSize returns the minimum size of the widget.
func (r *targetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

// Layout arranges the widget components.
func (r *targetRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)

	if r.lastSize != size {
		r.lastSize = size
		r.target.BaseWidget.Refresh()
	}
}

// Refresh rebuilds the face from the current shots.
func (r *targetRenderer) Refresh() {
	r.target.mu.RLock()
	shots := append([]shot.Record(nil), r.target.shots...)
	calibre := r.target.calibre
	targetType := r.target.targetType
	r.target.mu.RUnlock()

	r.objects = []fyne.CanvasObject{r.bg}

	size := r.target.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	vp := newViewport(size, extent(targetType))
	multi := len(bulls(targetType)) > 1

	for _, b := range bulls(targetType) {
		r.drawBull(vp, b.X, b.Y, multi)
	}

	for i, s := range shots {
		r.drawHole(vp, s, calibre, i == len(shots)-1)
	}

	if n := len(shots); n > 0 {
		last := shots[n-1]
		label := canvas.NewText(fmt.Sprintf("#%d  %.1f", last.Number, last.Score), colorLabel)
		label.TextSize = 14
		label.TextStyle = fyne.TextStyle{Bold: true}
		label.Move(fyne.NewPos(8, 6))
		r.objects = append(r.objects, label)
	}

	canvas.Refresh(r.target)
}

// drawBull draws the rings of one aiming mark, outermost first.
func (r *targetRenderer) drawBull(vp viewport, x, y float64, blackOnly bool) {
	first := 1
	if blackOnly {
		first = blackFrom
	}

	for n := first; n <= 10; n++ {
		fill := colorRingLight
		stroke := colorRingDark
		if n >= blackFrom {
			fill = colorBlack
			stroke = colorRingLight
		}
		if n == 10 {
			fill = colorRingLight
		}
		r.objects = append(r.objects, circle(vp, x, y, ringDiameter(n)/2, fill, stroke))
	}
}

// drawHole draws a shot at its position on the face before bull remapping.
func (r *targetRenderer) drawHole(vp viewport, s shot.Record, calibre float64, last bool) {
	fill := colorHole
	if last {
		fill = colorLastHole
	}
	r.objects = append(r.objects, circle(vp, s.RealX, s.RealY, calibre/2, fill, colorBlack))
}

func circle(vp viewport, x, y, radius float64, fill, stroke color.Color) *canvas.Circle {
	c := canvas.NewCircle(fill)
	c.StrokeColor = stroke
	c.StrokeWidth = 1

	centre := vp.toPixel(x, y)
	rp := vp.length(radius)
	c.Position1 = fyne.NewPos(centre.X-rp, centre.Y-rp)
	c.Position2 = fyne.NewPos(centre.X+rp, centre.Y+rp)
	return c
}

// Objects returns all canvas objects for rendering.
func (r *targetRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *targetRenderer) Destroy() {
	// Cleanup handled by Fyne
}
