package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/goetarget/pkg/scorer"
)

const maxListedShots = 500

// shotList shows scored shots, newest first. Only touch it from the UI
// goroutine.
type shotList struct {
	shots  []scorer.Scored
	widget *widget.List
}

func newShotList() *shotList {
	l := &shotList{}
	l.widget = widget.NewList(
		func() int {
			return len(l.shots)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("#0000  10.9  12:00  (+000.00, +000.00)")
		},
		func(id widget.ListItemID, o fyne.CanvasObject) {
			// Newest first
			s := l.shots[len(l.shots)-1-id]
			o.(*widget.Label).SetText(formatShotRow(s))
		},
	)
	return l
}

func (l *shotList) add(s scorer.Scored) {
	l.shots = append(l.shots, s)
	if len(l.shots) > maxListedShots {
		l.shots = append(l.shots[:0], l.shots[len(l.shots)-maxListedShots:]...)
	}
	l.widget.Refresh()
}

func (l *shotList) clear() {
	l.shots = l.shots[:0]
	l.widget.Refresh()
}
