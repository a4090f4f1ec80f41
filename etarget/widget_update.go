package main

import (
	"fmt"

	"fyne.io/fyne/v2"

	"github.com/itohio/goetarget/pkg/report"
	"github.com/itohio/goetarget/pkg/scorer"
)

// UpdateWidgetOnMainThread schedules a widget update function to run on the main Fyne thread.
// This is required because Fyne widgets cannot be updated directly from goroutines.
// Uses fyne.Do() to schedule the update on the main event loop.
func UpdateWidgetOnMainThread(callback func()) {
	if callback == nil {
		return
	}
	fyne.Do(callback)
}

// formatShotRow renders one shot list row.
func formatShotRow(s scorer.Scored) string {
	if s.Result.IsMiss() {
		return fmt.Sprintf("#%04d  miss (%s)", s.Record.Number, s.Result.Reason)
	}
	return fmt.Sprintf("#%04d  %4.1f  %5s  (%+07.2f, %+07.2f)",
		s.Record.Number, s.Record.Score, report.Clock(s.Record.Angle), s.Record.ResultX, s.Record.ResultY)
}
