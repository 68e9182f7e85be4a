package main

import (
	"strings"

	"fyne.io/fyne/v2"
	"github.com/itohio/gomorse/pkg/monitor"
)

// UpdateWidgetOnMainThread schedules a widget update function to run on the main Fyne thread.
// Fyne widgets cannot be updated directly from goroutines.
func UpdateWidgetOnMainThread(callback func()) {
	if callback == nil {
		return
	}
	fyne.Do(callback)
}

// formatText renders the two decoded streams for the text panel.
// Node text is what the receiver node reported over the link; host text is
// what the host decoded from the raw samples it was sent.
func formatText(snap monitor.Snapshot) string {
	var b strings.Builder
	b.WriteString("NODE: ")
	b.WriteString(snap.Text)
	b.WriteString("\nHOST: ")
	b.WriteString(snap.Decoded)
	return b.String()
}
