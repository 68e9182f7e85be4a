package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/gomorse/pkg/config"
	"github.com/itohio/gomorse/pkg/transmit"
)

// messageControls is the entry and send button that replace the transmitter's message.
type messageControls struct {
	entry   *widget.Entry
	sendBtn *widget.Button
	box     fyne.CanvasObject
}

func newMessageControls(state *appState) *messageControls {
	c := &messageControls{}

	c.entry = widget.NewEntry()
	c.entry.SetPlaceHolder("MESSAGE")
	c.entry.SetText(state.cfg.Transmitter.Message)
	c.entry.Validator = config.ValidateMessage
	c.entry.OnChanged = func(s string) {
		if len(s) > transmit.MaxCommandLength {
			c.entry.SetText(s[:transmit.MaxCommandLength])
		}
	}
	c.entry.OnSubmitted = func(string) {
		handleSend(state)
	}

	c.sendBtn = widget.NewButtonWithIcon("", theme.MailSendIcon(), func() {
		handleSend(state)
	})

	entryBox := container.NewGridWrap(fyne.NewSize(320, c.entry.MinSize().Height), c.entry)
	c.box = container.NewHBox(entryBox, c.sendBtn)

	c.setEnabled(false)
	return c
}

// setEnabled toggles the controls with the connection state.
func (c *messageControls) setEnabled(on bool) {
	if on {
		c.entry.Enable()
		c.sendBtn.Enable()
		c.sendBtn.Importance = widget.HighImportance
	} else {
		c.entry.Disable()
		c.sendBtn.Disable()
		c.sendBtn.Importance = widget.MediumImportance
	}
	c.sendBtn.Refresh()
}

// handleSend sends the entered message to the transmitter node.
func handleSend(state *appState) {
	if state.device == nil || !state.device.IsConnected() {
		return
	}

	message := state.controls.entry.Text
	if err := state.device.Send(message); err != nil {
		dialog.ShowError(fmt.Errorf("failed to send message: %w", err), state.window)
		return
	}
	fmt.Printf("Sent message: %s\n", message)
}
