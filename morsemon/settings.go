package main

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/gomorse/pkg/config"
	"github.com/itohio/gomorse/pkg/link"
	"github.com/itohio/gomorse/pkg/monitor"
)

// showSettingsDialog displays a settings dialog with tabs for all configuration options.
func showSettingsDialog(state *appState) {
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createReceiverTab(state),
		createTransmitterTab(state),
		createMockTab(state),
	)

	content := container.NewBorder(nil, nil, nil, nil, tabs)
	content.Resize(fyne.NewSize(600, 500))

	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(600, 500))
	d.Show()
}

// saveConfig validates the edited configuration, then writes it.
// On validation failure the previous settings are restored.
func saveConfig(state *appState, prev config.Config) bool {
	if err := state.cfg.Validate(); err != nil {
		*state.cfg = prev
		dialog.ShowError(fmt.Errorf("invalid settings: %w", err), state.window)
		return false
	}
	if err := state.cfg.Save(state.configPath); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
		return false
	}
	return true
}

// restartChain reconnects a connected device so new settings take effect.
func restartChain(state *appState) {
	if state.device == nil || !state.device.IsConnected() {
		return
	}
	closeDecodeChain(state.chain)
	state.chain = nil
	state.device = nil
	handleConnect(state)
}

func durationEntry(d time.Duration) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(d.String())
	return e
}

func parseDuration(e *widget.Entry, dst *time.Duration) {
	if d, err := time.ParseDuration(e.Text); err == nil {
		*dst = d
	}
}

func parseFloat(e *widget.Entry, dst *float64) {
	if v, err := strconv.ParseFloat(e.Text, 64); err == nil {
		*dst = v
	}
}

func parseInt(e *widget.Entry, dst *int) {
	if v, err := strconv.Atoi(e.Text); err == nil {
		*dst = v
	}
}

// createSerialTab creates the Serial configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	ports, err := link.Ports()
	portOptions := []string{}
	portMap := make(map[string]string) // Map display name to actual port name

	if err == nil {
		for _, port := range ports {
			displayName := port.Name
			if port.Description != "" && port.Description != port.Name {
				displayName = fmt.Sprintf("%s (%s)", port.Name, port.Description)
			}
			portOptions = append(portOptions, displayName)
			portMap[displayName] = port.Name
		}
	}

	currentPort := state.cfg.Serial.Port
	currentDisplay := currentPort
	found := false
	for _, opt := range portOptions {
		if portMap[opt] == currentPort {
			currentDisplay = opt
			found = true
			break
		}
	}
	if !found && currentPort != "" {
		portOptions = append(portOptions, currentPort)
		portMap[currentPort] = currentPort
	}

	portSelect := widget.NewSelect(portOptions, nil)
	if currentDisplay != "" {
		portSelect.SetSelected(currentDisplay)
	}

	baudEntry := widget.NewEntry()
	baudEntry.SetText(strconv.Itoa(state.cfg.Serial.BaudRate))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
			{Text: "Baud Rate", Widget: baudEntry},
		},
		OnSubmit: func() {
			prev := *state.cfg

			if portSelect.Selected != "" {
				selectedPort := portMap[portSelect.Selected]
				if selectedPort == "" {
					selectedPort = portSelect.Selected
				}
				state.cfg.Serial.Port = selectedPort
			}
			parseInt(baudEntry, &state.cfg.Serial.BaudRate)

			if !saveConfig(state, prev) {
				return
			}
			if prev.Serial != state.cfg.Serial && !state.useMock {
				restartChain(state)
			}
		},
	}

	return container.NewTabItem("Serial", form)
}

// createReceiverTab creates the Receiver configuration tab.
func createReceiverTab(state *appState) *container.TabItem {
	r := &state.cfg.Receiver

	inputSelect := widget.NewSelect([]string{config.InputAnalog, config.InputDigital}, nil)
	inputSelect.SetSelected(r.Input)

	filterSizeEntry := widget.NewEntry()
	filterSizeEntry.SetText(strconv.Itoa(r.FilterSize))

	thresholdEntry := widget.NewEntry()
	thresholdEntry.SetText(strconv.FormatFloat(r.Threshold, 'f', -1, 64))

	debounceEntry := durationEntry(r.Debounce)
	peakGuardEntry := durationEntry(r.PeakGuard)
	dashThresholdEntry := durationEntry(r.DashThreshold)
	charGapEntry := durationEntry(r.CharGap)

	maxLengthEntry := widget.NewEntry()
	maxLengthEntry.SetText(strconv.Itoa(r.MaxLength))

	windowEntry := widget.NewEntry()
	windowEntry.SetText(strconv.FormatFloat(state.cfg.Display.WindowSeconds, 'f', 1, 64))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Input", Widget: inputSelect},
			{Text: "Filter Size (samples)", Widget: filterSizeEntry},
			{Text: "Threshold (ADC)", Widget: thresholdEntry},
			{Text: "Debounce", Widget: debounceEntry},
			{Text: "Peak Guard", Widget: peakGuardEntry},
			{Text: "Dash Threshold", Widget: dashThresholdEntry},
			{Text: "Character Gap", Widget: charGapEntry},
			{Text: "Max Symbols", Widget: maxLengthEntry},
			{Text: "Window (seconds)", Widget: windowEntry},
		},
		OnSubmit: func() {
			prev := *state.cfg

			if inputSelect.Selected != "" {
				r.Input = inputSelect.Selected
			}
			parseInt(filterSizeEntry, &r.FilterSize)
			parseFloat(thresholdEntry, &r.Threshold)
			parseDuration(debounceEntry, &r.Debounce)
			parseDuration(peakGuardEntry, &r.PeakGuard)
			parseDuration(dashThresholdEntry, &r.DashThreshold)
			parseDuration(charGapEntry, &r.CharGap)
			parseInt(maxLengthEntry, &r.MaxLength)
			parseFloat(windowEntry, &state.cfg.Display.WindowSeconds)

			if !saveConfig(state, prev) {
				return
			}

			// The monitor carries the window and threshold; rebuild it and
			// restart the chain so the decoder picks up the new pipeline.
			wasConnected := state.device != nil && state.device.IsConnected()
			if wasConnected {
				closeDecodeChain(state.chain)
				state.chain = nil
				state.device = nil
			}
			state.monitor = monitor.New(state.cfg)
			state.registered = false
			if wasConnected {
				handleConnect(state)
			}
		},
	}

	return container.NewTabItem("Receiver", form)
}

// createTransmitterTab creates the Transmitter configuration tab.
func createTransmitterTab(state *appState) *container.TabItem {
	t := &state.cfg.Transmitter

	dotEntry := durationEntry(t.Dot)
	dashEntry := durationEntry(t.Dash)
	letterGapEntry := durationEntry(t.LetterGap)
	repeatDelayEntry := durationEntry(t.RepeatDelay)

	messageEntry := widget.NewEntry()
	messageEntry.SetText(t.Message)
	messageEntry.Validator = config.ValidateMessage

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Dot", Widget: dotEntry},
			{Text: "Dash", Widget: dashEntry},
			{Text: "Letter Gap", Widget: letterGapEntry},
			{Text: "Canned Message", Widget: messageEntry},
			{Text: "Repeat Delay", Widget: repeatDelayEntry},
		},
		OnSubmit: func() {
			prev := *state.cfg

			parseDuration(dotEntry, &t.Dot)
			parseDuration(dashEntry, &t.Dash)
			parseDuration(letterGapEntry, &t.LetterGap)
			parseDuration(repeatDelayEntry, &t.RepeatDelay)
			t.Message = messageEntry.Text

			if !saveConfig(state, prev) {
				return
			}
			state.controls.entry.SetText(t.Message)
			if state.useMock {
				restartChain(state)
			}
		},
	}

	return container.NewTabItem("Transmitter", form)
}

// createMockTab creates the simulated link configuration tab.
func createMockTab(state *appState) *container.TabItem {
	m := &state.cfg.Mock

	biasEntry := widget.NewEntry()
	biasEntry.SetText(strconv.FormatFloat(m.Bias, 'f', 0, 64))

	amplitudeEntry := widget.NewEntry()
	amplitudeEntry.SetText(strconv.FormatFloat(m.Amplitude, 'f', 0, 64))

	noiseLevelEntry := widget.NewEntry()
	noiseLevelEntry.SetText(strconv.FormatFloat(m.NoiseLevel, 'f', 0, 64))

	sampleRateEntry := durationEntry(m.SampleRate)
	messagePeriodEntry := durationEntry(m.MessagePeriod)

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Bias (ADC)", Widget: biasEntry},
			{Text: "Amplitude (ADC)", Widget: amplitudeEntry},
			{Text: "Noise Level (ADC)", Widget: noiseLevelEntry},
			{Text: "Sample Rate", Widget: sampleRateEntry},
			{Text: "Message Period", Widget: messagePeriodEntry},
		},
		OnSubmit: func() {
			prev := *state.cfg

			parseFloat(biasEntry, &m.Bias)
			parseFloat(amplitudeEntry, &m.Amplitude)
			parseFloat(noiseLevelEntry, &m.NoiseLevel)
			parseDuration(sampleRateEntry, &m.SampleRate)
			parseDuration(messagePeriodEntry, &m.MessagePeriod)

			if !saveConfig(state, prev) {
				return
			}
			if state.useMock {
				restartChain(state)
			}
		},
	}

	return container.NewTabItem("Mock", form)
}
