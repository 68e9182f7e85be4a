package main

import (
	"fmt"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/gomorse/pkg/config"
	"github.com/itohio/gomorse/pkg/link"
	"github.com/itohio/gomorse/pkg/monitor"
	"github.com/itohio/gomorse/pkg/scope"
	flag "github.com/spf13/pflag"
)

func main() {
	var (
		portFlag    = flag.StringP("port", "p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag  = flag.StringP("config", "c", "config.yaml", "Configuration file path")
		mockFlag    = flag.Bool("mock", false, "Use simulated link instead of serial port")
		messageFlag = flag.StringP("message", "m", "", "Message the simulated transmitter sends (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *messageFlag != "" {
		if err := config.ValidateMessage(*messageFlag); err != nil {
			log.Fatalf("Invalid message: %v", err)
		}
		cfg.Transmitter.Message = *messageFlag
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	application := app.NewWithID("com.itohio.gomorse")

	window := application.NewWindow("Morse Link Monitor")
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()

	state := &appState{
		cfg:        cfg,
		configPath: *configFlag,
		monitor:    monitor.New(cfg),
		window:     window,
		useMock:    *mockFlag,
	}

	toolbar := createToolbar(state)

	state.scopeWidget = scope.New(cfg)
	state.textLabel = widget.NewLabel("")
	state.textLabel.Wrapping = fyne.TextWrapWord
	state.textLabel.TextStyle = fyne.TextStyle{Monospace: true}

	content := container.NewBorder(
		toolbar,
		state.textLabel,
		nil,
		nil,
		state.scopeWidget,
	)

	window.SetContent(content)
	window.SetOnClosed(func() {
		closeDecodeChain(state.chain)
	})
	window.ShowAndRun()
}

// decodeChain tracks the goroutines fed by a device for graceful shutdown.
type decodeChain struct {
	device     link.Device
	points     <-chan monitor.Point
	pointsDone chan struct{} // Closed when the point goroutine exits
	textDone   chan struct{} // Closed when the text goroutine exits
}

// appState holds the application state.
type appState struct {
	cfg         *config.Config
	configPath  string
	device      link.Device
	monitor     *monitor.Monitor
	scopeWidget *scope.ScopeWidget
	textLabel   *widget.Label
	window      fyne.Window
	connectBtn  *widget.Button
	controls    *messageControls
	useMock     bool
	chain       *decodeChain // Current chain (nil if not connected)
	registered  bool         // Monitor callback registered

	// Throttling for scope updates
	lastUpdateTime time.Time
	updateMu       sync.Mutex
}

// createToolbar creates the toolbar with Connect and Settings on the left
// and the message controls on the right.
func createToolbar(state *appState) fyne.CanvasObject {
	connectBtn := widget.NewButtonWithIcon("", theme.LoginIcon(), func() {
		handleConnect(state)
	})
	state.connectBtn = connectBtn

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	clearBtn := widget.NewButtonWithIcon("", theme.ContentClearIcon(), func() {
		state.monitor.Clear()
		state.textLabel.SetText("")
	})

	state.controls = newMessageControls(state)

	return container.NewBorder(
		nil,
		nil,
		container.NewHBox(connectBtn, settingsBtn, clearBtn),
		state.controls.box,
		nil,
	)
}

// closeDecodeChain gracefully closes the chain.
// Waits for all goroutines to finish and channels to drain.
func closeDecodeChain(chain *decodeChain) {
	if chain == nil {
		return
	}

	// Closing the device closes its Samples and Text channels
	if chain.device != nil {
		if err := chain.device.Close(); err != nil {
			log.Printf("Failed to close device: %v", err)
		}
	}

	if chain.textDone != nil {
		<-chain.textDone
	}
	// The decoder closes points once it drains the samples
	if chain.pointsDone != nil {
		<-chain.pointsDone
	}
}

// handleConnect handles the connect/disconnect button click.
func handleConnect(state *appState) {
	if state.device != nil && state.device.IsConnected() {
		closeDecodeChain(state.chain)
		state.chain = nil
		state.device = nil
		state.controls.setEnabled(false)
		state.connectBtn.SetIcon(theme.LoginIcon())
		if state.useMock {
			fmt.Println("Disconnected from simulated link")
		} else {
			fmt.Println("Disconnected from serial port")
		}
		return
	}

	var device link.Device
	if state.useMock {
		device = link.NewMock(state.cfg)
		fmt.Println("Using simulated link")
	} else {
		device = link.New(state.cfg.Serial.Port, state.cfg.Serial.BaudRate, link.DefaultBufferSize)
	}

	if err := device.Connect(); err != nil {
		if state.useMock {
			dialog.ShowError(fmt.Errorf("failed to start simulated link: %w", err), state.window)
		} else {
			dialog.ShowError(fmt.Errorf("failed to connect to %s: %w", state.cfg.Serial.Port, err), state.window)
		}
		return
	}
	state.device = device
	if !state.useMock {
		fmt.Printf("Connected to serial port: %s\n", state.cfg.Serial.Port)
	}

	state.controls.setEnabled(true)
	state.connectBtn.SetIcon(theme.LogoutIcon())

	// Reset monitor shutdown flag for the new chain
	state.monitor.ResetShutdown()
	registerMonitorCallback(state)

	points := monitor.NewDecoder(state.cfg, 500)(device.Samples())

	pointsDone := make(chan struct{})
	textDone := make(chan struct{})

	go func() {
		defer close(pointsDone)
		state.monitor.ProcessPoints(points)
	}()
	go func() {
		defer close(textDone)
		state.monitor.ProcessText(device.Text())
	}()

	state.chain = &decodeChain{
		device:     device,
		points:     points,
		pointsDone: pointsDone,
		textDone:   textDone,
	}
}

// registerMonitorCallback installs the scope update callback once per monitor.
// Updates are throttled to ~60 FPS.
func registerMonitorCallback(state *appState) {
	if state.registered {
		return
	}
	state.registered = true

	const updateInterval = 16 * time.Millisecond
	state.monitor.OnUpdate(func(snap monitor.Snapshot) {
		state.updateMu.Lock()
		now := time.Now()
		if now.Sub(state.lastUpdateTime) < updateInterval {
			state.updateMu.Unlock()
			return
		}
		state.lastUpdateTime = now
		state.updateMu.Unlock()

		UpdateWidgetOnMainThread(func() {
			state.scopeWidget.UpdateData(snap)
			state.textLabel.SetText(formatText(snap))
		})
	})
}
