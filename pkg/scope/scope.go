package scope

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/gomorse/pkg/config"
	"github.com/itohio/gomorse/pkg/monitor"
	"github.com/itohio/gomorse/pkg/pulse"
)

// ScopeWidget is a custom Fyne widget that displays the received signal oscilloscope-style.
type ScopeWidget struct {
	widget.BaseWidget

	cfg *config.Config

	// Data (protected by mu)
	mu        sync.RWMutex
	pulses    []pulse.Pulse
	threshold float32
	decoded   string
	text      string

	// Display buffer (reused for downsampling)
	display []monitor.Point

	// Auto-scaling
	bounds bounds

	maxDisplayPoints int
}

// bounds is the visible data range.
type bounds struct {
	yMin, yMax float64
	xMin, xMax time.Duration
}

// New creates a new ScopeWidget instance.
func New(cfg *config.Config) *ScopeWidget {
	maxPoints := cfg.Display.MaxPoints
	if maxPoints <= 0 {
		maxPoints = 1000
	}
	s := &ScopeWidget{
		cfg:              cfg,
		display:          make([]monitor.Point, 0, maxPoints),
		maxDisplayPoints: maxPoints,
		threshold:        float32(cfg.Receiver.Threshold),
	}
	s.bounds = autoScale(nil, s.threshold, cfg.Display.Window())
	s.ExtendBaseWidget(s)
	s.Refresh()
	return s
}

// UpdateData updates the widget with a monitor snapshot.
// This should be called from the monitor callback using fyne.Do().
func (s *ScopeWidget) UpdateData(snap monitor.Snapshot) {
	s.mu.Lock()

	s.display = monitor.DownsamplePoints(s.display, snap.Points, s.maxDisplayPoints)
	s.pulses = snap.Pulses
	s.threshold = snap.Threshold
	s.decoded = snap.Decoded
	s.text = snap.Text
	s.bounds = autoScale(s.display, s.threshold, s.cfg.Display.Window())

	s.mu.Unlock()

	// Refresh outside the lock, the renderer takes a read lock
	s.Refresh()
}

// autoScale fits the Y range to raw and filtered values plus the threshold,
// and the X range to at least one display window.
func autoScale(points []monitor.Point, threshold float32, window time.Duration) bounds {
	b := bounds{yMin: 0, yMax: float64(threshold) * 2, xMax: window}
	if b.yMax <= 0 {
		b.yMax = 1
	}
	if len(points) == 0 {
		return b
	}

	b.yMin = float64(threshold)
	b.yMax = float64(threshold)
	for _, p := range points {
		for _, v := range [2]float64{float64(p.Raw), float64(p.Value)} {
			b.yMin = min(b.yMin, v)
			b.yMax = max(b.yMax, v)
		}
	}

	span := b.yMax - b.yMin
	if span == 0 {
		span = 1
	}
	b.yMin -= span * 0.1
	b.yMax += span * 0.1

	b.xMin = points[0].At
	b.xMax = points[len(points)-1].At
	if b.xMax-b.xMin < window {
		b.xMax = b.xMin + window
	}
	return b
}

// x maps a timestamp into the plot area.
func (b bounds) x(t time.Duration, plotX, plotWidth float32) float32 {
	span := b.xMax - b.xMin
	if span <= 0 {
		return plotX
	}
	return plotX + float32(float64(t-b.xMin)/float64(span))*plotWidth
}

// y maps a value into the plot area, larger values higher.
func (b bounds) y(v float64, plotY, plotHeight float32) float32 {
	return plotY + plotHeight - float32((v-b.yMin)/(b.yMax-b.yMin))*plotHeight
}

// CreateRenderer creates the widget renderer.
func (s *ScopeWidget) CreateRenderer() fyne.WidgetRenderer {
	background := canvas.NewRectangle(color.RGBA{R: 20, G: 20, B: 20, A: 255})
	return &scopeRenderer{
		scope:      s,
		background: background,
		objects:    []fyne.CanvasObject{background},
	}
}
