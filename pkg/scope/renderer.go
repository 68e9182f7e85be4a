package scope

import (
	"image/color"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/itohio/gomorse/pkg/monitor"
	"github.com/itohio/gomorse/pkg/pulse"
)

// bannerChars is how much of each text stream the banner shows.
const bannerChars = 48

var (
	gridColor      = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	labelColor     = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	rawColor       = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	filteredColor  = color.RGBA{R: 100, G: 200, B: 255, A: 255}
	thresholdColor = color.RGBA{R: 220, G: 60, B: 60, A: 255}
	pulseColor     = color.RGBA{R: 0, G: 100, B: 200, A: 90}
	bannerColor    = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

// scopeRenderer renders the scope widget.
type scopeRenderer struct {
	scope *ScopeWidget

	background *canvas.Rectangle

	// Objects list for Fyne
	objects []fyne.CanvasObject

	// Track last size to detect changes
	lastSize fyne.Size
}

// MinSize returns the minimum size of the widget.
func (r *scopeRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

// Layout arranges the widget components.
func (r *scopeRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)

	if r.lastSize != size {
		r.lastSize = size
		r.scope.BaseWidget.Refresh()
	}
}

// Refresh rebuilds all canvas objects from the current data.
func (r *scopeRenderer) Refresh() {
	r.scope.mu.RLock()
	points := r.scope.display
	pulses := r.scope.pulses
	threshold := r.scope.threshold
	decoded := r.scope.decoded
	text := r.scope.text
	b := r.scope.bounds
	r.scope.mu.RUnlock()

	size := r.scope.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	r.objects = []fyne.CanvasObject{r.background}

	marginLeft := float32(60.0)
	marginRight := float32(20.0)
	marginTop := float32(50.0)
	marginBottom := float32(40.0)

	plot := plotArea{
		x:      marginLeft,
		y:      marginTop,
		width:  size.Width - marginLeft - marginRight,
		height: size.Height - marginTop - marginBottom,
		b:      b,
	}

	r.drawGrid(plot)
	r.drawPulses(plot, pulses)
	r.drawThreshold(plot, threshold)
	if len(points) > 1 {
		r.drawTrace(plot, points, rawColor, 1.5, func(p monitor.Point) float64 { return float64(p.Raw) })
		r.drawTrace(plot, points, filteredColor, 2.5, func(p monitor.Point) float64 { return float64(p.Value) })
	}
	r.drawBanner(plot, decoded, text)
}

type plotArea struct {
	x, y, width, height float32
	b                   bounds
}

func (p plotArea) px(t time.Duration) float32 { return p.b.x(t, p.x, p.width) }
func (p plotArea) py(v float64) float32       { return p.b.y(v, p.y, p.height) }

func (r *scopeRenderer) line(c color.Color, width float32, from, to fyne.Position) {
	l := canvas.NewLine(c)
	l.Position1 = from
	l.Position2 = to
	l.StrokeWidth = width
	r.objects = append(r.objects, l)
}

func (r *scopeRenderer) label(s string, c color.Color, size float32, align fyne.TextAlign, pos fyne.Position) {
	t := canvas.NewText(s, c)
	t.TextSize = size
	t.Alignment = align
	t.Move(pos)
	r.objects = append(r.objects, t)
}

// drawGrid draws the oscilloscope-style grid with ADC and time labels.
func (r *scopeRenderer) drawGrid(p plotArea) {
	numHLines := 8
	for i := range numHLines + 1 {
		y := p.y + float32(i)*p.height/float32(numHLines)
		r.line(gridColor, 1, fyne.NewPos(p.x, y), fyne.NewPos(p.x+p.width, y))

		value := p.b.yMax - float64(i)*(p.b.yMax-p.b.yMin)/float64(numHLines)
		r.label(strconv.FormatFloat(value, 'f', 0, 64), labelColor, 10, fyne.TextAlignTrailing, fyne.NewPos(p.x-5, y-6))
	}

	numVLines := 10
	for i := range numVLines + 1 {
		x := p.x + float32(i)*p.width/float32(numVLines)
		r.line(gridColor, 1, fyne.NewPos(x, p.y), fyne.NewPos(x, p.y+p.height))

		offset := time.Duration(i) * (p.b.xMax - p.b.xMin) / time.Duration(numVLines)
		r.label(formatTime(offset), labelColor, 10, fyne.TextAlignCenter, fyne.NewPos(x-20, p.y+p.height+5))
	}
}

// drawThreshold draws the decision threshold as a horizontal line.
func (r *scopeRenderer) drawThreshold(p plotArea, threshold float32) {
	y := p.py(float64(threshold))
	if y < p.y || y > p.y+p.height {
		return
	}
	r.line(thresholdColor, 1, fyne.NewPos(p.x, y), fyne.NewPos(p.x+p.width, y))
}

// drawTrace draws one connected trace of the visible points.
func (r *scopeRenderer) drawTrace(p plotArea, points []monitor.Point, c color.Color, width float32, value func(monitor.Point) float64) {
	prev := fyne.NewPos(p.px(points[0].At), p.py(value(points[0])))
	for _, pt := range points[1:] {
		next := fyne.NewPos(p.px(pt.At), p.py(value(pt)))
		r.line(c, width, prev, next)
		prev = next
	}
}

// drawPulses shades each classified pulse and marks it with its symbol.
func (r *scopeRenderer) drawPulses(p plotArea, pulses []pulse.Pulse) {
	for _, pl := range pulses {
		x0 := max(p.px(pl.Start), p.x)
		x1 := min(p.px(pl.End), p.x+p.width)
		if x1 <= x0 {
			continue
		}

		rect := canvas.NewRectangle(pulseColor)
		rect.Move(fyne.NewPos(x0, p.y))
		rect.Resize(fyne.NewSize(x1-x0, p.height))
		r.objects = append(r.objects, rect)

		r.label(pl.Symbol.String(), bannerColor, 16, fyne.TextAlignCenter, fyne.NewPos((x0+x1)/2-5, p.y-20))
	}
}

// drawBanner shows the tail of the host-decoded and node-reported text.
func (r *scopeRenderer) drawBanner(p plotArea, decoded, text string) {
	r.label("RX   "+tail(decoded, bannerChars), bannerColor, 12, fyne.TextAlignLeading, fyne.NewPos(p.x+10, 4))
	r.label("NODE "+tail(text, bannerChars), bannerColor, 12, fyne.TextAlignLeading, fyne.NewPos(p.width/2+p.x, 4))
}

// Objects returns all canvas objects for rendering.
func (r *scopeRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *scopeRenderer) Destroy() {}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func formatTime(d time.Duration) string {
	if d < time.Second {
		return strconv.FormatFloat(d.Seconds(), 'f', 2, 64) + "s"
	}
	return strconv.FormatFloat(d.Seconds(), 'f', 1, 64) + "s"
}
