package monitor

import (
	"log"
	"time"

	"github.com/itohio/gomorse/pkg/config"
	"github.com/itohio/gomorse/pkg/link"
	"github.com/itohio/gomorse/pkg/receiver"
)

// Point is one raw sample together with what the host-side receiver made of it.
type Point struct {
	Raw uint16
	receiver.Event
}

// Decoder is a function type that runs a RawSample channel through a receiver.
type Decoder func(in <-chan link.RawSample) <-chan Point

// NewDecoder creates a decoder running the configured receiver pipeline.
// Each call of the returned function starts a fresh pipeline.
func NewDecoder(cfg *config.Config, bufSize int) Decoder {
	if bufSize <= 0 {
		bufSize = link.DefaultBufferSize
	}

	return func(in <-chan link.RawSample) <-chan Point {
		out := make(chan Point, bufSize)
		rx := receiver.New(cfg.Receiver.Core(), receiver.Sensor{}, nil)

		go func() {
			defer close(out)

			var last time.Duration
			for raw := range in {
				if raw.At < last {
					log.Printf("Sample at %v is older than %v, dropping", raw.At, last)
					continue
				}
				last = raw.At

				p := Point{Raw: raw.Value, Event: rx.Sample(raw.At, raw.Value)}

				select {
				case out <- p:
				case <-time.After(time.Second):
					log.Printf("Decoder output channel full, dropping sample")
				}
			}
		}()

		return out
	}
}
