// Command morsesim keys a message onto a simulated acoustic or infrared link
// and decodes it in virtual time.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/itohio/gomorse/pkg/config"
	"github.com/itohio/gomorse/pkg/receiver"
	flag "github.com/spf13/pflag"
)

func main() {
	var (
		configFlag  = flag.StringP("config", "c", "", "Configuration file path (defaults when empty)")
		messageFlag = flag.StringP("message", "m", "", "Message to send (overrides config)")
		inputFlag   = flag.String("input", "", "Receiver input: analog or digital (overrides config)")
		noiseFlag   = flag.Float64("noise", -1, "Peak channel noise in ADC counts (overrides config)")
		seedFlag    = flag.Uint64("seed", 0, "Noise seed (overrides config when non-zero)")
		guardFlag   = flag.Duration("peak-guard", -1, "Rising edge peak guard, 0 disables (overrides config)")
		encodeFlag  = flag.Bool("encode", false, "Print codes and the keyed timeline only")
		traceFlag   = flag.Bool("trace", false, "Print every accepted edge, symbol and character")
	)
	flag.Parse()

	cfg := config.Default()
	if *configFlag != "" {
		var err error
		if cfg, err = config.Load(*configFlag); err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}

	if *messageFlag != "" {
		cfg.Transmitter.Message = strings.ToUpper(*messageFlag)
	}
	if *inputFlag != "" {
		cfg.Receiver.Input = *inputFlag
		if *inputFlag == config.InputDigital {
			digital := receiver.DigitalConfig()
			cfg.Receiver.FilterSize = digital.Signal.FilterSize
			cfg.Receiver.Threshold = float64(digital.Signal.Threshold)
			cfg.Receiver.Debounce = digital.Signal.Debounce
			cfg.Receiver.PeakGuard = digital.Signal.PeakGuard
		}
	}
	if *noiseFlag >= 0 {
		cfg.Mock.NoiseLevel = *noiseFlag
	}
	if *seedFlag != 0 {
		cfg.Mock.Seed = *seedFlag
	}
	if *guardFlag >= 0 {
		cfg.Receiver.PeakGuard = *guardFlag
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	message := cfg.Transmitter.Message
	if *encodeFlag {
		if err := encode(os.Stdout, cfg.Transmitter.Timing(), message); err != nil {
			log.Fatal(err)
		}
		return
	}

	var events func(receiver.Event)
	if *traceFlag {
		events = func(ev receiver.Event) {
			switch {
			case ev.Emitted:
				fmt.Printf("%8v char %c\n", ev.At, ev.Char)
			case ev.Flushed:
				fmt.Printf("%8v miss\n", ev.At)
			case ev.Symbol:
				fmt.Printf("%8v %s %v\n", ev.At, ev.Pulse.Symbol, ev.Pulse.Duration())
			case ev.Edge:
				fmt.Printf("%8v %v\n", ev.At, ev.State)
			}
		}
	}

	res := simulate(cfg, message, events)
	report(os.Stdout, message, res)

	if strings.ReplaceAll(message, " ", "") != res.Text {
		os.Exit(1)
	}
}
