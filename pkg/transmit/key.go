package transmit

import "github.com/itohio/gomorse/pkg/hal"

// StraightKey mirrors a push button onto the transmitter output so an operator
// can key manually between canned messages.
type StraightKey struct {
	In        hal.DigitalInput
	Out       hal.DigitalOutput
	ActiveLow bool // button pulls the pin low when pressed

	pressed bool
}

// Poll copies the button state onto the output. It never blocks and reports
// whether the key is down.
func (k *StraightKey) Poll() bool {
	down := k.In.Get() != k.ActiveLow
	if down != k.pressed {
		if down {
			k.Out.High()
		} else {
			k.Out.Low()
		}
		k.pressed = down
	}
	return down
}

// Pressed returns the state seen by the last Poll.
func (k *StraightKey) Pressed() bool {
	return k.pressed
}
