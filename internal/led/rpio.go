package led

import (
	"github.com/stianeikeland/go-rpio/v4"
)

// pwmCycleLen is the PWM resolution; duty is quantized to 1/128 steps.
const pwmCycleLen = 128

// rpioDriver drives the button LED through a hardware PWM pin on a
// Raspberry Pi. The caller is responsible for rpio.Open/Close lifecycle
// (shared with the button and ADC wiring in internal/hardware).
type rpioDriver struct {
	pin rpio.Pin
}

// newRpioPWM configures the given BCM pin for hardware PWM at freq Hz.
func newRpioPWM(pin int, freq int) *rpioDriver {
	p := rpio.Pin(pin)
	p.Mode(rpio.Pwm)
	// go-rpio wants the PWM clock frequency, i.e. cycle frequency times
	// resolution.
	p.Freq(freq * pwmCycleLen)
	p.DutyCycle(0, pwmCycleLen)
	return &rpioDriver{pin: p}
}

// SetDuty sets the PWM duty cycle.
func (d *rpioDriver) SetDuty(level float64) error {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	d.pin.DutyCycle(uint32(level*pwmCycleLen+0.5), pwmCycleLen)
	return nil
}
