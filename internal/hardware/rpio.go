package hardware

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/stianeikeland/go-rpio/v4"
)

// vref is the MCP3008 reference voltage on the Pi's 3.3 V rail.
const vref = 3.3

// rpioHAL drives the real board: button on a pulled-up GPIO line, knob
// and battery divider on an MCP3008 behind the Pi's SPI0 bus, tag UIDs
// from the spool file the reader service maintains.
type rpioHAL struct {
	cfg    Config
	button rpio.Pin
	logger *slog.Logger
}

// NewRpio opens the GPIO memory map and the SPI bus. The caller owns
// Close.
func NewRpio(cfg Config, logger *slog.Logger) (HAL, error) {
	cfg = cfg.withDefaults()

	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("opening gpio: %w", err)
	}
	if err := rpio.SpiBegin(rpio.Spi0); err != nil {
		rpio.Close()
		return nil, fmt.Errorf("opening spi0: %w", err)
	}
	rpio.SpiChipSelect(0)

	button := rpio.Pin(cfg.ButtonPin)
	button.Input()
	button.PullUp()

	logger.Info("Hardware initialized",
		"button_pin", cfg.ButtonPin,
		"volume_channel", cfg.VolumeChannel,
		"battery_channel", cfg.BatteryChannel,
		"uid_file", cfg.UIDFile)

	return &rpioHAL{cfg: cfg, button: button, logger: logger}, nil
}

// ButtonLevel reports pressed. The line is pulled up, so pressed reads
// low.
func (h *rpioHAL) ButtonLevel() bool {
	return h.button.Read() == rpio.Low
}

// ReadUID reads the spool file written by the NFC reader service. An
// absent or empty file means no tag is present.
func (h *rpioHAL) ReadUID() (string, bool) {
	return readUIDFile(h.cfg.UIDFile)
}

func readUIDFile(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	uid := strings.TrimSpace(string(data))
	return uid, uid != ""
}

func (h *rpioHAL) VolumeKnob() (float64, error) {
	raw, err := h.readChannel(h.cfg.VolumeChannel)
	if err != nil {
		return 0, err
	}
	return float64(raw) / 1023.0, nil
}

func (h *rpioHAL) BatteryVolts() (float64, error) {
	raw, err := h.readChannel(h.cfg.BatteryChannel)
	if err != nil {
		return 0, err
	}
	return float64(raw) / 1023.0 * vref * h.cfg.BatteryDivider, nil
}

// readChannel performs one MCP3008 single-ended conversion: start bit,
// then single-ended mode plus the channel number in the high nibble.
// The 10-bit result straddles the last two bytes of the exchange.
func (h *rpioHAL) readChannel(channel int) (int, error) {
	if channel < 0 || channel > 7 {
		return 0, fmt.Errorf("mcp3008 channel %d out of range", channel)
	}
	buf := []byte{1, byte(8+channel) << 4, 0}
	rpio.SpiExchange(buf)
	return int(buf[1]&0x03)<<8 | int(buf[2]), nil
}

func (h *rpioHAL) Close() error {
	rpio.SpiEnd(rpio.Spi0)
	return rpio.Close()
}
