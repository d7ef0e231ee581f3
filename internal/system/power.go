// Package system talks to systemd-logind for host power control.
package system

import (
	"fmt"
	"log/slog"

	"github.com/coreos/go-systemd/v22/login1"
)

// Power requests host shutdown through logind over D-Bus.
type Power struct {
	conn   *login1.Conn
	logger *slog.Logger

	// DryRun logs instead of powering off. Set during development so a
	// long-press does not kill the workstation.
	DryRun bool
}

// NewPower opens the logind connection.
func NewPower(logger *slog.Logger, dryRun bool) (*Power, error) {
	conn, err := login1.New()
	if err != nil {
		return nil, fmt.Errorf("connecting to logind: %w", err)
	}
	return &Power{conn: conn, logger: logger, DryRun: dryRun}, nil
}

// Off powers the host down. With DryRun set it only logs the request.
func (p *Power) Off() {
	if p.DryRun {
		p.logger.Info("Power-off requested (dry run, skipping)")
		return
	}
	p.logger.Info("Powering off")
	p.conn.PowerOff(false)
}

// Close releases the D-Bus connection.
func (p *Power) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
