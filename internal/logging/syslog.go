// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package logging

import (
	"fmt"
	"log/syslog"
)

// SyslogConfig describes a remote syslog sink. It mirrors the shape the
// original appliance config carried under its "syslog" block, trimmed to
// the fields a standalone writer needs.
type SyslogConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Protocol string // "udp" or "tcp"
	Tag      string
	Facility int // RFC 5424 facility number, e.g. 1 = user-level
}

// DefaultSyslogConfig returns the disabled-by-default configuration: a
// remote sink is opt-in, never silently active.
func DefaultSyslogConfig() SyslogConfig {
	return SyslogConfig{
		Enabled:  false,
		Port:     514,
		Protocol: "udp",
		Tag:      "portcullis",
		Facility: 1, // LOG_USER
	}
}

// NewSyslogWriter dials cfg.Host and returns a syslog.Writer the caller
// can plug into log.SetOutput or a slog.Handler. Port, Protocol, and Tag
// are defaulted when left zero.
func NewSyslogWriter(cfg SyslogConfig) (*syslog.Writer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("logging: syslog host is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 514
	}
	if cfg.Protocol == "" {
		cfg.Protocol = "udp"
	}
	if cfg.Tag == "" {
		cfg.Tag = "portcullis"
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	return syslog.Dial(cfg.Protocol, addr, syslog.Priority(cfg.Facility)<<3|syslog.LOG_INFO, cfg.Tag)
}
