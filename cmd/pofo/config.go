// go-pofo
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-pofo.
//
// go-pofo is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-pofo is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-pofo; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	pofo "github.com/ZaparooProject/go-pofo"
	"github.com/ZaparooProject/go-pofo/port/gpio"
	"github.com/ZaparooProject/go-pofo/port/ioport"
)

// Backend names accepted by -backend and the config file
const (
	backendAuto    = "auto"
	backendParport = "parport"
	backendIOPort  = "ioport"
	backendGPIO    = "gpio"
	backendModem   = "modem"
)

// settings is the resolved configuration of one run
type settings struct {
	Backend string
	// Device is the device file or serial port; empty selects the
	// backend's default
	Device      string
	Pins        gpio.Pins
	Timing      pofo.Timing
	Address     int64
	EdgeTimeout time.Duration
	Force       bool
	Debug       bool
}

func defaultSettings() settings {
	return settings{
		Backend: backendParport,
		Address: ioport.DefaultBase,
		Pins:    gpio.DefaultPins(),
		Timing:  pofo.DefaultTiming(),
	}
}

// pofo config.toml key mapping to run settings
type fileConfig struct {
	Backend     string        `toml:"backend"`
	Device      string        `toml:"device"`
	Address     int64         `toml:"address"`
	Force       bool          `toml:"force"`
	Debug       bool          `toml:"debug"`
	EdgeTimeout time.Duration `toml:"edge_timeout"`
	Timing      timingConfig  `toml:"timing"`
	GPIO        pinsConfig    `toml:"gpio"`
}

type timingConfig struct {
	ByteDelay  time.Duration `toml:"byte_delay"`
	BlockDelay time.Duration `toml:"block_delay"`
	AckDelay   time.Duration `toml:"ack_delay"`
}

type pinsConfig struct {
	ClockOut string `toml:"clock_out"`
	DataOut  string `toml:"data_out"`
	ClockIn  string `toml:"clock_in"`
	DataIn   string `toml:"data_in"`
}

// loadConfig overlays the keys present in the TOML file at path on the
// defaults
func loadConfig(path string) (settings, error) {
	cfg := defaultSettings()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return settings{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return settings{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("backend") {
		cfg.Backend = strings.ToLower(strings.TrimSpace(raw.Backend))
	}
	if meta.IsDefined("device") {
		cfg.Device = strings.TrimSpace(raw.Device)
	}
	if meta.IsDefined("address") {
		cfg.Address = raw.Address
	}
	if meta.IsDefined("force") {
		cfg.Force = raw.Force
	}
	if meta.IsDefined("debug") {
		cfg.Debug = raw.Debug
	}
	if meta.IsDefined("edge_timeout") {
		cfg.EdgeTimeout = raw.EdgeTimeout
	}
	if meta.IsDefined("timing", "byte_delay") {
		cfg.Timing.ByteDelay = raw.Timing.ByteDelay
	}
	if meta.IsDefined("timing", "block_delay") {
		cfg.Timing.BlockDelay = raw.Timing.BlockDelay
	}
	if meta.IsDefined("timing", "ack_delay") {
		cfg.Timing.AckDelay = raw.Timing.AckDelay
	}
	if meta.IsDefined("gpio", "clock_out") {
		cfg.Pins.ClockOut = strings.TrimSpace(raw.GPIO.ClockOut)
	}
	if meta.IsDefined("gpio", "data_out") {
		cfg.Pins.DataOut = strings.TrimSpace(raw.GPIO.DataOut)
	}
	if meta.IsDefined("gpio", "clock_in") {
		cfg.Pins.ClockIn = strings.TrimSpace(raw.GPIO.ClockIn)
	}
	if meta.IsDefined("gpio", "data_in") {
		cfg.Pins.DataIn = strings.TrimSpace(raw.GPIO.DataIn)
	}

	if err := cfg.validate(); err != nil {
		return settings{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (s settings) validate() error {
	switch s.Backend {
	case backendAuto, backendParport, backendIOPort, backendGPIO, backendModem:
	default:
		return fmt.Errorf("unsupported backend %q (expected auto, parport, ioport, gpio or modem)", s.Backend)
	}
	if s.Timing.ByteDelay < 0 || s.Timing.BlockDelay < 0 || s.Timing.AckDelay < 0 || s.EdgeTimeout < 0 {
		return errors.New("negative delay")
	}
	return nil
}
