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
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	pofo "github.com/ZaparooProject/go-pofo"
	"github.com/ZaparooProject/go-pofo/detection"
	// Import all detectors to register them
	_ "github.com/ZaparooProject/go-pofo/detection/gpio"
	_ "github.com/ZaparooProject/go-pofo/detection/ioport"
	_ "github.com/ZaparooProject/go-pofo/detection/parport"
	_ "github.com/ZaparooProject/go-pofo/detection/serial"
	"github.com/ZaparooProject/go-pofo/port/gpio"
	"github.com/ZaparooProject/go-pofo/port/ioport"
	"github.com/ZaparooProject/go-pofo/port/modem"
	"github.com/ZaparooProject/go-pofo/port/parport"
)

var errNoSerialDevice = errors.New("the modem backend needs a serial device, use -d")

// openPort opens the port selected by s
func openPort(ctx context.Context, s settings) (pofo.Port, error) {
	switch s.Backend {
	case backendParport:
		port, err := parport.New(s.Device)
		if err != nil {
			return nil, err
		}
		return port, nil
	case backendIOPort:
		port, err := ioport.New(s.Device, s.Address)
		if err != nil {
			return nil, fmt.Errorf("failed to open I/O port: %w", err)
		}
		return port, nil
	case backendGPIO:
		port, err := gpio.New(s.Pins)
		if err != nil {
			return nil, fmt.Errorf("failed to open GPIO port: %w", err)
		}
		return port, nil
	case backendModem:
		if s.Device == "" {
			return nil, errNoSerialDevice
		}
		port, err := modem.New(s.Device)
		if err != nil {
			return nil, fmt.Errorf("failed to open serial adapter: %w", err)
		}
		return port, nil
	case backendAuto:
		return openDetected(ctx, s)
	default:
		return nil, fmt.Errorf("unsupported backend %q", s.Backend)
	}
}

// openDetected opens the most likely detected port
func openDetected(ctx context.Context, s settings) (pofo.Port, error) {
	opts := detection.DefaultOptions()
	opts.Mode = detection.Safe
	devices, err := detection.DetectAllContext(ctx, &opts)
	if err != nil {
		return nil, fmt.Errorf("failed to detect a port: %w", err)
	}

	var errs []error
	for _, dev := range devices {
		next := s
		next.Backend = dev.Transport
		next.Device = dev.Path
		switch dev.Transport {
		case backendIOPort:
			next.Device = dev.Metadata["device"]
		case backendGPIO:
			// Detection only reports the configured default pins
			next.Device = ""
		}
		port, err := openPort(ctx, next)
		if err == nil {
			return port, nil
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

func deviceOr(device, fallback string) string {
	if device == "" {
		return fallback
	}
	return device
}

// parseAddress accepts decimal, 0x hex and 0 octal port addresses
func parseAddress(s string) (int64, error) {
	addr, err := strconv.ParseInt(strings.TrimSpace(s), 0, 64)
	if err != nil || addr <= 0 {
		return 0, fmt.Errorf("invalid port address %q", s)
	}
	return addr, nil
}

// scan prints every detected port
func scan(ctx context.Context, out *output) error {
	opts := detection.DefaultOptions()
	devices, err := detection.DetectAllContext(ctx, &opts)
	if errors.Is(err, detection.ErrNoDevicesFound) {
		out.printf("No ports found.\n")
		return nil
	}
	if err != nil {
		return err
	}
	for _, dev := range devices {
		out.printf("%-8s %-32s %-7s %s\n", dev.Transport, dev.Path, dev.Confidence, dev.Name)
	}
	return nil
}
