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

// Package gpio detects whether the default GPIO pins are available
package gpio

import (
	"context"
	"fmt"

	"github.com/ZaparooProject/go-pofo/detection"
	gpioport "github.com/ZaparooProject/go-pofo/port/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Transport is the backend name reported in DeviceInfo
const Transport = "gpio"

type detector struct {
	initHost func() error
	lookup   func(name string) bool
}

// New creates a GPIO detector
func New() detection.Detector {
	return &detector{
		initHost: func() error {
			_, err := host.Init()
			return err
		},
		lookup: func(name string) bool {
			return gpioreg.ByName(name) != nil
		},
	}
}

func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return Transport
}

// Detect reports the default pin set when the host exposes all four pins.
// Nothing tells whether a device is wired to them.
func (d *detector) Detect(_ context.Context, _ *detection.Options) ([]detection.DeviceInfo, error) {
	if err := d.initHost(); err != nil {
		return nil, fmt.Errorf("%w: %w", detection.ErrUnsupportedPlatform, err)
	}

	pins := gpioport.DefaultPins()
	for _, name := range []string{pins.ClockOut, pins.DataOut, pins.ClockIn, pins.DataIn} {
		if !d.lookup(name) {
			return nil, detection.ErrNoDevicesFound
		}
	}

	return []detection.DeviceInfo{{
		Transport:  Transport,
		Path:       pins.String(),
		Name:       "GPIO pins " + pins.String(),
		Confidence: detection.Low,
		Metadata: map[string]string{
			"clockOut": pins.ClockOut,
			"dataOut":  pins.DataOut,
			"clockIn":  pins.ClockIn,
			"dataIn":   pins.DataIn,
		},
	}}, nil
}
