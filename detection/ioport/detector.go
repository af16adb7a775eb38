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

// Package ioport detects direct I/O port access through /dev/port
package ioport

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/ZaparooProject/go-pofo/detection"
	"github.com/ZaparooProject/go-pofo/port/ioport"
)

// Transport is the backend name reported in DeviceInfo
const Transport = "ioport"

type detector struct {
	path string
	goos string
}

// New creates an I/O port detector
func New() detection.Detector {
	return &detector{path: ioport.DefaultDevice, goos: runtime.GOOS}
}

func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return Transport
}

// Detect reports the legacy LPT1 address when the port space file exists.
// Whether a port actually sits at that address cannot be told without
// driving its lines, so the confidence stays low.
func (d *detector) Detect(_ context.Context, _ *detection.Options) ([]detection.DeviceInfo, error) {
	if d.goos != "linux" {
		return nil, detection.ErrUnsupportedPlatform
	}
	if _, err := os.Stat(d.path); err != nil {
		return nil, detection.ErrNoDevicesFound
	}

	path := fmt.Sprintf("%s@%#x", d.path, ioport.DefaultBase)
	return []detection.DeviceInfo{{
		Transport:  Transport,
		Path:       path,
		Name:       "Parallel port registers at " + fmt.Sprintf("%#x", ioport.DefaultBase),
		Confidence: detection.Low,
		Metadata: map[string]string{
			"device":       d.path,
			"base":         fmt.Sprintf("%#x", ioport.DefaultBase),
			"requiresRoot": "true",
		},
	}}, nil
}
