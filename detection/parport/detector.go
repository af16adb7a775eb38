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

// Package parport detects ppdev parallel ports
package parport

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ZaparooProject/go-pofo/detection"
	"github.com/ZaparooProject/go-pofo/port/parport"
)

// Transport is the backend name reported in DeviceInfo
const Transport = "parport"

const devicePattern = "/dev/parport*"

type detector struct {
	pattern string
	probe   func(path string) bool
}

// New creates a parallel port detector
func New() detection.Detector {
	return &detector{pattern: devicePattern, probe: parport.Probe}
}

func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return Transport
}

// Detect lists ppdev device nodes. In Safe mode every node is claimed and
// released to confirm it is usable.
func (d *detector) Detect(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	matches, err := filepath.Glob(d.pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for parallel ports: %w", err)
	}

	devices := make([]detection.DeviceInfo, 0, len(matches))
	for _, path := range matches {
		if ctx.Err() != nil {
			return devices, detection.ErrDetectionTimeout
		}
		if detection.IsPathIgnored(path, opts.IgnorePaths) {
			continue
		}

		var number int
		if _, err := fmt.Sscanf(filepath.Base(path), "parport%d", &number); err != nil {
			continue
		}

		device := detection.DeviceInfo{
			Transport:  Transport,
			Path:       path,
			Name:       fmt.Sprintf("Parallel port %d", number),
			Confidence: detection.Medium,
			Metadata:   map[string]string{"number": fmt.Sprint(number)},
		}
		if opts.Mode != detection.Passive {
			if !d.probe(path) {
				continue
			}
			device.Confidence = detection.High
		}
		devices = append(devices, device)
	}

	if len(devices) == 0 {
		return nil, detection.ErrNoDevicesFound
	}
	return devices, nil
}
