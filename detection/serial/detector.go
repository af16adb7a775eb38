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

// Package serial detects serial adapters whose modem control lines can
// carry the link
package serial

import (
	"context"
	"fmt"

	"github.com/ZaparooProject/go-pofo/detection"
	"go.bug.st/serial/enumerator"
)

// Transport is the backend name reported in DeviceInfo
const Transport = "modem"

type detector struct {
	list func() ([]*enumerator.PortDetails, error)
}

// New creates a serial adapter detector
func New() detection.Detector {
	return &detector{list: enumerator.GetDetailedPortsList}
}

func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return Transport
}

// Detect lists serial ports. USB adapters rank above built-in ports, which
// rarely have all four modem lines wired.
func (d *detector) Detect(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	ports, err := d.list()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}

	devices := make([]detection.DeviceInfo, 0, len(ports))
	for _, port := range ports {
		if ctx.Err() != nil {
			return devices, detection.ErrDetectionTimeout
		}
		if detection.IsPathIgnored(port.Name, opts.IgnorePaths) {
			continue
		}

		device := detection.DeviceInfo{
			Transport:  Transport,
			Path:       port.Name,
			Name:       "Serial port " + port.Name,
			Confidence: detection.Low,
			Metadata:   map[string]string{},
		}
		if port.IsUSB {
			vidpid := detection.FormatVIDPID(port.VID, port.PID)
			if detection.IsBlocked(vidpid, opts.Blocklist) {
				continue
			}
			device.Confidence = detection.Medium
			device.Metadata["vidpid"] = vidpid
			if port.Product != "" {
				device.Name = port.Product
				device.Metadata["product"] = port.Product
			}
			if port.SerialNumber != "" {
				device.Metadata["serial"] = port.SerialNumber
			}
		}
		devices = append(devices, device)
	}

	if len(devices) == 0 {
		return nil, detection.ErrNoDevicesFound
	}
	return devices, nil
}
