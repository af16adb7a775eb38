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

//go:build !linux

package parport

func openClaimed(string) (int, error) {
	return -1, ErrUnsupportedPlatform
}

func readStatus(int) (byte, error) {
	return 0, ErrUnsupportedPlatform
}

func writeData(int, byte) error {
	return ErrUnsupportedPlatform
}

func release(int) error {
	return ErrUnsupportedPlatform
}

// Probe reports whether path is a ppdev device that can be claimed
func Probe(string) bool {
	return false
}
