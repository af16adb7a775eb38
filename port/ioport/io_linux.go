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

//go:build linux

package ioport

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func open(path string) (int, error) {
	return unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
}

func readAt(fd int, offset int64) (byte, error) {
	var buf [1]byte
	n, err := unix.Pread(fd, buf[:], offset)
	if err != nil {
		return 0, fmt.Errorf("read port %#x: %w", offset, err)
	}
	if n != 1 {
		return 0, fmt.Errorf("read port %#x: short read", offset)
	}
	return buf[0], nil
}

func writeAt(fd int, offset int64, b byte) error {
	n, err := unix.Pwrite(fd, []byte{b}, offset)
	if err != nil {
		return fmt.Errorf("write port %#x: %w", offset, err)
	}
	if n != 1 {
		return fmt.Errorf("write port %#x: short write", offset)
	}
	return nil
}

func closeFD(fd int) error {
	return unix.Close(fd)
}
