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

package parport

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

func ioctl(fd int, req uintptr, arg uintptr) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, arg); errno != 0 {
		return errno
	}
	return nil
}

func openClaimed(path string) (int, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return -1, err
	}
	if err := ioctl(fd, ppClaim, 0); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("PPCLAIM: %w", err)
	}
	return fd, nil
}

func readStatus(fd int) (byte, error) {
	var status byte
	if err := ioctl(fd, ppRStatus, uintptr(unsafe.Pointer(&status))); err != nil {
		return 0, fmt.Errorf("PPRSTATUS: %w", err)
	}
	return status, nil
}

func writeData(fd int, b byte) error {
	if err := ioctl(fd, ppWData, uintptr(unsafe.Pointer(&b))); err != nil {
		return fmt.Errorf("PPWDATA: %w", err)
	}
	return nil
}

func release(fd int) error {
	releaseErr := ioctl(fd, ppRelease, 0)
	if releaseErr != nil {
		releaseErr = fmt.Errorf("PPRELEASE: %w", releaseErr)
	}
	return errors.Join(releaseErr, unix.Close(fd))
}

// Probe reports whether path is a ppdev device that can be claimed
func Probe(path string) bool {
	fd, err := openClaimed(path)
	if err != nil {
		return false
	}
	_ = release(fd)
	return true
}
