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

package pofo

import (
	"io"
	"io/fs"
	"os"
)

// FileSystem is the local side of a transfer
type FileSystem interface {
	// Open opens a file for reading
	Open(name string) (io.ReadCloser, error)

	// Create creates or truncates a file for writing
	Create(name string) (io.WriteCloser, error)

	// Stat describes a file; a missing file yields an error matching
	// fs.ErrNotExist
	Stat(name string) (fs.FileInfo, error)
}

// OSFileSystem is the FileSystem of the host operating system
type OSFileSystem struct{}

// Open implements FileSystem
func (OSFileSystem) Open(name string) (io.ReadCloser, error) {
	return os.Open(name) //nolint:gosec // paths come from the user
}

// Create implements FileSystem
func (OSFileSystem) Create(name string) (io.WriteCloser, error) {
	return os.Create(name) //nolint:gosec // paths come from the user
}

// Stat implements FileSystem
func (OSFileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

var _ FileSystem = OSFileSystem{}
