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
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

var (
	debugEnabled atomic.Bool
	logger       atomic.Pointer[zerolog.Logger]
)

func init() {
	l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	logger.Store(&l)
}

// SetDebugEnabled turns protocol debug output on or off
func SetDebugEnabled(enabled bool) {
	debugEnabled.Store(enabled)
}

// SetLogger replaces the logger used for debug output
func SetLogger(l zerolog.Logger) {
	logger.Store(&l)
}

// Logger returns the logger used for debug output
func Logger() zerolog.Logger {
	return *logger.Load()
}

func debugf(format string, args ...any) {
	if !debugEnabled.Load() {
		return
	}
	l := logger.Load()
	l.Debug().Msgf(format, args...)
}

func debugln(msg string) {
	if !debugEnabled.Load() {
		return
	}
	l := logger.Load()
	l.Debug().Msg(msg)
}

// debugEvent returns a debug event for structured fields, or nil when debug
// output is off. zerolog treats a nil event as a no-op.
func debugEvent() *zerolog.Event {
	if !debugEnabled.Load() {
		return nil
	}
	return logger.Load().Debug()
}
