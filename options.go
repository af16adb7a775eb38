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

import "fmt"

// Option is a functional option for configuring a Session
type Option func(*Session) error

// WithForce allows existing destination files to be overwritten
func WithForce(force bool) Option {
	return func(s *Session) error {
		s.config.Force = force
		return nil
	}
}

// WithTiming overrides the protocol delays
func WithTiming(timing Timing) Option {
	return func(s *Session) error {
		if timing.ByteDelay < 0 || timing.BlockDelay < 0 || timing.AckDelay < 0 {
			return fmt.Errorf("%w: negative delay", ErrInvalidParameter)
		}
		s.config.Timing = timing
		return nil
	}
}

// WithFileSystem sets the local file system used for transfers
func WithFileSystem(fsys FileSystem) Option {
	return func(s *Session) error {
		if fsys == nil {
			return fmt.Errorf("%w: nil file system", ErrInvalidParameter)
		}
		s.config.FileSystem = fsys
		return nil
	}
}

// WithProgressCallback sets a callback for transfer progress
func WithProgressCallback(callback ProgressCallback) Option {
	return func(s *Session) error {
		s.config.Progress = callback
		return nil
	}
}

// WithMaxFileSize sets the size above which outgoing files are skipped. It
// cannot exceed MaxFileLength.
func WithMaxFileSize(size int64) Option {
	return func(s *Session) error {
		if size <= 0 || size > MaxFileLength {
			return fmt.Errorf("%w: max file size %d", ErrInvalidParameter, size)
		}
		s.config.MaxFileSize = size
		return nil
	}
}

// WithPayloadBufferSize sets the size of the payload buffer. It bounds the
// block size the device may request and the largest block it may send.
func WithPayloadBufferSize(size int) Option {
	return func(s *Session) error {
		if size <= 0 {
			return fmt.Errorf("%w: payload buffer size %d", ErrInvalidParameter, size)
		}
		s.config.PayloadBufferSize = size
		return nil
	}
}

// WithChannelOptions passes options to the bit channel created by Connect
func WithChannelOptions(opts ...ChannelOption) Option {
	return func(s *Session) error {
		s.channelOpts = append(s.channelOpts, opts...)
		return nil
	}
}
