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
	"context"
	"fmt"
)

// MaxFileLength is the largest length the three-byte length field of an
// open-for-write block can announce
const MaxFileLength = 1<<24 - 1

// DefaultMaxFileSize is the largest file Send will transmit
const DefaultMaxFileSize = MaxFileLength

// Config contains the settings of a Session
type Config struct {
	FileSystem        FileSystem
	Progress          ProgressCallback
	Timing            Timing
	MaxFileSize       int64
	PayloadBufferSize int
	Force             bool
}

// DefaultConfig returns the default session configuration
func DefaultConfig() *Config {
	return &Config{
		FileSystem:        OSFileSystem{},
		Timing:            DefaultTiming(),
		MaxFileSize:       DefaultMaxFileSize,
		PayloadBufferSize: DefaultPayloadBufferSize,
	}
}

// Outcome is how a single transfer job ended
type Outcome int

const (
	// OutcomeTransferred means the file was copied
	OutcomeTransferred Outcome = iota
	// OutcomeSkippedExists means the destination existed and force was off
	OutcomeSkippedExists
	// OutcomeSkippedDirectory means the source was a directory
	OutcomeSkippedDirectory
	// OutcomeSkippedTooLarge means the source exceeded the size limit
	OutcomeSkippedTooLarge
	// OutcomeFailed means the job ended with an error
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTransferred:
		return "transferred"
	case OutcomeSkippedExists:
		return "skipped: destination exists"
	case OutcomeSkippedDirectory:
		return "skipped: directory"
	case OutcomeSkippedTooLarge:
		return "skipped: too large"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// JobResult describes one (source, destination) transfer
type JobResult struct {
	Source  string
	Dest    string
	Bytes   int64
	Blocks  int
	Outcome Outcome
}

// Report collects the job results of a run
type Report struct {
	Jobs []JobResult
}

// Count returns the number of jobs with the given outcome
func (r *Report) Count(outcome Outcome) int {
	n := 0
	for _, job := range r.Jobs {
		if job.Outcome == outcome {
			n++
		}
	}
	return n
}

// Session runs file transfer jobs against the device's transfer server.
// It owns the block transport and the payload, control and listing buffers
// for its whole lifetime.
//
// Jobs run strictly one after another. A fatal error leaves the device in an
// unknown protocol state: the session must not be used for further jobs.
//
// Thread Safety: Session is NOT thread-safe.
type Session struct {
	transport   *Transport
	config      *Config
	port        Port
	channelOpts []ChannelOption
	payload     []byte
	control     []byte
	listing     []byte
	received    int
}

func newSession(opts []Option) (*Session, error) {
	s := &Session{
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.payload = make([]byte, s.config.PayloadBufferSize)
	s.control = make([]byte, controlBufferSize)
	s.listing = make([]byte, listingBufferSize)
	return s, nil
}

// NewSession creates a session over an already synchronized link
func NewSession(link Link, opts ...Option) (*Session, error) {
	if link == nil {
		return nil, fmt.Errorf("%w: nil link", ErrInvalidParameter)
	}
	s, err := newSession(opts)
	if err != nil {
		return nil, err
	}
	s.transport = NewTransport(link, s.config.Timing)
	return s, nil
}

// Connect waits for the device on port to enter server mode and returns a
// session that owns the port. The port is closed by Session.Close; when
// Connect fails the caller still owns it.
func Connect(ctx context.Context, port Port, opts ...Option) (*Session, error) {
	if port == nil {
		return nil, fmt.Errorf("%w: nil port", ErrInvalidParameter)
	}
	s, err := newSession(opts)
	if err != nil {
		return nil, err
	}

	chOpts := append([]ChannelOption{WithByteDelay(s.config.Timing.ByteDelay)}, s.channelOpts...)
	ch := NewChannel(port, chOpts...)

	debugEvent().Str("port", port.Name()).Msg("waiting for device")
	if err := ch.Synchronize(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSynchronization, err)
	}

	s.transport = NewTransport(ch, s.config.Timing)
	s.port = port
	return s, nil
}

// Close releases the port if the session owns one
func (s *Session) Close() error {
	if s.port == nil {
		return nil
	}
	port := s.port
	s.port = nil
	if err := port.Close(); err != nil {
		return fmt.Errorf("failed to close port: %w", err)
	}
	return nil
}

// Config returns the session configuration
func (s *Session) Config() Config {
	return *s.config
}

// Received returns the number of files received so far
func (s *Session) Received() int {
	return s.received
}

func (s *Session) report(p Progress) {
	if s.config.Progress != nil {
		s.config.Progress(p)
	}
}

// receiveControl reads a control reply. The buffer is cleared first so a
// short reply never exposes bytes of an earlier one.
func (s *Session) receiveControl(ctx context.Context, op string) ([]byte, error) {
	clear(s.control)
	if _, err := s.transport.ReceiveBlock(ctx, s.control); err != nil {
		if !IsFatal(err) {
			// The device keeps sending the oversized reply; nothing after
			// this point would line up.
			return nil, NewProtocolError(op, err)
		}
		return nil, err
	}
	return s.control, nil
}

func blockCount(total, blockSize int64) int {
	if total <= 0 || blockSize <= 0 {
		return 0
	}
	return int((total + blockSize - 1) / blockSize)
}
