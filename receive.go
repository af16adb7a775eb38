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
	"path/filepath"
	"strings"
)

// Receive fetches every file matching each of the source patterns into
// dest. When dest is an existing directory files keep their device names.
// The run stops at the first error.
func (s *Session) Receive(ctx context.Context, sources []string, dest string) (*Report, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no sources", ErrInvalidParameter)
	}

	report := &Report{}
	for _, pattern := range sources {
		results, err := s.receiveFiles(ctx, pattern, dest, len(sources) == 1)
		report.Jobs = append(report.Jobs, results...)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

// ReceiveFiles fetches every file matching pattern, which may contain
// device wildcards, into dest
func (s *Session) ReceiveFiles(ctx context.Context, pattern, dest string) ([]JobResult, error) {
	return s.receiveFiles(ctx, pattern, dest, true)
}

func (s *Session) receiveFiles(ctx context.Context, pattern, dest string, single bool) ([]JobResult, error) {
	destIsDir := false
	if info, err := s.config.FileSystem.Stat(dest); err == nil && info.IsDir() {
		destIsDir = true
	}

	names, err := s.requestListing(ctx, pattern, s.listing)
	if err != nil {
		if !IsFatal(err) {
			return nil, NewProtocolError("receive", err)
		}
		return nil, err
	}
	if len(names) == 0 {
		return nil, NewResourceError("receive", fmt.Errorf("%w: %s", ErrRemoteNotFound, pattern))
	}

	debugf("receiving %d files matching %s", len(names), pattern)
	prefix := remotePrefix(pattern)
	results := make([]JobResult, 0, len(names))
	for i, name := range names {
		target := dest
		if destIsDir {
			target = filepath.Join(dest, name)
		}
		remote := appendBounded(prefix, name, MaxPathLength)

		progress := Progress{Op: OpReceive, Source: remote, Dest: target, File: s.received + i + 1}
		if single {
			// The total is only known when one pattern was given
			progress.Files = s.received + len(names)
		}
		s.report(progress)

		if _, err := s.config.FileSystem.Stat(target); err == nil && !s.config.Force {
			s.received += i
			remaining := len(names) - i - 1
			debugEvent().Int("remaining", remaining).Msg("destination exists, remaining files are not copied")
			return results, NewResourceError("receive", &DestinationExistsError{Path: target, Remaining: remaining})
		}

		result, err := s.receiveFile(ctx, remote, target, progress)
		results = append(results, result)
		if err != nil {
			s.received += i
			return results, err
		}
	}

	s.received += len(names)
	return results, nil
}

func (s *Session) receiveFile(ctx context.Context, remote, target string, progress Progress) (result JobResult, err error) {
	result = JobResult{Source: remote, Dest: target, Outcome: OutcomeFailed}

	w, err := s.config.FileSystem.Create(target)
	if err != nil {
		return result, NewResourceError("receive", fmt.Errorf("%w: %s: %w", ErrCreateFailed, target, err))
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil && err == nil {
			err = NewResourceError("receive", fmt.Errorf("close %s: %w", target, closeErr))
		}
	}()

	if err := s.transport.SendBlock(ctx, buildOpenRead(remote)); err != nil {
		return result, err
	}
	reply, err := s.receiveControl(ctx, "receive")
	if err != nil {
		return result, err
	}
	if reply[0] != replySuccess {
		return result, NewProtocolError("receive", fmt.Errorf("%w: status %#02x for %s", ErrUnexpectedReply, reply[0], remote))
	}

	total := uint24(reply[replyLengthOffset:])
	progress.Total = total
	progress.Blocks = blockCount(total, DeviceBufferSize)
	debugEvent().Str("file", remote).Int64("length", total).Int("blocks", progress.Blocks).Msg("receiving payload")

	for remaining := total; remaining > 0; {
		n, err := s.transport.ReceiveBlock(ctx, s.payload)
		if err != nil {
			if !IsFatal(err) {
				return result, NewProtocolError("receive", err)
			}
			return result, err
		}
		if n == 0 {
			return result, NewProtocolError("receive", fmt.Errorf("%w: empty payload block", ErrUnexpectedReply))
		}
		if _, err := w.Write(s.payload[:n]); err != nil {
			return result, NewResourceError("receive", fmt.Errorf("write %s: %w", target, err))
		}

		remaining -= int64(n)
		result.Blocks++
		result.Bytes += int64(n)
		progress.Block = result.Blocks
		progress.Bytes = result.Bytes
		s.report(progress)
	}

	if err := s.transport.SendBlock(ctx, closeBlock); err != nil {
		return result, err
	}

	result.Outcome = OutcomeTransferred
	return result, nil
}

// remotePrefix returns the directory part of a device pattern, including
// the drive colon or last backslash
func remotePrefix(pattern string) string {
	pattern = truncatePath(pattern)
	cut := 0
	if i := strings.LastIndexByte(pattern, DriveSeparator); i >= 0 {
		cut = i + 1
	}
	if i := strings.LastIndexByte(pattern[cut:], PathSeparator); i >= 0 {
		cut += i + 1
	}
	return pattern[:cut]
}
