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
	"errors"
	"fmt"
	"io"
	"io/fs"
)

// Send transmits every source to dest. With more than one source dest is
// a directory on the device. The run stops at the first error; skipped
// files are reported, not returned as errors.
func (s *Session) Send(ctx context.Context, sources []string, dest string) (*Report, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no sources", ErrInvalidParameter)
	}

	report := &Report{}
	multi := len(sources) > 1
	for i, source := range sources {
		remote := RemoteName(source, dest, multi)
		result, err := s.sendFile(ctx, source, remote, i+1, len(sources))
		report.Jobs = append(report.Jobs, result)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

// SendFile transmits the local file source to the device path remote
func (s *Session) SendFile(ctx context.Context, source, remote string) (JobResult, error) {
	return s.sendFile(ctx, source, remote, 1, 1)
}

func (s *Session) sendFile(ctx context.Context, source, remote string, file, files int) (JobResult, error) {
	result := JobResult{Source: source, Dest: remote, Outcome: OutcomeFailed}
	progress := Progress{Op: OpSend, Source: source, Dest: remote, File: file, Files: files}
	s.report(progress)

	info, err := s.config.FileSystem.Stat(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, NewResourceError("send", fmt.Errorf("%w: %s", ErrLocalNotFound, source))
		}
		return result, NewResourceError("send", fmt.Errorf("stat %s: %w", source, err))
	}
	if info.IsDir() {
		debugEvent().Str("source", source).Msg("skipping directory")
		result.Outcome = OutcomeSkippedDirectory
		return result, nil
	}
	if info.Size() > s.config.MaxFileSize {
		debugEvent().Str("source", source).Int64("size", info.Size()).Msg("skipping large file")
		result.Outcome = OutcomeSkippedTooLarge
		return result, nil
	}

	f, err := s.config.FileSystem.Open(source)
	if err != nil {
		return result, NewResourceError("send", fmt.Errorf("open %s: %w", source, err))
	}
	defer func() { _ = f.Close() }()

	length := info.Size()
	if err := s.transport.SendBlock(ctx, buildOpenWrite(length, remote)); err != nil {
		return result, err
	}
	reply, err := s.receiveControl(ctx, "send")
	if err != nil {
		return result, err
	}

	switch reply[0] {
	case replyInvalidDest:
		return result, NewProtocolError("send", fmt.Errorf("%w: %s", ErrInvalidDest, remote))
	case replyExists:
		if !s.config.Force {
			debugEvent().Str("dest", remote).Msg("file exists on device, cancelling")
			if err := s.transport.SendBlock(ctx, cancelBlock); err != nil {
				return result, err
			}
			result.Outcome = OutcomeSkippedExists
			return result, nil
		}
		debugEvent().Str("dest", remote).Msg("file exists on device, overwriting")
		if err := s.transport.SendBlock(ctx, overwriteBlock); err != nil {
			return result, err
		}
	}

	// After an overwrite confirmation the device sends no new reply; the
	// block size is the one carried by the "exists" reply.
	blockSize := int64(uint16le(reply[replyBlockSizeOffset:]))
	if blockSize > int64(len(s.payload)) {
		return result, NewCapacityError("send",
			fmt.Errorf("%w: device block size %d, payload buffer %d", ErrBufferTooSmall, blockSize, len(s.payload)))
	}
	if blockSize == 0 && length > 0 {
		return result, NewProtocolError("send", fmt.Errorf("%w: zero block size", ErrUnexpectedReply))
	}

	progress.Total = length
	progress.Blocks = blockCount(length, blockSize)
	debugEvent().Int64("length", length).Int("blocks", progress.Blocks).Msg("sending payload")

	for remaining := length; remaining > 0; {
		n := min(remaining, blockSize)
		chunk := s.payload[:n]
		if _, err := io.ReadFull(f, chunk); err != nil {
			return result, NewResourceError("send", fmt.Errorf("read %s: %w", source, err))
		}
		if err := s.transport.SendBlock(ctx, chunk); err != nil {
			return result, err
		}

		remaining -= n
		result.Blocks++
		result.Bytes += n
		progress.Block = result.Blocks
		progress.Bytes = result.Bytes
		s.report(progress)
	}

	status, err := s.receiveControl(ctx, "send")
	if err != nil {
		return result, err
	}
	if status[0] != replySuccess {
		return result, NewProtocolError("send",
			fmt.Errorf("%w: status %#02x, disk full or directory missing on device", ErrTransferFailed, status[0]))
	}

	result.Outcome = OutcomeTransferred
	return result, nil
}
