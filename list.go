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

import "context"

// List returns the names of the device files matching pattern. No match is
// an empty result, not an error. A listing larger than the payload buffer
// yields a capacity error.
func (s *Session) List(ctx context.Context, pattern string) ([]string, error) {
	s.report(Progress{Op: OpList, Source: pattern})
	return s.requestListing(ctx, pattern, s.payload)
}

func (s *Session) requestListing(ctx context.Context, pattern string, buf []byte) ([]string, error) {
	if err := s.transport.SendBlock(ctx, buildList(pattern)); err != nil {
		return nil, err
	}
	n, err := s.transport.ReceiveBlock(ctx, buf)
	if err != nil {
		return nil, err
	}

	names, err := DecodeListing(buf[:n])
	if err != nil {
		return nil, NewProtocolError("list", err)
	}
	debugEvent().Str("pattern", pattern).Int("matches", len(names)).Msg("directory listing")
	return names, nil
}
