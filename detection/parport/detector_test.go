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

package parport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZaparooProject/go-pofo/detection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeDevices(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}
	return dir
}

func TestDetector_Detect(t *testing.T) {
	t.Parallel()

	dir := fakeDevices(t, "parport0", "parport1", "parportX")
	claimable := filepath.Join(dir, "parport1")
	d := &detector{
		pattern: filepath.Join(dir, "parport*"),
		probe:   func(path string) bool { return path == claimable },
	}

	tests := []struct {
		name      string
		wantPaths []string
		want      []detection.Confidence
		mode      detection.Mode
	}{
		{
			name:      "passive lists every node",
			mode:      detection.Passive,
			wantPaths: []string{filepath.Join(dir, "parport0"), claimable},
			want:      []detection.Confidence{detection.Medium, detection.Medium},
		},
		{
			name:      "safe keeps claimable nodes",
			mode:      detection.Safe,
			wantPaths: []string{claimable},
			want:      []detection.Confidence{detection.High},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := detection.DefaultOptions()
			opts.Mode = tt.mode
			devices, err := d.Detect(context.Background(), &opts)
			require.NoError(t, err)

			var paths []string
			var confidence []detection.Confidence
			for _, dev := range devices {
				paths = append(paths, dev.Path)
				confidence = append(confidence, dev.Confidence)
				assert.Equal(t, Transport, dev.Transport)
			}
			assert.Equal(t, tt.wantPaths, paths)
			assert.Equal(t, tt.want, confidence)
		})
	}
}

func TestDetector_NoDevices(t *testing.T) {
	t.Parallel()

	d := &detector{pattern: filepath.Join(t.TempDir(), "parport*"), probe: func(string) bool { return true }}
	opts := detection.DefaultOptions()
	_, err := d.Detect(context.Background(), &opts)
	require.ErrorIs(t, err, detection.ErrNoDevicesFound)
}
