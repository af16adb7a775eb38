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
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	testutil "github.com/ZaparooProject/go-pofo/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_ReceiveIntoDirectory(t *testing.T) {
	t.Parallel()

	big := bytes.Repeat([]byte("0123456789"), 5)
	f := newDeviceFixture(t, func(d *testutil.Device) {
		d.ReadBlockSize = 16
		d.AddFile(`C:\A.TXT`, big)
		d.AddFile(`C:\B.TXT`, []byte("bee"))
		d.AddFile(`C:\C.DAT`, []byte("not matched"))
	})

	dir := t.TempDir()
	report, err := f.session.Receive(testContext(t), []string{`C:\*.TXT`}, dir)
	require.NoError(t, err)
	f.stop(t)

	require.Len(t, report.Jobs, 2)
	assert.Equal(t, `C:\A.TXT`, report.Jobs[0].Source)
	assert.Equal(t, filepath.Join(dir, "A.TXT"), report.Jobs[0].Dest)
	assert.Equal(t, 4, report.Jobs[0].Blocks)
	assert.Equal(t, int64(len(big)), report.Jobs[0].Bytes)

	got, err := os.ReadFile(filepath.Join(dir, "A.TXT"))
	require.NoError(t, err)
	assert.Equal(t, big, got)
	got, err = os.ReadFile(filepath.Join(dir, "B.TXT"))
	require.NoError(t, err)
	assert.Equal(t, "bee", string(got))

	assert.Equal(t, []byte{
		testutil.OpList,
		testutil.OpOpenRead, testutil.OpClose,
		testutil.OpOpenRead, testutil.OpClose,
	}, f.requestOps())
	assert.Equal(t, 2, f.session.Received())
}

func TestSession_ReceiveToFileName(t *testing.T) {
	t.Parallel()

	f := newDeviceFixture(t, func(d *testutil.Device) {
		d.AddFile(`C:\SYSTEM\NOTES.TXT`, []byte("notes"))
	})

	dest := filepath.Join(t.TempDir(), "local.txt")
	results, err := f.session.ReceiveFiles(testContext(t), `C:\SYSTEM\NOTES.TXT`, dest)
	require.NoError(t, err)
	f.stop(t)

	require.Len(t, results, 1)
	assert.Equal(t, OutcomeTransferred, results[0].Outcome)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "notes", string(got))

	reqs := f.device.Requests()
	require.Len(t, reqs, 3)
	assert.Equal(t, `C:\SYSTEM\NOTES.TXT`, reqs[1].Path)
}

func TestSession_ReceiveEmptyFile(t *testing.T) {
	t.Parallel()

	f := newDeviceFixture(t, func(d *testutil.Device) {
		d.AddFile(`C:\EMPTY.TXT`, nil)
	})

	dest := filepath.Join(t.TempDir(), "empty.txt")
	results, err := f.session.ReceiveFiles(testContext(t), `C:\EMPTY.TXT`, dest)
	require.NoError(t, err)
	f.stop(t)

	require.Len(t, results, 1)
	assert.Zero(t, results[0].Blocks)
	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestSession_ReceiveStopsAtExistingDestination(t *testing.T) {
	t.Parallel()

	f := newDeviceFixture(t, func(d *testutil.Device) {
		for i := 1; i <= 5; i++ {
			d.AddFile(fmt.Sprintf(`C:\F%d.TXT`, i), []byte{byte('0' + i)})
		}
	})

	dir := t.TempDir()
	writeFile(t, dir, "F3.TXT", []byte("keep"))

	report, err := f.session.Receive(testContext(t), []string{`C:\*.TXT`}, dir)
	require.ErrorIs(t, err, ErrDestinationExists)
	assert.True(t, IsFatal(err))
	f.stop(t)

	var existsErr *DestinationExistsError
	require.ErrorAs(t, err, &existsErr)
	assert.Equal(t, filepath.Join(dir, "F3.TXT"), existsErr.Path)
	assert.Equal(t, 2, existsErr.Remaining)

	require.Len(t, report.Jobs, 2)
	assert.Equal(t, 2, f.session.Received())

	// Files after the existing one are never requested
	var opened []string
	for _, req := range f.device.Requests() {
		if req.Op == testutil.OpOpenRead {
			opened = append(opened, req.Path)
		}
	}
	assert.Equal(t, []string{`C:\F1.TXT`, `C:\F2.TXT`}, opened)

	got, err := os.ReadFile(filepath.Join(dir, "F3.TXT"))
	require.NoError(t, err)
	assert.Equal(t, "keep", string(got))
	assert.NoFileExists(t, filepath.Join(dir, "F4.TXT"))
}

func TestSession_ReceiveForceOverwrites(t *testing.T) {
	t.Parallel()

	f := newDeviceFixture(t, func(d *testutil.Device) {
		d.AddFile(`C:\F.TXT`, []byte("fresh"))
	}, WithForce(true))

	dir := t.TempDir()
	writeFile(t, dir, "F.TXT", []byte("stale data"))

	_, err := f.session.Receive(testContext(t), []string{`C:\F.TXT`}, dir)
	require.NoError(t, err)
	f.stop(t)

	got, err := os.ReadFile(filepath.Join(dir, "F.TXT"))
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(got))
}

func TestSession_ReceiveNoMatch(t *testing.T) {
	t.Parallel()

	f := newDeviceFixture(t, nil)
	_, err := f.session.Receive(testContext(t), []string{`C:\*.XYZ`}, t.TempDir())
	require.ErrorIs(t, err, ErrRemoteNotFound)
	assert.True(t, IsFatal(err))
	f.stop(t)

	assert.Equal(t, []byte{testutil.OpList}, f.requestOps())
}

func TestSession_ReceiveCounterSpansCalls(t *testing.T) {
	t.Parallel()

	f := newDeviceFixture(t, func(d *testutil.Device) {
		d.AddFile(`C:\ONE.TXT`, []byte("1"))
		d.AddFile(`C:\TWO.TXT`, []byte("2"))
	})

	var files []int
	f.session.config.Progress = func(p Progress) {
		if p.Block == 0 {
			files = append(files, p.File)
		}
	}

	dir := t.TempDir()
	_, err := f.session.Receive(testContext(t), []string{`C:\ONE.TXT`, `C:\TWO.TXT`}, dir)
	require.NoError(t, err)
	f.stop(t)

	assert.Equal(t, 2, f.session.Received())
	assert.Equal(t, []int{1, 2}, files)
}

func TestRemotePrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		want    string
	}{
		{pattern: `C:\*.TXT`, want: `C:\`},
		{pattern: `C:*.TXT`, want: `C:`},
		{pattern: `A:\SYSTEM\*.*`, want: `A:\SYSTEM\`},
		{pattern: `*.TXT`, want: ``},
		{pattern: `DIR\FILE`, want: `DIR\`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.pattern, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, remotePrefix(tt.pattern))
		})
	}
}
