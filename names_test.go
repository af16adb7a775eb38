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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoteName(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("D", 90)

	tests := []struct {
		name   string
		source string
		dest   string
		want   string
		multi  bool
	}{
		{
			name:   "File_Destination_Verbatim",
			source: "notes.txt",
			dest:   `C:\MEMO.TXT`,
			want:   `C:\MEMO.TXT`,
		},
		{
			name:   "File_Destination_Slashes_Converted",
			source: "a.txt",
			dest:   "c:/docs/a.txt",
			want:   `c:\docs\a.txt`,
		},
		{
			name:   "Drive_Only",
			source: "/home/user/notes.txt",
			dest:   "C:",
			want:   `C:\notes.txt`,
		},
		{
			name:   "Trailing_Backslash",
			source: "notes.txt",
			dest:   `C:\DOCS\`,
			want:   `C:\DOCS\notes.txt`,
		},
		{
			name:   "Trailing_Slash_Normalized",
			source: "notes.txt",
			dest:   "C:/DOCS/",
			want:   `C:\DOCS\notes.txt`,
		},
		{
			name:   "Multi_Source_Appends_Separator",
			source: "a.b.c.txt",
			dest:   "outbox",
			want:   `outbox\a_b_c.txt`,
			multi:  true,
		},
		{
			name:   "Base_Name_Truncated",
			source: "averyveryverylongname.txt",
			dest:   `C:\`,
			want:   `C:\averyver.txt`,
		},
		{
			name:   "Extension_Truncated",
			source: "page.html",
			dest:   `C:\`,
			want:   `C:\page.htm`,
		},
		{
			name:   "No_Extension",
			source: "README",
			dest:   `C:\`,
			want:   `C:\README`,
		},
		{
			name:   "Windows_Source_Path",
			source: `C:\Users\me\todo.txt`,
			dest:   `A:\`,
			want:   `A:\todo.txt`,
		},
		{
			name:   "Forward_Slash_Wins_Over_Backslash",
			source: `dir\sub/file.txt`,
			dest:   `A:\`,
			want:   `A:\file.txt`,
		},
		{
			name:   "Long_File_Destination_Truncated",
			source: "x",
			dest:   long,
			want:   long[:79],
		},
		{
			name:   "Long_Directory_Leaves_No_Room",
			source: "x.txt",
			dest:   long + `\`,
			want:   long[:79],
			multi:  true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := RemoteName(tt.source, tt.dest, tt.multi)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), MaxPathLength)
		})
	}
}

func TestRemoteName_BoundedByPathBuffer(t *testing.T) {
	t.Parallel()

	dir := strings.Repeat("A", 74) + `\`
	got := RemoteName("longname.txt", dir, false)
	assert.Equal(t, dir+"long", got)
	assert.Len(t, got, MaxPathLength)
}
