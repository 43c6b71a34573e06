// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package csvio

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		peek []byte
		want string
	}{
		{"empty", nil, "empty"},
		{"snappy", snappyStreamMagic, "application/x-snappy-framed"},
		{"csv text", []byte("a,b,c\n1,2,3\n"), "text/plain; charset=utf-8"},
		{"binary", []byte{0x00, 0x01, 0x02, 0x03}, "application/octet-stream"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := classify(c.peek)
			if got != c.want {
				t.Errorf("classify(%q) = %q, want %q", c.peek, got, c.want)
			}
		})
	}
}

func TestAcceptable(t *testing.T) {
	accept := []string{"empty", "application/x-snappy-framed", "application/octet-stream", "text/plain; charset=utf-8", "text/csv"}
	for _, d := range accept {
		if !acceptable(d) {
			t.Errorf("acceptable(%q) = false, want true", d)
		}
	}
	reject := []string{"image/png", "application/pdf", "application/zip"}
	for _, d := range reject {
		if acceptable(d) {
			t.Errorf("acceptable(%q) = true, want false", d)
		}
	}
}
