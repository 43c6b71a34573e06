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

package freq

import "testing"

func TestObserveAndReportDescending(t *testing.T) {
	tab := New("color", Options{})
	for _, v := range []string{"red", "blue", "red", "green", "red", "blue"} {
		tab.Observe([]byte(v))
	}
	rows := tab.Report()
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	if rows[0].Value != "red" || rows[0].Count != 3 {
		t.Errorf("rows[0] = %+v, want red:3", rows[0])
	}
	if rows[1].Value != "blue" || rows[1].Count != 2 {
		t.Errorf("rows[1] = %+v, want blue:2", rows[1])
	}
}

func TestTieBreakByByteOrder(t *testing.T) {
	tab := New("x", Options{})
	for _, v := range []string{"b", "a", "c"} {
		tab.Observe([]byte(v))
	}
	rows := tab.Report()
	if rows[0].Value != "a" || rows[1].Value != "b" || rows[2].Value != "c" {
		t.Fatalf("rows = %+v, want a,b,c in byte order (all tied at count 1)", rows)
	}
}

func TestCaseFoldPreservesInvalidUTF8(t *testing.T) {
	tab := New("x", Options{CaseFold: true})
	tab.Observe([]byte("ABC"))
	tab.Observe([]byte("abc"))
	invalid := []byte{0xff, 0xfe}
	tab.Observe(invalid)
	rows := tab.Report()
	var sawInvalid, sawFolded bool
	for _, r := range rows {
		if r.Value == string(invalid) {
			sawInvalid = true
		}
		if r.Value == "abc" && r.Count == 2 {
			sawFolded = true
		}
	}
	if !sawFolded {
		t.Error("expected ABC/abc to fold together")
	}
	if !sawInvalid {
		t.Error("expected invalid UTF-8 bytes to survive case folding verbatim")
	}
}

func TestTrim(t *testing.T) {
	tab := New("x", Options{Trim: true})
	tab.Observe([]byte("  hi  "))
	tab.Observe([]byte("hi"))
	rows := tab.Report()
	if len(rows) != 1 || rows[0].Count != 2 {
		t.Fatalf("rows = %+v, want a single hi:2 row", rows)
	}
}

func TestIncludeNulls(t *testing.T) {
	without := New("x", Options{})
	without.Observe([]byte(""))
	without.Observe([]byte("a"))
	if without.Total() != 1 {
		t.Errorf("Total() = %d, want 1 (null excluded)", without.Total())
	}

	with := New("x", Options{IncludeNulls: true})
	with.Observe([]byte(""))
	with.Observe([]byte("a"))
	if with.Total() != 2 {
		t.Errorf("Total() = %d, want 2 (null included)", with.Total())
	}
}

func TestLimitCollapsesOther(t *testing.T) {
	tab := New("x", Options{Limit: 2})
	for _, v := range []string{"a", "a", "a", "b", "b", "c", "d"} {
		tab.Observe([]byte(v))
	}
	rows := tab.Report()
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3 (2 kept + Other)", len(rows))
	}
	last := rows[len(rows)-1]
	if !last.Other || last.Count != 2 || last.OtherK != 2 || last.Value != "Other (2)" {
		t.Fatalf("last row = %+v, want Other (2):2 collapsing 2 distinct values", last)
	}
}

func TestOtherTextLabel(t *testing.T) {
	tab := New("x", Options{Limit: 1, OtherText: "rest"})
	for _, v := range []string{"a", "a", "b", "c", "d"} {
		tab.Observe([]byte(v))
	}
	rows := tab.Report()
	last := rows[len(rows)-1]
	if last.Value != "rest (3)" {
		t.Fatalf("last row value = %q, want %q", last.Value, "rest (3)")
	}
}

func TestBypassBelowSkipsLimit(t *testing.T) {
	tab := New("x", Options{Limit: 1, BypassBelow: 5})
	for _, v := range []string{"a", "b", "c"} {
		tab.Observe([]byte(v))
	}
	rows := tab.Report()
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3 (limit bypassed below threshold)", len(rows))
	}
}

func TestMerge(t *testing.T) {
	a := New("x", Options{})
	a.Observe([]byte("p"))
	a.Observe([]byte("q"))
	b := New("x", Options{})
	b.Observe([]byte("p"))

	m := Merge(a, b)
	rows := m.Report()
	if rows[0].Value != "p" || rows[0].Count != 2 {
		t.Fatalf("rows[0] = %+v, want p:2", rows[0])
	}
}
