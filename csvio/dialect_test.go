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

func TestInferDelimiter(t *testing.T) {
	cases := map[string]byte{
		"data.csv":  ',',
		"data.tsv":  '\t',
		"data.tab":  '\t',
		"data.ssv":  ';',
		"data.txt":  ',',
		"DATA.TSV":  '\t',
	}
	for path, want := range cases {
		if got := inferDelimiter(path); got != want {
			t.Errorf("inferDelimiter(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestTrimExt(t *testing.T) {
	rest, snappy := trimExt("data.tsv.sz")
	if rest != "data.tsv" || !snappy {
		t.Errorf("trimExt(data.tsv.sz) = (%q, %v), want (data.tsv, true)", rest, snappy)
	}
	rest, snappy = trimExt("data.csv")
	if rest != "data.csv" || snappy {
		t.Errorf("trimExt(data.csv) = (%q, %v), want (data.csv, false)", rest, snappy)
	}
}

func TestResolveDelimiterPrecedence(t *testing.T) {
	t.Setenv(EnvDefaultDelimiter, "")
	got, err := ResolveDelimiter("data.tsv", ';')
	if err != nil || got != ';' {
		t.Fatalf("explicit flag should win: got (%q, %v)", got, err)
	}

	t.Setenv(EnvDefaultDelimiter, "|")
	got, err = ResolveDelimiter("data.tsv", 0)
	if err != nil || got != '|' {
		t.Fatalf("env var should win over extension: got (%q, %v)", got, err)
	}

	t.Setenv(EnvDefaultDelimiter, "")
	got, err = ResolveDelimiter("data.tsv", 0)
	if err != nil || got != '\t' {
		t.Fatalf("extension inference should apply: got (%q, %v)", got, err)
	}

	got, err = ResolveDelimiter("data.unknown", 0)
	if err != nil || got != ',' {
		t.Fatalf("default should be comma: got (%q, %v)", got, err)
	}
}

func TestParseDelimByte(t *testing.T) {
	if b, ok := parseDelimByte(`\t`); !ok || b != '\t' {
		t.Errorf(`parseDelimByte(\t) = (%q, %v), want (tab, true)`, b, ok)
	}
	if b, ok := parseDelimByte(";"); !ok || b != ';' {
		t.Errorf("parseDelimByte(;) = (%q, %v), want (;, true)", b, ok)
	}
	if _, ok := parseDelimByte("ab"); ok {
		t.Errorf("parseDelimByte(ab) should fail")
	}
}
