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

package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetFlags() {
	flagDelim = ""
	flagComment = ""
	flagNoHeaders = false
	flagOutput = "-"
	flagJobs = 0
	flagAutoIndex = 0
	flagVersion = false
	flagSnappyOut = false
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	f()
	w.Close()
	os.Stdout = old
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestCountCmd(t *testing.T) {
	resetFlags()
	path := writeTemp(t, "in.csv", "a,b\n1,2\n3,4\n5,6\n")
	out := captureStdout(t, func() { countCmd([]string{path}) })
	if strings.TrimSpace(out) != "3" {
		t.Fatalf("count = %q, want 3", out)
	}
}

func TestSelectCmd(t *testing.T) {
	resetFlags()
	path := writeTemp(t, "in.csv", "name,age\nalice,30\nbob,25\n")
	outPath := filepath.Join(t.TempDir(), "out.csv")
	flagOutput = outPath
	selectCmd([]string{"-f", "age,name", path})

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "age,name\r\n30,alice\r\n25,bob\r\n"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSliceCmd(t *testing.T) {
	resetFlags()
	path := writeTemp(t, "in.csv", "a\n1\n2\n3\n4\n5\n")
	outPath := filepath.Join(t.TempDir(), "out.csv")
	flagOutput = outPath
	sliceCmd([]string{"-start", "1", "-end", "3", path})

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "2\r\n3\r\n"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSortCmd(t *testing.T) {
	resetFlags()
	path := writeTemp(t, "in.csv", "5\n1\n9\n3\n")
	outPath := filepath.Join(t.TempDir(), "out.csv")
	flagOutput = outPath
	flagNoHeaders = true
	sortCmd([]string{"-mode", "num", path})

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "1\r\n3\r\n5\r\n9\r\n"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSortCmdLimit(t *testing.T) {
	resetFlags()
	path := writeTemp(t, "in.csv", "5\n1\n9\n3\n7\n")
	outPath := filepath.Join(t.TempDir(), "out.csv")
	flagOutput = outPath
	flagNoHeaders = true
	sortCmd([]string{"-mode", "num", "-limit", "2", path})

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "1\r\n3\r\n"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDedupCmd(t *testing.T) {
	resetFlags()
	path := writeTemp(t, "in.csv", "a\na\nb\nc\nc\nc\n")
	outPath := filepath.Join(t.TempDir(), "out.csv")
	flagOutput = outPath
	flagNoHeaders = true
	dedupCmd([]string{"-sorted", "-count", path})

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "a,2\r\nb,1\r\nc,3\r\n"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDedupCmdUnsorted(t *testing.T) {
	resetFlags()
	path := writeTemp(t, "in.csv", "c\na\nb\na\nc\n")
	outPath := filepath.Join(t.TempDir(), "out.csv")
	flagOutput = outPath
	flagNoHeaders = true
	dedupCmd([]string{path})

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(got), "\r\n"), "\r\n")
	if len(lines) != 3 {
		t.Fatalf("got %d rows, want 3: %q", len(lines), got)
	}
}

func TestStatsCmd(t *testing.T) {
	resetFlags()
	path := writeTemp(t, "in.csv", "age\n10\n20\n30\n")
	outPath := filepath.Join(t.TempDir(), "out.yaml")
	flagOutput = outPath
	statsCmd([]string{"-select", "age", path})

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), "age") || !strings.Contains(string(got), "count: 3") {
		t.Fatalf("unexpected stats output: %s", got)
	}
}

func TestFrequencyCmd(t *testing.T) {
	resetFlags()
	path := writeTemp(t, "in.csv", "v\na\na\nb\n")
	outPath := filepath.Join(t.TempDir(), "out.csv")
	flagOutput = outPath
	frequencyCmd([]string{"-select", "v", path})

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "column,value,count\r\nv,a,2\r\nv,b,1\r\n"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestIndexCmd(t *testing.T) {
	resetFlags()
	path := writeTemp(t, "in.csv", "a,b\n1,2\n3,4\n")
	captureStdout(t, func() { indexCmd([]string{path}) })

	idxPath := path + ".idx"
	info, err := os.Stat(idxPath)
	if err != nil {
		t.Fatalf("expected index file: %s", err)
	}
	if info.Size() != 8*4 {
		t.Fatalf("index size = %d, want 32 (3 records + count entry)", info.Size())
	}
}

func TestCatCmd(t *testing.T) {
	resetFlags()
	a := writeTemp(t, "a.csv", "h\n1\n2\n")
	b := writeTemp(t, "b.csv", "h\n3\n4\n")
	outPath := filepath.Join(t.TempDir(), "out.csv")
	flagOutput = outPath
	catCmd([]string{a, b})

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "h\r\n1\r\n2\r\n3\r\n4\r\n"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
