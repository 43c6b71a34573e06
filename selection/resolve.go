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

package selection

import "regexp"

// Resolve parses and resolves expr against header (the 0-based column
// names), producing a Selection: an ordered multiset of column
// indices, duplicates preserved, per spec.md section 4.4.
//
// When noHeaders is true, header is instead treated as purely
// positional: name and regex terms are rejected, since there is
// nothing to match them against.
func Resolve(expr string, header []string, noHeaders bool) (*Selection, error) {
	terms, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	return resolveTerms(terms, header, noHeaders)
}

func resolveTerms(terms []term, header []string, noHeaders bool) (*Selection, error) {
	width := len(header)
	var out []int
	for _, t := range terms {
		idxs, err := resolveAtom(t.atom, header, noHeaders, width)
		if err != nil {
			return nil, err
		}
		if t.negate {
			idxs = complement(idxs, width)
		}
		out = append(out, idxs...)
	}
	return &Selection{indices: out, width: width}, nil
}

// complement returns the indices in [0, width) not present in idxs,
// in ascending (original column) order.
func complement(idxs []int, width int) []int {
	present := make([]bool, width)
	for _, i := range idxs {
		if i >= 0 && i < width {
			present[i] = true
		}
	}
	out := make([]int, 0, width-len(idxs))
	for i := 0; i < width; i++ {
		if !present[i] {
			out = append(out, i)
		}
	}
	return out
}

func resolveAtom(a atom, header []string, noHeaders bool, width int) ([]int, error) {
	switch v := a.(type) {
	case colAtom:
		i, err := resolveCol(v.ref, header, noHeaders, width)
		if err != nil {
			return nil, err
		}
		return []int{i}, nil
	case rangeAtom:
		from, err := resolveCol(v.from, header, noHeaders, width)
		if err != nil {
			return nil, err
		}
		to, err := resolveCol(v.to, header, noHeaders, width)
		if err != nil {
			return nil, err
		}
		return rangeIndices(from, to), nil
	case regexAtom:
		if noHeaders {
			return nil, &UnknownColumn{Name: "/" + v.pattern + "/"}
		}
		re, err := regexp.Compile(v.pattern)
		if err != nil {
			return nil, &SyntaxError{Msg: "invalid regex /" + v.pattern + "/: " + err.Error()}
		}
		var idxs []int
		for i, h := range header {
			if re.MatchString(h) {
				idxs = append(idxs, i)
			}
		}
		return idxs, nil
	default:
		panic("selection: unreachable atom kind")
	}
}

// rangeIndices returns the closed 0-based range [from, to], ordered as
// written: ascending if from <= to, descending otherwise (so "3-1"
// yields [2,1,0] in 0-based terms).
func rangeIndices(from, to int) []int {
	if from <= to {
		out := make([]int, 0, to-from+1)
		for i := from; i <= to; i++ {
			out = append(out, i)
		}
		return out
	}
	out := make([]int, 0, from-to+1)
	for i := from; i >= to; i-- {
		out = append(out, i)
	}
	return out
}

func resolveCol(ref colRef, header []string, noHeaders bool, width int) (int, error) {
	switch {
	case ref.isLast:
		if width == 0 {
			return 0, &IndexOutOfRange{Index: 0, Width: width}
		}
		return width - 1, nil
	case ref.isIndex:
		if ref.index < 1 || ref.index > width {
			return 0, &IndexOutOfRange{Index: ref.index, Width: width}
		}
		return ref.index - 1, nil
	default:
		if noHeaders {
			return 0, &UnknownColumn{Name: ref.name}
		}
		positions := matchPositions(header, ref.name)
		if len(positions) == 0 {
			return 0, &UnknownColumn{Name: ref.name}
		}
		if ref.occurrence < 0 {
			if len(positions) > 1 {
				return 0, &AmbiguousColumn{Name: ref.name, Positions: positions}
			}
			return positions[0], nil
		}
		if ref.occurrence >= len(positions) {
			return 0, &IndexOutOfRange{Index: ref.occurrence, Width: len(positions)}
		}
		return positions[ref.occurrence], nil
	}
}

func matchPositions(header []string, name string) []int {
	var out []int
	for i, h := range header {
		if h == name {
			out = append(out, i)
		}
	}
	return out
}
