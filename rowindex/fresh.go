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

package rowindex

import (
	"os"
	"sync"

	"github.com/tabkit/tabkit/csvio"
)

// IsFresh reports whether idxPath exists and its mtime is at or after
// dataPath's mtime (spec.md section 4.3).
func IsFresh(dataPath, idxPath string) bool {
	dstat, err := os.Stat(dataPath)
	if err != nil {
		return false
	}
	istat, err := os.Stat(idxPath)
	if err != nil {
		return false
	}
	return !istat.ModTime().Before(dstat.ModTime())
}

// autoBuilt is the process-wide "an index was auto-built in this
// process" latch. It is monotonic (set-once), so concurrent read-read
// races across workers sharing one process are safe without locking
// on the read path.
var autoBuilt sync.Map // map[string]struct{}, keyed by data path

// WasAutoBuilt reports whether this process has already auto-built an
// index for dataPath.
func WasAutoBuilt(dataPath string) bool {
	_, ok := autoBuilt.Load(dataPath)
	return ok
}

func markAutoBuilt(dataPath string) {
	autoBuilt.Store(dataPath, struct{}{})
}

// AutoIndexPolicy carries the thresholds spec.md section 4.3 uses to
// decide whether a missing/stale index may be rebuilt automatically.
type AutoIndexPolicy struct {
	// Threshold, when > 0, allows a rebuild whenever the data file's
	// size exceeds it, even without StalePath.
	Threshold int64
	// StalePath, when true, allows a rebuild regardless of size
	// (the caller has already committed to needing random access).
	StalePath bool
}

func (p AutoIndexPolicy) allows(size int64) bool {
	return p.StalePath || (p.Threshold > 0 && size > p.Threshold)
}

// EnsureFresh returns a fresh index for dataPath, rebuilding it under
// cfg if it is missing or stale and policy permits a rebuild. It
// reports false for rebuilt when an existing fresh index was reused.
// Snappy-compressed data is never auto-indexed; EnsureFresh returns a
// nil index and no error in that case, mirroring indexed() == None.
func EnsureFresh(dataPath string, cfg csvio.ReadConfig, policy AutoIndexPolicy) (idx *Index, rebuilt bool, err error) {
	idxPath := PathFor(dataPath)
	if IsFresh(dataPath, idxPath) {
		idx, err = ReadFile(idxPath)
		return idx, false, err
	}

	info, statErr := os.Stat(dataPath)
	if statErr != nil {
		return nil, false, statErr
	}
	if !policy.allows(info.Size()) {
		return nil, false, nil
	}

	idx, err = Build(dataPath, cfg)
	if err != nil {
		// A Snappy source reports a DialectError from Build; treat it
		// the same as "not eligible for indexing" rather than failing
		// the whole verb.
		if _, ok := err.(*csvio.DialectError); ok {
			return nil, false, nil
		}
		return nil, false, err
	}
	if err := WriteFile(idxPath, idx); err != nil {
		return nil, false, err
	}
	markAutoBuilt(dataPath)
	return idx, true, nil
}
