// This file is part of RomPatcher.
//
// RomPatcher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// RomPatcher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with RomPatcher.  If not, see <https://www.gnu.org/licenses/>.

// Package patcher runs the patching pipeline: choose an applier, apply every
// loaded patch to the base ROM, write the results and optionally hand the
// first result to an emulator.
//
// The Applier interface decouples the pipeline from the implementation that
// does the byte work. Two appliers are provided. Native wraps the bps
// package. Flips drives the external flips executable, the reference
// implementation of the patch format, when one can be found. Which appliers
// are considered, and in what order of preference, is decided once by the
// caller at startup; there is no hidden global state deciding it.
package patcher

import "github.com/smwtrolls/rompatcher/curated"

// error patterns for the patcher package.
const (
	NoApplier = "patcher: no patch applier available"
)

// Applier is any implementation that can apply a BPS patch to a source byte
// sequence.
type Applier interface {
	// short name for the applier, used in logs and the history file
	ID() string

	// whether the applier can be used at all. probed once at selection
	// time, not per patch
	Available() bool

	// apply patch to source, returning the new byte sequence
	Apply(source []byte, patch []byte) ([]byte, error)
}

// Select returns the first available applier from the list. The list is in
// order of preference.
func Select(appliers ...Applier) (Applier, error) {
	for _, a := range appliers {
		if a.Available() {
			return a, nil
		}
	}
	return nil, curated.Errorf(NoApplier)
}
