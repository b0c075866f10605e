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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface and can be used wherever a
// normal error is expected.
//
// Curated errors are created with the Errorf() function. It looks like the
// Errorf() function in the fmt package but the formatting pattern doubles as
// the identity of the error. Packages declare their error patterns as
// constants and callers test for them with the Is() and Has() functions:
//
//	const TooShort = "decode: input too short (%d bytes)"
//
//	err := curated.Errorf(TooShort, len(data))
//
//	if curated.Is(err, TooShort) {
//		...
//	}
//
// Is() tests the outer-most error only. Has() walks the chain of wrapped
// curated errors looking for the pattern at any depth. Wrapping happens
// naturally whenever one curated error is used as a value for another:
//
//	err := curated.Errorf("patcher: %v", curated.Errorf(TooShort, 2))
//	curated.Has(err, TooShort) == true
//
// Duplicate adjacent message parts are removed when the error is printed.
// This keeps messages clean when an error is wrapped with the same prefix at
// several levels of the call stack.
package curated
