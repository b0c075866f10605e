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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It provides a convenient method of handling program modes and
// allows different flags for each mode.
//
// Usage differs from flag.FlagSet in that the argument list is given to
// NewArgs() up front and Parse() is then called with no arguments:
//
//	md := Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("run", "apply", "version")
//	_, _ = md.Parse()
//
// After parsing, Mode() names the mode that was selected (the first listed
// sub-mode when the arguments named none) and NewMode() starts a fresh layer
// of flags for that mode. Non-flag arguments can be retrieved with
// RemainingArgs() or GetArg().
package modalflag
