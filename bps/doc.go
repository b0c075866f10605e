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

// Package bps decodes and applies patches in the BPS format, the delta
// encoding used to distribute ROM hacks. A BPS patch reconstructs a target
// byte sequence from a source byte sequence and a stream of copy/insert
// actions:
//
//	target, err := bps.Apply(romData, patchData)
//
// A patch begins with the magic marker "BPS1", followed by the source size,
// target size and metadata size encoded as variable length values. The
// metadata block is opaque and skipped. The remainder of the patch, up to
// the 12 byte footer, is the action stream. Each action is an opcode whose
// low two bits select one of four behaviours (read from source, read
// literal data from the patch, copy from a repositioned point in the
// source, copy from earlier in the target) and whose remaining bits encode
// the action length.
//
// Apply() is deterministic and holds no state between calls. Concurrent
// calls are safe provided each call owns its own argument slices.
//
// Out of range reads during an action are not fatal. The decoder writes a
// zero byte in place of the unavailable byte and carries on. This matches
// the reference behaviour that ROM hack distribution relies on: a source
// ROM with a header the patch author did not have, or a slightly short
// source file, still produces a full-length target. The footer checksums
// exist to catch the cases where this matters; Apply() ignores them while
// ApplyVerified() enforces them.
package bps
