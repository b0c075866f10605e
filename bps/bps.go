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

package bps

import (
	"bytes"

	"github.com/smwtrolls/rompatcher/curated"
)

// error patterns for the bps package.
const (
	BadMagic         = "bps: bad magic (%s)"
	TruncatedValue   = "bps: truncated value at offset %d"
	MalformedPatch   = "bps: malformed patch (%s)"
	ChecksumMismatch = "bps: %s checksum mismatch"
)

// every BPS patch begins with this marker.
var magic = []byte("BPS1")

// the footer is three CRC-32 checksums.
const footerSize = 12

// the smallest possible patch: the magic marker, one byte for each of the
// three size fields and the footer.
const minPatchSize = len("BPS1") + 3 + footerSize

// action kinds, encoded in the low two bits of every action opcode.
const (
	sourceRead = iota
	targetRead
	sourceCopy
	targetCopy
)

// header is the decoded fixed part of the patch container.
type header struct {
	sourceSize   int
	targetSize   int
	metadataSize int

	// offset of the first action opcode. the metadata block, which is
	// opaque to us, has already been skipped
	actionStart int
}

func parseHeader(patch []byte) (header, error) {
	if len(patch) < minPatchSize {
		return header{}, curated.Errorf(BadMagic, "patch too small")
	}
	if !bytes.Equal(patch[:len(magic)], magic) {
		return header{}, curated.Errorf(BadMagic, "missing BPS1 marker")
	}

	var hdr header
	var v uint64
	var err error

	offset := len(magic)

	v, offset, err = decodeValue(patch, offset)
	if err != nil {
		return header{}, err
	}
	hdr.sourceSize = int(v)

	v, offset, err = decodeValue(patch, offset)
	if err != nil {
		return header{}, err
	}
	hdr.targetSize = int(v)

	v, offset, err = decodeValue(patch, offset)
	if err != nil {
		return header{}, err
	}
	hdr.metadataSize = int(v)

	hdr.actionStart = offset + hdr.metadataSize

	return hdr, nil
}

// Apply a BPS patch to the source byte sequence, returning the reconstructed
// target. The source can be any length. It is never validated against the
// source size declared in the patch - reads outside the source are
// zero-filled, which is the behaviour ROM patches expect of a decoder (see
// the package documentation). The footer checksums are not inspected; use
// ApplyVerified() when corruption should be fatal.
//
// The source and patch slices are only ever read from.
func Apply(source []byte, patch []byte) ([]byte, error) {
	hdr, err := parseHeader(patch)
	if err != nil {
		return nil, err
	}

	target := make([]byte, hdr.targetSize)

	// the three cursors of the interpreter. sourceCursor is repositioned by
	// sourceCopy actions and can legitimately go negative
	patchCursor := hdr.actionStart
	sourceCursor := int64(0)
	targetCursor := 0

	// the action stream ends where the footer begins
	end := len(patch) - footerSize

	// a corrupt action stream must not run forever
	maxSteps := 2 * len(patch)
	steps := 0

	for patchCursor < end {
		steps++
		if steps > maxSteps {
			return nil, curated.Errorf(MalformedPatch, "action stream does not terminate")
		}

		opcode, next, err := decodeValue(patch, patchCursor)
		if err != nil {
			return nil, err
		}
		patchCursor = next

		length := int(opcode>>2) + 1

		switch opcode & 0x03 {
		case sourceRead:
			for i := 0; i < length; i++ {
				if sourceCursor >= 0 && sourceCursor < int64(len(source)) && targetCursor < len(target) {
					target[targetCursor] = source[sourceCursor]
				} else if targetCursor < len(target) {
					target[targetCursor] = 0x00
				}
				targetCursor++
				sourceCursor++
			}

		case targetRead:
			// the patch stream itself carries the new data
			for i := 0; i < length; i++ {
				if patchCursor < len(patch) && targetCursor < len(target) {
					target[targetCursor] = patch[patchCursor]
				} else if targetCursor < len(target) {
					target[targetCursor] = 0x00
				}
				targetCursor++
				patchCursor++
			}

		case sourceCopy:
			rel, next, err := decodeOffset(patch, patchCursor)
			if err != nil {
				return nil, err
			}
			patchCursor = next
			sourceCursor += rel

			for i := 0; i < length; i++ {
				if sourceCursor >= 0 && sourceCursor < int64(len(source)) && targetCursor < len(target) {
					target[targetCursor] = source[sourceCursor]
				} else if targetCursor < len(target) {
					target[targetCursor] = 0x00
				}
				targetCursor++
				sourceCursor++
			}

		case targetCopy:
			rel, next, err := decodeOffset(patch, patchCursor)
			if err != nil {
				return nil, err
			}
			patchCursor = next

			// copying byte-by-byte is required, not an inefficiency. the
			// read point is allowed to catch up to the write cursor,
			// re-reading bytes written earlier in this same action. patch
			// encoders use that overlap to express run-length repetition
			copyFrom := int64(targetCursor) + rel

			for i := 0; i < length; i++ {
				if copyFrom >= 0 && copyFrom < int64(targetCursor) && targetCursor < len(target) {
					target[targetCursor] = target[copyFrom]
				} else if targetCursor < len(target) {
					target[targetCursor] = 0x00
				}
				targetCursor++
				copyFrom++
			}
		}
	}

	return target, nil
}
