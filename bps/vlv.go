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

import "github.com/smwtrolls/rompatcher/curated"

// decodeValue reads one variable length value from data starting at offset.
// It returns the decoded value and the offset immediately following it.
//
// The encoding is base-128 with the least significant group first. Bit 7 of
// each byte is a termination flag, set on the last byte of the value. Note
// that this is not LEB128: the weight is multiplied only on continuation,
// never on the terminating byte, so the two encodings diverge for values
// needing more than one continuation byte.
func decodeValue(data []byte, offset int) (uint64, int, error) {
	var result uint64
	var weight uint64 = 1

	for offset < len(data) {
		b := data[offset]
		offset++
		result += uint64(b&0x7f) * weight
		if b&0x80 == 0x80 {
			return result, offset, nil
		}
		weight <<= 7
	}

	return 0, offset, curated.Errorf(TruncatedValue, offset)
}

// decodeOffset reads one signed relative offset from data starting at
// offset. The magnitude is a variable length value whose least significant
// bit carries the sign (1 = negative). The negative branch is skewed by one
// so that a value of 1 decodes to -1. There is no encoding for negative
// zero.
func decodeOffset(data []byte, offset int) (int64, int, error) {
	v, offset, err := decodeValue(data, offset)
	if err != nil {
		return 0, offset, err
	}

	if v&0x01 == 0x01 {
		return -int64(v>>1) - 1, offset, nil
	}
	return int64(v >> 1), offset, nil
}
