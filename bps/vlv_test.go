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
	"testing"

	"github.com/smwtrolls/rompatcher/curated"
	"github.com/smwtrolls/rompatcher/test"
)

// encodeValue is the inverse of decodeValue. the encoder lives in the test
// file because the package only ever applies patches, it never creates them.
func encodeValue(v uint64) []byte {
	var out []byte
	for {
		x := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(out, x|0x80)
		}
		out = append(out, x)
	}
}

// encodeOffset is the inverse of decodeOffset.
func encodeOffset(k int64) []byte {
	if k < 0 {
		return encodeValue(uint64(-k-1)<<1 | 1)
	}
	return encodeValue(uint64(k) << 1)
}

func TestValueRoundTrip(t *testing.T) {
	values := []uint64{
		0, 1, 2, 3,
		126, 127, 128, 129,
		16383, 16384, 16385,
		(1 << 21) - 1, 1 << 21,
		1 << 32, 1 << 40,
	}

	for _, v := range values {
		enc := encodeValue(v)
		dec, n, err := decodeValue(enc, 0)
		test.ExpectedSuccess(t, err)
		test.Equate(t, dec, v)
		test.Equate(t, n, len(enc))
	}
}

func TestValueWeighting(t *testing.T) {
	// the weight is multiplied by 128 only on continuation, never on the
	// terminating byte. a terminating byte with an empty payload therefore
	// contributes nothing
	v, _, err := decodeValue([]byte{0x00, 0x81}, 0)
	test.ExpectedSuccess(t, err)
	test.Equate(t, v, uint64(128))

	v, _, err = decodeValue([]byte{0x7f, 0x81}, 0)
	test.ExpectedSuccess(t, err)
	test.Equate(t, v, uint64(127+128))

	// single byte values
	v, _, err = decodeValue([]byte{0x80}, 0)
	test.ExpectedSuccess(t, err)
	test.Equate(t, v, uint64(0))

	v, _, err = decodeValue([]byte{0xff}, 0)
	test.ExpectedSuccess(t, err)
	test.Equate(t, v, uint64(127))
}

func TestValueTruncated(t *testing.T) {
	// no terminating byte before the data runs out
	_, _, err := decodeValue([]byte{0x00, 0x01, 0x02}, 0)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, TruncatedValue))

	// empty input
	_, _, err = decodeValue([]byte{}, 0)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, TruncatedValue))

	// offset beyond the end of the data
	_, _, err = decodeValue([]byte{0x80}, 1)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, TruncatedValue))
}

func TestOffsetRoundTrip(t *testing.T) {
	offsets := []int64{
		0, 1, -1, 2, -2,
		63, -63, 64, -64, 65, -65,
		1000, -1000,
		1 << 30, -(1 << 30),
	}

	for _, k := range offsets {
		enc := encodeOffset(k)
		dec, n, err := decodeOffset(enc, 0)
		test.ExpectedSuccess(t, err)
		test.Equate(t, dec, k)
		test.Equate(t, n, len(enc))
	}
}

func TestOffsetSkew(t *testing.T) {
	// the negative branch is skewed by one: an odd value of 1 means -1, not
	// a negative zero
	k, _, err := decodeOffset([]byte{0x81}, 0)
	test.ExpectedSuccess(t, err)
	test.Equate(t, k, int64(-1))

	// even values are unskewed
	k, _, err = decodeOffset([]byte{0x82}, 0)
	test.ExpectedSuccess(t, err)
	test.Equate(t, k, int64(1))

	k, _, err = decodeOffset([]byte{0x80}, 0)
	test.ExpectedSuccess(t, err)
	test.Equate(t, k, int64(0))
}
