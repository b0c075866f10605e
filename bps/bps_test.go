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

package bps_test

import (
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/smwtrolls/rompatcher/bps"
	"github.com/smwtrolls/rompatcher/curated"
	"github.com/smwtrolls/rompatcher/test"
)

// variable length value encoder. the bps package never encodes so the tests
// carry their own.
func vlv(v uint64) []byte {
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

// signed relative offset encoder.
func rel(k int64) []byte {
	if k < 0 {
		return vlv(uint64(-k-1)<<1 | 1)
	}
	return vlv(uint64(k) << 1)
}

// builder assembles a well-formed patch from a sequence of actions.
type builder struct {
	actions    []byte
	sourceSize int
	targetSize int
	metadata   []byte
}

func newBuilder(sourceSize int, targetSize int) *builder {
	return &builder{
		sourceSize: sourceSize,
		targetSize: targetSize,
	}
}

func opcode(kind int, length int) []byte {
	return vlv(uint64(length-1)<<2 | uint64(kind))
}

func (b *builder) sourceRead(length int) *builder {
	b.actions = append(b.actions, opcode(0, length)...)
	return b
}

func (b *builder) targetRead(data ...byte) *builder {
	b.actions = append(b.actions, opcode(1, len(data))...)
	b.actions = append(b.actions, data...)
	return b
}

func (b *builder) sourceCopy(length int, offset int64) *builder {
	b.actions = append(b.actions, opcode(2, length)...)
	b.actions = append(b.actions, rel(offset)...)
	return b
}

func (b *builder) targetCopy(length int, offset int64) *builder {
	b.actions = append(b.actions, opcode(3, length)...)
	b.actions = append(b.actions, rel(offset)...)
	return b
}

func (b *builder) body() []byte {
	var p []byte
	p = append(p, []byte("BPS1")...)
	p = append(p, vlv(uint64(b.sourceSize))...)
	p = append(p, vlv(uint64(b.targetSize))...)
	p = append(p, vlv(uint64(len(b.metadata)))...)
	p = append(p, b.metadata...)
	p = append(p, b.actions...)
	return p
}

// patch returns the assembled patch with a zeroed footer.
func (b *builder) patch() []byte {
	return append(b.body(), make([]byte, 12)...)
}

// patchChecksummed returns the assembled patch with a correct footer for the
// given source and target.
func (b *builder) patchChecksummed(source []byte, target []byte) []byte {
	p := b.body()
	p = binary.LittleEndian.AppendUint32(p, crc32.ChecksumIEEE(source))
	p = binary.LittleEndian.AppendUint32(p, crc32.ChecksumIEEE(target))
	p = binary.LittleEndian.AppendUint32(p, crc32.ChecksumIEEE(p))
	return p
}

func TestMinimalContainer(t *testing.T) {
	p := newBuilder(0, 1).targetRead(0x7a).patch()

	target, err := bps.Apply([]byte{}, p)
	test.ExpectedSuccess(t, err)
	test.Equate(t, target, []byte{0x7a})
}

func TestSourceRead(t *testing.T) {
	p := newBuilder(5, 5).sourceRead(5).patch()

	target, err := bps.Apply([]byte("hello"), p)
	test.ExpectedSuccess(t, err)
	test.Equate(t, target, "hello")
}

func TestTargetRead(t *testing.T) {
	p := newBuilder(0, 5).targetRead([]byte("world")...).patch()

	target, err := bps.Apply(nil, p)
	test.ExpectedSuccess(t, err)
	test.Equate(t, target, "world")
}

func TestSourceCopy(t *testing.T) {
	// jump forward in the source, then back past both reads
	p := newBuilder(6, 6).sourceCopy(3, 3).sourceCopy(3, -6).patch()

	target, err := bps.Apply([]byte("abcdef"), p)
	test.ExpectedSuccess(t, err)
	test.Equate(t, target, "defabc")
}

func TestMixedActions(t *testing.T) {
	// keep the first three bytes, insert new data, keep the rest
	p := newBuilder(6, 8).sourceRead(3).targetRead('X', 'Y').sourceRead(3).patch()

	target, err := bps.Apply([]byte("abcdef"), p)
	test.ExpectedSuccess(t, err)
	test.Equate(t, target, "abcXYdef")
}

func TestSelfOverlapCopy(t *testing.T) {
	// a target copy with offset -1 re-reads the byte it has just written,
	// producing a run of the preceding byte
	p := newBuilder(0, 6).targetRead(0x41).targetCopy(5, -1).patch()

	target, err := bps.Apply(nil, p)
	test.ExpectedSuccess(t, err)
	test.Equate(t, target, []byte{0x41, 0x41, 0x41, 0x41, 0x41, 0x41})
}

func TestSelfOverlapPattern(t *testing.T) {
	// offset -2 over a two byte seed repeats the pair
	p := newBuilder(0, 8).targetRead('a', 'b').targetCopy(6, -2).patch()

	target, err := bps.Apply(nil, p)
	test.ExpectedSuccess(t, err)
	test.Equate(t, target, "abababab")
}

func TestZeroFillShortSource(t *testing.T) {
	// the source is shorter than the actions expect. the overrun is
	// zero-filled, not fatal
	p := newBuilder(4, 4).sourceRead(4).patch()

	target, err := bps.Apply([]byte("hi"), p)
	test.ExpectedSuccess(t, err)
	test.Equate(t, target, []byte{'h', 'i', 0x00, 0x00})
}

func TestZeroFillNegativeSourceCursor(t *testing.T) {
	// a source copy can move the cursor before the start of the source.
	// reads from there are zero-filled and the cursor still advances
	p := newBuilder(2, 4).sourceCopy(4, -2).patch()

	target, err := bps.Apply([]byte("ab"), p)
	test.ExpectedSuccess(t, err)
	test.Equate(t, target, []byte{0x00, 0x00, 'a', 'b'})
}

func TestZeroFillTargetCopyAhead(t *testing.T) {
	// a target copy that reaches at or beyond the write cursor reads
	// nothing useful and zero-fills
	p := newBuilder(0, 4).targetRead('a').targetCopy(3, 5).patch()

	target, err := bps.Apply(nil, p)
	test.ExpectedSuccess(t, err)
	test.Equate(t, target, []byte{'a', 0x00, 0x00, 0x00})
}

func TestLengthInvariant(t *testing.T) {
	// actions writing past the declared target size stop writing but the
	// result is always exactly the declared length
	p := newBuilder(0, 4).targetRead([]byte("abcdef")...).patch()

	target, err := bps.Apply(nil, p)
	test.ExpectedSuccess(t, err)
	test.Equate(t, target, "abcd")
}

func TestDeterminism(t *testing.T) {
	source := []byte("the quick brown fox")
	p := newBuilder(len(source), 24).sourceRead(10).targetRead([]byte("smart ")...).sourceCopy(8, -4).patch()

	a, err := bps.Apply(source, p)
	test.ExpectedSuccess(t, err)
	b, err := bps.Apply(source, p)
	test.ExpectedSuccess(t, err)
	test.Equate(t, a, b)
	test.Equate(t, len(a), 24)
}

func TestBadMagic(t *testing.T) {
	// too short to be a patch at all
	_, err := bps.Apply(nil, []byte("BPS1"))
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, bps.BadMagic))

	// long enough but the marker is wrong
	p := newBuilder(0, 1).targetRead(0x00).patch()
	p[0] = 'X'
	_, err = bps.Apply(nil, p)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, bps.BadMagic))
}

func TestTruncatedHeader(t *testing.T) {
	// minimum length patch in which the size fields never terminate. the
	// value decode runs off the end of the patch
	p := make([]byte, 19)
	copy(p, "BPS1")
	_, err := bps.Apply(nil, p)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, bps.TruncatedValue))
}

func TestFooter(t *testing.T) {
	source := []byte("abcdef")
	b := newBuilder(len(source), len(source)).sourceRead(len(source))
	p := b.patchChecksummed(source, source)

	ft, err := bps.ReadFooter(p)
	test.ExpectedSuccess(t, err)
	test.Equate(t, ft.SourceChecksum, crc32.ChecksumIEEE(source))
	test.Equate(t, ft.TargetChecksum, crc32.ChecksumIEEE(source))
	test.Equate(t, ft.PatchChecksum, crc32.ChecksumIEEE(p[:len(p)-4]))
}

func TestApplyVerified(t *testing.T) {
	source := []byte("abcdef")
	expected := []byte("abcXYdef")
	b := newBuilder(len(source), len(expected)).sourceRead(3).targetRead('X', 'Y').sourceRead(3)
	p := b.patchChecksummed(source, expected)

	target, err := bps.ApplyVerified(source, p)
	test.ExpectedSuccess(t, err)
	test.Equate(t, target, expected)
}

func TestApplyVerifiedWrongSource(t *testing.T) {
	source := []byte("abcdef")
	b := newBuilder(len(source), len(source)).sourceRead(len(source))
	p := b.patchChecksummed(source, source)

	_, err := bps.ApplyVerified([]byte("zzzzzz"), p)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, bps.ChecksumMismatch))

	// the faithful decoder is oblivious
	target, err := bps.Apply([]byte("zzzzzz"), p)
	test.ExpectedSuccess(t, err)
	test.Equate(t, target, "zzzzzz")
}

func TestApplyVerifiedCorruptPatch(t *testing.T) {
	source := []byte("abcdef")
	b := newBuilder(len(source), len(source)).sourceRead(len(source))
	p := b.patchChecksummed(source, source)

	// flip a bit in the action stream
	p[len(p)-13] ^= 0x01
	_, err := bps.ApplyVerified(source, p)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, bps.ChecksumMismatch))
}

func TestMetadataSkipped(t *testing.T) {
	b := newBuilder(0, 3).targetRead('x', 'y', 'z')
	b.metadata = []byte("<xml>ignored, even if it looks like actions</xml>")

	target, err := bps.Apply(nil, b.patch())
	test.ExpectedSuccess(t, err)
	test.Equate(t, target, "xyz")
}
