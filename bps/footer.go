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
	"encoding/binary"
	"hash/crc32"

	"github.com/smwtrolls/rompatcher/curated"
)

// Footer is the fixed size block at the end of every BPS patch. The patch
// checksum covers the whole patch except the final four bytes holding the
// checksum itself.
type Footer struct {
	SourceChecksum uint32
	TargetChecksum uint32
	PatchChecksum  uint32
}

// ReadFooter returns the three CRC-32 checksums from the end of the patch.
func ReadFooter(patch []byte) (Footer, error) {
	if len(patch) < minPatchSize {
		return Footer{}, curated.Errorf(BadMagic, "patch too small")
	}

	f := patch[len(patch)-footerSize:]
	return Footer{
		SourceChecksum: binary.LittleEndian.Uint32(f[0:]),
		TargetChecksum: binary.LittleEndian.Uint32(f[4:]),
		PatchChecksum:  binary.LittleEndian.Uint32(f[8:]),
	}, nil
}

// ApplyVerified is the strict form of Apply(). In addition to applying the
// patch it checks the source, patch and reconstructed target against the
// footer checksums, failing with a ChecksumMismatch error on the first
// disagreement. The patch and source are checked before any action runs.
//
// A source checksum failure almost always means the wrong, or a headered,
// base ROM. Apply() would silently produce a full-length but wrong target
// from the same inputs.
func ApplyVerified(source []byte, patch []byte) ([]byte, error) {
	ft, err := ReadFooter(patch)
	if err != nil {
		return nil, err
	}

	if crc32.ChecksumIEEE(patch[:len(patch)-4]) != ft.PatchChecksum {
		return nil, curated.Errorf(ChecksumMismatch, "patch")
	}
	if crc32.ChecksumIEEE(source) != ft.SourceChecksum {
		return nil, curated.Errorf(ChecksumMismatch, "source")
	}

	target, err := Apply(source, patch)
	if err != nil {
		return nil, err
	}

	if crc32.ChecksumIEEE(target) != ft.TargetChecksum {
		return nil, curated.Errorf(ChecksumMismatch, "target")
	}

	return target, nil
}
