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

package patcher

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/smwtrolls/rompatcher/curated"
	"github.com/smwtrolls/rompatcher/logger"
)

// Launch the emulator with the named ROM file. The emulator runs detached;
// this function does not wait for it to finish.
func Launch(emulator string, rom string) error {
	emulator, err := filepath.Abs(emulator)
	if err != nil {
		return curated.Errorf("launch: %v", err)
	}
	rom, err = filepath.Abs(rom)
	if err != nil {
		return curated.Errorf("launch: %v", err)
	}

	for _, p := range []string{emulator, rom} {
		fi, err := os.Stat(p)
		if err != nil {
			return curated.Errorf("launch: %v", err)
		}
		if fi.IsDir() {
			return curated.Errorf("launch: %v", "path is a directory")
		}
	}

	cmd := exec.Command(emulator, rom)
	if err := cmd.Start(); err != nil {
		return curated.Errorf("launch: %v", err)
	}

	logger.Logf("launch", "%s %s", emulator, rom)

	// reap the process when it eventually exits
	go func() {
		_ = cmd.Wait()
	}()

	return nil
}
