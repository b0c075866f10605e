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
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/smwtrolls/rompatcher/curated"
	"github.com/smwtrolls/rompatcher/logger"
)

// how long a single flips invocation is allowed to run.
const flipsTimeout = 30 * time.Second

// Flips applies patches by driving the flips executable, the reference
// implementation of the patch format. The executable is searched for once,
// when the type is created.
type Flips struct {
	path string
}

// NewFlips is the preferred method of initialisation for the Flips type.
// The explicit argument, if not empty, names the executable to use. With no
// explicit path the executable is looked for next to the running program
// and then on the PATH.
func NewFlips(explicit string) *Flips {
	fl := &Flips{}

	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			fl.path = explicit
		} else {
			logger.Logf("flips", "%s not found, will probe for another", explicit)
		}
	}

	if fl.path == "" {
		if exe, err := os.Executable(); err == nil {
			p := filepath.Join(filepath.Dir(exe), executableName())
			if _, err := os.Stat(p); err == nil {
				fl.path = p
			}
		}
	}

	if fl.path == "" {
		if p, err := exec.LookPath(executableName()); err == nil {
			fl.path = p
		}
	}

	if fl.path != "" {
		logger.Logf("flips", "using %s", fl.path)
	}

	return fl
}

func executableName() string {
	if runtime.GOOS == "windows" {
		return "flips.exe"
	}
	return "flips"
}

// ID implements the Applier interface.
func (fl *Flips) ID() string {
	return "flips"
}

// Available implements the Applier interface.
func (fl *Flips) Available() bool {
	return fl.path != ""
}

// Apply implements the Applier interface. The source and patch are written
// to temporary files, flips is run over them and the output file is read
// back.
func (fl *Flips) Apply(source []byte, patch []byte) ([]byte, error) {
	if !fl.Available() {
		return nil, curated.Errorf("flips: %v", "no flips executable")
	}

	dir, err := os.MkdirTemp("", "rompatcher")
	if err != nil {
		return nil, curated.Errorf("flips: %v", err)
	}
	defer os.RemoveAll(dir)

	sourcePath := filepath.Join(dir, "source.smc")
	patchPath := filepath.Join(dir, "patch.bps")
	outputPath := filepath.Join(dir, "output.smc")

	if err := os.WriteFile(sourcePath, source, 0600); err != nil {
		return nil, curated.Errorf("flips: %v", err)
	}
	if err := os.WriteFile(patchPath, patch, 0600); err != nil {
		return nil, curated.Errorf("flips: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), flipsTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, fl.path, "--apply", patchPath, sourcePath, outputPath)
	out, runErr := cmd.CombinedOutput()

	// flips is known to exit non-zero in situations where it has still
	// produced a usable output file. the output file is the arbiter, not
	// the exit code
	data, err := os.ReadFile(outputPath)
	if err != nil {
		if runErr != nil {
			return nil, curated.Errorf("flips: %v", fmt.Sprintf("%v (%s)", runErr, string(out)))
		}
		return nil, curated.Errorf("flips: %v", "no output produced")
	}

	if runErr != nil {
		logger.Logf("flips", "exited with error but produced output (%v)", runErr)
	}

	return data, nil
}
