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
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/smwtrolls/rompatcher/curated"
	"github.com/smwtrolls/rompatcher/history"
	"github.com/smwtrolls/rompatcher/logger"
	"github.com/smwtrolls/rompatcher/patchloader"
)

// error patterns for the pipeline.
const (
	NoBaseROM   = "patcher: no base ROM (%s)"
	NoOutputDir = "patcher: no output directory"
	BadOutput   = "patcher: output path escapes output directory"
)

// Pipeline applies loaded patches to the base ROM and deals with the
// results. One Pipeline is created at startup and used for every request.
type Pipeline struct {
	// path to the unmodified base ROM
	BaseROM string

	// where patched ROMs are written
	OutputDir string

	// path to the emulator to launch on success. empty string means no
	// emulator is launched
	Emulator string

	// appliers in order of preference
	Appliers []Applier

	// whether README text found alongside the patches is included in the
	// result
	ShowReadMe bool

	// record of applied patches. may be nil in which case no record is
	// kept
	History *history.Session
}

// Result of a successful pipeline run.
type Result struct {
	// the patched ROM files that were written
	Outputs []string

	// README text that was found alongside the patches. empty string if
	// there was none or if the pipeline is configured not to show it
	ReadMe string
}

// Run the pipeline for one loaded patch set. The name argument is used to
// name the output; it is sanitised before use so it is safe to pass text
// received over HTTP.
func (p *Pipeline) Run(ld patchloader.Loader, name string) (Result, error) {
	if p.BaseROM == "" {
		return Result{}, curated.Errorf(NoBaseROM, "not configured")
	}
	if p.OutputDir == "" {
		return Result{}, curated.Errorf(NoOutputDir)
	}

	if err := ld.Load(); err != nil {
		return Result{}, err
	}

	rom, err := os.ReadFile(p.BaseROM)
	if err != nil {
		return Result{}, curated.Errorf(NoBaseROM, err)
	}

	applier, err := Select(p.Appliers...)
	if err != nil {
		return Result{}, err
	}

	name = Sanitise(name)

	// a single patch is written directly to the output directory. multiple
	// patches from one archive go into their own folder
	outputDir, err := filepath.Abs(p.OutputDir)
	if err != nil {
		return Result{}, curated.Errorf("patcher: %v", err)
	}
	if len(ld.Patches) > 1 {
		outputDir = filepath.Join(outputDir, name)
	}
	if err := os.MkdirAll(outputDir, 0700); err != nil {
		return Result{}, curated.Errorf("patcher: %v", err)
	}

	res := Result{}
	if p.ShowReadMe {
		res.ReadMe = ld.ReadMe
	}

	for _, member := range ld.Patches {
		fn := fmt.Sprintf("%s.smc", name)
		if len(ld.Patches) > 1 {
			fn = fmt.Sprintf("%s.smc", Sanitise(strings.TrimSuffix(member.Name, filepath.Ext(member.Name))))
		}

		outputPath := filepath.Join(outputDir, fn)
		if !strings.HasPrefix(outputPath, outputDir) {
			return Result{}, curated.Errorf(BadOutput)
		}

		logger.Logf("patcher", "applying %s with %s", member.Name, applier.ID())

		target, err := applier.Apply(rom, member.Data)
		if err != nil {
			return Result{}, curated.Errorf("patcher: %v", err)
		}

		if err := os.WriteFile(outputPath, target, 0644); err != nil {
			return Result{}, curated.Errorf("patcher: %v", err)
		}

		logger.Logf("patcher", "written %s (%d bytes)", outputPath, len(target))
		res.Outputs = append(res.Outputs, outputPath)

		if p.History != nil {
			err = p.History.Add(history.Entry{
				Name:    member.Name,
				Hash:    ld.Hash,
				Applier: applier.ID(),
				Output:  outputPath,
				Time:    time.Now(),
			})
			if err != nil {
				// a full or unwritable history should not stop the
				// patching itself
				logger.Logf("patcher", "history not updated: %v", err)
			}
		}
	}

	// only launch the emulator when there is a single unambiguous result
	if p.Emulator != "" && len(res.Outputs) == 1 {
		if err := Launch(p.Emulator, res.Outputs[0]); err != nil {
			logger.Logf("patcher", "emulator not launched: %v", err)
		}
	}

	return res, nil
}
