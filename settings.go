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

package main

import (
	"github.com/smwtrolls/rompatcher/prefs"
	"github.com/smwtrolls/rompatcher/resources"
	"github.com/smwtrolls/rompatcher/server"
)

// the name of the preferences file.
const prefsFile = "rompatcher.prefs"

// the name of the history database file.
const historyFile = "history"

// settings that persist between sessions. flags override these values for
// one session; the -save flag writes the overridden values back to disk.
type settings struct {
	dsk *prefs.Disk

	baseROM    prefs.String
	outputDir  prefs.String
	emulator   prefs.String
	flips      prefs.String
	showReadMe prefs.Bool
	port       prefs.Int
}

func newSettings() (*settings, error) {
	set := &settings{}

	if err := set.port.Set(server.DefaultPort); err != nil {
		return nil, err
	}
	if err := set.showReadMe.Set(true); err != nil {
		return nil, err
	}

	pth, err := resources.JoinPath(prefsFile)
	if err != nil {
		return nil, err
	}

	set.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	if err := set.dsk.Add("rompatcher.baserom", &set.baseROM); err != nil {
		return nil, err
	}
	if err := set.dsk.Add("rompatcher.outputdir", &set.outputDir); err != nil {
		return nil, err
	}
	if err := set.dsk.Add("rompatcher.emulator", &set.emulator); err != nil {
		return nil, err
	}
	if err := set.dsk.Add("rompatcher.flips", &set.flips); err != nil {
		return nil, err
	}
	if err := set.dsk.Add("rompatcher.showreadme", &set.showReadMe); err != nil {
		return nil, err
	}
	if err := set.dsk.Add("rompatcher.port", &set.port); err != nil {
		return nil, err
	}

	if err := set.dsk.Load(); err != nil {
		return nil, err
	}

	return set, nil
}

// save the current values to disk.
func (set *settings) save() error {
	return set.dsk.Save()
}
