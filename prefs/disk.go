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

// Package prefs stores user preferences on disk. Preference values are
// registered with a Disk instance against a unique key:
//
//	var output prefs.String
//
//	dsk, _ := prefs.NewDisk(path)
//	dsk.Add("patch.outputdir", &output)
//	dsk.Load()
//
// Values are stored one per line in "key :: value" format. The file is plain
// text and can be inspected easily but is not intended to be edited by hand,
// as the boilerplate at the top of every saved file warns.
package prefs

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// WarningBoilerPlate is inserted at the top of every saved prefs file.
const WarningBoilerPlate = "*** do not edit this file by hand ***"

// the string that separates the key from the value on every line.
const keySep = " :: "

// Disk represents the prefs values that are to be stored on disk.
type Disk struct {
	path  string
	prefs map[string]pref
}

// NewDisk is the preferred method of initialisation for the Disk type.
func NewDisk(path string) (*Disk, error) {
	return &Disk{
		path:  path,
		prefs: make(map[string]pref),
	}, nil
}

// Add preference value to the list of values to store/load from disk.
// Keys must be unique and must not contain the key separator sequence.
func (dsk *Disk) Add(key string, p pref) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("prefs: empty key")
	}
	if strings.Contains(key, strings.TrimSpace(keySep)) {
		return fmt.Errorf("prefs: invalid key (%s)", key)
	}
	if _, ok := dsk.prefs[key]; ok {
		return fmt.Errorf("prefs: duplicate key (%s)", key)
	}
	dsk.prefs[key] = p
	return nil
}

// Save current preference values to disk.
func (dsk *Disk) Save() error {
	f, err := os.Create(dsk.path)
	if err != nil {
		return fmt.Errorf("prefs: %v", err)
	}
	defer f.Close()

	// keys are sorted so that saved files are stable from save to save
	keys := make([]string, 0, len(dsk.prefs))
	for k := range dsk.prefs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := strings.Builder{}
	s.WriteString(WarningBoilerPlate)
	s.WriteString("\n")
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, keySep, dsk.prefs[k].String()))
	}

	if _, err := f.WriteString(s.String()); err != nil {
		return fmt.Errorf("prefs: %v", err)
	}

	return nil
}

// Load preference values from disk. A missing prefs file is not an error;
// registered values are simply left as they are. Keys in the file that have
// not been registered are quietly ignored, they may belong to another part
// of the program.
func (dsk *Disk) Load() error {
	f, err := os.Open(dsk.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("prefs: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == WarningBoilerPlate || strings.TrimSpace(line) == "" {
			continue
		}

		k, v, ok := strings.Cut(line, keySep)
		if !ok {
			return fmt.Errorf("prefs: unrecognised line in %s", dsk.path)
		}

		if p, ok := dsk.prefs[k]; ok {
			if err := p.Set(v); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("prefs: %v", err)
	}

	return nil
}

// HasEntry returns true if the named key has been registered with Add().
func (dsk *Disk) HasEntry(key string) bool {
	_, ok := dsk.prefs[key]
	return ok
}

// String returns a summary of all preference values.
func (dsk *Disk) String() string {
	s := strings.Builder{}
	keys := make([]string, 0, len(dsk.prefs))
	for k := range dsk.prefs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, keySep, dsk.prefs[k].String()))
	}
	return s.String()
}
