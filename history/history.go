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

// Package history keeps a plain text record of every patch that has been
// applied: which patch, the hash of the data that was downloaded, which
// applier did the work and where the result was written. Useful when a
// user asks why last week's level no longer matches this week's download.
package history

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/smwtrolls/rompatcher/curated"
)

// arbitrary maximum number of entries.
const maxEntries = 1000

const fieldSep = ","

// the fields of a serialised entry, in order of appearance after the key.
const (
	fieldName int = iota
	fieldHash
	fieldApplier
	fieldOutput
	fieldTime
	numFields
)

// Entry is one applied-patch record.
type Entry struct {
	Name    string
	Hash    string
	Applier string
	Output  string
	Time    time.Time
}

func (e Entry) String() string {
	return fmt.Sprintf("%s (%s) -> %s", e.Name, e.Applier, e.Output)
}

// serialised fields must not contain the field separator. the information
// is for humans so substitution is preferable to an error.
func clean(s string) string {
	return strings.ReplaceAll(s, fieldSep, " ")
}

func (e Entry) serialise() string {
	return strings.Join([]string{
		clean(e.Name),
		e.Hash,
		clean(e.Applier),
		clean(e.Output),
		e.Time.Format(time.RFC3339),
	}, fieldSep)
}

func deserialise(fields []string) (Entry, error) {
	if len(fields) != numFields {
		return Entry{}, curated.Errorf("history: %v", "wrong number of fields in entry")
	}

	ts, err := time.Parse(time.RFC3339, fields[fieldTime])
	if err != nil {
		return Entry{}, curated.Errorf("history: %v", err)
	}

	return Entry{
		Name:    fields[fieldName],
		Hash:    fields[fieldHash],
		Applier: fields[fieldApplier],
		Output:  fields[fieldOutput],
		Time:    ts,
	}, nil
}

// Session represents the history file over the lifetime of the program.
type Session struct {
	path    string
	entries map[int]Entry
}

// NewSession is the preferred method of initialisation for the Session
// type. Entries from a previous session are read back in; a missing history
// file simply means an empty session.
func NewSession(path string) (*Session, error) {
	db := &Session{
		path:    path,
		entries: make(map[int]Entry),
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return db, nil
		}
		return nil, curated.Errorf("history: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Split(line, fieldSep)
		key, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, curated.Errorf("history: %v", "unreadable entry key")
		}

		e, err := deserialise(fields[1:])
		if err != nil {
			return nil, err
		}
		db.entries[key] = e
	}
	if err := scanner.Err(); err != nil {
		return nil, curated.Errorf("history: %v", err)
	}

	return db, nil
}

// NumEntries returns the number of entries in the session.
func (db *Session) NumEntries() int {
	return len(db.entries)
}

// SortedKeyList returns a sorted list of entry keys.
func (db *Session) SortedKeyList() []int {
	keyList := make([]int, 0, len(db.entries))
	for k := range db.entries {
		keyList = append(keyList, k)
	}
	sort.Ints(keyList)
	return keyList
}

// Select passes every entry, in key order, to the supplied function. The
// function can stop the walk early by returning false.
func (db *Session) Select(f func(key int, e Entry) bool) {
	for _, k := range db.SortedKeyList() {
		if !f(k, db.entries[k]) {
			return
		}
	}
}

// Add an entry to the session and save the session to disk.
func (db *Session) Add(e Entry) error {
	if len(db.entries) >= maxEntries {
		return curated.Errorf("history: %v", "too many entries")
	}

	key := 0
	for k := range db.entries {
		if k >= key {
			key = k + 1
		}
	}
	db.entries[key] = e

	return db.save()
}

// List the entries in key order.
func (db *Session) List(output io.Writer) error {
	if db.NumEntries() == 0 {
		_, err := io.WriteString(output, "history is empty\n")
		return err
	}

	for _, k := range db.SortedKeyList() {
		if _, err := fmt.Fprintf(output, "%03d: %s\n", k, db.entries[k].String()); err != nil {
			return err
		}
	}

	return nil
}

func (db *Session) save() error {
	f, err := os.Create(db.path)
	if err != nil {
		return curated.Errorf("history: %v", err)
	}
	defer f.Close()

	for _, k := range db.SortedKeyList() {
		if _, err := fmt.Fprintf(f, "%03d%s%s\n", k, fieldSep, db.entries[k].serialise()); err != nil {
			return curated.Errorf("history: %v", err)
		}
	}

	return nil
}
