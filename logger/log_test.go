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

package logger_test

import (
	"strings"
	"testing"

	"github.com/smwtrolls/rompatcher/logger"
	"github.com/smwtrolls/rompatcher/test"
)

func TestWrite(t *testing.T) {
	logger.Clear()

	logger.Log("test", "this is a test")
	s := &strings.Builder{}
	logger.Write(s)
	test.Equate(t, s.String(), "test: this is a test\n")

	logger.Logf("test", "this is a %s", "formatted test")
	s.Reset()
	logger.Tail(s, 1)
	test.Equate(t, s.String(), "test: this is a formatted test\n")
}

func TestRepeatFolding(t *testing.T) {
	logger.Clear()

	logger.Log("test", "same entry")
	logger.Log("test", "same entry")
	logger.Log("test", "same entry")

	s := &strings.Builder{}
	logger.Write(s)
	test.Equate(t, s.String(), "test: same entry (repeat x3)\n")
}

func TestClear(t *testing.T) {
	logger.Clear()

	logger.Log("test", "an entry")
	logger.Clear()

	s := &strings.Builder{}
	logger.Write(s)
	test.Equate(t, s.String(), "")
}

func TestEcho(t *testing.T) {
	logger.Clear()

	s := &strings.Builder{}
	logger.SetEcho(s)
	defer logger.SetEcho(nil)

	logger.Log("test", "echoed entry")
	test.Equate(t, s.String(), "test: echoed entry\n")
}
