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

package test

import "testing"

// ExpectedFailure asserts that v represents a failure: a false bool or a
// non-nil error. A nil argument fails the assertion and any other type
// aborts the test.
func ExpectedFailure(t *testing.T, v interface{}) bool {
	t.Helper()

	switch v := v.(type) {
	case bool:
		if !v {
			return true
		}
		t.Error("failure expected but bool is true")

	case error:
		if v != nil {
			return true
		}
		t.Error("failure expected but error is nil")

	case nil:
		t.Error("failure expected but value is nil")

	default:
		t.Fatalf("cannot test %T for failure", v)
	}

	return false
}

// ExpectedSuccess asserts that v represents success: a true bool, a nil
// error or nil itself. Any other type aborts the test.
func ExpectedSuccess(t *testing.T, v interface{}) bool {
	t.Helper()

	switch v := v.(type) {
	case bool:
		if v {
			return true
		}
		t.Error("success expected but bool is false")

	case error:
		if v == nil {
			return true
		}
		t.Errorf("success expected but error is not nil (%v)", v)

	case nil:
		return true

	default:
		t.Fatalf("cannot test %T for success", v)
	}

	return false
}
