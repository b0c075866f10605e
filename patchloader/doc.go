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

// Package patchloader is responsible for getting patch data into memory,
// wherever it comes from. The Loader type accepts a local filename or an
// http/https URL, loads the bytes, checks an expected hash if one was
// given, and hands archives over to the archivefs package so that every
// patch inside is collected.
//
// Nothing in this package is specific to the patch format. The loaded
// patches are opaque byte sequences for someone else to interpret.
package patchloader
