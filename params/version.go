// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.
//
// The N42 library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The N42 library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the N42 library. If not, see <http://www.gnu.org/licenses/>.

// Package params holds evmflow's build-time version metadata: just the
// version string and the git commit it was built from. evmflow keeps no
// persisted state, so there is no database version-stamping here.
package params

import "fmt"

var (
	// GitCommit and GitTag are injected through build flags (-ldflags).
	GitCommit string
	GitTag    string
)

// Version format: Major.Minor.Patch.
const (
	VersionMajor = 0
	VersionMinor = 1
	VersionPatch = 0
)

// Version holds the textual version string.
var Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)

// VersionWithCommit appends the short git commit hash to Version, when
// available.
func VersionWithCommit(gitCommit string) string {
	v := Version
	if len(gitCommit) >= 8 {
		v += "-" + gitCommit[:8]
	}
	return v
}
