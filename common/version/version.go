// Package version carries the build version of the distributions tools.
package version

import "runtime"

var (
	// SoftwareVersion is the software version, set at link time with
	// -ldflags "-X github.com/GrahamDennis/distributions/common/version.SoftwareVersion=...".
	SoftwareVersion = "0.1.0-unset"

	// Toolchain is the version of the Go compiler/standard library.
	Toolchain = runtime.Version()
)
