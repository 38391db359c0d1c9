// Package version reports the seqkit library version, used as the
// OpenTelemetry instrumentation version.
//
// The version may be pinned at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/seqkit/version.Version=1.2.0"
//
// Otherwise it is read from the module dependency recorded in the binary's
// build info.
package version
