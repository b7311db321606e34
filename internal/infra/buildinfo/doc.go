// Package buildinfo exposes version information injected with ldflags:
//
//	go build -ldflags "-X github.com/Mesbahzade/tdesktop/internal/infra/buildinfo.Version=v1.2.0" ./cmd/tdsettings
//
// When nothing is injected the values fall back to the module build info
// recorded by the Go toolchain.
package buildinfo
