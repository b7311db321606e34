// Package config defines the tdsettings configuration.
//
//   - spec.go: Config struct and the list of keys
//   - default.go: default values
//   - verify.go: validation
//   - sanitize.go: masking for display and logs
//   - loader.go: layered loading and live reload via internal/infra/confloader
package config
