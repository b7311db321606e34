// Package domain defines the session settings data model.
//
// Domain types are pure values without IO dependencies. This package contains:
//
//   - SettingsSnapshot: the flat per-account settings record and its defaults
//   - Closed enums with their allowed sets and the enum validator
//   - PeerID: packed chat identifiers used by per-peer settings
//   - Errors: domain error codes
package domain
