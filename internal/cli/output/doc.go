// Package output renders command results as a table, JSON or YAML.
//
// Commands build a value (usually a struct or a *Table) and hand it to the
// Formatter selected by --output. Field names in tables come from the yaml
// tag, so every format shows the same names.
package output
