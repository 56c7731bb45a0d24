// Package config loads the two-document configuration: a mandatory
// YAML document and an optional user-overrides document that replaces
// recognized keys one at a time.
package config
