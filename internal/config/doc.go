// Package config holds the run configuration for bee-archive.
//
// Values come from three layers, later layers winning: built-in defaults
// (NewConfig), an optional YAML file (LoadFile), and command-line flags
// applied by the cli package. Validate is called once before any network
// traffic so that a bad value fails fast.
package config
