// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// Defaults are applied for every optional field; Validate reports the first
// problem using the YAML path of the offending field.
package config
