// Package config defines the format-agnostic configuration model for the
// application: the build plan that drives a single packaging run, along with
// the Loader interface for reading it from a concrete source.
//
// The `config.Plan` is the single source of truth for the `pipeline` stages.
// Concrete implementations of the Loader interface, such as for HCL, are
// provided in separate packages.
package config
