// Package hcl is the HCL implementation of the config.Loader interface. It
// discovers .hcl files, decodes `build` blocks with gohcl, and evaluates
// expressions against a context exposing the process environment and the
// invocation paths.
package hcl
