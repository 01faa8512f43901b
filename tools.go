//go:build tools

package tools

// This file tracks versions of CLI tool dependencies.
// See the tool directive in go.mod.
