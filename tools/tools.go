// This file is excluded from normal builds by the build tag below:
// its imports are commands (package main), not importable packages.
// It only pins their versions in go.mod.
//
//go:build tools

// Package tools pins the development tools of go-hinge.
package tools

import (
	// Lint: go run github.com/golangci/golangci-lint/cmd/golangci-lint run
	_ "github.com/golangci/golangci-lint/cmd/golangci-lint"
)
