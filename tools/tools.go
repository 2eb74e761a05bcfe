//go:build tools

package tools

// This file tracks tool dependencies for reproducible builds.
// Migrations under internal/adapters/postgres/migrations can be run by hand
// with the goose CLI.

import (
	_ "github.com/pressly/goose/v3/cmd/goose"
)
