// Package db provides the embedded raw-zone schema.
package db

import _ "embed"

// Schema contains the idempotent DDL for the raw schema and the batch ledger.
//
//go:embed migrations/001_schema.sql
var Schema string
