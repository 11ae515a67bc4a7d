package config

import (
	"os"
	"strings"
)

// RecursiveBomCosting switches the BOM cost rollup from single-level
// (components priced at their stored cost price) to a recursive descent into
// component BOMs, with cycle detection and a depth cap.
//
// Set via env:
// - RECURSIVE_BOM_COSTING=true
func RecursiveBomCosting() bool {
	return boolFromEnv("RECURSIVE_BOM_COSTING")
}

func boolFromEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
