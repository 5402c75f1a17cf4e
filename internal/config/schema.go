package config

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// CurrentSchemaVersion is written by config init.
const CurrentSchemaVersion = "1.0.0"

// SupportedSchemaRange is the schema_version constraint this build reads.
const SupportedSchemaRange = ">= 1.0.0, < 2.0.0"

// CheckSchemaVersion reports whether v is a semantic version inside
// SupportedSchemaRange. An empty version is treated as current.
func CheckSchemaVersion(v string) error {
	if v == "" {
		return nil
	}
	version, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("schema_version %q: %w", v, err)
	}
	constraint, err := semver.NewConstraint(SupportedSchemaRange)
	if err != nil {
		return fmt.Errorf("parsing supported schema range: %w", err)
	}
	if !constraint.Check(version) {
		return fmt.Errorf("schema_version %s is not supported (want %s)", version, SupportedSchemaRange)
	}
	return nil
}
