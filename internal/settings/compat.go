package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// SupportedSchema is the range of settings schema versions this build reads.
const SupportedSchema = ">= 1.0.0, < 2.0.0"

// ErrIncompatibleSchema is returned when settings.yaml was written by a newer
// (or unknown) settings surface.
var ErrIncompatibleSchema = errors.New("incompatible settings schema")

// CheckCompatible reports whether version satisfies SupportedSchema.
// An empty version is accepted: early settings files carried none.
func CheckCompatible(version string) error {
	if strings.TrimSpace(version) == "" {
		return nil
	}
	v, err := parseSemver(version)
	if err != nil {
		return fmt.Errorf("%w: parsing %q: %v", ErrIncompatibleSchema, version, err)
	}
	c, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return fmt.Errorf("parsing constraint: %w", err)
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrIncompatibleSchema, version, SupportedSchema)
	}
	return nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	return semver.NewVersion(version)
}
