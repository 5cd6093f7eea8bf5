package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/steadyvest/steadyvest/pkg/errors"
)

// CheckSchemaCompatibility checks if a config schema version is compatible
// with the version the engine accepts. Returns nil if compatible.
//
// Compatibility rules:
//   - If either version is "main" (development build), the check is skipped
//   - Major versions must match exactly
//   - Minor and patch versions can differ (a 1.0 engine reads any 1.x config)
func CheckSchemaCompatibility(engineVersion, configVersion string) error {
	engineVersion = strings.TrimPrefix(engineVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if engineVersion == "main" || configVersion == "main" {
		return nil
	}

	engineSemver, err := semver.NewVersion(engineVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid engine schema version '%s'", engineVersion)
	}

	configSemver, err := semver.NewVersion(configVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid config schema version '%s'", configVersion)
	}

	if engineSemver.Major() != configSemver.Major() {
		return errors.Newf(errors.ErrCodeInvalidVersion,
			"schema version mismatch: engine accepts %d.x.x but config declares %d.x.x",
			engineSemver.Major(), configSemver.Major())
	}

	return nil
}
