package report

import (
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"pulseboard/internal/domain/report"
	"pulseboard/internal/errs"
)

// Profile is the optional TOML report configuration: insight thresholds
// plus a footer line for branded exports.
type Profile struct {
	Thresholds report.InsightThresholds `toml:"thresholds"`
	Footer     string                   `toml:"footer"`
}

func defaultProfile() Profile {
	return Profile{Thresholds: report.DefaultThresholds()}
}

// LoadProfile reads the report profile file. An empty path means the
// compiled-in defaults; a named file must parse.
func LoadProfile(path string) (Profile, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return defaultProfile(), nil
	}

	raw, err := os.ReadFile(trimmed)
	if err != nil {
		return Profile{}, errs.Wrapf(err, "read report profile %q", trimmed)
	}

	profile := defaultProfile()
	if err := toml.Unmarshal(raw, &profile); err != nil {
		return Profile{}, errs.Wrapf(err, "parse report profile %q", trimmed)
	}

	if profile.Thresholds.ExcellentCompletion <= 0 {
		profile.Thresholds.ExcellentCompletion = report.DefaultThresholds().ExcellentCompletion
	}
	if profile.Thresholds.GoodCompletion <= 0 {
		profile.Thresholds.GoodCompletion = report.DefaultThresholds().GoodCompletion
	}
	if profile.Thresholds.AcceptableError <= 0 {
		profile.Thresholds.AcceptableError = report.DefaultThresholds().AcceptableError
	}

	return profile, nil
}
