package config

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/vortex-fintech/crmclean/foundation/errx"
	"github.com/vortex-fintech/crmclean/foundation/validator"
	"github.com/vortex-fintech/crmclean/verify"
)

// Config carries one invocation's settings. Flags populate it; Validate runs
// before anything touches the filesystem.
type Config struct {
	Input  string `validate:"required"`
	Output string `validate:"required"`

	// Master is the suppression list path (suppress command only).
	Master string
	// KeyColumn / MasterKeyColumn override suppression key detection per
	// file (suppress command only).
	KeyColumn       string
	MasterKeyColumn string

	// EmailColumn overrides email column detection by header name.
	EmailColumn string
	// NameColumn overrides first-name column lookup by header name.
	NameColumn  string
	DropInvalid bool
	ReportPath  string

	VerifyKey  string
	VerifyURL  string `validate:"omitempty,http_url"`
	VerifyPace time.Duration

	// MetricsListen serves /metrics on this address for the duration of the
	// run when non-empty.
	MetricsListen string

	Env string `validate:"omitempty,oneof=development debug production"`
}

var (
	errSameInputOutput = errors.New("config: output path equals input path")
	errSameMasterInput = errors.New("config: master path equals input path")
	errNegativePace    = errors.New("config: verify pace must be >= 0")
	errVerifyURLNoKey  = errors.New("config: verify url set without an api key")
	errMasterRequired  = errors.New("config: master path is required")
)

func (c Config) Validate() error {
	if fields := validator.Validate(c); fields != nil {
		parts := make([]string, 0, len(fields))
		for f, reason := range fields {
			parts = append(parts, f+": "+reason)
		}
		sort.Strings(parts)
		return errx.Config(nil, strings.Join(parts, "; "))
	}
	if c.Input == c.Output {
		return errx.Config(errSameInputOutput, "")
	}
	if c.VerifyPace < 0 {
		return errx.Config(errNegativePace, "")
	}
	if strings.TrimSpace(c.VerifyKey) == "" && c.verifyURLCustom() {
		return errx.Config(errVerifyURLNoKey, "")
	}
	return nil
}

// ValidateSuppress covers the suppress command's extra requirements.
func (c Config) ValidateSuppress() error {
	if strings.TrimSpace(c.Master) == "" {
		return errx.Config(errMasterRequired, "")
	}
	if c.Master == c.Input {
		return errx.Config(errSameMasterInput, "")
	}
	return c.Validate()
}

// VerifyEnabled reports whether the opt-in deliverability stage runs.
func (c Config) VerifyEnabled() bool { return strings.TrimSpace(c.VerifyKey) != "" }

// verifyURLCustom reports whether the user pointed verification somewhere
// other than the stock endpoint. A custom endpoint without a key is a
// misconfiguration; the stock default without a key just means "off".
func (c Config) verifyURLCustom() bool {
	u := strings.TrimSpace(c.VerifyURL)
	return u != "" && u != verify.DefaultBaseURL
}
