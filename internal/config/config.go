package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ArcAOGaming/RuneRealm-UI-sub001/internal/constants"
	"github.com/caarlos0/env/v11"
)

type rawConfig struct {
	Resolver *struct {
		BaseURL        string `json:"base_url"`
		TimeoutSeconds int    `json:"timeout_seconds"`
	} `json:"resolver"`
	ParticipantID       string `json:"participant_id"`
	ArchivePath         string `json:"archive_path"`
	PollIntervalSeconds int    `json:"poll_interval_seconds"`
}

// envOverrides captures environment variables that take precedence over
// the config file.
type envOverrides struct {
	ResolverURL   string `env:"ARENA_RESOLVER_URL"`
	ParticipantID string `env:"ARENA_PARTICIPANT_ID"`
	ArchivePath   string `env:"ARENA_ARCHIVE_DB"`
}

// LoadedConfig contains everything the client binary needs to run.
type LoadedConfig struct {
	ResolverBaseURL string
	ResolverTimeout time.Duration
	ParticipantID   string
	ArchivePath     string
	PollInterval    time.Duration
}

// LoadConfig reads the configuration file at path, applies environment
// overrides and fills defaults. A missing file is not an error as long as
// the environment provides the participant id; everything else defaults.
func LoadConfig(path string) (*LoadedConfig, error) {
	out := &LoadedConfig{
		ResolverBaseURL: constants.DefaultResolverURL,
		ResolverTimeout: constants.DefaultResolverTimeout,
		ArchivePath:     constants.DefaultArchivePath,
		PollInterval:    constants.DefaultPollInterval,
	}

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		var rc rawConfig
		if err := json.Unmarshal(b, &rc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		if rc.Resolver != nil {
			if rc.Resolver.BaseURL != "" {
				out.ResolverBaseURL = rc.Resolver.BaseURL
			}
			if rc.Resolver.TimeoutSeconds > 0 {
				out.ResolverTimeout = time.Duration(rc.Resolver.TimeoutSeconds) * time.Second
			}
		}
		if rc.ParticipantID != "" {
			out.ParticipantID = rc.ParticipantID
		}
		if rc.ArchivePath != "" {
			out.ArchivePath = rc.ArchivePath
		}
		if rc.PollIntervalSeconds > 0 {
			out.PollInterval = time.Duration(rc.PollIntervalSeconds) * time.Second
		}
	case os.IsNotExist(err):
		// fall through to env overrides
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return nil, fmt.Errorf("failed to parse environment overrides: %w", err)
	}
	if ov.ResolverURL != "" {
		out.ResolverBaseURL = ov.ResolverURL
	}
	if ov.ParticipantID != "" {
		out.ParticipantID = ov.ParticipantID
	}
	if ov.ArchivePath != "" {
		out.ArchivePath = ov.ArchivePath
	}

	out.ResolverBaseURL = strings.TrimRight(strings.TrimSpace(out.ResolverBaseURL), "/")
	if out.ParticipantID == "" {
		return nil, fmt.Errorf("config file %s: participant_id is required (or set %s)", path, constants.EnvParticipantID)
	}
	return out, nil
}
