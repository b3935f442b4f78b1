package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the daemon configuration, loaded from TOML.
type Config struct {
	Environment    string `toml:"Environment"`
	MetricsAddress string `toml:"MetricsAddress"`
	LogFile        string `toml:"LogFile"`

	Telemetry  Telemetry  `toml:"Telemetry"`
	Guardrails Guardrails `toml:"Guardrails"`
	Simulator  Simulator  `toml:"Simulator"`
}

// Telemetry configures the OTLP exporters.
type Telemetry struct {
	Endpoint string `toml:"Endpoint"`
	Insecure bool   `toml:"Insecure"`
	Traces   bool   `toml:"Traces"`
	Metrics  bool   `toml:"Metrics"`
}

// Guardrails bound the campaign parameters the daemon will accept. The
// reward-rate band is fixed by the engine; these knobs may only narrow it.
type Guardrails struct {
	MinRewardRateBps       uint32 `toml:"MinRewardRateBps"`
	MaxRewardRateBps       uint32 `toml:"MaxRewardRateBps"`
	DefaultSafetyMarginBps uint32 `toml:"DefaultSafetyMarginBps"`
	// ReserveRatioBps is the share of the new token's supply set aside as the
	// reward reserve when a campaign derives it from supply.
	ReserveRatioBps uint32 `toml:"ReserveRatioBps"`
}

// Simulator drives the reference campaign lifecycle the daemon runs.
type Simulator struct {
	Contributors           int    `toml:"Contributors"`
	ContributionsPerSecond int    `toml:"ContributionsPerSecond"`
	OriginalSupply         string `toml:"OriginalSupply"`
	NewTokenSupply         string `toml:"NewTokenSupply"`
	TargetParticipationBps uint32 `toml:"TargetParticipationBps"`
	RewardRateBps          uint32 `toml:"RewardRateBps"`
	DurationSeconds        int64  `toml:"DurationSeconds"`
	Seed                   int64  `toml:"Seed"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Environment:    "dev",
		MetricsAddress: ":9464",
		Telemetry: Telemetry{
			Endpoint: "localhost:4318",
			Insecure: true,
			Traces:   true,
		},
		Guardrails: Guardrails{
			MinRewardRateBps:       100,
			MaxRewardRateBps:       200,
			DefaultSafetyMarginBps: 200,
			ReserveRatioBps:        8_000,
		},
		Simulator: Simulator{
			Contributors:           24,
			ContributionsPerSecond: 8,
			OriginalSupply:         "1000000000000",
			NewTokenSupply:         "1000000000000",
			TargetParticipationBps: 1_000,
			RewardRateBps:          150,
			DurationSeconds:        60,
		},
	}
}

// Load reads the configuration from the given path, writing a default file
// when none exists. Unknown keys fail loudly so a typoed guardrail cannot
// silently fall back to a default in a money path.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	cfg := &Config{}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config file %s has unknown key %q", path, undecoded[0].String())
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	defaults := Default()
	if cfg.Environment == "" {
		cfg.Environment = defaults.Environment
	}
	if cfg.MetricsAddress == "" {
		cfg.MetricsAddress = defaults.MetricsAddress
	}
	if cfg.Telemetry.Endpoint == "" {
		cfg.Telemetry.Endpoint = defaults.Telemetry.Endpoint
	}
	if cfg.Guardrails == (Guardrails{}) {
		cfg.Guardrails = defaults.Guardrails
	}
	if cfg.Simulator == (Simulator{}) {
		cfg.Simulator = defaults.Simulator
	}
}

func createDefault(path string) (*Config, error) {
	cfg := Default()
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
