// Package config loads the connection parameters and per-agent instruction
// texts that drive the triage pipeline.
//
// Parameters are resolved with viper: the process environment wins over an
// optional dotenv file. Instruction files are read verbatim from a base
// directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hupe1980/agenttriage/core"
)

// Environment keys.
const (
	KeyProjectEndpoint     = "PROJECT_ENDPOINT"
	KeyModelDeploymentName = "MODEL_DEPLOYMENT_NAME"
	KeyAPIVersion          = "AGENTS_API_VERSION"
	KeyRunPollInterval     = "RUN_POLL_INTERVAL"
)

// Defaults for optional parameters.
const (
	DefaultAPIVersion      = "2025-05-01"
	DefaultRunPollInterval = time.Second
	DefaultEnvFile         = ".env"
)

// Instruction file names, one per agent role.
const (
	PriorityInstructionsFile = "priority_agent_instructions.txt"
	TeamInstructionsFile     = "team_agent_instructions.txt"
	EffortInstructionsFile   = "effort_agent_instructions.txt"
	TriageInstructionsFile   = "triage_agent_instructions.txt"
)

// Instructions holds the verbatim instruction text for each agent.
type Instructions struct {
	Priority string
	Team     string
	Effort   string
	Triage   string
}

// ForFile returns the instruction text loaded from the named file.
func (i Instructions) ForFile(name string) (string, bool) {
	switch name {
	case PriorityInstructionsFile:
		return i.Priority, true
	case TeamInstructionsFile:
		return i.Team, true
	case EffortInstructionsFile:
		return i.Effort, true
	case TriageInstructionsFile:
		return i.Triage, true
	default:
		return "", false
	}
}

// Config is the fully resolved pipeline configuration.
type Config struct {
	Endpoint        string
	ModelDeployment string
	APIVersion      string
	RunPollInterval time.Duration
	Instructions    Instructions
}

// Options configures Load.
type Options struct {
	// EnvFile is a dotenv file consulted after the process environment. A
	// relative path is resolved against the base directory. Missing files are
	// ignored.
	EnvFile string
	// Viper allows callers (the CLI) to pre-bind flags. A fresh instance is
	// used when nil.
	Viper *viper.Viper
}

// Load reads both required parameters and the four instruction files from
// baseDir. It fails with a *core.ConfigurationError wrapping
// core.ErrMissingConfiguration for an unset parameter, and wrapping
// fs.ErrNotExist for an absent instruction file.
func Load(baseDir string, optFns ...func(o *Options)) (*Config, error) {
	opts := Options{EnvFile: DefaultEnvFile}
	for _, fn := range optFns {
		fn(&opts)
	}

	v := opts.Viper
	if v == nil {
		v = viper.New()
	}
	if err := readEnvFile(v, baseDir, opts.EnvFile); err != nil {
		return nil, err
	}
	v.AutomaticEnv()
	v.SetDefault(KeyAPIVersion, DefaultAPIVersion)
	v.SetDefault(KeyRunPollInterval, DefaultRunPollInterval.String())

	cfg := &Config{}

	var err error
	if cfg.Endpoint, err = required(v, KeyProjectEndpoint); err != nil {
		return nil, err
	}
	if cfg.ModelDeployment, err = required(v, KeyModelDeploymentName); err != nil {
		return nil, err
	}

	cfg.APIVersion = strings.TrimSpace(v.GetString(KeyAPIVersion))
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}

	poll, err := time.ParseDuration(strings.TrimSpace(v.GetString(KeyRunPollInterval)))
	if err != nil || poll <= 0 {
		return nil, &core.ConfigurationError{Key: KeyRunPollInterval, Err: fmt.Errorf("invalid duration %q", v.GetString(KeyRunPollInterval))}
	}
	cfg.RunPollInterval = poll

	ins, err := LoadInstructions(baseDir)
	if err != nil {
		return nil, err
	}
	cfg.Instructions = *ins

	return cfg, nil
}

// LoadInstructions reads the four instruction files from dir.
func LoadInstructions(dir string) (*Instructions, error) {
	ins := &Instructions{}
	files := []struct {
		name string
		dst  *string
	}{
		{PriorityInstructionsFile, &ins.Priority},
		{TeamInstructionsFile, &ins.Team},
		{EffortInstructionsFile, &ins.Effort},
		{TriageInstructionsFile, &ins.Triage},
	}
	for _, f := range files {
		text, err := readInstructionFile(filepath.Join(dir, f.name))
		if err != nil {
			return nil, err
		}
		*f.dst = text
	}
	return ins, nil
}

func readInstructionFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &core.ConfigurationError{Path: path, Err: err}
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", &core.ConfigurationError{Path: path, Err: core.ErrEmptyInstructions}
	}
	return text, nil
}

func readEnvFile(v *viper.Viper, baseDir, envFile string) error {
	if envFile == "" {
		return nil
	}
	path := envFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &core.ConfigurationError{Path: path, Err: err}
	}
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return &core.ConfigurationError{Path: path, Err: fmt.Errorf("reading env file: %w", err)}
	}
	return nil
}

func required(v *viper.Viper, key string) (string, error) {
	val := strings.TrimSpace(v.GetString(key))
	if val == "" {
		return "", &core.ConfigurationError{Key: key, Err: core.ErrMissingConfiguration}
	}
	return val, nil
}
