package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the explicit configuration passed into the pipeline's entry
// points. Every value can come from the YAML file, from ${ENV} references
// inside it, or from the GitHub Actions environment as a fallback.
type Config struct {
	ReportScript string       `yaml:"report_script"` // External composer diff script, optional
	ComposerLock string       `yaml:"composer_lock"` // Primary lock manifest path, optional
	YarnLocks    []string     `yaml:"yarn_locks"`    // Secondary lock manifest paths
	BaseRevision string       `yaml:"base_revision"` // Revision holding the pre-change lock files
	GitHub       GitHubConfig `yaml:"github"`
}

// GitHubConfig identifies the pull request whose comments are reconciled.
type GitHubConfig struct {
	Token      string `yaml:"token"`      // Inline, ${ENV_VAR}, or a token file path
	Repository string `yaml:"repository"` // "owner/name"
	PullNumber int    `yaml:"pull_number"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Load reads and parses a configuration file, expanding ${ENV} references and
// filling gaps from the GitHub Actions environment. An empty path yields a
// configuration built from the environment alone.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}

		expanded := expandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvDefaults(&cfg)
	cfg.GitHub.Token = resolveToken(cfg.GitHub.Token)

	return &cfg, nil
}

// FindConfigFile searches for a configuration file in standard locations.
func FindConfigFile() (string, error) {
	locations := []string{".", ".config", ".github"}
	patterns := []string{
		".vendors-report.yaml",
		".vendors-report.yml",
		"vendors-report.yaml",
		"vendors-report.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ValidateForSync checks that everything the sync command needs is present.
func (c *Config) ValidateForSync() error {
	var problems []string

	if c.GitHub.Token == "" {
		problems = append(problems, "github.token is required")
	}
	if c.GitHub.Repository == "" {
		problems = append(problems, "github.repository is required")
	}
	if c.GitHub.PullNumber <= 0 {
		problems = append(problems, "github.pull_number is required")
	}
	if c.BaseRevision == "" {
		problems = append(problems, "base_revision is required")
	}
	if c.ComposerLock == "" && len(c.YarnLocks) == 0 {
		problems = append(problems, "at least one of composer_lock or yarn_locks is required")
	}
	if c.ComposerLock != "" && c.ReportScript == "" {
		problems = append(problems, "report_script is required when composer_lock is set")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// expandEnv replaces ${VAR} references with environment values, warning on
// unset variables.
func expandEnv(raw string) string {
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}

// applyEnvDefaults fills empty fields from the variables GitHub Actions sets
// on pull request workflows.
func applyEnvDefaults(cfg *Config) {
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
	if cfg.GitHub.Repository == "" {
		cfg.GitHub.Repository = os.Getenv("GITHUB_REPOSITORY")
	}
	if cfg.GitHub.PullNumber == 0 {
		if n, err := strconv.Atoi(os.Getenv("PR_NUMBER")); err == nil {
			cfg.GitHub.PullNumber = n
		}
	}
	if cfg.BaseRevision == "" {
		cfg.BaseRevision = os.Getenv("GITHUB_BASE_SHA")
	}
}

// resolveToken reads the token from a file when the configured value is a path
// to an existing file; otherwise the value is used as-is.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	if info, err := os.Stat(raw); err == nil && !info.IsDir() {
		data, readErr := os.ReadFile(raw)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", raw, readErr)
			return raw
		}
		return strings.TrimSpace(string(data))
	}
	return raw
}
