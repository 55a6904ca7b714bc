// Package config loads and validates engine-wide options: where the
// hook graph lives, how previous snapshots are resolved, worker pool
// sizing, timeouts, and where receipts/metrics/snapshots are written.
package config

import (
	"os"
	"strconv"
	"sync"
	"time"

	khookerrors "github.com/knowledgehooks/khook/pkg/errors"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the full engine configuration document.
type Config struct {
	GraphDir         string `yaml:"graphDir" validate:"required"`
	RepoPath         string `yaml:"repoPath,omitempty"`
	PreviousGraphDir string `yaml:"previousGraphDir,omitempty"`
	DataDir          string `yaml:"dataDir" validate:"required"`

	WorkerPoolSize int `yaml:"workerPoolSize,omitempty" validate:"omitempty,min=1,max=1024"`
	MaxHTTPBuffer  int `yaml:"maxHttpBufferBytes,omitempty" validate:"omitempty,min=1"`
	MaxCliBuffer   int `yaml:"maxCliBufferBytes,omitempty" validate:"omitempty,min=1"`

	OrchestratorTimeoutMs int `yaml:"orchestratorTimeoutMs,omitempty" validate:"omitempty,min=1"`
	LockTimeoutMs         int `yaml:"lockTimeoutMs,omitempty" validate:"omitempty,min=1"`

	LogLevel string `yaml:"logLevel,omitempty" validate:"omitempty,oneof=debug info warn error"`
}

// Defaults mirrors spec §5's stated defaults (5 min orchestrator
// timeout; CLI step default lives in internal/steprunner).
const (
	DefaultOrchestratorTimeout = 5 * time.Minute
	DefaultLockTimeout         = 30 * time.Second
	DefaultMaxHTTPBuffer       = 10 << 20 // 10 MiB
	DefaultMaxCliBuffer        = 10 << 20
)

// Load reads and validates a Config from path, then applies
// ENGINE_GRAPH_DIR / ENGINE_MAX_BUFFER / ENGINE_TIMEOUT_MS environment
// overrides on top of the parsed document.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, khookerrors.NewIoFailure("read config "+path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, khookerrors.NewValidationError("config", "invalid YAML", err)
	}

	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnvOverrides mirrors the teacher's STREAMY_* override pattern:
// environment variables win over file-supplied values when set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ENGINE_GRAPH_DIR"); v != "" {
		cfg.GraphDir = v
	}
	if v := os.Getenv("ENGINE_MAX_BUFFER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxHTTPBuffer = n
			cfg.MaxCliBuffer = n
		}
	}
	if v := os.Getenv("ENGINE_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.OrchestratorTimeoutMs = n
		}
	}
}

// Validate runs struct-tag validation via go-playground/validator/v10,
// converting the first failure into a khookerrors.ValidationError.
func Validate(cfg *Config) error {
	if cfg == nil {
		return khookerrors.NewValidationError("config", "configuration is nil", nil)
	}
	if err := validatorInstance().Struct(cfg); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return khookerrors.NewValidationError(fe.Namespace(), fe.Tag(), err)
		}
		return khookerrors.NewValidationError("config", err.Error(), err)
	}
	return nil
}

// OrchestratorTimeout returns the configured orchestrator-wide timeout,
// falling back to DefaultOrchestratorTimeout when unset.
func (c *Config) OrchestratorTimeout() time.Duration {
	if c.OrchestratorTimeoutMs <= 0 {
		return DefaultOrchestratorTimeout
	}
	return time.Duration(c.OrchestratorTimeoutMs) * time.Millisecond
}

// LockTimeout returns the configured per-hook lock acquisition
// timeout, falling back to DefaultLockTimeout when unset.
func (c *Config) LockTimeout() time.Duration {
	if c.LockTimeoutMs <= 0 {
		return DefaultLockTimeout
	}
	return time.Duration(c.LockTimeoutMs) * time.Millisecond
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}
