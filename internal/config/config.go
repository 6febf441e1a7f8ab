package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// DuplicateDetection selects how processed content is compared when
	// checking for duplicates: "exact" or "normalized".
	DuplicateDetection string `json:"duplicate_detection,omitempty"`

	// CascadeArchive controls whether archiving a database also archives
	// its records. Archiving always requires confirmation either way.
	CascadeArchive bool `json:"cascade_archive,omitempty"`

	// ProcessTimeoutMs bounds each collaborator call during thought
	// processing, in milliseconds. 0 means no timeout.
	ProcessTimeoutMs int `json:"process_timeout_ms,omitempty"`

	// MaxBatchConcurrency caps concurrent workers for batch processing.
	// 0 means use the pipeline default.
	MaxBatchConcurrency int `json:"max_batch_concurrency,omitempty"`

	// HintConfidence is the confidence assigned when a user hint decides
	// the category. Must stay in [0.8, 1.0] to keep the tiers ordered.
	HintConfidence float64 `json:"hint_confidence,omitempty"`

	// KeywordConfidence is the confidence assigned when keyword indicators
	// decide the category. Must stay in [0.5, 0.8).
	KeywordConfidence float64 `json:"keyword_confidence,omitempty"`

	// FallbackConfidence is the confidence for the RESOURCE fallback.
	// Must stay below 0.5.
	FallbackConfidence float64 `json:"fallback_confidence,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is locked" errors).
	// 0 means use sql.DB default (unlimited). Only set if you experience contention.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// All tools are enabled by default. Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DuplicateDetection:  "normalized",
		ProcessTimeoutMs:    30000,
		MaxBatchConcurrency: 4,
		HintConfidence:      0.9,
		KeywordConfidence:   0.65,
		FallbackConfidence:  0.3,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.paraflow.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.paraflow) and repo
// (.paraflow) directories. Repo config is found by walking upward from
// startDir to find the nearest .paraflow/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	// Walk upward from startDir to find repo config
	repoConfigPath := FindRepoConfig(startDir)
	repo, err := loadFileRaw(repoConfigPath)
	if err != nil {
		return nil, err
	}

	// Apply defaults, then global, then repo
	return clampConfidences(Merge(Merge(DefaultConfig(), global), repo)), nil
}

// clampConfidences enforces the tier bands on the three categorizer
// confidences: hint in [0.8, 1.0], keyword in [0.5, 0.8), fallback in
// (0, 0.5). An out-of-band value from a config file is reset to its default
// so the tier ordering (hint >= keyword > fallback) always holds.
func clampConfidences(cfg *Config) *Config {
	def := DefaultConfig()
	if cfg.HintConfidence < 0.8 || cfg.HintConfidence > 1.0 {
		cfg.HintConfidence = def.HintConfidence
	}
	if cfg.KeywordConfidence < 0.5 || cfg.KeywordConfidence >= 0.8 {
		cfg.KeywordConfidence = def.KeywordConfidence
	}
	if cfg.FallbackConfidence <= 0 || cfg.FallbackConfidence >= 0.5 {
		cfg.FallbackConfidence = def.FallbackConfidence
	}
	return cfg
}

// FindRepoConfig walks upward from startDir to find the nearest .paraflow/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".paraflow", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root, not found
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// File doesn't exist, return zero config
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return clampConfidences(Merge(DefaultConfig(), cfg)), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.DuplicateDetection = overlay.DuplicateDetection
	if result.DuplicateDetection == "" {
		result.DuplicateDetection = base.DuplicateDetection
	}

	result.ProcessTimeoutMs = overlay.ProcessTimeoutMs
	if result.ProcessTimeoutMs == 0 {
		result.ProcessTimeoutMs = base.ProcessTimeoutMs
	}

	result.MaxBatchConcurrency = overlay.MaxBatchConcurrency
	if result.MaxBatchConcurrency == 0 {
		result.MaxBatchConcurrency = base.MaxBatchConcurrency
	}

	result.HintConfidence = overlay.HintConfidence
	if result.HintConfidence == 0 {
		result.HintConfidence = base.HintConfidence
	}

	result.KeywordConfidence = overlay.KeywordConfidence
	if result.KeywordConfidence == 0 {
		result.KeywordConfidence = base.KeywordConfidence
	}

	result.FallbackConfidence = overlay.FallbackConfidence
	if result.FallbackConfidence == 0 {
		result.FallbackConfidence = base.FallbackConfidence
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	// Booleans: overlay wins if true, else base
	result.CascadeArchive = base.CascadeArchive || overlay.CascadeArchive

	// Arrays: merge and deduplicate
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
