// Package trackcfg loads and validates the tracking engine's configuration:
// YAML defaults, optional environment-variable overrides (TRACKLINK_*), and
// XDG-convention search paths, per spec §6.
package trackcfg

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/framelattice/tracklink/trackerr"
)

// MemoryStrategy enumerates the memory package's TrackerMemory variants.
type MemoryStrategy string

const (
	MemoryBruteForce      MemoryStrategy = "bruteforce"
	MemoryMostFrequent    MemoryStrategy = "mostfrequent"
	MemoryMedian          MemoryStrategy = "median"
	MemoryLSBruteForce    MemoryStrategy = "lsbruteforce"
	MemoryLSMostFrequent  MemoryStrategy = "lsmostfrequent"
	MemoryLSMedian        MemoryStrategy = "lsmedian"
)

// RecordScorerKind enumerates the scorer package's RecordScorer variants.
type RecordScorerKind string

const (
	ScorerAverage          RecordScorerKind = "average"
	ScorerWeightedAverage  RecordScorerKind = "weighted_average"
	ScorerWeightedQuadratic RecordScorerKind = "weighted_quadratic"
)

// DistanceMetricKind enumerates the simmetric package's distance metric variants.
// damerau_unrestricted and jaro_winkler are a supplemented enrichment beyond
// the three named in spec §6 (see DESIGN.md).
type DistanceMetricKind string

const (
	MetricLV                 DistanceMetricKind = "lv"
	MetricLVOpti             DistanceMetricKind = "lvopti"
	MetricLVSubstring        DistanceMetricKind = "lvsubstring"
	MetricDamerauUnrestricted DistanceMetricKind = "damerau_unrestricted"
	MetricJaroWinkler        DistanceMetricKind = "jaro_winkler"
)

// ResolvingStrategy enumerates the resolver package's resolver variants.
type ResolvingStrategy string

const (
	ResolverSimple    ResolvingStrategy = "simple"
	ResolverBestMatch ResolvingStrategy = "best_match"
)

// RecordScorerConfig configures a RecordScorer instance.
type RecordScorerConfig struct {
	RecordScorer   RecordScorerKind `yaml:"record_scorer" json:"record_scorer"`
	Weights        []float64        `yaml:"weights,omitempty" json:"weights,omitempty"`
	MinWeightRatio *float64         `yaml:"min_weight_ratio,omitempty" json:"min_weight_ratio,omitempty"`
}

// TrackerConfig configures per-tracker behavior.
type TrackerConfig struct {
	InterestThreshold  float64            `yaml:"interest_threshold" json:"interest_threshold"`
	LimitNoMatchStreak uint               `yaml:"limit_no_match_streak" json:"limit_no_match_streak"`
	MemoryStrategy     MemoryStrategy     `yaml:"memory_strategy" json:"memory_strategy"`
	RecordScorer       RecordScorerConfig `yaml:"record_scorer" json:"record_scorer"`
}

// DistanceMetricConfig configures the distance metric and its cache.
type DistanceMetricConfig struct {
	Metric               DistanceMetricKind `yaml:"metric" json:"metric"`
	CachingThreshold     uint               `yaml:"caching_threshold" json:"caching_threshold"`
	LVSubstringWeight    *float64           `yaml:"lv_substring_weight,omitempty" json:"lv_substring_weight,omitempty"`
	LVMultiwordSeparator string             `yaml:"lv_multiword_separator,omitempty" json:"lv_multiword_separator,omitempty"`
}

// ResolverConfig configures the resolving strategy.
type ResolverConfig struct {
	ResolvingStrategy ResolvingStrategy `yaml:"resolving_strategy" json:"resolving_strategy"`
}

// TrackingConfig is the engine's top-level configuration (spec §6).
type TrackingConfig struct {
	NumThreads     uint                 `yaml:"num_threads" json:"num_threads"`
	Tracker        TrackerConfig        `yaml:"tracker" json:"tracker"`
	DistanceMetric DistanceMetricConfig `yaml:"distance_metric" json:"distance_metric"`
	Resolver       ResolverConfig       `yaml:"resolver" json:"resolver"`
}

// DefaultTrackingConfig returns a single-threaded, best-match, average-scorer
// default configuration.
func DefaultTrackingConfig() *TrackingConfig {
	return &TrackingConfig{
		NumThreads: 1,
		Tracker: TrackerConfig{
			InterestThreshold:  0.5,
			LimitNoMatchStreak: 3,
			MemoryStrategy:     MemoryBruteForce,
			RecordScorer: RecordScorerConfig{
				RecordScorer: ScorerAverage,
			},
		},
		DistanceMetric: DistanceMetricConfig{
			Metric:           MetricLV,
			CachingThreshold: 64,
		},
		Resolver: ResolverConfig{
			ResolvingStrategy: ResolverBestMatch,
		},
	}
}

// Load reads a TrackingConfig from a YAML or JSON file at path, applies any
// matching TRACKLINK_* environment overrides, and validates the result.
func Load(path string, numFields int) (*TrackingConfig, error) {
	cfg := DefaultTrackingConfig()

	data, err := os.ReadFile(path) // #nosec G304 -- caller-controlled config path
	if err != nil {
		return nil, trackerr.Wrap(trackerr.CodeConfiguration, "trackcfg", "failed to read config file", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, trackerr.Wrap(trackerr.CodeConfiguration, "trackcfg", "failed to parse config file", err)
	}

	overrides, err := LoadEnvOverrides(trackingEnvSpecs)
	if err != nil {
		return nil, trackerr.Wrap(trackerr.CodeConfiguration, "trackcfg", "failed to parse environment overrides", err)
	}
	if len(overrides) > 0 {
		if err := applyOverrides(cfg, overrides); err != nil {
			return nil, trackerr.Wrap(trackerr.CodeConfiguration, "trackcfg", "failed to apply environment overrides", err)
		}
	}

	if err := Validate(cfg, numFields); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyOverrides re-marshals cfg to a generic map, deep-merges overrides on
// top, then unmarshals back — the same layering idea as a plain YAML merge,
// without a schema catalog to validate against.
func applyOverrides(cfg *TrackingConfig, overrides map[string]any) error {
	base, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	var merged map[string]any
	if err := json.Unmarshal(base, &merged); err != nil {
		return err
	}
	mergeInto(merged, overrides)

	out, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	return json.Unmarshal(out, cfg)
}

func mergeInto(base, overlay map[string]any) {
	for k, v := range overlay {
		if child, ok := v.(map[string]any); ok {
			existing, ok := base[k].(map[string]any)
			if !ok {
				existing = make(map[string]any)
			}
			mergeInto(existing, child)
			base[k] = existing
			continue
		}
		base[k] = v
	}
}

// Validate checks enum fields, weight-count-vs-field-count, and threshold
// ranges per spec §7's configuration-error class.
func Validate(cfg *TrackingConfig, numFields int) error {
	switch cfg.Tracker.MemoryStrategy {
	case MemoryBruteForce, MemoryMostFrequent, MemoryMedian, MemoryLSBruteForce, MemoryLSMostFrequent, MemoryLSMedian:
	default:
		return trackerr.Configuration("trackcfg", fmt.Sprintf("unknown memory_strategy %q", cfg.Tracker.MemoryStrategy))
	}

	switch cfg.Tracker.RecordScorer.RecordScorer {
	case ScorerAverage, ScorerWeightedAverage, ScorerWeightedQuadratic:
	default:
		return trackerr.Configuration("trackcfg", fmt.Sprintf("unknown record_scorer %q", cfg.Tracker.RecordScorer.RecordScorer))
	}

	if cfg.Tracker.RecordScorer.RecordScorer == ScorerWeightedAverage || cfg.Tracker.RecordScorer.RecordScorer == ScorerWeightedQuadratic {
		if len(cfg.Tracker.RecordScorer.Weights) != numFields {
			return trackerr.Configuration("trackcfg", fmt.Sprintf(
				"weighted scorer requires %d weights (one per schema field), got %d", numFields, len(cfg.Tracker.RecordScorer.Weights)))
		}
	}

	if cfg.Tracker.RecordScorer.MinWeightRatio != nil {
		r := *cfg.Tracker.RecordScorer.MinWeightRatio
		if r < 0 || r > 1 {
			return trackerr.Configuration("trackcfg", fmt.Sprintf("min_weight_ratio %v out of range [0,1]", r))
		}
	}

	if cfg.Tracker.InterestThreshold < 0 || cfg.Tracker.InterestThreshold > 1 {
		return trackerr.Configuration("trackcfg", fmt.Sprintf("interest_threshold %v out of range [0,1]", cfg.Tracker.InterestThreshold))
	}

	switch cfg.DistanceMetric.Metric {
	case MetricLV, MetricLVOpti, MetricLVSubstring, MetricDamerauUnrestricted, MetricJaroWinkler:
	default:
		return trackerr.Configuration("trackcfg", fmt.Sprintf("unknown distance metric %q", cfg.DistanceMetric.Metric))
	}

	switch cfg.Resolver.ResolvingStrategy {
	case ResolverSimple, ResolverBestMatch:
	default:
		return trackerr.Configuration("trackcfg", fmt.Sprintf("unknown resolving_strategy %q", cfg.Resolver.ResolvingStrategy))
	}

	return nil
}

// GetAppConfigPaths returns config search paths for tracklink, in priority
// order: XDG config dir, dot-directory in $HOME, dot-file in $HOME, current
// directory.
func GetAppConfigPaths(appName string) []string {
	xdg := GetXDGBaseDirs()
	home := os.Getenv("HOME")

	var paths []string
	paths = append(paths,
		filepath.Join(xdg.ConfigHome, appName, "config.yaml"),
		filepath.Join(xdg.ConfigHome, appName, "config.json"),
	)
	if home != "" {
		paths = append(paths,
			filepath.Join(home, "."+appName, "config.yaml"),
			filepath.Join(home, "."+appName+".yaml"),
		)
	}
	paths = append(paths, "./"+appName+".yaml", "./."+appName+".yaml")
	return paths
}
