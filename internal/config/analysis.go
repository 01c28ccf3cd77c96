package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Validity method names accepted in configuration files.
const (
	MethodPercentInvalid = "percent_invalid"
	MethodLongestGap     = "longest_gap"
	MethodGapThreshold   = "gap_threshold"
)

// Export modes select whether feature rows are scenes or segments.
const (
	ExportScenes   = "scene"
	ExportSegments = "segment"
)

// maxFileSize bounds configuration and cohort files.
const maxFileSize = 1 * 1024 * 1024 // 1MB

// AnalysisConfig carries every tunable of a batch run. Fields are pointers
// so that a partial file only overrides what it names; the Get* accessors
// supply defaults for the rest.
//
// Feature lists are plain slices: a missing key (nil) requests the whole
// default catalog while an explicit empty list requests nothing.
type AnalysisConfig struct {
	// Input
	Reader       *string  `json:"reader,omitempty" yaml:"reader,omitempty"`
	MediaOffsetX *float64 `json:"media_offset_x,omitempty" yaml:"media_offset_x,omitempty"`
	MediaOffsetY *float64 `json:"media_offset_y,omitempty" yaml:"media_offset_y,omitempty"`

	// Segment construction
	PruneLengthMs        *int64 `json:"prune_length_ms,omitempty" yaml:"prune_length_ms,omitempty"`
	RequireValidSegments *bool  `json:"require_valid_segments,omitempty" yaml:"require_valid_segments,omitempty"`
	AutoPartition        *bool  `json:"auto_partition,omitempty" yaml:"auto_partition,omitempty"`

	// Validity classification
	ValidityMethod       *string  `json:"validity_method,omitempty" yaml:"validity_method,omitempty"`
	MaxInvalidProportion *float64 `json:"max_invalid_proportion,omitempty" yaml:"max_invalid_proportion,omitempty"`
	MaxGapMs             *int64   `json:"max_gap_ms,omitempty" yaml:"max_gap_ms,omitempty"`
	GapThresholdMs       *int64   `json:"gap_threshold_ms,omitempty" yaml:"gap_threshold_ms,omitempty"`

	// Validity reporting sweeps
	SweepGapThresholdsMs    []int64   `json:"sweep_gap_thresholds_ms,omitempty" yaml:"sweep_gap_thresholds_ms,omitempty"`
	SweepInvalidProportions []float64 `json:"sweep_invalid_proportions,omitempty" yaml:"sweep_invalid_proportions,omitempty"`

	// Feature export
	Features         []string `json:"features" yaml:"features"`
	AOIFeatures      []string `json:"aoi_features" yaml:"aoi_features"`
	AOIFeatureLabels []string `json:"aoi_feature_labels,omitempty" yaml:"aoi_feature_labels,omitempty"`
	ExportMode       *string  `json:"export_mode,omitempty" yaml:"export_mode,omitempty"`
	IDPrefix         *bool    `json:"id_prefix,omitempty" yaml:"id_prefix,omitempty"`

	// Run control
	Strict  *bool `json:"strict,omitempty" yaml:"strict,omitempty"`
	Workers *int  `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// EmptyAnalysisConfig returns an AnalysisConfig with all fields unset.
func EmptyAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{}
}

// LoadAnalysisConfig loads an AnalysisConfig from a .json, .yaml or .yml
// file. Omitted fields keep their defaults so partial configs are safe.
func LoadAnalysisConfig(path string) (*AnalysisConfig, error) {
	data, ext, err := readBounded(path)
	if err != nil {
		return nil, err
	}

	cfg := EmptyAnalysisConfig()
	if err := decode(data, ext, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// readBounded validates the extension and size of a config-like file and
// returns its contents.
func readBounded(path string) ([]byte, string, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	switch ext {
	case ".json", ".yaml", ".yml":
	default:
		return nil, "", fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, "", fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read config file: %w", err)
	}
	return data, ext, nil
}

func decode(data []byte, ext string, v interface{}) error {
	if ext == ".json" {
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse config JSON: %w", err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return nil
}

// Validate checks that the configuration values are valid.
func (c *AnalysisConfig) Validate() error {
	if c.ValidityMethod != nil {
		switch *c.ValidityMethod {
		case MethodPercentInvalid, MethodLongestGap, MethodGapThreshold:
		default:
			return fmt.Errorf("unknown validity_method %q", *c.ValidityMethod)
		}
	}
	if c.MaxInvalidProportion != nil {
		if *c.MaxInvalidProportion < 0 || *c.MaxInvalidProportion > 1 {
			return fmt.Errorf("max_invalid_proportion must be between 0 and 1, got %f", *c.MaxInvalidProportion)
		}
	}
	for _, p := range c.SweepInvalidProportions {
		if p < 0 || p > 1 {
			return fmt.Errorf("sweep_invalid_proportions values must be between 0 and 1, got %f", p)
		}
	}
	if c.MaxGapMs != nil && *c.MaxGapMs < 0 {
		return fmt.Errorf("max_gap_ms must be non-negative, got %d", *c.MaxGapMs)
	}
	if c.GapThresholdMs != nil && *c.GapThresholdMs < 0 {
		return fmt.Errorf("gap_threshold_ms must be non-negative, got %d", *c.GapThresholdMs)
	}
	for _, g := range c.SweepGapThresholdsMs {
		if g < 0 {
			return fmt.Errorf("sweep_gap_thresholds_ms values must be non-negative, got %d", g)
		}
	}
	if c.PruneLengthMs != nil && *c.PruneLengthMs < 0 {
		return fmt.Errorf("prune_length_ms must be non-negative, got %d", *c.PruneLengthMs)
	}
	if c.ExportMode != nil {
		switch *c.ExportMode {
		case ExportScenes, ExportSegments:
		default:
			return fmt.Errorf("unknown export_mode %q", *c.ExportMode)
		}
	}
	if c.Workers != nil && *c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", *c.Workers)
	}
	return nil
}

// GetReader returns the configured reader name or the default.
func (c *AnalysisConfig) GetReader() string {
	if c.Reader == nil || *c.Reader == "" {
		return "tsv"
	}
	return *c.Reader
}

// GetMediaOffset returns the stimulus window origin.
func (c *AnalysisConfig) GetMediaOffset() (x, y float64) {
	if c.MediaOffsetX != nil {
		x = *c.MediaOffsetX
	}
	if c.MediaOffsetY != nil {
		y = *c.MediaOffsetY
	}
	return x, y
}

// GetPruneLengthMs returns the prune length and whether pruning is enabled.
// Zero disables pruning.
func (c *AnalysisConfig) GetPruneLengthMs() (int64, bool) {
	if c.PruneLengthMs == nil || *c.PruneLengthMs == 0 {
		return 0, false
	}
	return *c.PruneLengthMs, true
}

// GetRequireValidSegments returns the require_valid_segments value or the default.
func (c *AnalysisConfig) GetRequireValidSegments() bool {
	if c.RequireValidSegments == nil {
		return true
	}
	return *c.RequireValidSegments
}

// GetAutoPartition returns the auto_partition value or the default.
func (c *AnalysisConfig) GetAutoPartition() bool {
	if c.AutoPartition == nil {
		return false // default: keep low quality segments whole
	}
	return *c.AutoPartition
}

// GetValidityMethod returns the validity_method value or the default.
func (c *AnalysisConfig) GetValidityMethod() string {
	if c.ValidityMethod == nil {
		return MethodPercentInvalid
	}
	return *c.ValidityMethod
}

// GetMaxInvalidProportion returns the max_invalid_proportion value or the default.
func (c *AnalysisConfig) GetMaxInvalidProportion() float64 {
	if c.MaxInvalidProportion == nil {
		return 0.2
	}
	return *c.MaxInvalidProportion
}

// GetMaxGapMs returns the max_gap_ms value or the default.
func (c *AnalysisConfig) GetMaxGapMs() int64 {
	if c.MaxGapMs == nil {
		return 300
	}
	return *c.MaxGapMs
}

// GetGapThresholdMs returns the gap_threshold_ms value or the default.
func (c *AnalysisConfig) GetGapThresholdMs() int64 {
	if c.GapThresholdMs == nil {
		return 300
	}
	return *c.GapThresholdMs
}

// GetSweepGapThresholdsMs returns the gap thresholds swept by validity reports.
func (c *AnalysisConfig) GetSweepGapThresholdsMs() []int64 {
	if len(c.SweepGapThresholdsMs) == 0 {
		return []int64{100, 200, 250, 300}
	}
	return c.SweepGapThresholdsMs
}

// GetSweepInvalidProportions returns the invalid proportions swept by validity reports.
func (c *AnalysisConfig) GetSweepInvalidProportions() []float64 {
	if len(c.SweepInvalidProportions) == 0 {
		return []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	}
	return c.SweepInvalidProportions
}

// GetExportMode returns the export_mode value or the default.
func (c *AnalysisConfig) GetExportMode() string {
	if c.ExportMode == nil {
		return ExportScenes
	}
	return *c.ExportMode
}

// GetIDPrefix returns the id_prefix value or the default.
func (c *AnalysisConfig) GetIDPrefix() bool {
	if c.IDPrefix == nil {
		return false
	}
	return *c.IDPrefix
}

// GetStrict returns the strict value or the default.
func (c *AnalysisConfig) GetStrict() bool {
	if c.Strict == nil {
		return false
	}
	return *c.Strict
}

// GetWorkers returns the workers value or the default.
func (c *AnalysisConfig) GetWorkers() int {
	if c.Workers == nil {
		return 1
	}
	return *c.Workers
}
