package app

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    yaml "gopkg.in/yaml.v3"

    "github.com/hyperifyio/emailextract/internal/textfile"
)

// FileConfig represents the single-file configuration schema. Pointer fields
// distinguish "unset" from an explicit zero or false.
type FileConfig struct {
    Recursive *bool  `yaml:"recursive" json:"recursive"`
    Output    string `yaml:"output" json:"output"`
    OutputPDF string `yaml:"outputPDF" json:"outputPDF"`

    HTTP struct {
        Timeout      time.Duration `yaml:"timeout" json:"timeout"`
        UserAgent    string        `yaml:"userAgent" json:"userAgent"`
        MaxRedirects int           `yaml:"maxRedirects" json:"maxRedirects"`
    } `yaml:"http" json:"http"`

    Files struct {
        Encoding string `yaml:"encoding" json:"encoding"`
        Workers  int    `yaml:"workers" json:"workers"`
    } `yaml:"files" json:"files"`

    Cache struct {
        Dir         string        `yaml:"dir" json:"dir"`
        MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
        Clear       bool          `yaml:"clear" json:"clear"`
        StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
    } `yaml:"cache" json:"cache"`

    Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig. Durations in JSON are
// nanoseconds; YAML also accepts strings such as "15s".
func LoadConfigFile(path string) (FileConfig, error) {
    var fc FileConfig
    b, err := os.ReadFile(path)
    if err != nil {
        return fc, err
    }
    switch ext := filepath.Ext(path); ext {
    case ".yaml", ".yml":
        if err := yaml.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse yaml: %w", err)
        }
    case ".json":
        if err := json.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse json: %w", err)
        }
    default:
        // Try YAML then JSON
        if err := yaml.Unmarshal(b, &fc); err != nil {
            if jerr := json.Unmarshal(b, &fc); jerr != nil {
                return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
            }
        }
    }
    return fc, nil
}

// ApplyFileConfig overlays every value the file sets onto cfg. Callers apply
// it on top of DefaultConfig and before env and flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
    if cfg == nil { return }

    if fc.Recursive != nil { cfg.Recursive = *fc.Recursive }
    if fc.Output != "" { cfg.OutputPath = fc.Output }
    if fc.OutputPDF != "" { cfg.OutputPDFPath = fc.OutputPDF }

    if fc.HTTP.Timeout > 0 { cfg.Timeout = fc.HTTP.Timeout }
    if fc.HTTP.UserAgent != "" { cfg.UserAgent = fc.HTTP.UserAgent }
    if fc.HTTP.MaxRedirects > 0 { cfg.MaxRedirects = fc.HTTP.MaxRedirects }

    if fc.Files.Encoding != "" { cfg.Encoding = fc.Files.Encoding }
    if fc.Files.Workers > 0 { cfg.Workers = fc.Files.Workers }

    if fc.Cache.Dir != "" { cfg.CacheDir = fc.Cache.Dir }
    if fc.Cache.MaxAge > 0 { cfg.CacheMaxAge = fc.Cache.MaxAge }
    if fc.Cache.Clear { cfg.CacheClear = true }
    if fc.Cache.StrictPerms { cfg.CacheStrictPerms = true }

    if fc.Verbose { cfg.Verbose = true }
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
    if strings.TrimSpace(cfg.Source) == "" {
        return errors.New("config: source is required")
    }
    if cfg.Timeout < 0 {
        return errors.New("config: timeout must not be negative")
    }
    if cfg.Workers < 0 || cfg.MaxRedirects < 0 {
        return errors.New("config: negative limits are not allowed")
    }
    if _, err := textfile.NewReader(cfg.Encoding); err != nil {
        return fmt.Errorf("config: %w", err)
    }
    return nil
}
