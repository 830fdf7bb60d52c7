package app

import (
    "os"
    "path/filepath"
    "testing"
    "time"
)

func TestLoadConfigFile_YAML(t *testing.T) {
    p := filepath.Join(t.TempDir(), "emailextract.yaml")
    content := `recursive: true
output: out.txt
http:
  timeout: 15s
  userAgent: tester/1.0
files:
  encoding: latin1
  workers: 4
cache:
  dir: .cache
  maxAge: 24h
`
    if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
        t.Fatalf("write: %v", err)
    }
    fc, err := LoadConfigFile(p)
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    cfg := DefaultConfig()
    ApplyFileConfig(&cfg, fc)

    if !cfg.Recursive || cfg.OutputPath != "out.txt" {
        t.Fatalf("unexpected core fields: %+v", cfg)
    }
    if cfg.Timeout != 15*time.Second || cfg.UserAgent != "tester/1.0" {
        t.Fatalf("unexpected http fields: timeout=%v ua=%q", cfg.Timeout, cfg.UserAgent)
    }
    if cfg.Encoding != "latin1" || cfg.Workers != 4 {
        t.Fatalf("unexpected file fields: %+v", cfg)
    }
    if cfg.CacheDir != ".cache" || cfg.CacheMaxAge != 24*time.Hour {
        t.Fatalf("unexpected cache fields: %+v", cfg)
    }
    if cfg.MaxRedirects != 10 {
        t.Fatalf("unset values must keep defaults, MaxRedirects=%d", cfg.MaxRedirects)
    }
}

func TestLoadConfigFile_JSON(t *testing.T) {
    p := filepath.Join(t.TempDir(), "emailextract.json")
    if err := os.WriteFile(p, []byte(`{"recursive": false, "outputPDF": "emails.pdf", "files": {"workers": 2}}`), 0o644); err != nil {
        t.Fatalf("write: %v", err)
    }
    fc, err := LoadConfigFile(p)
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    cfg := DefaultConfig()
    cfg.Recursive = true
    ApplyFileConfig(&cfg, fc)
    if cfg.Recursive {
        t.Fatalf("explicit recursive:false in file should apply")
    }
    if cfg.OutputPDFPath != "emails.pdf" || cfg.Workers != 2 {
        t.Fatalf("unexpected cfg: %+v", cfg)
    }
}

func TestLoadConfigFile_Malformed(t *testing.T) {
    p := filepath.Join(t.TempDir(), "bad.yaml")
    if err := os.WriteFile(p, []byte("recursive: [unclosed"), 0o644); err != nil {
        t.Fatalf("write: %v", err)
    }
    if _, err := LoadConfigFile(p); err == nil {
        t.Fatalf("expected parse error")
    }
}

func TestValidateConfig(t *testing.T) {
    base := DefaultConfig()
    base.Source = "./somewhere"
    if err := ValidateConfig(base); err != nil {
        t.Fatalf("expected valid config, got %v", err)
    }

    cases := map[string]func(*Config){
        "empty source":      func(c *Config) { c.Source = "  " },
        "negative timeout":  func(c *Config) { c.Timeout = -time.Second },
        "negative workers":  func(c *Config) { c.Workers = -1 },
        "negative redirect": func(c *Config) { c.MaxRedirects = -1 },
        "unknown encoding":  func(c *Config) { c.Encoding = "no-such-charset" },
    }
    for name, mutate := range cases {
        cfg := base
        mutate(&cfg)
        if err := ValidateConfig(cfg); err == nil {
            t.Fatalf("%s: expected validation error", name)
        }
    }
}
