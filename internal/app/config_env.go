package app

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// EnvPrefix namespaces every environment variable the application reads.
const EnvPrefix = "EMAILEXTRACT_"

// ApplyEnvOverrides overrides cfg fields with environment variables that are
// set. Env takes precedence over a config file; flags take precedence over env.
// Malformed numbers and durations are ignored.
func ApplyEnvOverrides(cfg *Config) {
    if cfg == nil { return }

    getenv := func(key string) string { return strings.TrimSpace(os.Getenv(EnvPrefix + key)) }

    if v := getenv("OUTPUT"); v != "" { cfg.OutputPath = v }
    if v := getenv("OUTPUT_PDF"); v != "" { cfg.OutputPDFPath = v }
    if v := getenv("USER_AGENT"); v != "" { cfg.UserAgent = v }
    if v := getenv("ENCODING"); v != "" { cfg.Encoding = v }
    if v := getenv("CACHE_DIR"); v != "" { cfg.CacheDir = v }

    setDuration := func(dst *time.Duration, key string) {
        if s := getenv(key); s != "" {
            if d, err := time.ParseDuration(s); err == nil && d >= 0 {
                *dst = d
            }
        }
    }
    setDuration(&cfg.Timeout, "TIMEOUT")
    setDuration(&cfg.CacheMaxAge, "CACHE_MAX_AGE")

    setInt := func(dst *int, key string) {
        if s := getenv(key); s != "" {
            if n, err := strconv.Atoi(s); err == nil && n >= 0 {
                *dst = n
            }
        }
    }
    setInt(&cfg.Workers, "WORKERS")
    setInt(&cfg.MaxRedirects, "MAX_REDIRECTS")

    // Booleans override when env present and truthy/falsey
    setBool := func(dst *bool, key string) {
        switch strings.ToLower(getenv(key)) {
        case "1", "true", "yes", "on":
            *dst = true
        case "0", "false", "no", "off":
            *dst = false
        }
    }
    setBool(&cfg.Recursive, "RECURSIVE")
    setBool(&cfg.CacheClear, "CACHE_CLEAR")
    setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
    setBool(&cfg.Verbose, "VERBOSE")
}
