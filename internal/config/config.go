package config // package config loads application configuration from environment variables

import (
    "fmt"
    "os"
    "strings"
    "time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Only APP_PORT, API_BASE_URL and SESSION_SECRET
// are required; everything else has a working default so the frontend can
// run against a local API with nothing but those three set.
type Config struct {
    Env            string        // application environment ("dev", "prod")
    Port           string        // HTTP port to listen on
    APIBaseURL     string        // base URL of the menu REST API
    APITimeout     time.Duration // per-request timeout for API calls
    SessionSecret  string        // signs form tokens and the flash cookie
    CookieSecure   bool          // Secure flag on admin cookies
    HallsRefresh   time.Duration // hall list poll interval
    OpenNowRefresh time.Duration // open-now poll interval
    MenuFanout     int           // max concurrent menu fetches per page
    RabbitURL      string        // AMQP URL for admin audit events (optional)
    AuditLogPath   string        // file sink used when no database is configured
    DB             DBConfig
}

// DBConfig describes the optional MySQL audit store.  When Host is empty
// the audit consumer writes to AuditLogPath instead.
type DBConfig struct {
    User string
    Pass string
    Host string
    Port string
    Name string
}

// Enabled reports whether a database was configured.
func (d DBConfig) Enabled() bool { return d.Host != "" && d.Name != "" }

// IsProd reports whether the app runs in production.
func (c Config) IsProd() bool { return c.Env == "prod" || c.Env == "production" }

// Load reads configuration values from environment variables.  Every
// missing required variable is reported in a single error.
func Load() (Config, error) {
    var missing []string
    must := func(key string) string {
        v, ok := os.LookupEnv(key)
        if !ok || v == "" {
            missing = append(missing, key)
        }
        return v
    }

    cfg := Config{
        Env:            envStr("APP_ENV", "dev"),
        Port:           must("APP_PORT"),
        APIBaseURL:     strings.TrimRight(must("API_BASE_URL"), "/"),
        APITimeout:     envDur("API_TIMEOUT", 10*time.Second),
        SessionSecret:  must("SESSION_SECRET"),
        HallsRefresh:   envDur("HALLS_REFRESH", 5*time.Minute),
        OpenNowRefresh: envDur("OPEN_NOW_REFRESH", 60*time.Second),
        MenuFanout:     envInt("MENU_FANOUT", 4),
        RabbitURL:      os.Getenv("RABBITMQ_URL"),
        AuditLogPath:   envStr("AUDIT_LOG_PATH", "logs/admin.log"),
        DB: DBConfig{
            User: envStr("DB_USER", "root"),
            Pass: os.Getenv("DB_PASS"),
            Host: os.Getenv("DB_HOST"),
            Port: envStr("DB_PORT", "3306"),
            Name: os.Getenv("DB_NAME"),
        },
    }
    if len(missing) > 0 {
        return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
    }
    cfg.CookieSecure = envBool("COOKIE_SECURE", cfg.IsProd())
    if cfg.MenuFanout < 1 {
        cfg.MenuFanout = 1
    }
    return cfg, nil
}
