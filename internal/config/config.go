package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	ExcelDir  string
	OutputDir string

	AliasConfigPath string

	SearchBaseURL      string
	SearchIndex        string
	SearchRateLimitRPS int
	SearchTimeoutMs    int

	EmbedCredentialsPath string
	EmbedProjectID       string
	EmbedLocation        string
	EmbedModel           string
	EmbedDimensions      int
	EmbedTimeoutMs       int

	GmailClientID     string
	GmailClientSecret string
	GmailRedirectURI  string
	GmailRefreshToken string

	IMAPHost     string
	IMAPPort     int
	IMAPSecure   bool
	IMAPUser     string
	IMAPPassword string
	IMAPMarkSeen bool

	ListenerProvider     string
	ListenerLabel        string
	ListenerIntervalSec  int
	ListenerFetchMax     int
	ListenerProcessBatch int
	ListenerAutoIndex    bool

	HTTPAddr string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		ExcelDir:  getEnv("EXCEL_DIR", filepath.Join(cwd, "data", "excel")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		AliasConfigPath: getEnv("ALIAS_CONFIG_PATH", ""),

		SearchBaseURL:      getEnv("SEARCH_BASE_URL", "http://localhost:9200"),
		SearchIndex:        getEnv("SEARCH_INDEX", "ct_documents"),
		SearchRateLimitRPS: getEnvInt("SEARCH_RATE_LIMIT_RPS", 10),
		SearchTimeoutMs:    getEnvInt("SEARCH_TIMEOUT_MS", 30000),

		EmbedCredentialsPath: getEnv("EMBED_CREDENTIALS_PATH", ""),
		EmbedProjectID:       getEnv("EMBED_PROJECT_ID", ""),
		EmbedLocation:        getEnv("EMBED_LOCATION", "us-central1"),
		EmbedModel:           getEnv("EMBED_MODEL", "textembedding-gecko@003"),
		EmbedDimensions:      getEnvInt("EMBED_DIMENSIONS", 768),
		EmbedTimeoutMs:       getEnvInt("EMBED_TIMEOUT_MS", 15000),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRedirectURI:  getEnv("GMAIL_REDIRECT_URI", "https://developers.google.com/oauthplayground"),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),

		IMAPHost:     getEnv("IMAP_HOST", ""),
		IMAPPort:     getEnvInt("IMAP_PORT", 993),
		IMAPSecure:   getEnvBool("IMAP_SECURE", true),
		IMAPUser:     getEnv("IMAP_USER", ""),
		IMAPPassword: getEnv("IMAP_PASSWORD", ""),
		IMAPMarkSeen: getEnvBool("IMAP_MARK_SEEN", false),

		ListenerProvider:     getEnv("LISTENER_PROVIDER", "imap"),
		ListenerLabel:        getEnv("LISTENER_LABEL", "INBOX"),
		ListenerIntervalSec:  getEnvInt("LISTENER_INTERVAL_SEC", 60),
		ListenerFetchMax:     getEnvInt("LISTENER_FETCH_MAX", 20),
		ListenerProcessBatch: getEnvInt("LISTENER_PROCESS_BATCH", 20),
		ListenerAutoIndex:    getEnvBool("LISTENER_AUTO_INDEX", true),

		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
