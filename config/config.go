// Package config provides environment based configuration for the secrets
// web application: listen address, session secret, database location, OAuth
// credentials and logging.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

const defaultPort = 4000

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("SECRETS_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(strings.ToLower(logLevel))
}

func IsDebug() bool {
	return os.Getenv("SECRETS_DEBUG") == "true"
}

// GetLogFolder returns the folder for the file log backend. An empty value
// disables file logging.
func GetLogFolder() string {
	return os.Getenv("SECRETS_LOG_FOLDER")
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("SECRETS_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "db"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return filepath.Join(GetDBFolderPath(), GetName()+".db")
}

// GetListen returns the interface address to bind; empty means all.
func GetListen() string {
	return os.Getenv("LISTEN")
}

func GetPort() int {
	value := os.Getenv("PORT")
	if value == "" {
		return defaultPort
	}
	port, err := strconv.Atoi(value)
	if err != nil || port <= 0 || port > 65535 {
		return defaultPort
	}
	return port
}

// GetBaseURL returns the externally visible URL of the site, used to build
// OAuth callback URLs.
func GetBaseURL() string {
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		return strings.TrimRight(baseURL, "/")
	}
	return fmt.Sprintf("http://localhost:%d", GetPort())
}

// IsSecureCookie reports whether the site is served over https, in which case
// the session cookie is only sent over TLS.
func IsSecureCookie() bool {
	return strings.HasPrefix(strings.ToLower(GetBaseURL()), "https://")
}

// GetSessionSecret returns the key used to sign session cookies.
func GetSessionSecret() string {
	return os.Getenv("SECRET")
}

// GetSessionMaxAge returns the session lifetime in minutes. Zero keeps the
// cookie for the browser session only.
func GetSessionMaxAge() int {
	maxAge, err := strconv.Atoi(os.Getenv("SESSION_MAX_AGE"))
	if err != nil || maxAge < 0 {
		return 0
	}
	return maxAge
}

// GetDomain returns the host name requests must be addressed to. Empty
// accepts any host.
func GetDomain() string {
	return os.Getenv("SECRETS_DOMAIN")
}

func GetLang() string {
	lang := os.Getenv("SECRETS_LANG")
	if lang == "" {
		lang = "en-US"
	}
	return lang
}
