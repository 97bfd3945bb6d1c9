package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Section int

const (
	SectionSanity Section = iota
	SectionMySQL
)

type Sanity struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	APIHost    string
	Token      string
	Timeout    time.Duration
}

type MySQL struct {
	User     string
	Password string
	Host     string
	Port     string
	Database string
}

func (m MySQL) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local", m.User, m.Password, m.Host, m.Port, m.Database)
}

type Config struct {
	Port             string
	Sanity           Sanity
	MySQL            MySQL
	RedisHost        string
	RabbitMQURL      string
	RabbitMQExchange string
	SessionKey       []byte
	CSRFKey          []byte
	CookieSecure     bool
	LoginMaxAttempts int64
	LoginWindow      time.Duration
}

// Load reads .env (if any) and the process environment, then checks that
// every value required by the given sections is present.
func Load(sections ...Section) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("SANITY_API_VERSION", "2025-02-03")
	v.SetDefault("SANITY_API_HOST", "api.sanity.io")
	v.SetDefault("SANITY_TIMEOUT", "10s")
	v.SetDefault("MYSQL_PORT", "3306")
	v.SetDefault("RABBITMQ_EXCHANGE", "order.exchange")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("LOGIN_MAX_ATTEMPTS", 5)
	v.SetDefault("LOGIN_WINDOW", "15m")

	cfg := &Config{
		Port: v.GetString("PORT"),
		Sanity: Sanity{
			ProjectID:  v.GetString("SANITY_PROJECT_ID"),
			Dataset:    v.GetString("SANITY_DATASET"),
			APIVersion: strings.TrimPrefix(v.GetString("SANITY_API_VERSION"), "v"),
			APIHost:    v.GetString("SANITY_API_HOST"),
			Token:      v.GetString("SANITY_API_TOKEN"),
			Timeout:    v.GetDuration("SANITY_TIMEOUT"),
		},
		MySQL: MySQL{
			User:     v.GetString("MYSQL_USER"),
			Password: v.GetString("MYSQL_PASSWORD"),
			Host:     v.GetString("MYSQL_HOST"),
			Port:     v.GetString("MYSQL_PORT"),
			Database: v.GetString("MYSQL_DATABASE"),
		},
		RedisHost:        v.GetString("REDIS_HOST"),
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		RabbitMQExchange: v.GetString("RABBITMQ_EXCHANGE"),
		CookieSecure:     v.GetBool("COOKIE_SECURE"),
		LoginMaxAttempts: v.GetInt64("LOGIN_MAX_ATTEMPTS"),
		LoginWindow:      v.GetDuration("LOGIN_WINDOW"),
	}

	cfg.SessionKey = secretKey(v.GetString("SESSION_KEY"), "SESSION_KEY")
	cfg.CSRFKey = secretKey(v.GetString("CSRF_KEY"), "CSRF_KEY")

	for _, s := range sections {
		var missing []string
		switch s {
		case SectionSanity:
			missing = cfg.Sanity.missing()
		case SectionMySQL:
			missing = cfg.MySQL.missing()
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("config: missing environment variable(s): %s", strings.Join(missing, ", "))
		}
	}

	return cfg, nil
}

func (s Sanity) missing() []string {
	var out []string
	if s.ProjectID == "" {
		out = append(out, "SANITY_PROJECT_ID")
	}
	if s.Dataset == "" {
		out = append(out, "SANITY_DATASET")
	}
	if s.APIVersion == "" {
		out = append(out, "SANITY_API_VERSION")
	}
	if s.Token == "" {
		out = append(out, "SANITY_API_TOKEN")
	}
	return out
}

func (m MySQL) missing() []string {
	var out []string
	if m.User == "" {
		out = append(out, "MYSQL_USER")
	}
	if m.Host == "" {
		out = append(out, "MYSQL_HOST")
	}
	if m.Database == "" {
		out = append(out, "MYSQL_DATABASE")
	}
	return out
}

// secretKey decodes a base64 key of at least 32 bytes. Anything else falls
// back to a random key, which invalidates sessions on restart.
func secretKey(encoded, name string) []byte {
	if encoded != "" {
		key, err := base64.StdEncoding.DecodeString(encoded)
		if err == nil && len(key) >= 32 {
			return key
		}
		log.WithField("variable", name).Warn("Key is invalid or shorter than 32 bytes, generating a random one")
	} else {
		log.WithField("variable", name).Warn("Key not set, generating a random one")
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic(fmt.Sprintf("config: read random bytes: %v", err))
	}
	return key
}
