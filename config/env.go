package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	LegacyPrefix = "LEGACY_DB"
	TargetPrefix = "DB"
)

// MigrationConfig is everything portal-migrate needs. It is built once in main and passed down.
type MigrationConfig struct {
	Legacy DBConfig
	Target DBConfig

	LogLevel string

	// RedisAddress enables the run lock. Empty means no lock; the operator serialises runs.
	RedisAddress string
	LockTTL      time.Duration

	// Families restricts the run to a subset. The fixed order still applies.
	Families []string
}

// NewViper loads .env (if present) and returns a viper instance bound to the environment.
func NewViper() *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, prefix := range []string{LegacyPrefix, TargetPrefix} {
		v.SetDefault(prefix+"_HOST", "127.0.0.1")
		v.SetDefault(prefix+"_PORT", "3306")
		v.SetDefault(prefix+"_USER", "root")
		v.SetDefault(prefix+"_MAX_OPEN_CONNS", 10)
		v.SetDefault(prefix+"_MAX_IDLE_CONNS", 5)
		v.SetDefault(prefix+"_CONN_MAX_LIFETIME_SECONDS", 300)
		v.SetDefault(prefix+"_CONN_MAX_IDLE_TIME_SECONDS", 60)
		v.SetDefault(prefix+"_CONNECT_ATTEMPTS", 3)
	}
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MIGRATION_LOCK_TTL", "1h")
	return v
}

// LoadDBConfig reads <prefix>_HOST, <prefix>_PORT, <prefix>_USER, <prefix>_PASSWORD, <prefix>_NAME
// and the pool settings.
func LoadDBConfig(v *viper.Viper, prefix string) DBConfig {
	return DBConfig{
		Host:            strings.TrimSpace(v.GetString(prefix + "_HOST")),
		Port:            strings.TrimSpace(v.GetString(prefix + "_PORT")),
		User:            v.GetString(prefix + "_USER"),
		Password:        v.GetString(prefix + "_PASSWORD"),
		Name:            strings.TrimSpace(v.GetString(prefix + "_NAME")),
		MaxOpenConns:    v.GetInt(prefix + "_MAX_OPEN_CONNS"),
		MaxIdleConns:    v.GetInt(prefix + "_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(v.GetInt(prefix+"_CONN_MAX_LIFETIME_SECONDS")) * time.Second,
		ConnMaxIdleTime: time.Duration(v.GetInt(prefix+"_CONN_MAX_IDLE_TIME_SECONDS")) * time.Second,
		ConnectAttempts: v.GetInt(prefix + "_CONNECT_ATTEMPTS"),
	}
}

func LoadMigrationConfig(v *viper.Viper) MigrationConfig {
	ttl := v.GetDuration("MIGRATION_LOCK_TTL")
	if ttl <= 0 {
		ttl = time.Hour
	}
	return MigrationConfig{
		Legacy:       LoadDBConfig(v, LegacyPrefix),
		Target:       LoadDBConfig(v, TargetPrefix),
		LogLevel:     v.GetString("LOG_LEVEL"),
		RedisAddress: strings.TrimSpace(v.GetString("REDIS_ADDRESS")),
		LockTTL:      ttl,
		Families:     splitList(v.GetString("MIGRATE_FAMILIES")),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
