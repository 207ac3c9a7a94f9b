package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// DBConfig describes one MySQL store. The legacy and the new store each get their own.
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// ConnectAttempts bounds the retry loop. Migrations are supervised by an operator,
	// so an unreachable store must fail the run instead of waiting forever.
	ConnectAttempts int
}

var ErrDatabaseNotConfigured = errors.New("database host/name not configured")

// DSN builds the go-sql-driver DSN.
//
// Cloud SQL: when Host is "/cloudsql/<CONNECTION_NAME>", connect over the unix socket
// provided by the Cloud SQL Auth Proxy.
func (c DBConfig) DSN() string {
	network := "tcp"
	address := fmt.Sprintf("%s:%s", c.Host, c.Port)
	if strings.HasPrefix(c.Host, "/cloudsql/") {
		network = "unix"
		address = c.Host
	}
	return fmt.Sprintf("%s:%s@%s(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4",
		c.User,
		c.Password,
		network,
		address,
		c.Name,
	)
}

// Address is the host:port (or socket) without credentials, safe to log.
func (c DBConfig) Address() string {
	if strings.HasPrefix(c.Host, "/cloudsql/") {
		return c.Host + "/" + c.Name
	}
	return fmt.Sprintf("%s:%s/%s", c.Host, c.Port, c.Name)
}

// OpenDatabase connects to MySQL with bounded exponential backoff and tunes the pool.
func OpenDatabase(ctx context.Context, c DBConfig, logg *logrus.Logger) (*gorm.DB, error) {
	if strings.TrimSpace(c.Host) == "" || strings.TrimSpace(c.Name) == "" {
		return nil, ErrDatabaseNotConfigured
	}
	return openWithRetry(ctx, mysql.Open(c.DSN()), c, logg)
}

// OpenDialector is OpenDatabase for an arbitrary gorm dialector (tests use sqlite).
func OpenDialector(ctx context.Context, dialector gorm.Dialector, c DBConfig, logg *logrus.Logger) (*gorm.DB, error) {
	return openWithRetry(ctx, dialector, c, logg)
}

func openWithRetry(ctx context.Context, dialector gorm.Dialector, c DBConfig, logg *logrus.Logger) (*gorm.DB, error) {
	attempts := c.ConnectAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := gorm.Open(dialector, initConfig())
		if err == nil {
			err = ping(ctx, db)
		}
		if err == nil {
			tunePool(db, c)
			if pluginErr := db.Use(otelgorm.NewPlugin()); pluginErr != nil {
				logg.WithError(pluginErr).Warn("db connected but failed to install otelgorm plugin")
			}
			logg.WithFields(logrus.Fields{
				"address": c.Address(),
				"attempt": attempt,
			}).Info("connected to database")
			return db, nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		logg.WithFields(logrus.Fields{
			"address": c.Address(),
			"attempt": attempt,
			"retry":   sleep.String(),
		}).Warn("failed to connect database: " + err.Error())
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(sleep):
		}
	}
	return nil, fmt.Errorf("connect %s after %d attempt(s): %w", c.Address(), attempts, lastErr)
}

func ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func tunePool(db *gorm.DB, c DBConfig) {
	sqlDB, err := db.DB()
	if err != nil || sqlDB == nil {
		return
	}
	if c.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns >= 0 {
		sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(c.ConnMaxLifetime)
	}
	if c.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(c.ConnMaxIdleTime)
	}
}

// CloseDatabase releases the pool behind db.
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func initConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         WriteGormLog(),
		NamingStrategy: initNamingStrategy(),
	}
}

// initLog Connection Log Configuration
func initLog() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			Colorful:                  false,
			LogLevel:                  logger.Error,
			SlowThreshold:             time.Second,
			IgnoreRecordNotFoundError: true,
		},
	)
}

func initNamingStrategy() *schema.NamingStrategy {
	return &schema.NamingStrategy{
		SingularTable: false,
		TablePrefix:   "",
	}
}

// WriteGormLog logs every statement to GORM_LOG when set.
func WriteGormLog() logger.Interface {
	logFile := os.Getenv("GORM_LOG")
	if logFile == "" {
		return initLog()
	}
	f, err := os.Create(logFile)
	if err != nil {
		return initLog()
	}
	return logger.New(log.New(io.MultiWriter(f), "\r\n", log.LstdFlags), logger.Config{
		Colorful:      false,
		LogLevel:      logger.Info,
		SlowThreshold: time.Second,
	})
}
