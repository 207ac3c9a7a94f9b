// Package testutil opens throwaway databases for tests.
package testutil

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"bitbucket.org/mmdatafocus/portal_backend/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var seq atomic.Int64

// QuietLogger discards everything.
func QuietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// OpenSQLite returns a private in-memory database that lives until the test ends.
// A single pooled connection is kept open, since the database disappears with its last connection.
func OpenSQLite(t *testing.T, name string, models ...interface{}) *gorm.DB {
	t.Helper()
	safe := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name() + "_" + name)
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=0", safe, seq.Add(1))

	db, err := config.OpenDialector(context.Background(), sqlite.Open(dsn), config.DBConfig{
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnectAttempts: 1,
	}, QuietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = config.CloseDatabase(db) })

	if len(models) > 0 {
		require.NoError(t, db.AutoMigrate(models...))
	}
	return db
}
