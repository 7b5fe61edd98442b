// Package ormtest открывает временную SQLite базу для тестов адаптеров gorm
package ormtest

import (
	"path/filepath"
	"suru/internal/repository/orm"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "suru.db")
	db, err := orm.Open(orm.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, orm.AutoMigrate(db))

	t.Cleanup(func() { _ = orm.Close(db) })
	return db
}
