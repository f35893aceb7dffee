package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormLoggerSkipsRecordNotFound(t *testing.T) {
	log, hook := test.NewNullLogger()
	gormLogger := NewGormLogger(log)
	sql := func() (string, int64) { return "SELECT * FROM users", 0 }

	gormLogger.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	assert.Empty(t, hook.AllEntries())

	gormLogger.Trace(context.Background(), time.Now(), sql, errors.New("relation does not exist"))
	require.Len(t, hook.AllEntries(), 1)
	assert.Contains(t, hook.LastEntry().Message, "relation does not exist")
	assert.NotContains(t, hook.LastEntry().Message, "\x1b[")
}

func TestMissedLookupDoesNotLog(t *testing.T) {
	log, hook := test.NewNullLogger()
	db, err := ConnectionDb(Config{DBDriver: "sqlite", DatabaseURL: "file:gorm_logger?mode=memory&cache=shared"}, log)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, Migrate(db))
	hook.Reset()

	var row struct{ ID string }
	err = db.Table("users").Where("email = ?", "nobody@x.com").First(&row).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, hook.AllEntries())
}
