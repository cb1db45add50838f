package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"hdp-service/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host: "db", Port: "5432", User: "hdp", Password: "secret",
		DBName: "hdp", SSLMode: "disable", TimeZone: "UTC",
	})
	assert.Equal(t, "host=db user=hdp password=secret dbname=hdp port=5432 sslmode=disable TimeZone=UTC", dsn)
}

func TestGormConfig_UTC(t *testing.T) {
	now := GormConfig().NowFunc()
	assert.Equal(t, "UTC", now.Location().String())
}

func TestHealthCheck(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectPing()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), GormConfig())
	require.NoError(t, err)

	mock.ExpectPing()
	assert.NoError(t, HealthCheck(context.Background(), db))

	mock.ExpectPing().WillReturnError(errors.New("gone"))
	assert.ErrorContains(t, HealthCheck(context.Background(), db), "database unavailable")
}
