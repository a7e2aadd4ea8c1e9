package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"hrdesk/internal/config"
	"hrdesk/internal/models"
	"hrdesk/internal/utils"
)

func TestOpenMigratesAndSeedIsIdempotent(t *testing.T) {
	database, err := Open(config.Config{DbDriver: config.DriverSQLite, DbDsn: ":memory:", DbLogLevel: "silent"})
	require.NoError(t, err)

	require.NoError(t, Seed(database, DefaultSeed))
	require.NoError(t, Seed(database, DefaultSeed))

	var count int64
	require.NoError(t, database.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	var admin models.User
	require.NoError(t, database.Where("email = ?", "admin@local.dev").First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, 6000.0, admin.BaseSalary)
	assert.True(t, utils.CheckPassword(admin.PasswordHash, "Admin123!"))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.Config{DbDriver: "oracle", DbDsn: "x"})
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, parseLogLevel("SILENT"))
	assert.Equal(t, logger.Info, parseLogLevel("info"))
	assert.Equal(t, logger.Warn, parseLogLevel(""))
}

func TestOpenRedisDisabledWithoutAddr(t *testing.T) {
	client, err := OpenRedis(config.Config{})
	require.NoError(t, err)
	assert.Nil(t, client)
}
