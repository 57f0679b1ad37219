package storage

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleet-alert/fleet-alert-server/internal/config"
)

func TestApplyPoolSettings(t *testing.T) {
	db, err := sql.Open("postgres", "")
	require.NoError(t, err)
	defer db.Close()

	applyPoolSettings(db, config.DatabaseConfig{
		MaxOpenConns:    7,
		MaxIdleConns:    3,
		ConnMaxLifetime: time.Minute,
	})

	assert.Equal(t, 7, db.Stats().MaxOpenConnections)
}
