package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("Invalid MySQL Connection", func(t *testing.T) {
		cfg := Config{
			Driver:         DriverMySQL,
			Host:           "localhost",
			Port:           9999,
			User:           "root",
			Password:       "wrongpassword",
			Name:           "library",
			TimeoutSeconds: 1,
		}

		db, err := Connect(cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("SQLite In Memory", func(t *testing.T) {
		db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
		require.NoError(t, err)
		assert.Equal(t, "sqlite", db.Dialector.Name())
	})

	t.Run("Unsupported Driver", func(t *testing.T) {
		_, err := Connect(Config{Driver: "oracle", Name: "x"})
		assert.ErrorContains(t, err, "unsupported database driver")
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"SQLite", Config{Driver: DriverSQLite, Name: "library.db"}, false},
		{"MySQL", Config{Driver: DriverMySQL, Name: "library", Host: "db", Port: 3306}, false},
		{"MySQL Without Host", Config{Driver: DriverMySQL, Name: "library", Port: 3306}, true},
		{"Unknown Driver", Config{Driver: "oracle", Name: "library"}, true},
		{"Missing Name", Config{Driver: DriverSQLite}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
