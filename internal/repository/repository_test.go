package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a sqlx.DB backed by sqlmock with regexp query matching.
func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func TestPageArgs(t *testing.T) {
	tests := []struct {
		name              string
		skip, limit       int
		wantSkip, wantLim int
	}{
		{"defaults", 0, 0, 0, defaultListLimit},
		{"negative skip", -5, 10, 0, 10},
		{"limit too large", 20, 1000, 20, defaultListLimit},
		{"in range", 10, 25, 10, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skip, limit := pageArgs(tt.skip, tt.limit)
			require.Equal(t, tt.wantSkip, skip)
			require.Equal(t, tt.wantLim, limit)
		})
	}
}
