package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdjvazquez/finmks-v/pkg/config"
)

func TestApplyPoolLimits_MinNoSuperaMax(t *testing.T) {
	pc, err := pgxpool.ParseConfig("postgres://u:p@localhost:5432/finmks?sslmode=disable")
	require.NoError(t, err)

	applyPoolLimits(pc, config.DBConfig{})
	assert.EqualValues(t, defaultMaxConns, pc.MaxConns)
	assert.EqualValues(t, defaultMinConns, pc.MinConns)

	applyPoolLimits(pc, config.DBConfig{MaxConns: 4, MinConns: 9})
	assert.EqualValues(t, 4, pc.MaxConns)
	assert.EqualValues(t, 4, pc.MinConns, "min nunca supera a max")
}
