package store

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrKriegler/insureflow/internal/platform/config"
)

func TestOpenMemory(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := Open(context.Background(), &config.Config{DBType: config.DBMemory}, log)
	require.NoError(t, err)

	assert.Equal(t, config.DBMemory, st.Backend)
	assert.NotNil(t, st.Policies)
	assert.NotNil(t, st.Applications)
	assert.NotNil(t, st.Claims)
	assert.NotNil(t, st.Reviews)
	assert.NotNil(t, st.Transactions)
	assert.NoError(t, st.Ping(context.Background()))
	assert.NoError(t, st.Close(context.Background()))
}

func TestOpenUnknownBackend(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := Open(context.Background(), &config.Config{DBType: "cassandra"}, log)
	assert.ErrorContains(t, err, "cassandra")
}
