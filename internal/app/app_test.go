package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yanizio/loanform/internal/audit"
	"github.com/yanizio/loanform/internal/config"
	"github.com/yanizio/loanform/internal/summary"
)

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Summary.Endpoint = "http://127.0.0.1:1/summary"
	return &cfg
}

func TestBuild_MemoryCacheNoAudit(t *testing.T) {
	cfg := testConfig()
	cfg.Database.DSN = "app:pw@tcp(127.0.0.1:1)/loanform"

	d, err := Build(context.Background(), cfg, false, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer d.Close()

	assert.IsType(t, &summary.CachingClient{}, d.Client)
	assert.IsType(t, audit.Nop{}, d.Audit)
}

func TestBuild_NoCacheWhenTTLZero(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.TTL = 0

	d, err := Build(context.Background(), cfg, true, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer d.Close()

	assert.IsType(t, &summary.HTTPClient{}, d.Client)
}

func TestBuild_UnreachableRedisFallsBack(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.RedisAddr = "127.0.0.1:1"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	d, err := Build(ctx, cfg, false, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Empty(t, d.closers)
	assert.NoError(t, d.Close())
}
