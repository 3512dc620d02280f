package main

import (
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/maritime-tracker/internal/common"
)

func TestRun_ListenFailureReturnsError(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	cfg := common.DefaultConfig()
	cfg.Database.DSN = filepath.Join(t.TempDir(), "maritime.db")
	cfg.Server.GRPCAddr = busy.Addr().String()

	err = run(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on "+busy.Addr().String())
}
