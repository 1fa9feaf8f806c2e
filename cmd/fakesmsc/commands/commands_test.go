package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronwong1989/fakesmsc/smsc"
	"github.com/aaronwong1989/fakesmsc/transport"
)

func TestVersion(t *testing.T) {
	Version, Commit, Date = "1.0.0", "abc123", "today"
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, Execute())
	assert.Equal(t, "fakesmsc 1.0.0 (commit: abc123, built: today)\n", out.String())
}

func TestServe_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 2775\n"), 0600))
	rootCmd.SetArgs([]string{"serve", "--config", path})
	err := Execute()
	assert.ErrorIs(t, err, smsc.ErrInvalidConfig)
}

func TestHealth(t *testing.T) {
	conf := &smsc.Config{SystemId: "client", AcceptedIps: []string{"127.0.0.1"}}
	conf.ApplyDefaults()
	r, err := smsc.NewResponder(conf, transport.NewGnet(transport.Options{WriteTimeout: time.Second}))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	health(r)(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unbound", body["state"])
	assert.Equal(t, false, body["connected"])
}

func TestServe_InterruptWhileWaitingForClient(t *testing.T) {
	conf := &smsc.Config{Port: 27775, SystemId: "client", AcceptedIps: []string{"127.0.0.1"}, BindTimeout: 10 * time.Second}
	conf.ApplyDefaults()
	r, err := smsc.NewResponder(conf, transport.NewGnet(transport.Options{WriteTimeout: time.Second}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, r, nil) }()

	require.Eventually(t, func() bool { return r.Addr() != "" }, 2*time.Second, 10*time.Millisecond)
	cancel()
	r.Interrupt()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve still waiting for a client")
	}
	assert.Empty(t, r.Addr())
}
