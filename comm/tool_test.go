package comm

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUcs2(t *testing.T) {
	ucs := Ucs2Encode("hello 中国")
	t.Logf("%x", ucs)
	assert.Equal(t, 16, len(ucs))
	assert.Equal(t, "hello 中国", Ucs2Decode(ucs))

	padded := append(Ucs2Encode("PING"), 0, 0)
	assert.Equal(t, "PING", Ucs2Decode(padded))
}

func TestSavePid(t *testing.T) {
	f := filepath.Join(t.TempDir(), "fakesmsc.pid")
	pid, err := SavePid(f)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), pid)

	bts, err := os.ReadFile(f)
	require.NoError(t, err)
	assert.Equal(t, pid, string(bts))
}

func TestStartMonitor(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	srv := StartMonitor(0, reg, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"bound":false}`))
	})
	defer srv.Close()

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_total 1")

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, `{"bound":false}`, rec.Body.String())
}
