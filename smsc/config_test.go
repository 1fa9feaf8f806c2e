package smsc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConf = `
port: 2776
system-id: client
password: secret
server-system-id: fakesmsc
accepted-ips:
  - 127.0.0.1
  - 10.0.0.0/8
client-timeout: 3s
monitor-port: 9101
datacenter-id: 1
worker-id: 2
`

func TestParseConfig(t *testing.T) {
	conf, err := ParseConfig([]byte(sampleConf))
	require.NoError(t, err)
	assert.Equal(t, 2776, conf.Port)
	assert.Equal(t, []string{"127.0.0.1", "10.0.0.0/8"}, conf.AcceptedIps)
	assert.Equal(t, 3*time.Second, conf.ClientTimeout)
	// 默认值
	assert.Equal(t, 60*time.Second, conf.BindTimeout)
	assert.Equal(t, 5*time.Second, conf.WriteTimeout)
	assert.Equal(t, 16, conf.MaxPoolSize)
	assert.Equal(t, Credentials{SystemId: "client", Password: "secret", ServerSystemId: "fakesmsc"}, conf.Credentials())
}

func TestParseConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"missing system-id":   "password: x\n",
		"bad ip":              "system-id: a\naccepted-ips: [not-an-ip]\n",
		"long password":       "system-id: a\npassword: abcdefghi\n",
		"worker out of range": "system-id: a\nworker-id: 9\n",
		"not yaml":            "system-id: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(body))
			assert.True(t, errors.Is(err, ErrInvalidConfig), "%v", err)
		})
	}
}

func TestLoadConfig_Env(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fakesmsc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConf), 0600))
	t.Setenv(confPathEnv, path)

	conf, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "client", conf.SystemId)

	t.Setenv(confPathEnv, "")
	_, err = LoadConfig("")
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
