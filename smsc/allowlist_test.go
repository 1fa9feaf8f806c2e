package smsc

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowList(t *testing.T) {
	a, err := NewAllowList([]string{"127.0.0.1", " 192.168.0.0/16 ", "::1"})
	require.NoError(t, err)
	assert.Equal(t, 3, a.Len())

	assert.True(t, a.Permits(net.ParseIP("127.0.0.1")))
	assert.True(t, a.Permits(net.ParseIP("::ffff:127.0.0.1")))
	assert.True(t, a.Permits(net.ParseIP("192.168.200.7")))
	assert.True(t, a.Permits(net.ParseIP("::1")))
	assert.False(t, a.Permits(net.ParseIP("127.0.0.2")))
	assert.False(t, a.Permits(nil))
}

func TestAllowList_EmptyPermitsNobody(t *testing.T) {
	a, err := NewAllowList(nil)
	require.NoError(t, err)
	assert.False(t, a.Permits(net.ParseIP("127.0.0.1")))

	var none *AllowList
	assert.False(t, none.Permits(net.ParseIP("127.0.0.1")))
	assert.Equal(t, 0, none.Len())
}

func TestAllowList_Invalid(t *testing.T) {
	for _, entry := range []string{"localhost", "10.0.0.0/33", ""} {
		_, err := NewAllowList([]string{entry})
		assert.True(t, errors.Is(err, ErrInvalidConfig), entry)
	}
}

func TestPeerIP(t *testing.T) {
	assert.Equal(t, "10.0.0.1", peerIP(&net.TCPAddr{IP: net.ParseIP("10.0.0.1"), Port: 1}).String())
	assert.Equal(t, "10.0.0.2", peerIP(&net.UDPAddr{IP: net.ParseIP("10.0.0.2"), Port: 1}).String())
	assert.Nil(t, peerIP(nil))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordReceived("submit_sm")
	m.RecordSent("submit_sm_resp")
	m.RecordBind(true)
	m.RecordRejectedConnection()
	m.RecordMalformed()
	m.SetBound(true)
}
