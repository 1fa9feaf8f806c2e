package smsc

import (
	"net"
	"time"

	"github.com/aaronwong1989/fakesmsc/codec/smpp"
	"github.com/aaronwong1989/fakesmsc/transport"
)

type fakeConn struct {
	remote   net.Addr
	inbound  [][]byte
	endErr   error // returned once inbound is drained
	written  [][]byte
	writeErr error
	closed   int
	timeouts []time.Duration
}

func newFakeConn(ip string) *fakeConn {
	return &fakeConn{remote: &net.TCPAddr{IP: net.ParseIP(ip), Port: 40000}, endErr: transport.ErrReadTimeout}
}

func (c *fakeConn) push(pdus ...smpp.Pdu) {
	for _, p := range pdus {
		c.inbound = append(c.inbound, p.Encode())
	}
}

func (c *fakeConn) Read(timeout time.Duration) ([]byte, error) {
	c.timeouts = append(c.timeouts, timeout)
	if len(c.inbound) == 0 {
		return nil, c.endErr
	}
	frame := c.inbound[0]
	c.inbound = c.inbound[1:]
	return frame, nil
}

func (c *fakeConn) Write(frame []byte) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.written = append(c.written, append([]byte{}, frame...))
	return nil
}

func (c *fakeConn) Close() error {
	c.closed++
	return nil
}

func (c *fakeConn) RemoteAddr() net.Addr {
	return c.remote
}

// decoded returns the i-th written frame as a PDU.
func (c *fakeConn) decoded(i int) smpp.Pdu {
	pdu, err := smpp.Codec{}.Decode(c.written[i])
	if err != nil {
		panic(err)
	}
	return pdu
}

type counter struct {
	n int32
}

func (c *counter) NextVal() int32 {
	c.n++
	return c.n
}

type fakeListener struct {
	conns  []transport.Conn
	closed int
}

func (l *fakeListener) Accept(_ time.Duration) (transport.Conn, error) {
	if len(l.conns) == 0 {
		return nil, transport.ErrAcceptTimeout
	}
	c := l.conns[0]
	l.conns = l.conns[1:]
	return c, nil
}

func (l *fakeListener) Addr() string {
	return ":2775"
}

func (l *fakeListener) Close() error {
	l.closed++
	return nil
}

type fakeTransport struct {
	listener *fakeListener
	err      error
	port     int
}

func (t *fakeTransport) Listen(port int) (transport.Listener, error) {
	t.port = port
	if t.err != nil {
		return nil, t.err
	}
	return t.listener, nil
}
