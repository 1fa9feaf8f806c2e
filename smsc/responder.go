package smsc

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aaronwong1989/fakesmsc"
	"github.com/aaronwong1989/fakesmsc/codec/smpp"
	"github.com/aaronwong1989/fakesmsc/comm/logging"
	"github.com/aaronwong1989/fakesmsc/snowflake32"
	"github.com/aaronwong1989/fakesmsc/transport"
)

// Responder 模拟短信中心，一次只服务一个SMPP客户端
type Responder struct {
	conf      *Config
	transport transport.Transport
	session   *Session
	listener  transport.Listener
	registry  *prometheus.Registry
	metrics   *Metrics

	readTimeout time.Duration
	acceptPoll  time.Duration // 读等待期间检查新连接的间隔

	mu          sync.Mutex // 保护 listener，供 Interrupt 跨协程读取
	accepting   atomic.Bool
	interrupted atomic.Bool
}

const defaultAcceptPoll = 100 * time.Millisecond

// NewResponder builds a responder over tr. The config is validated first.
func NewResponder(conf *Config, tr transport.Transport) (*Responder, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	allow, err := NewAllowList(conf.AcceptedIps)
	if err != nil {
		return nil, err
	}
	if allow.Len() == 0 {
		log.Warnf("[%-9s] accepted-ips is empty, every connection will be rejected", "Responder")
	}

	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)
	seq := snowflake32.NewSnowflake(conf.DataCenterId, conf.WorkerId)
	r := &Responder{
		conf:        conf,
		transport:   tr,
		session:     NewSession(conf.Credentials(), allow, smpp.Codec{}, seq, metrics),
		registry:    registry,
		metrics:     metrics,
		readTimeout: conf.BindTimeout,
		acceptPoll:  defaultAcceptPoll,
	}
	if conf.Debug {
		r.SetDebugLogging(true)
	}
	return r, nil
}

// Start listens, waits up to BindTimeout for one client and returns the first
// PDU it sends.
func (r *Responder) Start() (smpp.Pdu, error) {
	l, err := r.transport.Listen(r.conf.Port)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.listener = l
	r.mu.Unlock()
	r.accepting.Store(true)
	if r.interrupted.Load() {
		r.accepting.Store(false)
		_ = r.Stop()
		return nil, transport.ErrListenerClosed
	}
	log.Infof("[%-9s] waiting %s for a client on %s", "Responder", r.conf.BindTimeout, l.Addr())

	conn, err := l.Accept(r.conf.BindTimeout)
	r.accepting.Store(false)
	if err != nil {
		_ = r.Stop()
		return nil, err
	}
	if err = r.session.Accept(conn); err != nil {
		_ = conn.Close()
		_ = r.Stop()
		return nil, err
	}
	r.readTimeout = r.conf.BindTimeout
	return r.Receive()
}

// Stop unbinds a bound client, drops any other connection and releases the
// listener. Safe to call repeatedly.
func (r *Responder) Stop() error {
	if r.session.State() == Bound {
		if err := r.session.Unbind(); err != nil {
			log.Warnf("[%-9s] unbind on stop: %v", "Responder", err)
		}
	}
	r.session.Close()

	r.mu.Lock()
	l := r.listener
	r.listener = nil
	r.mu.Unlock()
	if l == nil {
		return nil
	}
	err := l.Close()
	log.Infof("[%-9s] stopped", "Responder")
	return err
}

// Interrupt may be called from any goroutine. A Start still waiting for the
// first client returns ErrListenerClosed at once; a pending Receive returns
// at its next accept poll. The goroutine driving the responder still calls
// Stop, which unbinds a bound client.
func (r *Responder) Interrupt() {
	r.interrupted.Store(true)
	if !r.accepting.Load() {
		return
	}
	r.mu.Lock()
	l := r.listener
	r.mu.Unlock()
	if l != nil {
		_ = l.Close()
	}
}

func (r *Responder) IsConnected() bool {
	return r.session.State() == Bound
}

func (r *Responder) State() State {
	return r.session.State()
}

// Receive returns the next PDU from the client, or nil at end of stream.
func (r *Responder) Receive() (smpp.Pdu, error) {
	return r.ReceiveMatch("", "")
}

// ReceiveMatch skips PDUs until one has the given command name and, for
// submit_sm/deliver_sm, the given short message. Skipped PDUs are still answered.
func (r *Responder) ReceiveMatch(command, content string) (smpp.Pdu, error) {
	if r.session.Conn() == nil {
		return nil, ErrNoActiveSession
	}
	expect := &Expectation{Command: command, Content: content}
	return r.session.WaitForMatch(expect, r.readFrame)
}

// readFrame waits up to readTimeout for the next frame, in slices of
// acceptPoll. Between slices connections queued on the listener go through
// Session.Accept: rejected ones are closed, accepted ones replace the current
// connection.
func (r *Responder) readFrame() ([]byte, error) {
	wait := r.readTimeout
	deadline := time.Now().Add(wait)
	for {
		r.acceptPending()
		if r.interrupted.Load() {
			return nil, fmt.Errorf("%w: interrupted", transport.ErrReadTimeout)
		}
		conn := r.session.Conn()
		if conn == nil {
			return nil, transport.ErrConnectionClosed
		}
		if wait <= 0 {
			return nil, fmt.Errorf("%w after %s", transport.ErrReadTimeout, r.readTimeout)
		}

		slice, sliced := wait, false
		if slice > r.acceptPoll {
			slice, sliced = r.acceptPoll, true
		}
		frame, err := conn.Read(slice)
		if sliced && errors.Is(err, transport.ErrReadTimeout) {
			wait = time.Until(deadline)
			continue
		}
		if err == nil {
			// 首包之后使用较短的客户端超时
			r.readTimeout = r.conf.ClientTimeout
		}
		return frame, err
	}
}

func (r *Responder) acceptPending() {
	if r.listener == nil {
		return
	}
	for {
		conn, err := r.listener.Accept(0)
		if err != nil {
			return
		}
		if err = r.session.Accept(conn); err != nil {
			_ = conn.Close()
		}
	}
}

func (r *Responder) Deliver(msg fakesmsc.DeliverSms) error {
	return r.session.Deliver(msg)
}

func (r *Responder) SetDebugLogging(enabled bool) {
	logging.SetDebug(enabled)
}

func (r *Responder) Metrics() *Metrics {
	return r.metrics
}

// Gatherer exposes the responder's own registry for the monitor endpoint.
func (r *Responder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Addr is the listening address, empty before Start.
func (r *Responder) Addr() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listener == nil {
		return ""
	}
	return r.listener.Addr()
}
