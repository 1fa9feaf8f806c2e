package transport

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/panjf2000/gnet/v2"

	"github.com/aaronwong1989/fakesmsc/codec/smpp"
	"github.com/aaronwong1989/fakesmsc/comm"
	"github.com/aaronwong1989/fakesmsc/comm/logging"
)

var log = logging.GetDefaultLogger()

type Options struct {
	Multicore    bool
	MaxPoolSize  int           // 异步写协程池大小
	WriteTimeout time.Duration // 等待写回调的时长
	InboxSize    int           // 每个连接缓存的已分帧数据包数
	Backlog      int           // 等待Accept的连接数
}

// Gnet serves the transport contract from a gnet event engine running in its
// own goroutine; callers see only blocking, timeout-bounded calls.
type Gnet struct {
	opts Options
}

func NewGnet(opts Options) *Gnet {
	if opts.MaxPoolSize <= 0 {
		opts.MaxPoolSize = 16
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if opts.InboxSize <= 0 {
		opts.InboxSize = 64
	}
	if opts.Backlog <= 0 {
		opts.Backlog = 4
	}
	return &Gnet{opts: opts}
}

func (g *Gnet) Listen(port int) (Listener, error) {
	// 定义异步写Go程池
	options := ants.Options{
		ExpiryDuration:   time.Minute,
		Nonblocking:      false,
		MaxBlockingTasks: g.opts.MaxPoolSize,
		PreAlloc:         false,
		PanicHandler: func(e interface{}) {
			log.Errorf("[%-9s] write task panic: %v", "Pool", e)
		},
	}
	pool, err := ants.NewPool(g.opts.MaxPoolSize, ants.WithOptions(options))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBind, err)
	}

	l := &gnetListener{
		protocol: "tcp",
		address:  fmt.Sprintf(":%d", port),
		opts:     g.opts,
		pool:     pool,
		accepted: make(chan *gnetConn, g.opts.Backlog),
		booted:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	go func() {
		l.runErr = gnet.Run(l, l.protoAddr(), gnet.WithMulticore(g.opts.Multicore), gnet.WithLogger(log))
		close(l.done)
	}()

	select {
	case <-l.booted:
		return l, nil
	case <-l.done:
		pool.Release()
		return nil, fmt.Errorf("%w: %s: %v", ErrBind, l.protoAddr(), l.runErr)
	}
}

type gnetListener struct {
	gnet.BuiltinEventEngine
	protocol  string
	address   string
	opts      Options
	pool      *ants.Pool
	accepted  chan *gnetConn
	booted    chan struct{}
	done      chan struct{}
	runErr    error
	closeOnce sync.Once
}

func (l *gnetListener) protoAddr() string {
	return l.protocol + "://" + l.address
}

func (l *gnetListener) Addr() string {
	return l.address
}

func (l *gnetListener) Accept(timeout time.Duration) (Conn, error) {
	if timeout <= 0 {
		// 非阻塞：只取已排队的连接
		select {
		case gc := <-l.accepted:
			return gc, nil
		case <-l.done:
			return nil, ErrListenerClosed
		default:
			return nil, ErrAcceptTimeout
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case gc := <-l.accepted:
		return gc, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w after %s", ErrAcceptTimeout, timeout)
	case <-l.done:
		return nil, ErrListenerClosed
	}
}

func (l *gnetListener) Close() error {
	var err error
	l.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = gnet.Stop(ctx, l.protoAddr())
		select {
		case <-l.done:
		case <-ctx.Done():
		}
		l.pool.Release()
	})
	return err
}

func (l *gnetListener) OnBoot(_ gnet.Engine) (action gnet.Action) {
	log.Infof("[%-9s] running server on %s", "OnBoot", l.protoAddr())
	close(l.booted)
	return
}

func (l *gnetListener) OnShutdown(_ gnet.Engine) {
	log.Warnf("[%-9s] shutdown server %s", "OnShutdown", l.protoAddr())
}

func (l *gnetListener) OnOpen(c gnet.Conn) (out []byte, action gnet.Action) {
	gc := &gnetConn{
		c:            c,
		remote:       c.RemoteAddr(),
		pool:         l.pool,
		writeTimeout: l.opts.WriteTimeout,
		inbox:        make(chan []byte, l.opts.InboxSize),
		closed:       make(chan struct{}),
	}
	c.SetContext(gc)
	select {
	case l.accepted <- gc:
		log.Infof("[%-9s] [%v<->%v] connection queued for accept", "OnOpen", c.RemoteAddr(), c.LocalAddr())
		return nil, gnet.None
	default:
		log.Warnf("[%-9s] [%v<->%v] accept backlog full, closing new connection...", "OnOpen", c.RemoteAddr(), c.LocalAddr())
		return nil, gnet.Close
	}
}

func (l *gnetListener) OnClose(c gnet.Conn, e error) (action gnet.Action) {
	log.Warnf("[%-9s] [%v<->%v] reason=%v.", "OnClose", c.RemoteAddr(), c.LocalAddr(), e)
	if gc, ok := c.Context().(*gnetConn); ok {
		gc.markClosed()
	}
	return
}

// OnTraffic 按 command_length 分帧，完整的数据包交给阻塞的 Read
func (l *gnetListener) OnTraffic(c gnet.Conn) (action gnet.Action) {
	gc, ok := c.Context().(*gnetConn)
	if !ok {
		return gnet.Close
	}
	for c.InboundBuffered() >= smpp.HeadLength {
		head, err := c.Peek(4)
		if err != nil {
			log.Errorf("[%-9s] decode error: %v", "OnTraffic", err)
			return gnet.Close
		}
		length := int(binary.BigEndian.Uint32(head))
		if length < smpp.HeadLength || length > smpp.MaxPduLength {
			log.Warnf("[%-9s] [%v<->%v] illegal command_length %d, close session...", "OnTraffic", c.RemoteAddr(), c.LocalAddr(), length)
			return gnet.Close
		}
		if c.InboundBuffered() < length {
			return gnet.None
		}
		frame := comm.TakeBytes(c, length)
		if frame == nil {
			return gnet.Close
		}
		comm.LogHex(logging.DebugLevel, "Inbound", frame)
		select {
		case gc.inbox <- frame:
		default:
			log.Warnf("[%-9s] [%v<->%v] inbox full, close session...", "OnTraffic", c.RemoteAddr(), c.LocalAddr())
			return gnet.Close
		}
	}
	return gnet.None
}

type gnetConn struct {
	c            gnet.Conn
	remote       net.Addr
	pool         *ants.Pool
	writeTimeout time.Duration
	inbox        chan []byte
	closed       chan struct{}
	closeOnce    sync.Once
}

func (gc *gnetConn) markClosed() {
	gc.closeOnce.Do(func() {
		close(gc.closed)
	})
}

func (gc *gnetConn) RemoteAddr() net.Addr {
	return gc.remote
}

// Read prefers buffered frames over the closed signal so nothing the peer sent
// before hanging up is lost.
func (gc *gnetConn) Read(timeout time.Duration) ([]byte, error) {
	select {
	case frame := <-gc.inbox:
		return frame, nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case frame := <-gc.inbox:
		return frame, nil
	case <-gc.closed:
		select {
		case frame := <-gc.inbox:
			return frame, nil
		default:
			return nil, ErrConnectionClosed
		}
	case <-timer.C:
		return nil, fmt.Errorf("%w after %s", ErrReadTimeout, timeout)
	}
}

func (gc *gnetConn) Write(frame []byte) error {
	select {
	case <-gc.closed:
		return fmt.Errorf("%w: %v", ErrWrite, ErrConnectionClosed)
	default:
	}

	done := make(chan error, 2)
	err := gc.pool.Submit(func() {
		err := gc.c.AsyncWrite(frame, func(c gnet.Conn) error {
			done <- nil
			return nil
		})
		if err != nil {
			done <- err
		}
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	timer := time.NewTimer(gc.writeTimeout)
	defer timer.Stop()
	select {
	case err = <-done:
		if err != nil {
			return fmt.Errorf("%w: %v", ErrWrite, err)
		}
		comm.LogHex(logging.DebugLevel, "Outbound", frame)
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: no write callback after %s", ErrWrite, gc.writeTimeout)
	}
}

func (gc *gnetConn) Close() error {
	select {
	case <-gc.closed:
		return nil
	default:
	}
	gc.markClosed()
	return gc.c.Close()
}
