package smsc

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/go-playground/validator/v10"

	"github.com/aaronwong1989/fakesmsc"
	"github.com/aaronwong1989/fakesmsc/codec"
	"github.com/aaronwong1989/fakesmsc/codec/smpp"
	"github.com/aaronwong1989/fakesmsc/comm"
	"github.com/aaronwong1989/fakesmsc/comm/logging"
	"github.com/aaronwong1989/fakesmsc/transport"
)

var (
	log         = logging.GetDefaultLogger()
	msgValidate = validator.New()
)

type State int32

const (
	Unbound State = iota
	Bound
)

func (s State) String() string {
	switch s {
	case Unbound:
		return "unbound"
	case Bound:
		return "bound"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// PduCodec turns whole frames into PDUs and back.
type PduCodec interface {
	Decode(frame []byte) (smpp.Pdu, error)
	Encode(pdu smpp.Pdu) []byte
}

// Expectation selects the PDU WaitForMatch returns. Command is the SMPP
// command name ("submit_sm"); Content is compared with the short message of
// submit_sm and deliver_sm, other commands match on Command alone.
type Expectation struct {
	Command string
	Content string
}

func (e *Expectation) matches(pdu smpp.Pdu) bool {
	if e == nil || e.Command == "" || e.Content == "" {
		return true
	}
	if pdu.Header().Command() != e.Command {
		return false
	}
	if m, ok := pdu.(smpp.Messager); ok {
		return m.Text() == e.Content
	}
	return true
}

// Session is the single-client SMPP state machine. It is driven by one
// goroutine; only State is safe to read from others.
type Session struct {
	creds   Credentials
	allow   *AllowList
	codec   PduCodec
	seq     codec.Sequence32
	metrics *Metrics

	state atomic.Int32
	conn  transport.Conn
}

func NewSession(creds Credentials, allow *AllowList, pc PduCodec, seq codec.Sequence32, metrics *Metrics) *Session {
	return &Session{
		creds:   creds,
		allow:   allow,
		codec:   pc,
		seq:     seq,
		metrics: metrics,
	}
}

func (s *Session) State() State {
	return State(s.state.Load())
}

func (s *Session) setState(st State) {
	if old := State(s.state.Swap(int32(st))); old != st {
		log.Infof("[%-9s] state %s -> %s", "Session", old, st)
	}
	s.metrics.SetBound(st == Bound)
}

func (s *Session) Conn() transport.Conn {
	return s.conn
}

// Accept records conn when its peer is allowed or a client is already bound
// (reconnection). A previously recorded connection is closed and replaced
// without an unbind_resp; the bind state is kept.
func (s *Session) Accept(conn transport.Conn) error {
	ip := peerIP(conn.RemoteAddr())
	if s.State() != Bound && !s.allow.Permits(ip) {
		s.metrics.RecordRejectedConnection()
		log.Warnf("[%-9s] %v not in accepted-ips, reject connection", "Accept", conn.RemoteAddr())
		return fmt.Errorf("%w: %v", ErrConnectionRejected, conn.RemoteAddr())
	}
	if s.conn != nil && s.conn != conn {
		log.Warnf("[%-9s] replacing connection %v with %v", "Accept", s.conn.RemoteAddr(), conn.RemoteAddr())
		_ = s.conn.Close()
	}
	s.conn = conn
	log.Infof("[%-9s] accepted %v, state=%s", "Accept", conn.RemoteAddr(), s.State())
	return nil
}

// HandleFrame decodes one frame, answers it and returns the decoded PDU. A
// failed response write is returned together with the PDU.
func (s *Session) HandleFrame(frame []byte) (smpp.Pdu, error) {
	pdu, err := s.codec.Decode(frame)
	if err != nil {
		s.metrics.RecordMalformed()
		log.Errorf("[%-9s] decode error: %v", "Session", err)
		comm.LogHex(logging.ErrorLevel, "Malformed", frame)
		return nil, err
	}
	s.metrics.RecordReceived(pdu.Header().Command())
	log.Infof("[%-9s] <<< %s", "Session", pdu)

	switch p := pdu.(type) {
	case *smpp.BindTransceiver:
		err = s.handleBind(p)
	case *smpp.EnquireLink:
		err = s.send(p.ToResponse(smpp.StatusOK))
	case *smpp.SubmitSm:
		err = s.send(smpp.NewSubmitSmResp(p.SequenceNumber, s.messageId()))
	case *smpp.Unbind:
		err = s.unbind(p.SequenceNumber)
	}
	return pdu, err
}

func (s *Session) handleBind(bind *smpp.BindTransceiver) error {
	if bind.SystemId != s.creds.SystemId || bind.Password != s.creds.Password {
		// 认证失败不回应答，状态不变
		s.metrics.RecordBind(false)
		log.Warnf("[%-9s] bind rejected: system_id=%q does not match credentials", "Session", bind.SystemId)
		return nil
	}
	if err := s.send(smpp.NewBindTransceiverResp(bind.SequenceNumber, smpp.StatusOK, s.creds.ServerSystemId)); err != nil {
		return err
	}
	s.metrics.RecordBind(true)
	s.setState(Bound)
	return nil
}

// Unbind sends unbind_resp with a fresh sequence number, closes the
// connection and leaves the session Unbound. Without a connection it is a no-op.
func (s *Session) Unbind() error {
	if s.conn == nil {
		return nil
	}
	return s.unbind(s.nextSeq())
}

func (s *Session) unbind(seq uint32) error {
	if s.conn == nil {
		return nil
	}
	err := s.send(smpp.NewUnbindResp(seq))
	if err != nil {
		log.Warnf("[%-9s] unbind_resp not delivered: %v", "Session", err)
	}
	s.Close()
	return err
}

// Close drops the recorded connection without any SMPP exchange.
func (s *Session) Close() {
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			log.Warnf("[%-9s] close %v: %v", "Session", s.conn.RemoteAddr(), err)
		}
		s.conn = nil
	}
	s.setState(Unbound)
}

// WaitForMatch handles frames from readFrame until one matches expect. A read
// timeout or a closed connection ends the wait with a nil PDU and nil error.
func (s *Session) WaitForMatch(expect *Expectation, readFrame func() ([]byte, error)) (smpp.Pdu, error) {
	for {
		frame, err := readFrame()
		switch {
		case err == nil:
		case errors.Is(err, transport.ErrReadTimeout):
			log.Infof("[%-9s] %v", "Session", err)
			return nil, nil
		case errors.Is(err, transport.ErrConnectionClosed):
			log.Warnf("[%-9s] client went away, state=%s", "Session", s.State())
			s.Close()
			return nil, nil
		default:
			return nil, err
		}

		pdu, err := s.HandleFrame(frame)
		if err != nil {
			return pdu, err
		}
		if expect.matches(pdu) {
			return pdu, nil
		}
		log.Debugf("[%-9s] skip %s, waiting for %s", "Session", pdu.Header().Command(), expect.Command)
	}
}

// Deliver pushes a deliver_sm to the bound client.
func (s *Session) Deliver(msg fakesmsc.DeliverSms) error {
	if s.conn == nil || s.State() != Bound {
		return ErrNoActiveSession
	}
	// 地址超过20字节时编码会截断，这里先拒绝
	if err := msgValidate.Struct(msg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	content := []byte(msg.ShortMessage)
	if msg.DataCoding == smpp.DataCodingUCS2 {
		content = comm.Ucs2Encode(msg.ShortMessage)
	}
	if len(content) > smpp.MaxShortMessage {
		return fmt.Errorf("%w: %d octets, at most %d", ErrMessageTooLong, len(content), smpp.MaxShortMessage)
	}
	return s.send(smpp.NewDeliverSm(s.nextSeq(), msg.SourceAddr, msg.DestinationAddr, msg.DataCoding, content))
}

func (s *Session) send(pdu smpp.Pdu) error {
	if s.conn == nil {
		return fmt.Errorf("%w: cannot send %s", ErrNoActiveSession, pdu.Header().Command())
	}
	if err := s.conn.Write(s.codec.Encode(pdu)); err != nil {
		log.Errorf("[%-9s] >>> %s, error: %v", "Session", pdu.Header().Command(), err)
		return err
	}
	s.metrics.RecordSent(pdu.Header().Command())
	log.Infof("[%-9s] >>> %s", "Session", pdu)
	return nil
}

func (s *Session) nextSeq() uint32 {
	return uint32(s.seq.NextVal())
}

func (s *Session) messageId() string {
	return fmt.Sprintf("%08x", s.nextSeq())
}
