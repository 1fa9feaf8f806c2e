package smpp

import (
	"bytes"
	"fmt"
)

// C-Octet String maximum sizes, terminating NUL included.
const (
	lenSystemId     = 16
	lenPassword     = 9
	lenSystemType   = 13
	lenAddressRange = 41
	lenServiceType  = 6
	lenAddr         = 21
	lenTime         = 17
	lenMessageId    = 65
	MaxShortMessage = 254
)

// bodyReader walks a PDU body. The first failure sticks and every later call
// becomes a no-op, so decoders check err once at the end.
type bodyReader struct {
	frame []byte
	index int
	err   error
}

func (r *bodyReader) fail(format string, args ...interface{}) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s", ErrMalformedPdu, fmt.Sprintf(format, args...))
	}
}

func (r *bodyReader) cString(field string, max int) string {
	if r.err != nil {
		return ""
	}
	end := bytes.IndexByte(r.frame[r.index:], 0)
	if end < 0 {
		r.fail("%s: missing NUL terminator", field)
		return ""
	}
	if end+1 > max {
		r.fail("%s: %d octets exceeds %d", field, end+1, max)
		return ""
	}
	s := string(r.frame[r.index : r.index+end])
	r.index += end + 1
	return s
}

func (r *bodyReader) octet(field string) byte {
	if r.err != nil {
		return 0
	}
	if r.index >= len(r.frame) {
		r.fail("%s: body truncated", field)
		return 0
	}
	b := r.frame[r.index]
	r.index++
	return b
}

func (r *bodyReader) octets(field string, n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.index+n > len(r.frame) {
		r.fail("%s: want %d octets, %d left", field, n, len(r.frame)-r.index)
		return nil
	}
	bts := make([]byte, n)
	copy(bts, r.frame[r.index:r.index+n])
	r.index += n
	return bts
}

// bodyWriter accumulates a PDU body.
type bodyWriter struct {
	bytes.Buffer
}

// cString writes s NUL-terminated, cut to fit max octets.
func (w *bodyWriter) cString(s string, max int) {
	if len(s) > max-1 {
		s = s[:max-1]
	}
	w.WriteString(s)
	w.WriteByte(0)
}

func (w *bodyWriter) octet(b byte) {
	w.WriteByte(b)
}

// frame prepends the header to the accumulated body.
func (w *bodyWriter) frame(header *MessageHeader) []byte {
	header.CommandLength = uint32(HeadLength + w.Len())
	frame := header.Encode()
	copy(frame[HeadLength:], w.Bytes())
	return frame
}
