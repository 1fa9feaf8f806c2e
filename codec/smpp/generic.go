package smpp

import (
	"fmt"

	"github.com/aaronwong1989/fakesmsc/codec"
)

// Generic holds any command this package does not model: header plus raw body.
type Generic struct {
	*MessageHeader
	Body []byte
}

func (g *Generic) Encode() []byte {
	w := &bodyWriter{}
	w.Write(g.Body)
	return w.frame(g.MessageHeader)
}

func (g *Generic) Decode(header codec.IHead, frame []byte) error {
	h, err := asHeader(header)
	if err != nil {
		return err
	}
	g.MessageHeader = h
	g.Body = append([]byte(nil), frame...)
	return nil
}

func (g *Generic) String() string {
	return fmt.Sprintf("{ Header: %s, body: %x }", g.MessageHeader, g.Body)
}
