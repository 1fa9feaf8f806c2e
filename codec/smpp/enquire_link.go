package smpp

import (
	"fmt"

	"github.com/aaronwong1989/fakesmsc/codec"
)

type EnquireLink MessageHeader
type EnquireLinkResp MessageHeader

func NewEnquireLink(seq uint32) *EnquireLink {
	return &EnquireLink{CommandLength: HeadLength, CommandId: CmdEnquireLink, SequenceNumber: seq}
}

func NewEnquireLinkResp(seq uint32) *EnquireLinkResp {
	return &EnquireLinkResp{CommandLength: HeadLength, CommandId: CmdEnquireLinkResp, SequenceNumber: seq}
}

func (el *EnquireLink) Header() *MessageHeader {
	return (*MessageHeader)(el)
}

func (el *EnquireLink) Encode() []byte {
	el.CommandLength = HeadLength
	return (*MessageHeader)(el).Encode()
}

func (el *EnquireLink) Decode(header codec.IHead, _ []byte) error {
	h, err := asHeader(header)
	if err != nil {
		return err
	}
	*el = EnquireLink(*h)
	return nil
}

func (el *EnquireLink) ToResponse(_ uint32) Pdu {
	return NewEnquireLinkResp(el.SequenceNumber)
}

func (el *EnquireLink) String() string {
	return fmt.Sprintf("{ CommandLength: %d, CommandId: %s, SequenceNumber: %d }", el.CommandLength, CommandName(CmdEnquireLink), el.SequenceNumber)
}

func (resp *EnquireLinkResp) Header() *MessageHeader {
	return (*MessageHeader)(resp)
}

func (resp *EnquireLinkResp) Encode() []byte {
	resp.CommandLength = HeadLength
	return (*MessageHeader)(resp).Encode()
}

func (resp *EnquireLinkResp) Decode(header codec.IHead, _ []byte) error {
	h, err := asHeader(header)
	if err != nil {
		return err
	}
	*resp = EnquireLinkResp(*h)
	return nil
}

func (resp *EnquireLinkResp) String() string {
	return fmt.Sprintf("{ CommandLength: %d, CommandId: %s, SequenceNumber: %d }", resp.CommandLength, CommandName(CmdEnquireLinkResp), resp.SequenceNumber)
}
