package smpp

import (
	"fmt"

	"github.com/aaronwong1989/fakesmsc/codec"
)

type Unbind MessageHeader
type UnbindResp MessageHeader

// GenericNack is sent back for frames that cannot be understood. The responder
// never emits one; it is modelled so client-originated nacks decode cleanly.
type GenericNack MessageHeader

func NewUnbind(seq uint32) *Unbind {
	return &Unbind{CommandLength: HeadLength, CommandId: CmdUnbind, SequenceNumber: seq}
}

func NewUnbindResp(seq uint32) *UnbindResp {
	return &UnbindResp{CommandLength: HeadLength, CommandId: CmdUnbindResp, SequenceNumber: seq}
}

func (ub *Unbind) Header() *MessageHeader {
	return (*MessageHeader)(ub)
}

func (ub *Unbind) Encode() []byte {
	ub.CommandLength = HeadLength
	return (*MessageHeader)(ub).Encode()
}

func (ub *Unbind) Decode(header codec.IHead, _ []byte) error {
	h, err := asHeader(header)
	if err != nil {
		return err
	}
	*ub = Unbind(*h)
	return nil
}

func (ub *Unbind) ToResponse(_ uint32) Pdu {
	return NewUnbindResp(ub.SequenceNumber)
}

func (ub *Unbind) String() string {
	return fmt.Sprintf("{ CommandLength: %d, CommandId: %s, SequenceNumber: %d }", ub.CommandLength, CommandName(CmdUnbind), ub.SequenceNumber)
}

func (resp *UnbindResp) Header() *MessageHeader {
	return (*MessageHeader)(resp)
}

func (resp *UnbindResp) Encode() []byte {
	resp.CommandLength = HeadLength
	return (*MessageHeader)(resp).Encode()
}

func (resp *UnbindResp) Decode(header codec.IHead, _ []byte) error {
	h, err := asHeader(header)
	if err != nil {
		return err
	}
	*resp = UnbindResp(*h)
	return nil
}

func (resp *UnbindResp) String() string {
	return fmt.Sprintf("{ CommandLength: %d, CommandId: %s, SequenceNumber: %d }", resp.CommandLength, CommandName(CmdUnbindResp), resp.SequenceNumber)
}

func (nack *GenericNack) Header() *MessageHeader {
	return (*MessageHeader)(nack)
}

func (nack *GenericNack) Encode() []byte {
	nack.CommandLength = HeadLength
	return (*MessageHeader)(nack).Encode()
}

func (nack *GenericNack) Decode(header codec.IHead, _ []byte) error {
	h, err := asHeader(header)
	if err != nil {
		return err
	}
	*nack = GenericNack(*h)
	return nil
}

func (nack *GenericNack) String() string {
	return fmt.Sprintf("{ CommandLength: %d, CommandId: %s, CommandStatus: %d, SequenceNumber: %d }",
		nack.CommandLength, CommandName(CmdGenericNack), nack.CommandStatus, nack.SequenceNumber)
}
