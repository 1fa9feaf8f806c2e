package smpp

import (
	"fmt"

	"github.com/aaronwong1989/fakesmsc/codec"
)

// Pdu is one decoded or constructed SMPP message.
type Pdu interface {
	codec.Codec
	Header() *MessageHeader
}

// RequestPdu is a Pdu that has a response counterpart.
type RequestPdu interface {
	Pdu
	ToResponse(status uint32) Pdu
}

// Messager is implemented by PDUs carrying a short message (submit_sm, deliver_sm).
type Messager interface {
	Pdu
	Text() string
}

// Codec turns complete SMPP frames into Pdu values and back.
type Codec struct{}

func (Codec) Decode(frame []byte) (Pdu, error) {
	header := &MessageHeader{}
	if err := header.Decode(frame); err != nil {
		return nil, err
	}
	if header.CommandLength < HeadLength || header.CommandLength > MaxPduLength {
		return nil, fmt.Errorf("%w: command_length %d out of range", ErrMalformedPdu, header.CommandLength)
	}
	if int(header.CommandLength) != len(frame) {
		return nil, fmt.Errorf("%w: command_length %d, frame has %d bytes", ErrMalformedPdu, header.CommandLength, len(frame))
	}

	pdu := newPdu(header.CommandId)
	if err := pdu.Decode(header, frame[HeadLength:]); err != nil {
		return nil, err
	}
	return pdu, nil
}

func (Codec) Encode(pdu Pdu) []byte {
	return pdu.Encode()
}

func newPdu(id uint32) Pdu {
	switch id {
	case CmdBindTransceiver:
		return &BindTransceiver{}
	case CmdBindTransceiverResp:
		return &BindTransceiverResp{}
	case CmdEnquireLink:
		return &EnquireLink{}
	case CmdEnquireLinkResp:
		return &EnquireLinkResp{}
	case CmdSubmitSm:
		return &SubmitSm{}
	case CmdSubmitSmResp:
		return &SubmitSmResp{}
	case CmdDeliverSm:
		return &DeliverSm{}
	case CmdDeliverSmResp:
		return &DeliverSmResp{}
	case CmdUnbind:
		return &Unbind{}
	case CmdUnbindResp:
		return &UnbindResp{}
	case CmdGenericNack:
		return &GenericNack{}
	default:
		return &Generic{}
	}
}
