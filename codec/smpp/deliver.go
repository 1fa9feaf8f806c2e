package smpp

import (
	"fmt"

	"github.com/aaronwong1989/fakesmsc/codec"
)

type DeliverSm struct {
	*MessageHeader
	MessageBody
}

type DeliverSmResp struct {
	*MessageHeader
	MessageId string // 协议要求置空
}

// NewDeliverSm builds a mobile-terminated message; sm_length follows content.
func NewDeliverSm(seq uint32, src, dest string, dataCoding byte, content []byte) *DeliverSm {
	dly := &DeliverSm{MessageHeader: &MessageHeader{CommandId: CmdDeliverSm, SequenceNumber: seq}}
	dly.SourceAddr = src
	dly.DestinationAddr = dest
	dly.DataCoding = dataCoding
	dly.ShortMessage = content
	dly.SmLength = byte(len(content))
	return dly
}

func NewDeliverSmResp(seq uint32) *DeliverSmResp {
	return &DeliverSmResp{MessageHeader: &MessageHeader{CommandId: CmdDeliverSmResp, SequenceNumber: seq}}
}

func (dly *DeliverSm) Encode() []byte {
	w := &bodyWriter{}
	dly.MessageBody.encode(w)
	return w.frame(dly.MessageHeader)
}

func (dly *DeliverSm) Decode(header codec.IHead, frame []byte) error {
	h, err := asHeader(header)
	if err != nil {
		return err
	}
	dly.MessageHeader = h
	r := &bodyReader{frame: frame}
	dly.MessageBody.decode(r)
	return r.err
}

func (dly *DeliverSm) ToResponse(status uint32) Pdu {
	resp := NewDeliverSmResp(dly.SequenceNumber)
	resp.CommandStatus = status
	return resp
}

func (dly *DeliverSm) String() string {
	return fmt.Sprintf("{ Header: %s, %s }", dly.MessageHeader, dly.MessageBody.String())
}

func (resp *DeliverSmResp) Encode() []byte {
	w := &bodyWriter{}
	w.cString(resp.MessageId, lenMessageId)
	return w.frame(resp.MessageHeader)
}

func (resp *DeliverSmResp) Decode(header codec.IHead, frame []byte) error {
	h, err := asHeader(header)
	if err != nil {
		return err
	}
	resp.MessageHeader = h
	if len(frame) == 0 {
		return nil
	}
	r := &bodyReader{frame: frame}
	resp.MessageId = r.cString("message_id", lenMessageId)
	return r.err
}

func (resp *DeliverSmResp) String() string {
	return fmt.Sprintf("{ Header: %s, messageId: %s }", resp.MessageHeader, resp.MessageId)
}
