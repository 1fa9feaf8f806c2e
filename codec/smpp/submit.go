package smpp

import (
	"fmt"

	"github.com/aaronwong1989/fakesmsc/codec"
)

type SubmitSm struct {
	*MessageHeader
	MessageBody
}

type SubmitSmResp struct {
	*MessageHeader
	MessageId string
}

func NewSubmitSm(seq uint32, src, dest string, content []byte) *SubmitSm {
	sub := &SubmitSm{MessageHeader: &MessageHeader{CommandId: CmdSubmitSm, SequenceNumber: seq}}
	sub.SourceAddr = src
	sub.DestinationAddr = dest
	sub.ShortMessage = content
	sub.SmLength = byte(len(content))
	return sub
}

func NewSubmitSmResp(seq uint32, messageId string) *SubmitSmResp {
	return &SubmitSmResp{
		MessageHeader: &MessageHeader{CommandId: CmdSubmitSmResp, SequenceNumber: seq},
		MessageId:     messageId,
	}
}

func (sub *SubmitSm) Encode() []byte {
	w := &bodyWriter{}
	sub.MessageBody.encode(w)
	return w.frame(sub.MessageHeader)
}

func (sub *SubmitSm) Decode(header codec.IHead, frame []byte) error {
	h, err := asHeader(header)
	if err != nil {
		return err
	}
	sub.MessageHeader = h
	r := &bodyReader{frame: frame}
	sub.MessageBody.decode(r)
	return r.err
}

func (sub *SubmitSm) ToResponse(status uint32) Pdu {
	resp := NewSubmitSmResp(sub.SequenceNumber, "")
	resp.CommandStatus = status
	return resp
}

func (sub *SubmitSm) String() string {
	return fmt.Sprintf("{ Header: %s, %s }", sub.MessageHeader, sub.MessageBody.String())
}

func (resp *SubmitSmResp) Encode() []byte {
	w := &bodyWriter{}
	w.cString(resp.MessageId, lenMessageId)
	return w.frame(resp.MessageHeader)
}

func (resp *SubmitSmResp) Decode(header codec.IHead, frame []byte) error {
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

func (resp *SubmitSmResp) String() string {
	return fmt.Sprintf("{ Header: %s, messageId: %s }", resp.MessageHeader, resp.MessageId)
}
