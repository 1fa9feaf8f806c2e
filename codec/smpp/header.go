package smpp

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/aaronwong1989/fakesmsc/codec"
)

var ErrMalformedPdu = errors.New("malformed pdu")

type MessageHeader struct {
	CommandLength  uint32
	CommandId      uint32
	CommandStatus  uint32
	SequenceNumber uint32
}

func (header *MessageHeader) Encode() []byte {
	if header.CommandLength < HeadLength {
		header.CommandLength = HeadLength
	}
	frame := make([]byte, header.CommandLength)
	binary.BigEndian.PutUint32(frame[0:4], header.CommandLength)
	binary.BigEndian.PutUint32(frame[4:8], header.CommandId)
	binary.BigEndian.PutUint32(frame[8:12], header.CommandStatus)
	binary.BigEndian.PutUint32(frame[12:16], header.SequenceNumber)
	return frame
}

func (header *MessageHeader) Decode(frame []byte) error {
	if len(frame) < HeadLength {
		return fmt.Errorf("%w: header needs %d bytes, got %d", ErrMalformedPdu, HeadLength, len(frame))
	}
	header.CommandLength = binary.BigEndian.Uint32(frame[0:4])
	header.CommandId = binary.BigEndian.Uint32(frame[4:8])
	header.CommandStatus = binary.BigEndian.Uint32(frame[8:12])
	header.SequenceNumber = binary.BigEndian.Uint32(frame[12:16])
	return nil
}

func (header *MessageHeader) String() string {
	return fmt.Sprintf("{ CommandLength: %d, CommandId: %s, CommandStatus: %d, SequenceNumber: %d }",
		header.CommandLength, CommandName(header.CommandId), header.CommandStatus, header.SequenceNumber)
}

// Header lets a bare MessageHeader stand in wherever a Pdu header is read.
func (header *MessageHeader) Header() *MessageHeader {
	return header
}

// Command returns the SMPP command name, e.g. "submit_sm".
func (header *MessageHeader) Command() string {
	return CommandName(header.CommandId)
}

func asHeader(h codec.IHead) (*MessageHeader, error) {
	header, ok := h.(*MessageHeader)
	if !ok || header == nil {
		return nil, fmt.Errorf("%w: unexpected header %T", ErrMalformedPdu, h)
	}
	return header, nil
}

const (
	HeadLength   = 16   // 报文头长度
	MaxPduLength = 4096 // 单个PDU允许的最大长度

	CmdGenericNack         = uint32(0x80000000)
	CmdSubmitSm            = uint32(0x00000004)
	CmdSubmitSmResp        = uint32(0x80000004)
	CmdDeliverSm           = uint32(0x00000005)
	CmdDeliverSmResp       = uint32(0x80000005)
	CmdUnbind              = uint32(0x00000006)
	CmdUnbindResp          = uint32(0x80000006)
	CmdBindTransceiver     = uint32(0x00000009)
	CmdBindTransceiverResp = uint32(0x80000009)
	CmdEnquireLink         = uint32(0x00000015)
	CmdEnquireLinkResp     = uint32(0x80000015)

	StatusOK = uint32(0x00000000)
)

var CommandMap = map[uint32]string{
	CmdGenericNack:         "generic_nack",
	CmdSubmitSm:            "submit_sm",
	CmdSubmitSmResp:        "submit_sm_resp",
	CmdDeliverSm:           "deliver_sm",
	CmdDeliverSmResp:       "deliver_sm_resp",
	CmdUnbind:              "unbind",
	CmdUnbindResp:          "unbind_resp",
	CmdBindTransceiver:     "bind_transceiver",
	CmdBindTransceiverResp: "bind_transceiver_resp",
	CmdEnquireLink:         "enquire_link",
	CmdEnquireLinkResp:     "enquire_link_resp",
}

// CommandName returns the lower-case SMPP name of id, or its hex form for
// commands this package does not model.
func CommandName(id uint32) string {
	if name, ok := CommandMap[id]; ok {
		return name
	}
	return fmt.Sprintf("0x%08x", id)
}

// LookupCommand is the inverse of CommandName for the modelled commands.
func LookupCommand(name string) (uint32, bool) {
	for id, n := range CommandMap {
		if n == name {
			return id, true
		}
	}
	return 0, false
}
