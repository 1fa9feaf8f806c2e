package smpp

import (
	"fmt"

	"github.com/aaronwong1989/fakesmsc/codec"
)

// InterfaceVersion reported by bind requests built here (SMPP v3.4).
const InterfaceVersion = 0x34

type BindTransceiver struct {
	*MessageHeader          // 【16字节】消息头
	SystemId         string // 【≤16字节】客户端账号
	Password         string // 【≤9字节】密码
	SystemType       string // 【≤13字节】客户端类型
	InterfaceVersion byte   // 【1字节】协议版本
	AddrTon          byte   // 【1字节】
	AddrNpi          byte   // 【1字节】
	AddressRange     string // 【≤41字节】
}

type BindTransceiverResp struct {
	*MessageHeader        // 【16字节】消息头
	SystemId       string // 【≤16字节】服务端标识
}

func NewBindTransceiver(seq uint32, systemId, password string) *BindTransceiver {
	return &BindTransceiver{
		MessageHeader:    &MessageHeader{CommandId: CmdBindTransceiver, SequenceNumber: seq},
		SystemId:         systemId,
		Password:         password,
		InterfaceVersion: InterfaceVersion,
	}
}

func NewBindTransceiverResp(seq uint32, status uint32, systemId string) *BindTransceiverResp {
	return &BindTransceiverResp{
		MessageHeader: &MessageHeader{CommandId: CmdBindTransceiverResp, CommandStatus: status, SequenceNumber: seq},
		SystemId:      systemId,
	}
}

func (bt *BindTransceiver) Encode() []byte {
	w := &bodyWriter{}
	w.cString(bt.SystemId, lenSystemId)
	w.cString(bt.Password, lenPassword)
	w.cString(bt.SystemType, lenSystemType)
	w.octet(bt.InterfaceVersion)
	w.octet(bt.AddrTon)
	w.octet(bt.AddrNpi)
	w.cString(bt.AddressRange, lenAddressRange)
	return w.frame(bt.MessageHeader)
}

func (bt *BindTransceiver) Decode(header codec.IHead, frame []byte) error {
	h, err := asHeader(header)
	if err != nil {
		return err
	}
	r := &bodyReader{frame: frame}
	bt.MessageHeader = h
	bt.SystemId = r.cString("system_id", lenSystemId)
	bt.Password = r.cString("password", lenPassword)
	bt.SystemType = r.cString("system_type", lenSystemType)
	bt.InterfaceVersion = r.octet("interface_version")
	bt.AddrTon = r.octet("addr_ton")
	bt.AddrNpi = r.octet("addr_npi")
	bt.AddressRange = r.cString("address_range", lenAddressRange)
	return r.err
}

func (bt *BindTransceiver) ToResponse(status uint32) Pdu {
	return NewBindTransceiverResp(bt.SequenceNumber, status, "")
}

func (bt *BindTransceiver) String() string {
	return fmt.Sprintf("{ Header: %s, systemId: %s, password: %s, systemType: %s, interfaceVersion: %#x, addrTon: %d, addrNpi: %d, addressRange: %s }",
		bt.MessageHeader, bt.SystemId, mask(bt.Password), bt.SystemType, bt.InterfaceVersion, bt.AddrTon, bt.AddrNpi, bt.AddressRange)
}

func (resp *BindTransceiverResp) Encode() []byte {
	w := &bodyWriter{}
	w.cString(resp.SystemId, lenSystemId)
	return w.frame(resp.MessageHeader)
}

func (resp *BindTransceiverResp) Decode(header codec.IHead, frame []byte) error {
	h, err := asHeader(header)
	if err != nil {
		return err
	}
	resp.MessageHeader = h
	// 失败的应答可能不带消息体
	if len(frame) == 0 {
		return nil
	}
	r := &bodyReader{frame: frame}
	resp.SystemId = r.cString("system_id", lenSystemId)
	return r.err
}

func (resp *BindTransceiverResp) String() string {
	return fmt.Sprintf("{ Header: %s, systemId: %s }", resp.MessageHeader, resp.SystemId)
}

func (resp *BindTransceiverResp) Status() uint32 {
	return resp.CommandStatus
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "******"
}
