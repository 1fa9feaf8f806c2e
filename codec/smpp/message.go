package smpp

import (
	"bytes"
	"fmt"

	"github.com/aaronwong1989/fakesmsc/comm"
)

const (
	DataCodingDefault = byte(0x00)
	DataCodingUCS2    = byte(0x08)
)

// MessageBody is the mandatory body shared by submit_sm and deliver_sm.
type MessageBody struct {
	ServiceType          string
	SourceAddrTon        byte
	SourceAddrNpi        byte
	SourceAddr           string
	DestAddrTon          byte
	DestAddrNpi          byte
	DestinationAddr      string
	EsmClass             byte
	ProtocolId           byte
	PriorityFlag         byte
	ScheduleDeliveryTime string
	ValidityPeriod       string
	RegisteredDelivery   byte
	ReplaceIfPresentFlag byte
	DataCoding           byte
	SmDefaultMsgId       byte
	SmLength             byte
	ShortMessage         []byte
}

func (mb *MessageBody) encode(w *bodyWriter) {
	sm := mb.ShortMessage
	if len(sm) > MaxShortMessage {
		sm = sm[:MaxShortMessage]
	}
	mb.SmLength = byte(len(sm))

	w.cString(mb.ServiceType, lenServiceType)
	w.octet(mb.SourceAddrTon)
	w.octet(mb.SourceAddrNpi)
	w.cString(mb.SourceAddr, lenAddr)
	w.octet(mb.DestAddrTon)
	w.octet(mb.DestAddrNpi)
	w.cString(mb.DestinationAddr, lenAddr)
	w.octet(mb.EsmClass)
	w.octet(mb.ProtocolId)
	w.octet(mb.PriorityFlag)
	w.cString(mb.ScheduleDeliveryTime, lenTime)
	w.cString(mb.ValidityPeriod, lenTime)
	w.octet(mb.RegisteredDelivery)
	w.octet(mb.ReplaceIfPresentFlag)
	w.octet(mb.DataCoding)
	w.octet(mb.SmDefaultMsgId)
	w.octet(mb.SmLength)
	w.Write(sm)
}

// decode reads the mandatory fields; optional TLVs after short_message are skipped.
func (mb *MessageBody) decode(r *bodyReader) {
	mb.ServiceType = r.cString("service_type", lenServiceType)
	mb.SourceAddrTon = r.octet("source_addr_ton")
	mb.SourceAddrNpi = r.octet("source_addr_npi")
	mb.SourceAddr = r.cString("source_addr", lenAddr)
	mb.DestAddrTon = r.octet("dest_addr_ton")
	mb.DestAddrNpi = r.octet("dest_addr_npi")
	mb.DestinationAddr = r.cString("destination_addr", lenAddr)
	mb.EsmClass = r.octet("esm_class")
	mb.ProtocolId = r.octet("protocol_id")
	mb.PriorityFlag = r.octet("priority_flag")
	mb.ScheduleDeliveryTime = r.cString("schedule_delivery_time", lenTime)
	mb.ValidityPeriod = r.cString("validity_period", lenTime)
	mb.RegisteredDelivery = r.octet("registered_delivery")
	mb.ReplaceIfPresentFlag = r.octet("replace_if_present_flag")
	mb.DataCoding = r.octet("data_coding")
	mb.SmDefaultMsgId = r.octet("sm_default_msg_id")
	mb.SmLength = r.octet("sm_length")
	mb.ShortMessage = r.octets("short_message", int(mb.SmLength))
}

// Text returns the short message with trailing NULs stripped, decoded from
// UCS2 when data_coding says so.
func (mb *MessageBody) Text() string {
	if mb.DataCoding == DataCodingUCS2 {
		return comm.Ucs2Decode(mb.ShortMessage)
	}
	return string(bytes.TrimRight(mb.ShortMessage, "\x00"))
}

func (mb *MessageBody) String() string {
	return fmt.Sprintf("serviceType: %s, sourceAddr: %d/%d/%s, destinationAddr: %d/%d/%s, esmClass: %#x, protocolId: %d, priorityFlag: %d, "+
		"scheduleDeliveryTime: %s, validityPeriod: %s, registeredDelivery: %d, replaceIfPresentFlag: %d, dataCoding: %#x, smDefaultMsgId: %d, smLength: %d, shortMessage: %s",
		mb.ServiceType, mb.SourceAddrTon, mb.SourceAddrNpi, mb.SourceAddr, mb.DestAddrTon, mb.DestAddrNpi, mb.DestinationAddr,
		mb.EsmClass, mb.ProtocolId, mb.PriorityFlag, mb.ScheduleDeliveryTime, mb.ValidityPeriod, mb.RegisteredDelivery,
		mb.ReplaceIfPresentFlag, mb.DataCoding, mb.SmDefaultMsgId, mb.SmLength, mb.Text())
}
