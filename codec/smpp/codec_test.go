package smpp

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronwong1989/fakesmsc/comm"
)

func roundTrip(t *testing.T, pdu Pdu) Pdu {
	frame := Codec{}.Encode(pdu)
	t.Logf("%T : %x", pdu, frame)
	assert.Equal(t, uint32(len(frame)), binary.BigEndian.Uint32(frame[0:4]))

	got, err := Codec{}.Decode(frame)
	require.NoError(t, err)
	t.Logf("%T : %s", got, got)
	assert.IsType(t, pdu, got)
	assert.Equal(t, pdu.Header().CommandId, got.Header().CommandId)
	assert.Equal(t, pdu.Header().SequenceNumber, got.Header().SequenceNumber)
	assert.Equal(t, frame, got.Encode())
	return got
}

func TestBindTransceiver(t *testing.T) {
	bind := NewBindTransceiver(1, "client", "secret")
	bind.SystemType = "test"
	bind.AddressRange = "^1380"
	got := roundTrip(t, bind).(*BindTransceiver)
	assert.Equal(t, "client", got.SystemId)
	assert.Equal(t, "secret", got.Password)
	assert.Equal(t, "test", got.SystemType)
	assert.Equal(t, byte(InterfaceVersion), got.InterfaceVersion)
	assert.Equal(t, "^1380", got.AddressRange)
	assert.NotContains(t, got.String(), "secret")

	resp := roundTrip(t, bind.ToResponse(StatusOK)).(*BindTransceiverResp)
	assert.Equal(t, uint32(1), resp.SequenceNumber)
	assert.Equal(t, StatusOK, resp.Status())

	resp = roundTrip(t, NewBindTransceiverResp(2, StatusOK, "fakesmsc")).(*BindTransceiverResp)
	assert.Equal(t, "fakesmsc", resp.SystemId)
}

func TestBindTransceiverResp_EmptyBody(t *testing.T) {
	frame := (&MessageHeader{CommandId: CmdBindTransceiverResp, CommandStatus: 0x0e, SequenceNumber: 3}).Encode()
	pdu, err := Codec{}.Decode(frame)
	require.NoError(t, err)
	resp := pdu.(*BindTransceiverResp)
	assert.Equal(t, uint32(0x0e), resp.Status())
	assert.Empty(t, resp.SystemId)
}

func TestHeaderOnlyPdus(t *testing.T) {
	for _, pdu := range []Pdu{
		NewEnquireLink(5), NewEnquireLinkResp(5), NewUnbind(6), NewUnbindResp(6),
		&GenericNack{CommandId: CmdGenericNack, CommandStatus: 3, SequenceNumber: 7},
	} {
		got := roundTrip(t, pdu)
		assert.Equal(t, uint32(HeadLength), got.Header().CommandLength)
	}

	el := roundTrip(t, NewEnquireLink(8)).(*EnquireLink)
	assert.Equal(t, uint32(8), el.ToResponse(StatusOK).Header().SequenceNumber)
	assert.Equal(t, CmdEnquireLinkResp, el.ToResponse(StatusOK).Header().CommandId)
	ub := roundTrip(t, NewUnbind(9)).(*Unbind)
	assert.Equal(t, CmdUnbindResp, ub.ToResponse(StatusOK).Header().CommandId)
}

func TestSubmitSm(t *testing.T) {
	sub := NewSubmitSm(10, "1234", "5678", []byte("HELLO"))
	sub.RegisteredDelivery = 1
	sub.ValidityPeriod = "000001000000000R"
	got := roundTrip(t, sub).(*SubmitSm)
	assert.Equal(t, "1234", got.SourceAddr)
	assert.Equal(t, "5678", got.DestinationAddr)
	assert.Equal(t, byte(5), got.SmLength)
	assert.Equal(t, "HELLO", got.Text())
	assert.Equal(t, byte(1), got.RegisteredDelivery)
	assert.Equal(t, "000001000000000R", got.ValidityPeriod)

	resp := roundTrip(t, NewSubmitSmResp(10, "0000abcd")).(*SubmitSmResp)
	assert.Equal(t, "0000abcd", resp.MessageId)
	assert.Equal(t, CmdSubmitSmResp, sub.ToResponse(StatusOK).Header().CommandId)
}

func TestDeliverSm(t *testing.T) {
	dly := NewDeliverSm(11, "1234", "5678", DataCodingDefault, []byte("PING"))
	got := roundTrip(t, dly).(*DeliverSm)
	assert.Equal(t, byte(4), got.SmLength)
	assert.Equal(t, "PING", got.Text())
	assert.Equal(t, "1234", got.SourceAddr)
	assert.Equal(t, "5678", got.DestinationAddr)

	ucs := NewDeliverSm(12, "1", "2", DataCodingUCS2, comm.Ucs2Encode("中国"))
	got = roundTrip(t, ucs).(*DeliverSm)
	assert.Equal(t, "中国", got.Text())

	resp := roundTrip(t, dly.ToResponse(StatusOK)).(*DeliverSmResp)
	assert.Equal(t, uint32(11), resp.SequenceNumber)
	roundTrip(t, NewDeliverSmResp(13))
}

func TestMessageBody_TextStripsNul(t *testing.T) {
	sub := NewSubmitSm(1, "1", "2", []byte("HELLO\x00\x00"))
	assert.Equal(t, "HELLO", sub.Text())
}

func TestMessageBody_TruncatesLongMessage(t *testing.T) {
	dly := NewDeliverSm(1, "1", "2", DataCodingDefault, []byte(strings.Repeat("x", 300)))
	got := roundTrip(t, dly).(*DeliverSm)
	assert.Equal(t, byte(MaxShortMessage), got.SmLength)
	assert.Len(t, got.ShortMessage, MaxShortMessage)
}

func TestMessageBody_SkipsTlvs(t *testing.T) {
	frame := NewSubmitSm(2, "1", "2", []byte("HI")).Encode()
	tlv := []byte{0x02, 0x04, 0x00, 0x02, 0x00, 0x01} // user_message_reference
	frame = append(frame, tlv...)
	binary.BigEndian.PutUint32(frame[0:4], uint32(len(frame)))

	pdu, err := Codec{}.Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, "HI", pdu.(*SubmitSm).Text())
}

func TestGeneric(t *testing.T) {
	g := &Generic{MessageHeader: &MessageHeader{CommandId: 0x103, SequenceNumber: 4}, Body: []byte{1, 2, 3}}
	got := roundTrip(t, g).(*Generic)
	assert.Equal(t, []byte{1, 2, 3}, got.Body)
	assert.Equal(t, "0x00000103", got.Command())
}

func TestCodec_Malformed(t *testing.T) {
	valid := NewBindTransceiver(1, "client", "secret").Encode()

	tooLong := make([]byte, MaxPduLength+1)
	binary.BigEndian.PutUint32(tooLong, MaxPduLength+1)

	lengthMismatch := append([]byte{}, valid...)
	binary.BigEndian.PutUint32(lengthMismatch, uint32(len(valid)+1))

	noTerminator := (&MessageHeader{CommandId: CmdBindTransceiver}).Encode()
	noTerminator = append(noTerminator, []byte("client")...)
	binary.BigEndian.PutUint32(noTerminator, uint32(len(noTerminator)))

	overlong := (&MessageHeader{CommandId: CmdBindTransceiver}).Encode()
	overlong = append(overlong, []byte(strings.Repeat("s", 20)+"\x00")...)
	binary.BigEndian.PutUint32(overlong, uint32(len(overlong)))

	shortMessage := NewSubmitSm(1, "1", "2", []byte("HELLO")).Encode()
	shortMessage = shortMessage[:len(shortMessage)-2]
	binary.BigEndian.PutUint32(shortMessage, uint32(len(shortMessage)))

	for name, frame := range map[string][]byte{
		"short header":    valid[:8],
		"too long":        tooLong,
		"length mismatch": lengthMismatch,
		"no terminator":   noTerminator,
		"overlong field":  overlong,
		"truncated sm":    shortMessage,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Codec{}.Decode(frame)
			assert.True(t, errors.Is(err, ErrMalformedPdu), "%v", err)
		})
	}
}
