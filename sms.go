package fakesmsc

// DeliverSms 下行到客户端的一条短信 (mobile-originated as seen by the client)
type DeliverSms struct {
	ShortMessage    string `json:"short-message"    yaml:"short-message"    validate:"required"`
	SourceAddr      string `json:"source-addr"      yaml:"source-addr"      validate:"max=20"`
	DestinationAddr string `json:"destination-addr" yaml:"destination-addr" validate:"max=20"`
	// 0x00 默认字母表，0x08 UCS2
	DataCoding byte `json:"data-coding" yaml:"data-coding" validate:"oneof=0 8"`
}
