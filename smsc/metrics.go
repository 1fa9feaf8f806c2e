package smsc

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics provides Prometheus metrics for the SMPP session.
//
// All methods handle a nil receiver, so a Session built without metrics pays
// nothing for them.
type Metrics struct {
	// PdusReceived counts decoded inbound PDUs by command
	PdusReceived *prometheus.CounterVec

	// PdusSent counts PDUs written to the client by command
	PdusSent *prometheus.CounterVec

	// BindAttempts counts bind_transceiver requests by result (accepted, rejected)
	BindAttempts *prometheus.CounterVec

	// ConnectionsRejected counts connections refused by the allow list
	ConnectionsRejected prometheus.Counter

	// MalformedPdus counts frames the codec could not decode
	MalformedPdus prometheus.Counter

	// SessionBound is 1 while a client is bound
	SessionBound prometheus.Gauge
}

// NewMetrics creates and registers the session metrics. Pass a nil registerer
// to create them without registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PdusReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fakesmsc_smpp_pdus_received_total",
				Help: "Total inbound SMPP PDUs by command",
			},
			[]string{"command"},
		),

		PdusSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fakesmsc_smpp_pdus_sent_total",
				Help: "Total outbound SMPP PDUs by command",
			},
			[]string{"command"},
		),

		BindAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fakesmsc_smpp_bind_attempts_total",
				Help: "Total bind_transceiver requests by result (accepted, rejected)",
			},
			[]string{"result"},
		),

		ConnectionsRejected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fakesmsc_smpp_connections_rejected_total",
				Help: "Total connections refused by the allow list",
			},
		),

		MalformedPdus: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fakesmsc_smpp_malformed_pdus_total",
				Help: "Total frames that failed to decode",
			},
		),

		SessionBound: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "fakesmsc_smpp_session_bound",
				Help: "1 while a client is bound, 0 otherwise",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.PdusReceived,
			m.PdusSent,
			m.BindAttempts,
			m.ConnectionsRejected,
			m.MalformedPdus,
			m.SessionBound,
		)
	}

	return m
}

func (m *Metrics) RecordReceived(command string) {
	if m == nil {
		return
	}
	m.PdusReceived.WithLabelValues(command).Inc()
}

func (m *Metrics) RecordSent(command string) {
	if m == nil {
		return
	}
	m.PdusSent.WithLabelValues(command).Inc()
}

func (m *Metrics) RecordBind(accepted bool) {
	if m == nil {
		return
	}
	result := "accepted"
	if !accepted {
		result = "rejected"
	}
	m.BindAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordRejectedConnection() {
	if m == nil {
		return
	}
	m.ConnectionsRejected.Inc()
}

func (m *Metrics) RecordMalformed() {
	if m == nil {
		return
	}
	m.MalformedPdus.Inc()
}

func (m *Metrics) SetBound(bound bool) {
	if m == nil {
		return
	}
	if bound {
		m.SessionBound.Set(1)
	} else {
		m.SessionBound.Set(0)
	}
}
