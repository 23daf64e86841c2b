package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swconn_party_lookups_total",
			Help: "Party lookup lifecycle counter by stage",
		},
		[]string{"stage"}, // received|process_started|simulated|dispatched|answer_sent
	)

	CallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swconn_party_callbacks_total",
			Help: "Parties callbacks by correlation result",
		},
		[]string{"result"}, // success|error|dangling|duplicate
	)

	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swconn_process_signals_total",
			Help: "Process resume signals by delivery status",
		},
		[]string{"status"}, // published|missed
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		LookupsTotal,
		CallbacksTotal,
		SignalsTotal,
	)
}
