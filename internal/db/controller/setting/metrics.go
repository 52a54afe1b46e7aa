package setting

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opUpsert = "upsert"
	opDelete = "delete"
)

var writesTotal = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "settings_writes_total",
		Help: "Number of committed settings writes, differentiated by operation.",
	},
	[]string{"operation"},
)
