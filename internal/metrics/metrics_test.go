package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type staticSessions int

func (s staticSessions) Count() int { return int(s) }

func TestRecordIntent(t *testing.T) {
	before := testutil.ToFloat64(intentsTotal.WithLabelValues("greeting"))

	RecordIntent("greeting")
	RecordIntent("greeting")

	assert.Equal(t, before+2, testutil.ToFloat64(intentsTotal.WithLabelValues("greeting")))
}

func TestRecordStorageError(t *testing.T) {
	before := testutil.ToFloat64(storageErrorsTotal.WithLabelValues("search_products"))

	RecordStorageError("search_products")

	assert.Equal(t, before+1, testutil.ToFloat64(storageErrorsTotal.WithLabelValues("search_products")))
}

func TestRecordOfflineResponse(t *testing.T) {
	before := testutil.ToFloat64(offlineResponsesTotal)

	RecordOfflineResponse()

	assert.Equal(t, before+1, testutil.ToFloat64(offlineResponsesTotal))
}

func TestSessionCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(&SessionCollector{sessions: staticSessions(3)})

	expected := `
# HELP shoemart_active_sessions Number of chat sessions currently held in memory
# TYPE shoemart_active_sessions gauge
shoemart_active_sessions 3
`
	assert.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "shoemart_active_sessions"))
}
