package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestFormSubmissionsCounter(t *testing.T) {
	c := FormSubmissions.WithLabelValues(FormBetaSignup, OutcomeCreated)
	before := testutil.ToFloat64(c)
	c.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestObserveWrite(t *testing.T) {
	before := testutil.CollectAndCount(StoreWriteDuration)
	ObserveWrite("metrics-test", time.Now().Add(-time.Millisecond))
	assert.Equal(t, before+1, testutil.CollectAndCount(StoreWriteDuration))
}
