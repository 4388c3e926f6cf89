package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(ReviewsCreated)
	ReviewsCreated.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ReviewsCreated))

	skipped := ImportRecords.WithLabelValues("skipped")
	before = testutil.ToFloat64(skipped)
	skipped.Add(3)
	assert.Equal(t, before+3, testutil.ToFloat64(skipped))
}

func TestRecordHTTPRequest(t *testing.T) {
	c := HTTPRequestsTotal.WithLabelValues("GET", "/movie/:id", "200")
	before := testutil.ToFloat64(c)
	RecordHTTPRequest("GET", "/movie/:id", "200", 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}
