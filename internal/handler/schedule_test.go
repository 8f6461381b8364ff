package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRange(t *testing.T) {
	h := testHandler(t)
	h.location = time.UTC

	req := httptest.NewRequest(http.MethodGet, "/?from=2024-03-04&to=2024-03-10", nil)
	from, to, err := h.dateRange(req)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", from.Format(time.DateOnly))
	assert.Equal(t, "2024-03-10", to.Format(time.DateOnly))
	assert.Equal(t, time.UTC, from.Location())

	// The time-log window is half-open, so the endpoint widens the upper
	// bound by one day to keep the to date inclusive.
	assert.Equal(t, "2024-03-11", to.AddDate(0, 0, 1).Format(time.DateOnly))

	_, _, err = h.dateRange(httptest.NewRequest(http.MethodGet, "/?from=yesterday&to=2024-03-10", nil))
	assert.EqualError(t, err, "invalid from date")

	_, _, err = h.dateRange(httptest.NewRequest(http.MethodGet, "/?from=2024-03-04", nil))
	assert.EqualError(t, err, "invalid to date")
}
