package payment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaikhana/backend/internal/config"
	"github.com/chaikhana/backend/internal/payment"
)

func newGateway(url string, timeout time.Duration) *payment.HTTPGateway {
	return payment.NewHTTPGateway(config.PaymentConfig{
		URL:     url,
		APIKey:  "test-key",
		Timeout: timeout,
	})
}

func TestHTTPGateway_Success(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "message": "charged"})
	}))
	defer srv.Close()

	gw := newGateway(srv.URL, time.Second)
	orderID := uuid.Must(uuid.NewV4())

	result, err := gw.AttemptCharge(context.Background(), orderID, 120000, "order")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, orderID.String(), gotBody["order_id"])
	assert.Equal(t, float64(120000), gotBody["amount"])
}

func TestHTTPGateway_Declined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "insufficient funds"})
	}))
	defer srv.Close()

	gw := newGateway(srv.URL, time.Second)

	result, err := gw.AttemptCharge(context.Background(), uuid.Must(uuid.NewV4()), 120000, "order")
	require.NoError(t, err, "a decline is a failure outcome, not an error")

	assert.False(t, result.Success)
	assert.Equal(t, "insufficient funds", result.Message)
}

func TestHTTPGateway_Timeout_IsFailureOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	gw := newGateway(srv.URL, 20*time.Millisecond)

	result, err := gw.AttemptCharge(context.Background(), uuid.Must(uuid.NewV4()), 120000, "order")
	require.NoError(t, err, "a timeout is a failure outcome, not an error")

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "did not respond in time")
}

func TestHTTPGateway_UnreachableProcessor(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	gw := newGateway(srv.URL, time.Second)

	result, err := gw.AttemptCharge(context.Background(), uuid.Must(uuid.NewV4()), 120000, "order")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "unreachable")
}

func TestHTTPGateway_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>502</html>"))
	}))
	defer srv.Close()

	gw := newGateway(srv.URL, time.Second)

	result, err := gw.AttemptCharge(context.Background(), uuid.Must(uuid.NewV4()), 120000, "order")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
}
