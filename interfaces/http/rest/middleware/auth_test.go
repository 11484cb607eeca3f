package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lambdaRequest(userID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	req.Header.Set("X-API-Gateway-Authorized", "true")
	req.Header.Set("X-User-ID", userID)
	return req
}

func TestAuthenticateForLambdaMissingAuthorization(t *testing.T) {
	handler := AuthenticateForLambda()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateForLambdaThrottlesPerUser(t *testing.T) {
	handler := AuthenticateForLambda()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var throttled *httptest.ResponseRecorder
	for i := 0; i < userRequestsPerMinute+50; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, lambdaRequest("heavy-user"))
		if rec.Code == http.StatusTooManyRequests {
			throttled = rec
			break
		}
		require.Equal(t, http.StatusOK, rec.Code)
	}
	require.NotNil(t, throttled, "expected the user budget to run out")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(throttled.Body.Bytes(), &body))
	assert.Equal(t, "RATE_LIMIT", body["type"])
	assert.Equal(t, float64(http.StatusTooManyRequests), body["code"])

	// another user starts with a fresh budget
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, lambdaRequest("light-user"))
	assert.Equal(t, http.StatusOK, rec.Code)
}
