package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inErrors "github.com/Alturino/plantstore/internal/errors"
	"github.com/Alturino/plantstore/internal/log"
	"github.com/Alturino/plantstore/order/request"
	shippingRequest "github.com/Alturino/plantstore/shipping/request"
	userRequest "github.com/Alturino/plantstore/user/request"
)

func newTestContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func TestClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/users/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		body := map[string]string{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"email": "asha@example.com", "password": "secret"}, body)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"_id":"u1","name":"Asha","email":"asha@example.com","token":"tok"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	session, err := client.Login(newTestContext(), userRequest.Login{Email: "asha@example.com", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, "u1", session.UserID)
	assert.Equal(t, "tok", session.Token)
}

func TestClient_RemoteErrors(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            string
		expectedCode    string
		expectedMessage string
	}{
		{
			name:            "mapped code",
			status:          http.StatusUnauthorized,
			body:            `{"errorCode":"INVALID_CREDENTIALS","message":"bad"}`,
			expectedCode:    inErrors.CodeInvalidCredentials,
			expectedMessage: "The email or password you entered is incorrect. Please try again.",
		},
		{
			name:            "unmapped code falls back to backend message",
			status:          http.StatusBadRequest,
			body:            `{"errorCode":"RATE_LIMITED","message":"Slow down"}`,
			expectedCode:    "RATE_LIMITED",
			expectedMessage: "Slow down",
		},
		{
			name:            "undecodable body falls back to generic message",
			status:          http.StatusInternalServerError,
			body:            `<html>oops</html>`,
			expectedCode:    inErrors.CodeUnknownError,
			expectedMessage: "Something went wrong. Please try again later.",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(test.status)
				w.Write([]byte(test.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, server.Client())
			_, err := client.Login(newTestContext(), userRequest.Login{Email: "a@b.c", Password: "x"})

			var remote *inErrors.RemoteError
			require.True(t, errors.As(err, &remote))
			assert.Equal(t, test.status, remote.StatusCode)
			assert.Equal(t, test.expectedCode, remote.Code)
			assert.Equal(t, test.expectedMessage, remote.UserMessage())
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, nil)
	_, err := client.ListPlants(newTestContext())

	var remote *inErrors.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Zero(t, remote.StatusCode)
	assert.Equal(t, inErrors.CodeUnknownError, remote.Code)
}

func TestClient_AuthenticatedCalls(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "req-9", r.Header.Get("X-Request-ID"))

		raw, _ := io.ReadAll(r.Body)
		received = map[string]interface{}{}
		json.Unmarshal(raw, &received)

		switch r.URL.Path {
		case "/api/orders/razorpay":
			w.Write([]byte(`{"id":"order_rzp_1","amount":52964,"currency":"INR"}`))
		case "/api/orders/shipping/estimate":
			w.Write([]byte(`{"shipping_cost":60,"tat":3}`))
		case "/api/orders/myorders":
			w.Write([]byte(`[{"_id":"o1","isPaid":true,"totalPrice":529.64}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	c := log.AttachRequestIDToContext(newTestContext(), "req-9")

	t.Run("provider order", func(t *testing.T) {
		order, err := client.CreateProviderOrder(c, "tok", request.CreateProviderOrder{Amount: decimal.RequireFromString("529.64")})
		require.NoError(t, err)
		assert.Equal(t, "order_rzp_1", order.ID)
		assert.Equal(t, "INR", order.Currency)
		assert.Contains(t, received, "amount")
	})

	t.Run("shipping estimate", func(t *testing.T) {
		estimate, err := client.EstimateShipping(c, "tok", shippingRequest.Estimate{
			PickupPostcode:   "110001",
			DeliveryPostcode: "560001",
			Weight:           1000,
		})
		require.NoError(t, err)
		require.NotNil(t, estimate.ShippingCost)
		assert.True(t, decimal.NewFromInt(60).Equal(*estimate.ShippingCost))
		assert.Equal(t, "3", estimate.TransitLabel())
		assert.Equal(t, "560001", received["delivery_postcode"])
		assert.EqualValues(t, 1000, received["weight"])
	})

	t.Run("my orders", func(t *testing.T) {
		orders, err := client.MyOrders(c, "tok")
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "o1", orders[0].ID)
		assert.True(t, orders[0].IsPaid)
	})
}
