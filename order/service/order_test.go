package service

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/plantstore/internal/config"
	inErrors "github.com/Alturino/plantstore/internal/errors"
	"github.com/Alturino/plantstore/internal/validate"
	"github.com/Alturino/plantstore/order/request"
	"github.com/Alturino/plantstore/order/response"
	userResponse "github.com/Alturino/plantstore/user/response"
)

type fakeHistoryClient struct {
	tokens []string
	paid   []request.PaymentResult
	orders []response.Order
	err    error
}

func (f *fakeHistoryClient) MyOrders(c context.Context, token string) ([]response.Order, error) {
	f.tokens = append(f.tokens, token)
	return f.orders, f.err
}

func (f *fakeHistoryClient) GetOrder(c context.Context, token string, id string) (response.Order, error) {
	f.tokens = append(f.tokens, token)
	if f.err != nil {
		return response.Order{}, f.err
	}
	return response.Order{ID: id}, nil
}

func (f *fakeHistoryClient) PayOrder(
	c context.Context,
	token string,
	id string,
	param request.PaymentResult,
) (response.Order, error) {
	f.tokens = append(f.tokens, token)
	f.paid = append(f.paid, param)
	return response.Order{ID: id, IsPaid: true, PaymentResult: &param}, f.err
}

type fakeSessions struct {
	session *userResponse.Session
}

func (f fakeSessions) RequireSession(c context.Context, clientID string) (userResponse.Session, error) {
	if f.session == nil {
		return userResponse.Session{}, inErrors.ErrNoSession
	}
	return *f.session, nil
}

var (
	checkoutConfig = config.Checkout{TaxRate: "0.18", Currency: "INR", PhoneDigits: 10, PostalCodeDigits: 6}
	session        = &userResponse.Session{UserID: "u-1", Email: "asha@example.com", Token: "tok-1"}
)

func newTestContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func TestOrderService_RequiresSession(t *testing.T) {
	c := newTestContext()
	client := &fakeHistoryClient{}
	svc := NewOrderService(client, fakeSessions{}, validate.New(checkoutConfig), checkoutConfig)

	_, err := svc.MyOrders(c, "client-1")
	require.ErrorIs(t, err, inErrors.ErrNoSession)
	_, err = svc.GetOrder(c, "client-1", "order-1")
	require.ErrorIs(t, err, inErrors.ErrNoSession)
	_, err = svc.PayOrder(c, "client-1", "order-1", request.PayOrder{PaymentID: "pay_1"})
	require.ErrorIs(t, err, inErrors.ErrNoSession)

	assert.Empty(t, client.tokens, "the backend should not be called without a session")
}

func TestOrderService_MyOrders(t *testing.T) {
	c := newTestContext()
	client := &fakeHistoryClient{orders: []response.Order{{ID: "order-1"}, {ID: "order-2"}}}
	svc := NewOrderService(client, fakeSessions{session: session}, validate.New(checkoutConfig), checkoutConfig)

	orders, err := svc.MyOrders(c, "client-1")

	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, []string{"tok-1"}, client.tokens)
}

func TestOrderService_GetOrderRemoteError(t *testing.T) {
	c := newTestContext()
	client := &fakeHistoryClient{err: &inErrors.RemoteError{StatusCode: http.StatusNotFound, Message: "Order not found"}}
	svc := NewOrderService(client, fakeSessions{session: session}, validate.New(checkoutConfig), checkoutConfig)

	_, err := svc.GetOrder(c, "client-1", "order-9")

	var remote *inErrors.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusNotFound, remote.StatusCode)
}

func TestOrderService_PayOrder(t *testing.T) {
	tests := []struct {
		name   string
		param  request.PayOrder
		status string
		err    bool
	}{
		{name: "default status", param: request.PayOrder{PaymentID: "pay_1"}, status: "COMPLETED"},
		{name: "explicit status", param: request.PayOrder{PaymentID: "pay_1", Status: "CAPTURED"}, status: "CAPTURED"},
		{name: "missing payment id", param: request.PayOrder{}, err: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := newTestContext()
			client := &fakeHistoryClient{}
			svc := NewOrderService(client, fakeSessions{session: session}, validate.New(checkoutConfig), checkoutConfig)

			order, err := svc.PayOrder(c, "client-1", "order-1", test.param)

			if test.err {
				var validation *inErrors.ValidationError
				require.ErrorAs(t, err, &validation)
				assert.Equal(t, "is required", validation.Fields["paymentId"])
				assert.Empty(t, client.paid)
				return
			}
			require.NoError(t, err)
			assert.True(t, order.IsPaid)
			require.Len(t, client.paid, 1)
			assert.Equal(t, "pay_1", client.paid[0].ID)
			assert.Equal(t, test.status, client.paid[0].Status)
			assert.Equal(t, "asha@example.com", client.paid[0].EmailAddress)
			assert.NotEmpty(t, client.paid[0].UpdateTime)
		})
	}
}
