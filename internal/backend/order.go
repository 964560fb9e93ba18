package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Alturino/plantstore/order/request"
	"github.com/Alturino/plantstore/order/response"
	shippingRequest "github.com/Alturino/plantstore/shipping/request"
	shippingResponse "github.com/Alturino/plantstore/shipping/response"
)

func (cl *Client) CreateOrder(c context.Context, token string, param request.CreateOrder) (response.Order, error) {
	order := response.Order{}
	err := cl.do(c, http.MethodPost, "/api/orders", token, param, &order)
	return order, err
}

func (cl *Client) GetOrder(c context.Context, token string, id string) (response.Order, error) {
	order := response.Order{}
	err := cl.do(c, http.MethodGet, "/api/orders/"+url.PathEscape(id), token, nil, &order)
	return order, err
}

func (cl *Client) MyOrders(c context.Context, token string) ([]response.Order, error) {
	orders := []response.Order{}
	if err := cl.do(c, http.MethodGet, "/api/orders/myorders", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (cl *Client) PayOrder(
	c context.Context,
	token string,
	id string,
	param request.PaymentResult,
) (response.Order, error) {
	order := response.Order{}
	err := cl.do(c, http.MethodPut, "/api/orders/"+url.PathEscape(id)+"/pay", token, param, &order)
	return order, err
}

func (cl *Client) CreateProviderOrder(
	c context.Context,
	token string,
	param request.CreateProviderOrder,
) (response.ProviderOrder, error) {
	order := response.ProviderOrder{}
	err := cl.do(c, http.MethodPost, "/api/orders/razorpay", token, param, &order)
	return order, err
}

func (cl *Client) EstimateShipping(
	c context.Context,
	token string,
	param shippingRequest.Estimate,
) (shippingResponse.Estimate, error) {
	estimate := shippingResponse.Estimate{}
	err := cl.do(c, http.MethodPost, "/api/orders/shipping/estimate", token, param, &estimate)
	return estimate, err
}
