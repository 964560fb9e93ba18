package controller

import (
	"net/http"

	"github.com/gorilla/mux"

	inHttp "github.com/Alturino/plantstore/internal/http"
	"github.com/Alturino/plantstore/internal/otel"
	"github.com/Alturino/plantstore/internal/token"
	"github.com/Alturino/plantstore/order/request"
	"github.com/Alturino/plantstore/order/service"
)

type OrderController struct {
	service *service.OrderService
}

func AttachOrderController(router *mux.Router, service *service.OrderService) {
	controller := OrderController{service: service}

	orderRouter := router.PathPrefix("/orders").Subrouter()
	orderRouter.HandleFunc("", controller.MyOrders).Methods(http.MethodGet)
	orderRouter.HandleFunc("/{orderId}", controller.GetOrder).Methods(http.MethodGet)
	orderRouter.HandleFunc("/{orderId}/pay", controller.PayOrder).Methods(http.MethodPut)
}

func (ctrl OrderController) MyOrders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController MyOrders")
	defer span.End()

	clientID, _ := token.ClientIDFromContext(c)
	orders, err := ctrl.service.MyOrders(c, clientID)
	if err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully found orders",
		"data":       map[string]interface{}{"orders": orders},
	})
}

func (ctrl OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController GetOrder")
	defer span.End()

	clientID, _ := token.ClientIDFromContext(c)
	order, err := ctrl.service.GetOrder(c, clientID, mux.Vars(r)["orderId"])
	if err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully found order",
		"data":       map[string]interface{}{"order": order},
	})
}

func (ctrl OrderController) PayOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController PayOrder")
	defer span.End()

	reqBody := request.PayOrder{}
	if err := inHttp.DecodeJson(r, &reqBody); err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	clientID, _ := token.ClientIDFromContext(c)
	order, err := ctrl.service.PayOrder(c, clientID, mux.Vars(r)["orderId"], reqBody)
	if err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully paid order",
		"data":       map[string]interface{}{"order": order},
	})
}
