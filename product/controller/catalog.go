package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inHttp "github.com/Alturino/plantstore/internal/http"
	"github.com/Alturino/plantstore/internal/log"
	"github.com/Alturino/plantstore/internal/otel"
	"github.com/Alturino/plantstore/product/request"
	"github.com/Alturino/plantstore/product/service"
)

type CatalogController struct {
	service *service.CatalogService
}

// AttachCatalogController mounts the read only catalog routes. They need
// no client token.
func AttachCatalogController(router *mux.Router, service *service.CatalogService) {
	controller := CatalogController{service: service}

	router.HandleFunc("/plants", controller.ListPlants).Methods(http.MethodGet)
	router.HandleFunc("/plants/{plantId}", controller.GetPlant).Methods(http.MethodGet)
	router.HandleFunc("/categories/avatars", controller.CategoryAvatars).Methods(http.MethodGet)
}

func (ctrl CatalogController) ListPlants(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController ListPlants")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogController ListPlants").
		Logger()

	plants, err := ctrl.service.ListPlants(c)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Int(log.KeyPlants, len(plants)).Msg("found plants")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully found plants",
		"data":       map[string]interface{}{"plants": plants},
	})
}

func (ctrl CatalogController) GetPlant(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController GetPlant")
	defer span.End()

	param := request.FindPlant{ID: mux.Vars(r)["plantId"]}
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogController GetPlant").
		Str(log.KeyProductID, param.ID).
		Logger()

	plant, err := ctrl.service.GetPlant(c, param.ID)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully found plant",
		"data":       map[string]interface{}{"plant": plant},
	})
}

func (ctrl CatalogController) CategoryAvatars(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController CategoryAvatars")
	defer span.End()

	avatars, err := ctrl.service.CategoryAvatars(c)
	if err != nil {
		otel.RecordError(err, span)
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully found category avatars",
		"data":       map[string]interface{}{"categories": avatars},
	})
}
