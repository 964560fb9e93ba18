package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/Alturino/plantstore/internal/constants"
)

var Tracer = otel.Tracer(constants.APP_STOREFRONT)
