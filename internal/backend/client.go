// Package backend is the REST client for the plant backend. Calls carry
// no client-side timeout; cancellation comes from the caller's context.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	inErrors "github.com/Alturino/plantstore/internal/errors"
	inHttp "github.com/Alturino/plantstore/internal/http"
	"github.com/Alturino/plantstore/internal/log"
	"github.com/Alturino/plantstore/internal/metrics"
	"github.com/Alturino/plantstore/internal/otel"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

type errorBody struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

// do sends body as json and decodes a 2xx response into out. Every failure
// is returned as *errors.RemoteError.
func (cl *Client) do(
	c context.Context,
	method string,
	path string,
	token string,
	body interface{},
	out interface{},
) error {
	endpoint := method + " " + path
	c, span := otel.Tracer.Start(
		c,
		"backend "+endpoint,
		trace.WithAttributes(attribute.String(log.KeyEndpoint, endpoint)),
	)
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "backend Client do").
		Str(log.KeyEndpoint, endpoint).
		Logger()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			err = &inErrors.RemoteError{Code: inErrors.CodeUnknownError, Err: fmt.Errorf("failed marshaling request body with error=%w", err)}
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(c, method, cl.baseURL+path, reader)
	if err != nil {
		err = &inErrors.RemoteError{Code: inErrors.CodeUnknownError, Err: fmt.Errorf("failed creating request with error=%w", err)}
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	req.Header.Set(inHttp.KEY_HEADER_CONTENT_TYPE, inHttp.VALUE_HEADER_APPLICATION_JSON)
	if token != "" {
		req.Header.Set(inHttp.KEY_HEADER_AUTHORIZATION, "Bearer "+token)
	}
	if requestID := log.RequestIDFromContext(c); requestID != "" {
		req.Header.Set(inHttp.KEY_HEADER_REQUEST_ID, requestID)
	}

	logger.Trace().Msg("sending request to backend")
	start := time.Now()
	resp, err := cl.httpClient.Do(req)
	if err != nil {
		metrics.BackendRequestDuration.WithLabelValues(endpoint, "transport_error").
			Observe(time.Since(start).Seconds())
		err = &inErrors.RemoteError{Code: inErrors.CodeUnknownError, Err: err}
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer resp.Body.Close()
	metrics.BackendRequestDuration.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).
		Observe(time.Since(start).Seconds())
	logger = logger.With().Int(log.KeyStatusCode, resp.StatusCode).Logger()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		eb := errorBody{}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&eb); decodeErr != nil {
			eb.ErrorCode = inErrors.CodeUnknownError
		}
		err = &inErrors.RemoteError{StatusCode: resp.StatusCode, Code: eb.ErrorCode, Message: eb.Message}
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	if out == nil {
		logger.Trace().Msg("received response from backend")
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		err = &inErrors.RemoteError{
			StatusCode: resp.StatusCode,
			Code:       inErrors.CodeUnknownError,
			Err:        fmt.Errorf("failed decoding response body with error=%w", err),
		}
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("received response from backend")

	return nil
}
