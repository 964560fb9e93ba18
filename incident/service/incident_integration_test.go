package service

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/Alturino/plantstore/incident/request"
	"github.com/Alturino/plantstore/internal/config"
	"github.com/Alturino/plantstore/internal/infra"
	"github.com/Alturino/plantstore/internal/repository"
)

func setupIncidentService(t *testing.T) (*IncidentService, context.Context) {
	c := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())

	pgContainer, err := postgres.Run(
		c,
		"postgres:16.6-alpine3.21",
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.WithDatabase("storefront"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "failed running postgres container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(c, "sslmode=disable")
	require.NoError(t, err)

	pool, err := infra.NewPool(c, connStr, config.Database{})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, infra.Migrate(c, pool, "file://../../migrations"))

	return NewIncidentService(repository.New(pool)), c
}

func TestIncidentService_RecordAndList(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	svc, c := setupIncidentService(t)

	record := request.Record{
		ClientID:        "client-1",
		CheckoutID:      "checkout-1",
		PaymentID:       "pay_1",
		ProviderOrderID: "order_rzp_1",
		Email:           "asha@example.com",
		Amount:          decimal.RequireFromString("529.64"),
		Currency:        "INR",
		Reason:          "order rejected",
		Order:           map[string]interface{}{"paymentMethod": "Razorpay"},
	}
	incident, err := svc.Record(c, record)
	require.NoError(t, err)
	assert.Equal(t, "pay_1", incident.PaymentID)
	assert.True(t, decimal.RequireFromString("529.64").Equal(incident.Amount))

	record.Reason = "order rejected again"
	again, err := svc.Record(c, record)
	require.NoError(t, err)
	assert.Equal(t, incident.ID, again.ID, "the same payment should map to one incident")

	incidents, err := svc.List(c, request.List{Since: time.Now().Add(-time.Hour)})
	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, "order rejected again", incidents[0].Reason)

	order := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(incidents[0].Order, &order))
	assert.Equal(t, "Razorpay", order["paymentMethod"])
}
