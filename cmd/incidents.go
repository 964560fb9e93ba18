package cmd

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/Alturino/plantstore/incident/request"
	"github.com/Alturino/plantstore/incident/service"
	"github.com/Alturino/plantstore/internal/config"
	"github.com/Alturino/plantstore/internal/constants"
	"github.com/Alturino/plantstore/internal/infra"
	"github.com/Alturino/plantstore/internal/log"
	"github.com/Alturino/plantstore/internal/repository"
)

type incidentsFlags struct {
	since time.Duration
	limit int
}

// runIncidents prints the reconciliation ledger as json lines for support
// to refund or record by hand.
func runIncidents(c context.Context, configName string, flags incidentsFlags) {
	cfg := config.InitConfig(c, configName)

	logger := log.InitLogger(cfg.LogOptions()).
		With().
		Str(log.KeyAppName, constants.APP_INCIDENTS).
		Str(log.KeyTag, "main runIncidents").
		Logger()
	c = logger.WithContext(c)

	db := infra.NewDatabaseClient(c, cfg.Database)
	defer db.Close()

	svc := service.NewIncidentService(repository.New(db))
	incidents, err := svc.List(c, request.List{
		Since: time.Now().Add(-flags.since),
		Limit: flags.limit,
	})
	if err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return
	}

	encoder := json.NewEncoder(os.Stdout)
	for _, incident := range incidents {
		if err := encoder.Encode(incident); err != nil {
			logger.Error().Err(err).Msg(err.Error())
			return
		}
	}
	logger.Info().Int(log.KeyIncidents, len(incidents)).Msg("listed incidents")
}
