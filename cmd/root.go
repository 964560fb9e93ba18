package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Alturino/plantstore/internal/constants"
	"github.com/Alturino/plantstore/internal/log"
)

func Start() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Str(log.KeyAppName, constants.APP_MAIN_ECOMMERCE).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	configName := constants.APP_STOREFRONT
	rootCmd := &cobra.Command{Use: "ecommerce"}
	rootCmd.PersistentFlags().StringVar(&configName, "config", configName, "config file name under ./env")

	incidentsFlags := incidentsFlags{}
	incidentsCmd := &cobra.Command{
		Use:   "incidents",
		Short: "List payments that were captured without a recorded order",
		Run: func(cmd *cobra.Command, args []string) {
			runIncidents(cmd.Context(), configName, incidentsFlags)
		},
	}
	incidentsCmd.Flags().DurationVar(&incidentsFlags.since, "since", 24*time.Hour, "how far back to look")
	incidentsCmd.Flags().IntVar(&incidentsFlags.limit, "limit", 50, "maximum incidents to list")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "storefront",
			Short: "Run storefront service",
			Run: func(cmd *cobra.Command, args []string) {
				runStorefront(cmd.Context(), configName)
			},
		},
		incidentsCmd,
	)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
