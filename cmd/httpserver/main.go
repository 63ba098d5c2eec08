package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/ruteri/eas-attestation-api/api/attesthandler"
	"github.com/ruteri/eas-attestation-api/cmd/flags"
	"github.com/ruteri/eas-attestation-api/common"
	"github.com/ruteri/eas-attestation-api/easclient"
	"github.com/ruteri/eas-attestation-api/events"
	"github.com/ruteri/eas-attestation-api/httpserver"
	"github.com/ruteri/eas-attestation-api/metrics"
	"github.com/ruteri/eas-attestation-api/storage"
	"github.com/urfave/cli/v2"
)

const amqpDialRetries = 5

func main() {
	app := &cli.App{
		Name:    "eas-attestation-server",
		Usage:   "Serve the EAS schema and attestation API",
		Version: common.Version,
		Flags:   slices.Concat(flags.LogFlags, flags.ServerFlags, flags.EASFlags, flags.ReceiptFlags),
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)
			serverCfg := flags.ConfigureServer(cCtx, logger)
			easCfg := flags.ConfigureEAS(cCtx)
			receiptCfg := flags.ConfigureReceipts(cCtx)

			registry := prometheus.NewRegistry()
			m := metrics.InitMetrics(common.PackageName, registry)

			ctx, cancel := context.WithTimeout(cCtx.Context, 30*time.Second)
			defer cancel()

			logger.Info("Connecting to Ethereum RPC")
			easClient, err := easclient.NewFromConfig(ctx, logger, easCfg)
			if err != nil {
				logger.Error("Failed to create EAS client", "err", err)
				return err
			}
			defer easClient.Close()
			easClient.SetMetrics(m)

			opts := []attesthandler.Option{
				attesthandler.WithMetrics(m),
				attesthandler.WithDefaultRecipient(easCfg.Recipient()),
			}

			archive, err := storage.NewReceiptArchiveFromURIs(receiptCfg.StorageURIs, logger)
			if err != nil {
				logger.Error("Failed to configure receipt storage", "err", err)
				return err
			}
			if archive != nil {
				opts = append(opts, attesthandler.WithArchive(archive))
			}

			if receiptCfg.AMQPURL != "" {
				publisher, err := events.Dial(ctx, logger, receiptCfg.AMQPURL, receiptCfg.Exchange, amqpDialRetries)
				if err != nil {
					logger.Error("Failed to connect to AMQP broker", "err", err)
					return err
				}
				defer publisher.Close()
				opts = append(opts, attesthandler.WithPublisher(publisher))
			}

			handler := attesthandler.NewHandler(easClient, logger, opts...)
			server := httpserver.New(serverCfg, handler, m, registry)

			logger.Info("Starting server")
			server.RunInBackground()

			// Wait for termination signal
			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

			logger.Info("Server is running, press Ctrl+C to stop")
			<-exit
			logger.Info("Shutdown signal received")

			server.Shutdown()
			logger.Info("Server shutdown complete")

			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
