package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"text2phenotype.com/ner/api"
	"text2phenotype.com/ner/logger"
	"text2phenotype.com/ner/pipeline"
	"text2phenotype.com/ner/worker"
)

const workerRestartDelay = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over HTTP and/or as an AMQP worker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			serveLogger := logger.NewLogger("Serve")

			if !a.env.RestAPIActive && !a.env.WorkerActive {
				return errors.New("nothing to serve, enable NER_REST_API_ACTIVE or NER_WORKER_ACTIVE")
			}

			bundle, err := a.loadBundle(cmd.Context())
			if err != nil {
				return err
			}
			stem, err := a.stemmer()
			if err != nil {
				return err
			}
			ppln, err := pipeline.FromBundle(bundle, stem, a.cfg.POSBeam)
			if err != nil {
				return err
			}
			serveLogger.Info().Str("fingerprint", bundle.Fingerprint).Msg("Pipeline loaded")

			errCh := make(chan error, 2)
			if a.env.RestAPIActive {
				go func() {
					host := fmt.Sprintf(":%s", a.env.RestAPIPort)
					serveLogger.Info().Msgf("REST API on %s", host)
					errCh <- http.ListenAndServe(host, api.NewServeMux(&api.Request{Pipeline: ppln}))
				}()
			}
			if a.env.WorkerActive {
				go func() {
					errCh <- runWorker(cmd.Context(), ppln)
				}()
			}
			return <-errCh
		},
	}
}

// runWorker restarts the AMQP worker until it cannot be created or ctx is done.
func runWorker(ctx context.Context, ppln pipeline.Pipeline) error {
	workerLogger := logger.NewLogger("Worker loop")
	workerLogger.Info().Msg("Start NER Worker")
	for {
		rmqWorker, err := worker.New(ppln)
		if err != nil {
			return fmt.Errorf("could not initialize RMQ worker: %w", err)
		}
		err = rmqWorker.Run(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		workerLogger.Err(err).Msgf("Worker returned with error. Launching new in %s", workerRestartDelay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(workerRestartDelay):
		}
	}
}
