package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"feedhub/internal/aggregator"
	"feedhub/internal/publisher"
	"feedhub/internal/scheduler"
	"feedhub/internal/service"
	"feedhub/internal/storage/postgres"
)

func newPollCmd(configPath *string) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Poll linked accounts and publish new posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.db.Close()

			rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
				URL:        a.cfg.RabbitMQ.URL,
				Exchange:   a.cfg.RabbitMQ.Exchange,
				RoutingKey: a.cfg.RabbitMQ.RoutingKey,
				QueueName:  a.cfg.RabbitMQ.QueueName,
			}, a.logger)
			if err != nil {
				a.logger.Error("failed to connect to rabbitmq", "error", err)
				return err
			}
			defer rabbitMQ.Close()

			pollCfg := a.cfg.Poll
			if len(pollCfg.Providers) == 0 {
				pollCfg.Providers = a.registry.Names()
			}

			pollService := service.NewPollService(
				postgres.NewAccountStore(a.db),
				postgres.NewCursorStateStore(a.db),
				aggregator.NewFetcher(a.registry, a.logger),
				postgres.NewTxRunner(a.db),
				rabbitMQ,
				a.logger,
				pollCfg,
			)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if once {
				stats, err := pollService.Poll(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "accounts=%d fetched=%d published=%d errors=%d duration=%s\n",
					stats.Accounts, stats.Fetched, stats.Published, stats.Errors, stats.Duration)
				return nil
			}

			a.logger.Info("starting poller",
				"providers", pollCfg.Providers,
				"interval", pollCfg.Interval,
				"page_size", pollCfg.PageSize,
			)

			sched := scheduler.NewScheduler(pollService, pollCfg.Interval, pollCfg.Timeout, a.logger)
			if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("scheduler error", "error", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "run a single poll and exit")

	return cmd
}
