package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/buglloc/adguard-rewriter/internal/hostname"
	"github.com/buglloc/adguard-rewriter/internal/localip"
	"github.com/buglloc/adguard-rewriter/internal/rewriter"
)

var syncArgs struct {
	dryRun   bool
	interval time.Duration
}

var syncCmd = &cobra.Command{
	Use:           "sync",
	SilenceUsage:  true,
	SilenceErrors: true,
	Short:         "Reconciles AdGuard Home rewrites with the current local IP",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		if syncArgs.dryRun {
			return dryRun(context.Background())
		}

		if syncArgs.interval <= 0 {
			return runOnce(context.Background())
		}

		return runLoop(syncArgs.interval)
	},
}

func init() {
	// registered on both so that bare invocation accepts them too
	for _, flags := range []*pflag.FlagSet{rootCmd.Flags(), syncCmd.Flags()} {
		flags.BoolVar(&syncArgs.dryRun, "dry-run", false, "resolve and validate only, don't touch AdGuard Home")
		flags.DurationVar(&syncArgs.interval, "interval", 0, "re-run at this interval until interrupted (0 = run once)")
	}
}

func runOnce(ctx context.Context) error {
	addr, err := localip.NewResolver().Resolve(ctx)
	if err != nil {
		return fmt.Errorf("resolve local IP: %w", err)
	}

	log.Info().Stringer("addr", addr).Msg("local IP resolved")

	client, err := rewriter.NewClient(
		rewriter.WithBaseURL(cfg.BaseURL()),
		rewriter.WithBasicAuth(cfg.Adguard.Username, cfg.Adguard.Password),
		rewriter.WithDebug(rootArgs.verbose),
	)
	if err != nil {
		return fmt.Errorf("create AdGuard Home client: %w", err)
	}

	outcome, err := rewriter.NewReconciler(client).Reconcile(ctx, cfg.HostnameList(), addr.String())
	if err != nil {
		return err
	}

	switch {
	case outcome.Full():
		log.Info().Int("total", outcome.Total()).Msg("all rewrites reconciled")
	case outcome.OK():
		log.Warn().
			Int("succeeded", outcome.Succeeded()).
			Int("total", outcome.Total()).
			Msg("rewrites partially reconciled")
	default:
		return errors.New("all hostnames failed to reconcile")
	}

	return nil
}

func dryRun(ctx context.Context) error {
	log.Info().Msg("dry run, no changes will be made")

	addr, err := localip.NewResolver().Resolve(ctx)
	if err != nil {
		return fmt.Errorf("resolve local IP: %w", err)
	}

	for _, name := range cfg.HostnameList() {
		if err := hostname.Validate(name); err != nil {
			log.Error().Err(err).Str("hostname", name).Msg("invalid hostname")
			continue
		}

		log.Info().Str("hostname", name).Stringer("addr", addr).Msg("would update rewrite")
	}

	return nil
}

func runLoop(interval time.Duration) error {
	if err := runOnce(context.Background()); err != nil {
		log.Error().Err(err).Msg("sync failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-ticker.C:
			if err := runOnce(context.Background()); err != nil {
				log.Error().Err(err).Msg("sync failed")
			}
		case <-stopChan:
			log.Info().Msg("shutting down gracefully by signal")
			return nil
		}
	}
}
