package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	soilsim "github.com/LeonardoBeccarini/kisan_yatra/internal/soil-simulator"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/httpx"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/logging"
)

func newSimulateCmd() *cobra.Command {
	var cfg soilsim.Config
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Post simulated soil readings to the recommendation service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logging.New("soil-simulator")
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info("simulator starting",
				zap.String("api", cfg.APIBase),
				zap.String("user", cfg.UserID),
				zap.String("location", cfg.Site.Location),
				zap.Duration("interval", cfg.Interval))
			sent, err := soilsim.NewSimulator(cfg, soilsim.NewGenerator(), nil, log).Start(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "sent %d readings\n", sent)
			if err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.APIBase, "api", "http://localhost:8082", "recommendation service base URL")
	f.StringVar(&cfg.UserID, "user", "sim-farmer", "user id sent as "+httpx.UserHeader)
	f.Float64Var(&cfg.Site.Latitude, "lat", 30.901, "latitude, seeds the soil from SoilGrids")
	f.Float64Var(&cfg.Site.Longitude, "lon", 75.857, "longitude")
	f.StringVar(&cfg.Site.Location, "location", "Ludhiana, Punjab", "location sent with every reading")
	f.DurationVar(&cfg.Interval, "interval", 10*time.Second, "publish interval")
	f.IntVar(&cfg.Count, "count", 0, "stop after this many readings, 0 runs until interrupted")
	return cmd
}
