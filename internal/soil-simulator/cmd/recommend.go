package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
	"github.com/LeonardoBeccarini/kisan_yatra/internal/scoring"
	"github.com/LeonardoBeccarini/kisan_yatra/internal/services/scorer"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/breaker"
)

type recommendOutput struct {
	Location string                        `json:"location,omitempty"`
	Region   string                        `json:"region,omitempty"`
	Path     scoring.Path                  `json:"path"`
	Crops    []entities.CropRecommendation `json:"crops"`
}

func newRecommendCmd() *cobra.Command {
	var (
		r       entities.SoilReading
		addr    string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Score a soil reading and print the ranked crops as JSON",
		Example: `  kisanctl recommend --nitrogen 50 --phosphorus 30 --potassium 40 --ph 6.2 \
    --moisture 40 --water 80 --location Chennai`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				res scoring.Result
				err error
			)
			if addr != "" {
				res, err = recommendRemote(cmd.Context(), addr, timeout, r)
			} else {
				res, err = recommendLocal(cmd, r)
			}
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(recommendOutput{Location: r.Location, Region: res.Region, Path: res.Path, Crops: res.Crops})
		},
	}
	f := cmd.Flags()
	f.Float64Var(&r.Nitrogen, "nitrogen", 0, "nitrogen, kg/ha")
	f.Float64Var(&r.Phosphorus, "phosphorus", 0, "phosphorus, kg/ha")
	f.Float64Var(&r.Potassium, "potassium", 0, "potassium, kg/ha")
	f.Float64Var(&r.PH, "ph", 0, "soil pH")
	f.Float64Var(&r.SoilMoisture, "moisture", 0, "soil moisture, %")
	f.Float64Var(&r.WaterAvailability, "water", 0, "water availability, %")
	f.StringVar(&r.Location, "location", "", "free text location, e.g. \"Ludhiana, Punjab\"")
	f.StringVar(&addr, "scorer-addr", "", "score on a remote scorer (host:port) instead of in-process")
	f.DurationVar(&timeout, "timeout", 2*time.Second, "remote scoring timeout")
	for _, name := range []string{"nitrogen", "phosphorus", "potassium", "ph", "moisture", "water"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func recommendLocal(cmd *cobra.Command, r entities.SoilReading) (scoring.Result, error) {
	path, _ := cmd.Flags().GetString("tables")
	sc, err := scorer.LoadScorer(path, zap.NewNop())
	if err != nil {
		return scoring.Result{}, err
	}
	return sc.Recommend(r), nil
}

func recommendRemote(ctx context.Context, addr string, timeout time.Duration, r entities.SoilReading) (scoring.Result, error) {
	conn, err := scorer.Dial(addr)
	if err != nil {
		return scoring.Result{}, fmt.Errorf("dial scorer: %w", err)
	}
	defer conn.Close()
	cb := breaker.New("scorer", breaker.Settings{IsSuccessful: scorer.CountsAsSuccess}, nil, nil)
	return scorer.NewClient(conn, cb, timeout).Recommend(ctx, r)
}
