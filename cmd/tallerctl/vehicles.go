package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gosuri/uitable"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"taller-service/internal/client"
	"taller-service/internal/config"
	"taller-service/internal/filter"
	"taller-service/internal/supply"
)

type vehiclesOptions struct {
	scriptURL string
	timeout   time.Duration
	criteria  filter.Criteria
}

func newVehiclesCmd() *cobra.Command {
	opts := vehiclesOptions{}

	cmd := &cobra.Command{
		Use:   "vehicles",
		Short: "List vehicles in the workshop",
		Long:  "Fetches the roster from the spreadsheet script and prints the vehicles matching the filters. Without --area, vehicles already back in service are hidden.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVehicles(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.scriptURL, "script-url", os.Getenv("GOOGLE_SCRIPT_URL"), "spreadsheet script URL")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "request timeout")
	cmd.Flags().StringVarP(&opts.criteria.Search, "search", "s", "", "match RI, brand/model or plate")
	cmd.Flags().StringVar(&opts.criteria.Estado, "estado", "", "estado to show, or con_suministros")
	cmd.Flags().StringVar(&opts.criteria.Area, "area", "", "workshop area to show")
	return cmd
}

func runVehicles(cmd *cobra.Command, opts vehiclesOptions) error {
	if opts.scriptURL == "" {
		return fmt.Errorf("--script-url or GOOGLE_SCRIPT_URL is required")
	}

	cfg := &config.Config{
		Gateway: config.GatewayConfig{
			ScriptURL:  opts.scriptURL,
			Timeout:    opts.timeout,
			MaxRetries: 3,
		},
	}
	sheets := client.NewSheetsClient(cfg, zerolog.New(cmd.ErrOrStderr()).Level(zerolog.WarnLevel))

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	vehicles, err := sheets.ListVehicles(ctx)
	if err != nil {
		return err
	}

	engine := filter.NewEngine(filter.DefaultVocabulary())
	visible := engine.Apply(vehicles, engine.Normalize(opts.criteria))

	table := uitable.New()
	table.MaxColWidth = 40
	table.AddRow("RI", "PATENTE", "MARCA MODELO", "ESTADO", "AREA", "PENDIENTES")
	for _, v := range visible {
		pending := supply.Count(supply.Parse(v.Suministros), supply.StatusPendiente)
		table.AddRow(v.RI, v.Patente, v.MarcaModelo, v.Estado, v.AreaTaller, strconv.Itoa(pending))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, table)
	fmt.Fprintf(out, "\n%d of %d vehicles\n", len(visible), len(vehicles))
	return nil
}
