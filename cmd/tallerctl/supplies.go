package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"taller-service/internal/finalization"
)

func newSuppliesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "supplies",
		Short: "Work with Suministros records",
	}
	cmd.AddCommand(newSuppliesParseCmd())
	return cmd
}

func newSuppliesParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse a Suministros text and show the finalization decision",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			text, err := readInput(cmd, path)
			if err != nil {
				return err
			}
			return runSuppliesParse(cmd, text)
		},
	}
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func runSuppliesParse(cmd *cobra.Command, text string) error {
	decision, records := finalization.NewPolicy("").EvaluateText(text)
	out := cmd.OutOrStdout()

	if len(records) == 0 {
		fmt.Fprintln(out, "No supply records found.")
	} else {
		table := uitable.New()
		table.MaxColWidth = 60
		table.Wrap = true
		table.AddRow("NUMERO", "ESTADO", "DESCRIPCION")
		for _, r := range records {
			table.AddRow(r.Numero, string(r.Estado), r.Descripcion)
		}
		fmt.Fprintln(out, table)
	}

	fmt.Fprintln(out)
	if decision.RequiereNota {
		fmt.Fprintf(out, "Pendientes: %d\n%s\n", decision.Pendientes, decision.Motivo)
	} else {
		fmt.Fprintln(out, "Sin pendientes: puede finalizarse sin nota")
	}
	return nil
}
