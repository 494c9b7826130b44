package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/johann/setlab/internal/client"
	"github.com/johann/setlab/internal/config"
	"github.com/johann/setlab/internal/sets"
	"github.com/spf13/cobra"
)

var powersetCmd = &cobra.Command{
	Use:   "powerset <elements>",
	Short: "Print the power set of a comma-separated list",
	Example: `  setlab powerset "a, b, c"
  setlab powerset --local --json "1,2"`,
	Args: cobra.ExactArgs(1),
	RunE: runPowerSet,
}

var (
	powersetLocal bool
	powersetJSON  bool
)

func init() {
	powersetCmd.Flags().BoolVar(&powersetLocal, "local", false, "Compute in-process instead of calling the server")
	powersetCmd.Flags().BoolVar(&powersetJSON, "json", false, "Print the result as JSON")
}

func runPowerSet(cmd *cobra.Command, args []string) error {
	var result [][]string

	if powersetLocal {
		var err error
		result, err = sets.PowerSet(sets.Parse(args[0]))
		if err != nil {
			return fmt.Errorf("failed to compute power set: %w", err)
		}
	} else {
		c, err := newClient()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		result, err = c.PowerSet(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to compute power set: %w", err)
		}
	}

	return printPowerSet(cmd.OutOrStdout(), result, powersetJSON)
}

func printPowerSet(w io.Writer, result [][]string, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		return enc.Encode(map[string][][]string{"powerset": result})
	}

	for _, subset := range result {
		if _, err := fmt.Fprintf(w, "{%s}\n", strings.Join(subset, ", ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d subsets\n", len(result))
	return err
}

func newClient() (*client.Client, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return client.New(cfg)
}
