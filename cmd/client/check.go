package main

import (
	"context"
	"fmt"
	"time"

	"github.com/johann/setlab/internal/sets"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:     "check <setA> <setB>",
	Short:   "Check whether two comma-separated lists describe the same set",
	Example: `  setlab check "a,b,c" "c, b, a"`,
	Args:    cobra.ExactArgs(2),
	RunE:    runCheck,
}

var checkLocal bool

func init() {
	checkCmd.Flags().BoolVar(&checkLocal, "local", false, "Compute in-process instead of calling the server")
}

func runCheck(cmd *cobra.Command, args []string) error {
	var equal bool

	if checkLocal {
		equal = sets.Equal(args[0], args[1])
	} else {
		c, err := newClient()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		equal, err = c.Check(ctx, args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to check equality: %w", err)
		}
	}

	if equal {
		fmt.Fprintln(cmd.OutOrStdout(), "equal")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "not equal")
	}
	return nil
}
