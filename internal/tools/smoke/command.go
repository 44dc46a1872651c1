package smoke

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// ExitFailure is returned to the shell when any check fails.
const ExitFailure = 4

var errChecksFailed = errors.New("smoke checks failed")

type options struct {
	baseURL string
	envFile string
	timeout time.Duration
	seed    uint64
	ci      bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "smoke",
		Short:         "Exercise the token lifecycle against a running API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.envFile == "" {
				return nil
			}
			if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if v := os.Getenv("SMOKE_BASE_URL"); v != "" && !cmd.Flags().Changed("base-url") {
				opts.baseURL = v
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "http://localhost:8080", "API base URL")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "optional env file providing SMOKE_BASE_URL")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", time.Minute, "overall deadline")
	cmd.PersistentFlags().Uint64Var(&opts.seed, "seed", 0, "faker seed for the generated account, 0 for random")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "machine-readable JSON output")
	cmd.AddCommand(newRunCommand(opts))
	return cmd
}

func newRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Register, authenticate, and log out a throwaway account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			out := cmd.OutOrStdout()
			title := "smoke run " + opts.baseURL
			run := func(ctx context.Context) ([]Result, error) { return Run(ctx, opts.baseURL, opts.seed) }
			if opts.ci {
				results, err := run(ctx)
				renderCI(out, "smoke run", results, err)
				if err != nil {
					return errChecksFailed
				}
				return nil
			}
			results, err := runWithProgress(ctx, cmd.ErrOrStderr(), title, run)
			renderHuman(out, title, results, err)
			if err != nil {
				return errChecksFailed
			}
			return nil
		},
	}
}

// IsCheckFailure reports whether err came from failed checks rather than
// bad flags.
func IsCheckFailure(err error) bool { return errors.Is(err, errChecksFailed) }
