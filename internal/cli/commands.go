// Package cli implements the yeabuddy command-line client.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/claude/yeabuddy/internal/client"
	"github.com/claude/yeabuddy/internal/ingest/alpha"
	"github.com/claude/yeabuddy/internal/models"
	"github.com/claude/yeabuddy/internal/session"
)

// Transport is what the commands need from the server.
type Transport interface {
	session.Transport
	alpha.Store
	GetWorkout(ctx context.Context, id string) (*models.Workout, error)
}

// app carries state shared by the subcommands.
type app struct {
	configPath string
	serverURL  string
	cfg        Config
	transport  Transport
	in         io.Reader
	out        io.Writer
	log        *slog.Logger
}

// Option customises the root command.
type Option func(*app)

// WithTransport replaces the HTTP client, e.g. with an in-process store.
func WithTransport(t Transport) Option {
	return func(a *app) { a.transport = t }
}

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *app) { a.in, a.out = in, out }
}

// NewRootCommand builds the yeabuddy command tree.
func NewRootCommand(version string, opts ...Option) *cobra.Command {
	a := &app{in: os.Stdin, out: os.Stdout}
	for _, o := range opts {
		o(a)
	}
	if path, err := ConfigPath(); err == nil {
		a.configPath = path
	}

	root := &cobra.Command{
		Use:           "yeabuddy",
		Short:         "Log strength and conditioning workouts",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.PersistentFlags().StringVar(&a.configPath, "config", a.configPath, "path to client.toml")
	root.PersistentFlags().StringVar(&a.serverURL, "server", "", "server URL (overrides config)")

	root.AddCommand(
		a.listCommand(),
		a.showCommand(),
		a.logCommand(),
		a.importAlphaCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.serverURL != "" {
		cfg.ServerURL = a.serverURL
	}
	a.cfg = cfg
	a.out = cmd.OutOrStdout()
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
	if a.transport == nil {
		a.transport = client.New(cfg.ServerURL, cfg.RequestTimeout())
	}
	return nil
}

func (a *app) listCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved workouts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			workouts, err := a.transport.ListWorkouts(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing workouts: %w", err)
			}
			if limit > 0 && len(workouts) > limit {
				workouts = workouts[:limit]
			}
			printWorkoutList(a.out, workouts)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n workouts")
	return cmd
}

func (a *app) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <workout-id>",
		Short: "Show one workout with every set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.transport.GetWorkout(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("getting workout %s: %w", args[0], err)
			}
			printWorkout(a.out, *w)
			return nil
		},
	}
}

func (a *app) logCommand() *cobra.Command {
	var rest int
	cmd := &cobra.Command{
		Use:   "log [name]",
		Short: "Log a workout interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("rest") {
				rest = a.cfg.DefaultRestSeconds
			}
			out := &syncWriter{w: a.out}
			sess := session.New(a.transport, session.Options{
				RestSeconds: rest,
				OnRestComplete: func() {
					fmt.Fprintf(out, "\n%s\n> ", boldGreen("Rest over, next set!"))
				},
			})
			if err := sess.Refresh(cmd.Context()); err != nil {
				a.log.Warn("could not load saved workouts", "error", err)
			}
			if err := sess.Start(); err != nil {
				return err
			}
			if len(args) == 1 {
				sess.SetName(args[0])
			}
			return NewREPL(sess, out, a.cfg.WeightStep).Run(cmd.Context(), a.in)
		},
	}
	cmd.Flags().IntVar(&rest, "rest", 0, "rest seconds after each working set (0 disables)")
	return cmd
}

func (a *app) importAlphaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import-alpha <export.csv>",
		Short: "Import an Alpha Progression CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := alpha.NewProvider(a.transport, a.log).Ingest(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s %s\n", boldGreen("Import done:"), res.Message)
			fmt.Fprintf(a.out, "  workouts: %d created, %d skipped\n", res.WorkoutsCreated, res.WorkoutsSkipped)
			fmt.Fprintf(a.out, "  sets:     %d created, %d skipped\n", res.SetsCreated, res.SetsSkipped)
			return nil
		},
	}
}
