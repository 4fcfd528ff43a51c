package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"flowmodoro/internal/bootstrap"
	sessioninadapter "flowmodoro/internal/modules/session/adapter/in"
	sessiondto "flowmodoro/internal/modules/session/dto"
	"flowmodoro/internal/platform/config"
	"flowmodoro/internal/platform/format"
	"flowmodoro/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	dataDir    string
	configFile string
	logLevel   string
	remote     string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "flowmodoro",
		Short:         "Flowmodoro focus timer with offline-first session tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default ~/.flowmodoro)")
	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default <data-dir>/config.yaml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug|info|warn|error")
	root.PersistentFlags().StringVar(&flags.remote, "remote", "", "collector base URL, e.g. http://127.0.0.1:3001/api")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newRecordCmd(flags))
	root.AddCommand(newDayCmd(flags))
	root.AddCommand(newSyncCmd(flags))
	root.AddCommand(newPendingCmd(flags))
	root.AddCommand(newPingCmd(flags))
	root.AddCommand(newSettingsCmd(flags))
	return root
}

func loadConfig(flags *rootFlags) (config.Config, error) {
	overrides := map[string]any{}
	if flags.logLevel != "" {
		overrides["log.level"] = flags.logLevel
	}
	if flags.remote != "" {
		overrides["remote.base_url"] = flags.remote
	}
	return config.Load(config.Options{
		DataDir:    flags.dataDir,
		ConfigFile: flags.configFile,
		Overrides:  overrides,
	})
}

func loadApp(flags *rootFlags) (*bootstrap.App, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logging.New(cfg.Log.Level, os.Stderr))
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the timer terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			// The UI owns the terminal, so logs go to a file.
			logger, closer, err := logging.NewFile(cfg.Log.Level, cfg.LogPath())
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer closer.Close()

			app, err := bootstrap.New(cfg, logger)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return bootstrap.RunTUI(ctx, app, os.Stderr)
		},
	}
}

func newServeCmd(flags *rootFlags) *cobra.Command {
	var addr string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the session collector HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			logger := logging.New(cfg.Log.Level, os.Stderr)
			server, err := bootstrap.NewServer(cfg, logger)
			if err != nil {
				return err
			}
			defer server.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serveHTTP(ctx, &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           server.Handler,
				ReadHeaderTimeout: 5 * time.Second,
			}, logger)
		},
	}
	serve.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :3001)")
	return serve
}

func serveHTTP(ctx context.Context, srv *http.Server, logger *log.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("collector listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("collector shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newRecordCmd(flags *rootFlags) *cobra.Command {
	var seconds int
	var kind, action string
	record := &cobra.Command{
		Use:   "record",
		Short: "Record a finished interval",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags)
			if err != nil {
				return err
			}
			out, err := app.SessionCLI.Record(cmd.Context(), seconds, kind, action)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s (%s) id=%s day=%s\n",
				out.Status, out.Session.Kind, format.Duration(out.Session.Seconds), out.Session.Action, out.Session.ID, out.Session.LocalDay)
			return nil
		},
	}
	record.Flags().IntVar(&seconds, "seconds", 0, "interval length in seconds")
	record.Flags().StringVar(&kind, "kind", "flow", "kind: flow|break|big_break")
	record.Flags().StringVar(&action, "action", "stop", "action: stop|skip|complete")
	return record
}

func newDayCmd(flags *rootFlags) *cobra.Command {
	var asMarkdown bool
	day := &cobra.Command{
		Use:   "day [YYYY-MM-DD]",
		Short: "Show per-kind totals for a day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(flags)
			if err != nil {
				return err
			}
			label := ""
			if len(args) == 1 {
				label = args[0]
			}
			out, err := app.SessionCLI.Day(cmd.Context(), label)
			if err != nil {
				return err
			}
			if asMarkdown {
				note, err := sessioninadapter.RenderDayNote(out)
				if err != nil {
					return err
				}
				_, _ = io.WriteString(cmd.OutOrStdout(), note)
				return nil
			}
			printDay(cmd.OutOrStdout(), out)
			return nil
		},
	}
	day.Flags().BoolVar(&asMarkdown, "markdown", false, "render the day as a markdown note with frontmatter")
	return day
}

func printDay(w io.Writer, day sessiondto.DayOutput) {
	_, _ = fmt.Fprintf(w, "day: %s\n", day.Day)
	for _, t := range day.Totals {
		_, _ = fmt.Fprintf(w, "%-10s %8s  %d sessions\n", t.Kind, format.Duration(t.TotalSeconds), len(t.Sessions))
	}
}

func newSyncCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Send pending sessions to the collector",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags)
			if err != nil {
				return err
			}
			out, err := app.SessionCLI.Sync(cmd.Context())
			if err != nil {
				return err
			}
			if out.Skipped {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "sync already running")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "attempted=%d confirmed=%d failed=%d\n", out.Attempted, out.Confirmed, out.Failed)
			return nil
		},
	}
}

func newPendingCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List sessions not yet confirmed by the collector",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags)
			if err != nil {
				return err
			}
			items, err := app.SessionCLI.Pending(cmd.Context())
			if err != nil {
				return err
			}
			now := time.Now()
			for _, s := range items {
				when := s.Timestamp
				if ts, err := time.Parse(time.RFC3339, s.Timestamp); err == nil {
					when = humanize.RelTime(ts, now, "ago", "from now")
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", s.ID, s.Kind, format.Duration(s.Seconds), when)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d pending\n", len(items))
			return nil
		},
	}
}

func newPingCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the collector is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags)
			if err != nil {
				return err
			}
			if err := app.SessionCLI.Ping(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func newSettingsCmd(flags *rootFlags) *cobra.Command {
	settings := &cobra.Command{Use: "settings", Short: "Show or change break settings"}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags)
			if err != nil {
				return err
			}
			out, err := app.SettingsCLI.Show(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "short_break_minutes: %d\nlong_break_minutes: %d\nflows_before_long_break: %d\n",
				out.ShortBreakMinutes, out.LongBreakMinutes, out.FlowsBeforeLongBreak)
			return nil
		},
	}

	var shortBreak, longBreak, every int
	set := &cobra.Command{
		Use:   "set",
		Short: "Change one or more settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags)
			if err != nil {
				return err
			}
			out, err := app.SettingsCLI.Set(cmd.Context(), shortBreak, longBreak, every)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved: short=%dm long=%dm every=%d\n",
				out.ShortBreakMinutes, out.LongBreakMinutes, out.FlowsBeforeLongBreak)
			return nil
		},
	}
	set.Flags().IntVar(&shortBreak, "short", 0, "short break minutes")
	set.Flags().IntVar(&longBreak, "long", 0, "long break minutes")
	set.Flags().IntVar(&every, "every", 0, "flows before a long break")

	settings.AddCommand(show, set)
	return settings
}
