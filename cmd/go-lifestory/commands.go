package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/tartampluch/go-lifestory/internal/config"
	"github.com/tartampluch/go-lifestory/internal/content"
	"github.com/tartampluch/go-lifestory/internal/dates"
	"github.com/tartampluch/go-lifestory/internal/export"
	"github.com/tartampluch/go-lifestory/internal/locale"
	"github.com/tartampluch/go-lifestory/internal/report"
	"github.com/tartampluch/go-lifestory/internal/server"
)

// cli carries state shared by the subcommands.
type cli struct {
	debug     bool
	settings  config.Settings
	logCloser io.Closer
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           config.CmdRootUse,
		Short:         config.CmdRootShort,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.LoadSettings()
			if err != nil {
				return err
			}
			c.settings = settings
			c.logCloser = setupLogging(c.debug || settings.Debug, cmd.ErrOrStderr())
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.logCloser != nil {
				_ = c.logCloser.Close()
			}
		},
	}
	root.PersistentFlags().BoolVar(&c.debug, config.FlagDebug, false, config.FlagDescDebug)

	root.AddCommand(
		c.serveCmd(),
		c.reportCmd(),
		c.importCmd(),
		versionCmd(),
	)
	return root
}

func (c *cli) serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   config.CmdServeUse,
		Short: config.CmdServeShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed(config.FlagPort) {
				port = c.settings.Port
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			logStartupInfo(c.settings.Backend)

			b, err := openBackend(ctx, c.settings)
			if err != nil {
				return err
			}
			defer func() { _ = b.close() }()

			reg := newRegistry()
			srv := server.NewReportServer(port, c.newAssembler(b.source, reg), dates.RealClock{}, reg)
			if err := srv.Start(ctx); err != nil {
				return err
			}

			slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
			return nil
		},
	}
	cmd.Flags().StringVar(&port, config.FlagPort, config.DefaultPort, config.FlagDescPort)
	return cmd
}

func (c *cli) reportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   config.CmdReportUse,
		Short: config.CmdReportShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bd, err := dates.ParseBirthDate(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			b, err := openBackend(ctx, c.settings)
			if err != nil {
				return err
			}
			defer func() { _ = b.close() }()

			r, err := c.newAssembler(b.source, nil).Assemble(ctx, bd)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), r, format, dates.RealClock{})
		},
	}
	cmd.Flags().StringVar(&format, config.FlagFormat, config.FormatJSON, config.FlagDescFormat)
	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   config.CmdImportUse,
		Short: config.CmdImportShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if from == "" {
				return errors.New(config.ErrImportSource)
			}

			ctx := cmd.Context()
			b, err := openBackend(ctx, c.settings)
			if err != nil {
				return err
			}
			defer func() { _ = b.close() }()

			if b.writer == nil {
				return fmt.Errorf("%s: %s", config.ErrBackendNoImport, c.settings.Backend)
			}

			stats, err := content.NewImporter(b.writer).Import(ctx, os.DirFS(from))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), config.MsgImportReport, stats.Imported, stats.Failed)
			return err
		},
	}
	cmd.Flags().StringVar(&from, config.FlagFrom, "", config.FlagDescFrom)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdVersionUse,
		Short: config.CmdVersionShort,
		Args:  cobra.NoArgs,
		// Version needs neither settings nor logging.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

// newAssembler wires the content loaders, the locale of the settings and,
// when reg is non-nil, assembly metrics.
func (c *cli) newAssembler(src content.Source, reg prometheus.Registerer) *report.Assembler {
	var metrics *report.Metrics
	if reg != nil {
		metrics = report.NewMetrics(reg)
	}

	catalog := locale.NewCatalog(c.settings.Language)
	return report.NewAssembler(content.NewLoader(src), dates.RealClock{}, catalog.Builder(), metrics)
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// writeReport renders r to w in the requested format.
func writeReport(w io.Writer, r report.Report, format string, clock dates.Clock) error {
	var (
		body []byte
		err  error
	)

	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("%s: %w", config.ErrReportJSON, err)
		}
		return nil
	case config.FormatICS:
		body, err = export.Calendar(r, clock.Now())
	case config.FormatVCF:
		body, err = export.Celebrities(r)
	default:
		return fmt.Errorf("%s: %q", config.ErrOutputFormat, format)
	}

	if err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}
