package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zelus-routing/zelus/src/internal/api"
	"github.com/zelus-routing/zelus/src/internal/config"
	"github.com/zelus-routing/zelus/src/internal/engine"
	"github.com/zelus-routing/zelus/src/internal/networking"
)

const apiMaxRestarts = 5

// settingsFlags are command line overrides applied on top of the settings
// file and the environment.
type settingsFlags struct {
	mode          string
	interfaces    []string
	tables        []string
	routesFile    string
	hostname      string
	metricsListen string
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.mode, "mode", "m", "", "enforcement mode: monitor, enforce or strict")
	flags.StringSliceVarP(&f.interfaces, "interfaces", "i", nil, "monitored interfaces, by name or index")
	flags.StringSliceVarP(&f.tables, "tables", "t", nil, "monitored routing tables, by name or id")
	flags.StringVarP(&f.routesFile, "routes-file", "r", "", "protected routes file")
	flags.StringVar(&f.hostname, "hostname", "", "hostname label for metrics")
	flags.StringVar(&f.metricsListen, "metrics-listen", "", "listen address of the metrics and status API")
}

func (f *settingsFlags) apply(cmd *cobra.Command) func(*config.Settings) {
	return func(s *config.Settings) {
		flags := cmd.Flags()
		if flags.Changed("mode") {
			s.Mode = f.mode
		}
		if flags.Changed("interfaces") {
			s.Interfaces = f.interfaces
		}
		if flags.Changed("tables") {
			s.Tables = f.tables
		}
		if flags.Changed("routes-file") {
			s.RoutesFile = f.routesFile
		}
		if flags.Changed("hostname") {
			s.Hostname = f.hostname
		}
		if flags.Changed("metrics-listen") {
			s.MetricsListen = f.metricsListen
		}
	}
}

// service returns the service cobra command.
func service(ctx *AppContext) (cmd *cobra.Command) {
	f := &settingsFlags{}
	cmd = &cobra.Command{
		Use:   "service",
		Short: "Runs the reconciliation daemon",
		Long: `Service loads the protected routes, adds the missing ones (unless in monitor
mode) and then follows kernel route changes until it is killed. SIGINT and
SIGTERM terminate the process immediately.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadAndValidateSettings(ctx, f.apply(cmd))
			if err != nil {
				return err
			}

			sc := make(chan os.Signal, 1)
			signal.Notify(sc, os.Interrupt, syscall.SIGTERM)
			go func() {
				s := <-sc
				ctx.Logger.Infof("%s received, exiting", s)
				os.Exit(0)
			}()

			nl, err := ctx.NewNetlinker()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), settings, nl, ctx.Logger)
		},
	}
	f.register(cmd)
	return
}

// serve runs the engine monitor and, when configured, the metrics and status
// API until either fails or c is cancelled.
func serve(c context.Context, settings *config.Settings, nl networking.Netlinker, logger logrus.FieldLogger) error {
	opts, err := engineOptions(settings)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	eng, err := engine.New(opts, engine.Dependencies{
		Netlinker:  nl,
		Logger:     logger,
		Registerer: reg,
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	g, gctx := errgroup.WithContext(c)
	g.Go(func() error {
		return <-eng.Monitor(gctx)
	})

	if settings.MetricsListen != "" {
		srv := api.NewServer(settings.MetricsListen, eng, reg, logger)
		sup := &Supervisor{Name: "api", MaxRestarts: apiMaxRestarts, Logger: logger}
		g.Go(func() error {
			return sup.Run(gctx, srv.Run)
		})
	}

	return g.Wait()
}
