package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"cslcal/internal/config"
	"cslcal/internal/generate"
	appLog "cslcal/internal/log"
	"cslcal/internal/web"
)

// flagConfig holds CLI flag values; non-empty path flags override the
// config file.
type flagConfig struct {
	configPath string
	dataDir    string
	outDir     string
	watch      bool
	serve      bool
}

func main() {
	appLog.Info("cslcal starting", "version", "0.1.0")

	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	if flags.dataDir != "" {
		conf.DataDir = flags.dataDir
	}
	if flags.outDir != "" {
		conf.OutputDir = flags.outDir
	}

	appLog.Info("effective config",
		"data_dir", conf.DataDir,
		"output_dir", conf.OutputDir,
		"match_minutes", conf.MatchMinutes,
		"timezone_default", conf.TimezoneDefault,
		"refresh", conf.RefreshCron,
		"listen", conf.Listen,
		"watch", flags.watch,
		"serve", flags.serve,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	gen := generate.New(conf)

	run := func() bool {
		sum, err := gen.Run(ctx)
		if err != nil {
			appLog.Error("generation run failed", err)
			return false
		}
		if len(sum.Failed) > 0 {
			appLog.Error("generation run finished with failures",
				fmt.Errorf("%d league file(s) failed", len(sum.Failed)),
				"failed", sum.Failed,
			)
			return false
		}
		return true
	}

	ok := run()

	if !flags.watch && !flags.serve {
		if !ok {
			os.Exit(1)
		}
		return
	}

	if flags.watch {
		c := cron.New()
		if _, err := c.AddFunc(conf.RefreshCron, func() { run() }); err != nil {
			appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
			os.Exit(1)
		}
		c.Start()
		defer c.Stop()
		appLog.Info("watch mode active", "refresh", conf.RefreshCron)
	}

	if flags.serve {
		srv := web.NewServer(conf)
		if err := srv.ListenAndServe(ctx); err != nil {
			appLog.Error("http server failed", err, "listen", conf.Listen)
			os.Exit(1)
		}
		appLog.Info("cslcal exiting")
		return
	}

	<-ctx.Done()
	appLog.Info("cslcal exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "./cslcal.yaml", "Path to config file")
	flag.StringVar(&cfg.dataDir, "data", "", "League JSON directory (overrides config if set)")
	flag.StringVar(&cfg.outDir, "out", "", "Calendar output directory (overrides config if set)")
	flag.BoolVar(&cfg.watch, "watch", false, "Keep running and regenerate on the refresh schedule")
	flag.BoolVar(&cfg.serve, "serve", false, "Serve the output directory over HTTP")

	flag.Parse()

	return cfg
}
