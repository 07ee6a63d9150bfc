package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/kartwerk/riverlabel/app_config"
	"github.com/kartwerk/riverlabel/db_store"
	"github.com/kartwerk/riverlabel/httpserver"
	"github.com/kartwerk/riverlabel/placement"
	"github.com/kartwerk/riverlabel/placement_cache"
	"github.com/kartwerk/riverlabel/pyroscope"
	"github.com/kartwerk/riverlabel/stats_collector"
	"github.com/kartwerk/riverlabel/version"
)

const (
	DEFAULT_CONFIG_FILENAME = "configs/riverlabel.toml"
	DEFAULT_ENV_FILENAME    = ".env"
)

func usage(flagSet *flag.FlagSet, output io.Writer) {
	fmt.Fprintf(output, "riverlabel version %s\n", version.APP_VERSION)
	fmt.Fprintf(output, "Usage: %s [-debug] [-help] [-f <config-filename>]\n", os.Args[0])
	fmt.Fprint(output, "\n")
	fmt.Fprint(output, "Serves label placements for river polygons over HTTP.\n")
	fmt.Fprint(output, "\n")
	fmt.Fprint(output, "Options:\n")
	flagSet.SetOutput(output)
	flagSet.PrintDefaults()
	fmt.Fprint(output, "\n")
}

func main() {
	flagSet := flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	helpFlag := flagSet.Bool("help", false, "help!")
	debugFlag := flagSet.Bool("debug", false, "override config and turn on debug logging")
	flagSet.BoolVar(helpFlag, "h", false, "help!")
	configFileFlag := flagSet.String("f", DEFAULT_CONFIG_FILENAME, "config file to use")
	envFileFlag := flagSet.String("env", DEFAULT_ENV_FILENAME, "env file with secrets, ignored when missing")

	err := flagSet.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s", err)
		usage(flagSet, os.Stderr)
		os.Exit(2)
	}

	if *helpFlag {
		usage(flagSet, os.Stdout)
		os.Exit(0)
	}

	if len(flagSet.Args()) != 0 {
		usage(flagSet, os.Stderr)
		os.Exit(1)
	}

	if err := app_config.LoadEnvFile(*envFileFlag); err != nil {
		log.Fatal(err)
	}

	defaultConfig := app_config.GetDefaultConfig()
	configFilename := *configFileFlag
	cfg, err := app_config.LoadConfig(configFilename, defaultConfig)
	if err != nil {
		log.Fatal(err)
	}

	if *debugFlag {
		cfg.Logging.Debug = true
	}

	logger := cfg.CreateLogger(true)
	logger.Infof("STARTUP: Version %s. Config loaded.", version.APP_VERSION)

	statsCollector := stats_collector.GetStatsCollector(cfg)
	logger.Infof("STARTUP: using %s stats collector", statsCollector.Name())

	if cfg.Pyroscope.Enabled() {
		stopFn, err := pyroscope.Run(cfg.Pyroscope, logger)
		if err != nil {
			logger.Errorf("STARTUP: Failed to Initialized pyroscope: %v", err)
		} else {
			logger.Info("STARTUP: Initialized pyroscope")
			defer stopFn()
		}
	}

	var wg sync.WaitGroup
	defer wg.Wait()

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancelFn()

		sig_ch := make(chan os.Signal, 1)
		signal.Notify(sig_ch, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ctx.Done():
			// something else told us to exit
		case sig := <-sig_ch:
			logger.Infof("received signal '%s'", sig.String())
		}
	}()

	logger.Debugf("STARTUP: signal handler installed.")

	// must stay a nil interface when no db is configured.
	var labelsStore httpserver.LabelsStore

	if cfg.DB.Enabled() {
		dbStore, err := db_store.NewLabelsDBStore(cfg.DB, logger)
		if err != nil {
			logger.Fatalf("failed to create labels dbStore: %v", err)
		}
		defer dbStore.Close()
		labelsStore = dbStore
		logger.Debugf("STARTUP: labels store inited.")
	} else {
		logger.Infof("STARTUP: no db configured: placements will not be stored")
	}

	cache := placement_cache.NewCache(cfg.Cache, logger)
	logger.Infof("STARTUP: using %s placement cache", cache.Name())
	if closer, ok := cache.(io.Closer); ok {
		defer closer.Close()
	}

	var placementConfigMutex sync.Mutex
	placementConfig := cfg.Placement

	getPlacementConfigFn := func() placement.Config {
		placementConfigMutex.Lock()
		defer placementConfigMutex.Unlock()
		return placementConfig
	}

	reloadFn := func() error {
		cfg, err := app_config.LoadConfig(configFilename, defaultConfig)
		if err != nil {
			return fmt.Errorf("failed to reload config file: %w", err)
		}
		placementConfigMutex.Lock()
		defer placementConfigMutex.Unlock()
		placementConfig = cfg.Placement
		return nil
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancelFn()

		sig_ch := make(chan os.Signal, 1)
		signal.Notify(sig_ch, syscall.SIGHUP)
		for {
			select {
			case <-ctx.Done():
				// something else told us to exit
				return
			case sig := <-sig_ch:
				logger.Infof("received signal '%s' -- Reloading config.", sig.String())
				err := reloadFn()
				if err == nil {
					logger.Infof("placement config reloaded")
				} else {
					logger.Error(err)
				}
			}
		}
	}()
	logger.Debugf("STARTUP: installed reload (SIGHUP) handler")

	httpServer, err := httpserver.NewHTTPServer(logger, statsCollector, cache, labelsStore, getPlacementConfigFn, reloadFn)
	if err != nil {
		logger.Fatalf("failed to create http server: %v", err)
	}

	logger.Infof("STARTUP: starting http server on %s (final step)", cfg.HTTP.Addr)
	err = httpServer.Run(ctx, cfg.HTTP.Addr, cfg.HTTP.ShutdownTimeout())
	if err != nil {
		logger.Fatalf("failed to run http server: %v", err)
	}

	// http server could have shut down early or not started. The defers
	// above will cancel and wait for things to shutdown cleanly.
}
