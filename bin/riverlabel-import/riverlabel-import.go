package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/kartwerk/riverlabel/app_config"
	"github.com/kartwerk/riverlabel/db_store"
	"github.com/kartwerk/riverlabel/importer"
	"github.com/kartwerk/riverlabel/overpass"
	"github.com/kartwerk/riverlabel/version"
)

const (
	DEFAULT_CONFIG_FILENAME = "configs/riverlabel.toml"
	DEFAULT_ENV_FILENAME    = ".env"
)

func usage(flagSet *flag.FlagSet, output io.Writer) {
	fmt.Fprintf(output, "riverlabel-import version %s\n", version.APP_VERSION)
	fmt.Fprintf(output, "Usage: %s [options] <src> <dest>\n", os.Args[0])
	fmt.Fprint(output, "\n")
	fmt.Fprintf(output, "%s computes label placements for river polygons in one batch.\n", os.Args[0])
	fmt.Fprint(output, "\n")
	fmt.Fprint(output, "<src>:  wkt, geojson or overpass\n")
	fmt.Fprint(output, "<dest>: db or json\n")
	fmt.Fprint(output, "\n")

	fmt.Fprint(output, "Options:\n")
	flagSet.SetOutput(output)
	flagSet.PrintDefaults()

	fmt.Fprint(output, "\nExamples (follow unix shell escaping rules!):\n")
	fmt.Fprintf(output, "%s -input river.wkt -text 'Main River' wkt json\n", os.Args[0])
	fmt.Fprintf(output, "%s -input rivers.geojson -best geojson db\n", os.Args[0])
	fmt.Fprintf(output, "%s -overpass-bbox -0.2,51.4,0.1,51.6 -overpass-name 'River Thames' overpass json\n", os.Args[0])
	fmt.Fprint(output, "\n")
}

func usageError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	fmt.Fprintf(os.Stderr, "Try %s -help for help.\n", os.Args[0])
	os.Exit(1)
}

type importFlags struct {
	input        string
	output       string
	name         string
	overpassBBox string
	overpassName string
}

func buildSource(logger *logrus.Logger, cfg *app_config.Config, src string, flags importFlags) (importer.Source, error) {
	switch src {
	case "wkt", "geojson":
		inputs, err := splitInputs(flags.input)
		if err != nil {
			return nil, err
		}
		var multi importer.MultiSource
		for _, input := range inputs {
			if src == "wkt" {
				multi.Append(importer.NewWKTFileSource(logger, input, flags.name))
			} else {
				multi.Append(importer.NewGeoJSONFileSource(input))
			}
		}
		if len(multi) == 1 {
			return multi[0], nil
		}
		return multi, nil
	case "overpass":
		bound, err := parseBBox(flags.overpassBBox)
		if err != nil {
			return nil, err
		}
		overpassCli, err := overpass.NewClient(logger, cfg.Overpass)
		if err != nil {
			return nil, fmt.Errorf("failed to create overpass client: %w", err)
		}
		return importer.NewOverpassSource(logger, overpassCli, bound, flags.overpassName)
	}
	return nil, fmt.Errorf("unknown source '%s': must be wkt, geojson or overpass", src)
}

func main() {
	flagSet := flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	helpFlag := flagSet.Bool("help", false, "help!")
	debugFlag := flagSet.Bool("debug", false, "override config and turn on debug logging")
	flagSet.BoolVar(helpFlag, "h", false, "help!")
	configFileFlag := flagSet.String("f", "", "config file to use (default: built-in defaults, or "+DEFAULT_CONFIG_FILENAME+" if it exists)")
	envFileFlag := flagSet.String("env", DEFAULT_ENV_FILENAME, "env file with secrets, ignored when missing")

	var flags importFlags
	flagSet.StringVar(&flags.input, "input", "", "comma separated input files for wkt and geojson sources")
	flagSet.StringVar(&flags.output, "output", "-", "output file for the json destination, '-' for stdout")
	flagSet.StringVar(&flags.name, "name", "", "name for polygons from wkt files (default: file name)")
	flagSet.StringVar(&flags.overpassBBox, "overpass-bbox", "", "minLon,minLat,maxLon,maxLat to query overpass in")
	flagSet.StringVar(&flags.overpassName, "overpass-name", "", "only query overpass for water areas with this name")

	textFlag := flagSet.String("text", "", "label text (default: polygon name)")
	fontSizeFlag := flagSet.Float64("font-size", 0, "font size used to estimate the label size (default: from config)")
	paddingFlag := flagSet.Float64("padding", 0, "inward padding before placement (default: from config)")
	bestFlag := flagSet.Bool("best", false, "one label per name instead of one per polygon part")

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

	args := flagSet.Args()
	if len(args) != 2 {
		if len(args) == 0 {
			usage(flagSet, os.Stdout)
			os.Exit(0)
		}
		usageError("expected <src> and <dest>, got %d argument(s)", len(args))
	}

	src, dest := strings.ToLower(args[0]), strings.ToLower(args[1])
	if dest != "db" && dest != "json" {
		usageError("unknown destination '%s': must be db or json", dest)
	}

	if err := app_config.LoadEnvFile(*envFileFlag); err != nil {
		log.Fatal(err)
	}

	configFilename := *configFileFlag
	if configFilename == "" {
		if _, err := os.Stat(DEFAULT_CONFIG_FILENAME); err == nil {
			configFilename = DEFAULT_CONFIG_FILENAME
		}
	}

	cfg, err := app_config.LoadConfig(configFilename, app_config.GetDefaultConfig())
	if err != nil {
		log.Fatal(err)
	}
	cfg.Logging.Filename = filepath.FromSlash("logs/riverlabel-import.log")

	if *debugFlag {
		cfg.Logging.Debug = true
	}

	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "text":
			cfg.Importer.Text = *textFlag
		case "font-size":
			cfg.Importer.Placement.FontSize = *fontSizeFlag
		case "padding":
			cfg.Importer.Placement.Padding = *paddingFlag
		case "best":
			cfg.Importer.Best = *bestFlag
		}
	})

	if err := cfg.Importer.Validate(); err != nil {
		usageError("%v", err)
	}

	// stdout may carry the json output, so logs go to stderr.
	logger := cfg.Logging.CreateLoggerWithOutput(os.Stderr, true, true)
	logger.Infof("STARTUP: Version %s. Config loaded.", version.APP_VERSION)

	// check destination first before we attempt to load polygons.
	var sink importer.Sink

	switch dest {
	case "db":
		if !cfg.DB.Enabled() {
			logger.Errorf("no [db] configured for the db destination")
			os.Exit(1)
		}
		labelsDBStore, err := db_store.NewLabelsDBStore(cfg.DB, logger)
		if err != nil {
			logger.Errorf("failed to init labels db: %v", err)
			os.Exit(1)
		}
		defer labelsDBStore.Close()
		sink = importer.NewDBSink(labelsDBStore)
	case "json":
		output := io.Writer(os.Stdout)
		if flags.output != "-" {
			f, err := os.Create(flags.output)
			if err != nil {
				logger.Errorf("failed to create output file: %v", err)
				os.Exit(1)
			}
			defer f.Close()
			output = f
		}
		sink = importer.NewJSONSink(output, true)
	}

	source, err := buildSource(logger, cfg, src, flags)
	if err != nil {
		usageError("%v", err)
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

	runner, err := importer.NewLabelRunner(logger, cfg.Importer, source, sink)
	if err != nil {
		logger.Fatal(err)
	}

	logger.Infof("Importing from %s into %s...", source.SourceName(), sink.SinkName())

	summary, err := runner.Run(ctx)
	if err != nil {
		logger.Errorf("import failed: %v", err)
		cancelFn()
		wg.Wait()
		os.Exit(1)
	}

	logger.Infof("Done. batch %s: %d labels from %d polygons (%d skipped, %d fit)",
		summary.BatchId, summary.Labels, summary.Polygons, summary.Skipped, summary.Fitting,
	)
}
