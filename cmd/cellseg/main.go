package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/umitools/cellseg/internal/config"
	"github.com/umitools/cellseg/internal/dataset"
	"github.com/umitools/cellseg/internal/imageio"
	"github.com/umitools/cellseg/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and --help before flag parsing
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("cellseg %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	var (
		configPath = flag.String("config", "cellseg.yaml", "pipeline configuration file")
		inputPath  = flag.String("input", "", "input count matrix (.csv, .csv.gz) or stained image")
		binsPath   = flag.String("bins", "", "optional bin assignment matrix (.csv, .csv.gz)")
		outputDir  = flag.String("output", ".", "directory for derived layers")
		blurRadius = flag.Float64("blur", 0, "Gaussian blur radius applied to image input")
	)
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if os.Getenv("CELLSEG_LOG_LEVEL") == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if *inputPath == "" {
		printHelp()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ds, err := buildDataset(cfg, *inputPath, *binsPath, *blurRadius)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load input")
	}

	if err := pipeline.Run(ds, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("pipeline failed")
	}

	if err := writeOutputs(ds, cfg, *outputDir); err != nil {
		log.Fatal().Err(err).Msg("failed to write outputs")
	}
	log.Info().Str("output", *outputDir).Msg("done")
}

func buildDataset(cfg *config.Config, inputPath, binsPath string, blurRadius float64) (*dataset.Dataset, error) {
	name := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	ds := dataset.New(name)

	if strings.HasSuffix(inputPath, ".csv") || strings.HasSuffix(inputPath, ".csv.gz") {
		counts, err := imageio.ReadFloatCSV(inputPath)
		if err != nil {
			return nil, err
		}
		ds.Set(cfg.Layer, counts)
	} else {
		counts, err := imageio.LoadCounts(inputPath, blurRadius)
		if err != nil {
			return nil, err
		}
		ds.Set(cfg.Layer, counts)
	}

	if binsPath != "" {
		bins, err := imageio.ReadIntCSV(binsPath)
		if err != nil {
			return nil, err
		}
		if cfg.EM.BinsLayer == "" {
			cfg.EM.BinsLayer = "bins"
		}
		ds.Set(cfg.EM.BinsLayer, bins)
	}
	return ds, nil
}

// writeOutputs persists every derived layer the pipeline produced: the
// score grid as CSV and grayscale PNG, and each label grid as compressed
// CSV plus a color rendering.
func writeOutputs(ds *dataset.Dataset, cfg *config.Config, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if key := dataset.Key(cfg.Layer, dataset.ScoresSuffix); ds.Has(key) {
		scores, err := ds.Float(key)
		if err != nil {
			return err
		}
		if err := imageio.WriteFloatCSV(filepath.Join(dir, key+".csv.gz"), scores); err != nil {
			return err
		}
		if err := imageio.SaveScores(filepath.Join(dir, key+".png"), scores); err != nil {
			return err
		}
	}

	labelKeys := []string{
		dataset.Key(cfg.Layer, dataset.LabelsSuffix),
		dataset.Key(dataset.Key(cfg.Layer, dataset.LabelsSuffix), dataset.ExpandedSuffix),
	}
	for _, key := range labelKeys {
		if !ds.Has(key) {
			continue
		}
		labels, err := ds.Int(key)
		if err != nil {
			return err
		}
		if err := imageio.WriteIntCSV(filepath.Join(dir, key+".csv.gz"), labels); err != nil {
			return err
		}
		if err := imageio.SaveLabels(filepath.Join(dir, key+".png"), labels); err != nil {
			return err
		}
	}
	return nil
}

func printHelp() {
	fmt.Println("cellseg - cell segmentation for spatial transcriptomics count grids")
	fmt.Println()
	fmt.Println("Usage: cellseg -input <matrix-or-image> [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -input <path>     Count matrix (.csv, .csv.gz) or stained image")
	fmt.Println("  -bins <path>      Bin assignment matrix for per-bin mixture fits")
	fmt.Println("  -config <path>    Pipeline configuration YAML (default cellseg.yaml)")
	fmt.Println("  -output <dir>     Directory for derived layers (default .)")
	fmt.Println("  -blur <radius>    Gaussian blur radius for image input")
	fmt.Println("  --version, -v     Print version information")
	fmt.Println("  --help, -h        Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  CELLSEG_LOG_LEVEL=debug    Enable debug logging")
}
