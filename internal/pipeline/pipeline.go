package pipeline

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/umitools/cellseg/internal/config"
	"github.com/umitools/cellseg/internal/dataset"
)

// Stage is a named dataset transform.
type Stage func(ds *dataset.Dataset, cfg *config.Config, log zerolog.Logger) error

// Stages maps stage names accepted in configuration to their
// implementations.
var Stages = map[string]Stage{
	"score":      Score,
	"mask":       Mask,
	"markers":    Markers,
	"watershed":  Watershed,
	"components": Components,
	"expand":     ExpandLabels,
}

// Run executes the configured stages in order, logging one event per
// stage. It stops at the first failing stage.
func Run(ds *dataset.Dataset, cfg *config.Config, log zerolog.Logger) error {
	for _, name := range cfg.Stages {
		stage, ok := Stages[name]
		if !ok {
			return fmt.Errorf("pipeline: unknown stage %q", name)
		}
		start := time.Now()
		if err := stage(ds, cfg, log); err != nil {
			return fmt.Errorf("pipeline: stage %s: %w", name, err)
		}
		log.Info().
			Str("stage", name).
			Str("dataset", ds.Name).
			Dur("elapsed", time.Since(start)).
			Msg("stage complete")
	}
	return nil
}
