package pipeline

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/umitools/cellseg/internal/config"
	"github.com/umitools/cellseg/internal/dataset"
	"github.com/umitools/cellseg/internal/grid"
	"github.com/umitools/cellseg/internal/labels"
	"github.com/umitools/cellseg/internal/mixture"
	"github.com/umitools/cellseg/internal/morph"
)

// Score fits the two-component mixture to the raw count layer and stores
// per-pixel cell confidences under {layer}_scores.
func Score(ds *dataset.Dataset, cfg *config.Config, log zerolog.Logger) error {
	x, err := ds.Float(cfg.Layer)
	if err != nil {
		return err
	}

	var bins *grid.Int
	if cfg.EM.BinsLayer != "" {
		bins, err = ds.Int(cfg.EM.BinsLayer)
		if err != nil {
			return err
		}
	}

	opts := mixture.RunOptions{
		UsePeaks:    cfg.EM.UsePeaks,
		MinDistance: cfg.EM.MinDistance,
		Downsample:  cfg.EM.Downsample,
		Bins:        bins,
		Seed:        cfg.EM.Seed,
		Workers:     cfg.EM.Workers,
		EM: mixture.EMOptions{
			W:         [2]float64{cfg.EM.W[0], cfg.EM.W[1]},
			Mu:        [2]float64{cfg.EM.Mu[0], cfg.EM.Mu[1]},
			Var:       [2]float64{cfg.EM.Var[0], cfg.EM.Var[1]},
			MaxIter:   cfg.EM.MaxIter,
			Precision: cfg.EM.Precision,
		},
	}

	fit := mixture.Run(x, opts)
	if fit.Global != nil {
		mu := fit.Global.Mu()
		log.Debug().
			Float64("mu_background", mu[0]).
			Float64("mu_cell", mu[1]).
			Msg("mixture fitted")
	} else {
		log.Debug().Int("bins", len(fit.PerBin)).Msg("mixture fitted per bin")
	}

	scores, err := mixture.Confidence(x, fit, bins)
	if err != nil {
		return err
	}
	ds.Set(dataset.Key(cfg.Layer, dataset.ScoresSuffix), scores)
	return nil
}

// Mask thresholds the score layer into a foreground mask stored under
// {layer}_mask. A zero configured threshold selects Otsu's method.
func Mask(ds *dataset.Dataset, cfg *config.Config, log zerolog.Logger) error {
	key, ok := ds.Resolve(cfg.Layer, dataset.ScoresSuffix)
	if !ok {
		return fmt.Errorf("%w: %q", dataset.ErrLayerNotFound, key)
	}
	scores, err := ds.Float(key)
	if err != nil {
		return err
	}

	threshold := cfg.Mask.Threshold
	if threshold == 0 {
		threshold = morph.OtsuThreshold(scores)
		log.Debug().Float64("threshold", threshold).Msg("otsu threshold selected")
	}
	ds.Set(dataset.Key(cfg.Layer, dataset.MaskSuffix), morph.Threshold(scores, threshold))
	return nil
}

// Markers derives watershed seeds and stores them under {layer}_markers.
// An existing mask layer is preferred; otherwise seeds come straight from
// the score layer.
func Markers(ds *dataset.Dataset, cfg *config.Config, log zerolog.Logger) error {
	opts := labels.MarkerOptions{
		K:              cfg.Markers.K,
		Square:         cfg.Markers.Square,
		MinArea:        cfg.Markers.MinArea,
		NIter:          cfg.Markers.NIter,
		FloatK:         cfg.Markers.FloatK,
		FloatThreshold: cfg.Markers.FloatThreshold,
	}

	maskKey := dataset.Key(cfg.Layer, dataset.MaskSuffix)
	var seeds *grid.Bool
	if ds.Has(maskKey) {
		mask, err := ds.Bool(maskKey)
		if err != nil {
			return err
		}
		seeds = labels.MarkersFromMask(mask, opts)
	} else {
		key, ok := ds.Resolve(cfg.Layer, dataset.ScoresSuffix)
		if !ok {
			return fmt.Errorf("%w: %q", dataset.ErrLayerNotFound, key)
		}
		scores, err := ds.Float(key)
		if err != nil {
			return err
		}
		seeds = labels.Markers(scores, opts)
	}
	ds.Set(dataset.Key(cfg.Layer, dataset.MarkersSuffix), seeds)
	return nil
}

// Watershed floods the foreground mask from the marker seeds, guided by
// the blurred raw counts, and stores labels under {layer}_labels.
func Watershed(ds *dataset.Dataset, cfg *config.Config, log zerolog.Logger) error {
	x, err := ds.Float(cfg.Layer)
	if err != nil {
		return err
	}
	mask, err := ds.Bool(dataset.Key(cfg.Layer, dataset.MaskSuffix))
	if err != nil {
		return err
	}
	seeds, err := ds.Bool(dataset.Key(cfg.Layer, dataset.MarkersSuffix))
	if err != nil {
		return err
	}

	lab := labels.WatershedFromSeeds(x, mask, seeds, cfg.Watershed.K)
	log.Debug().Int("labels", lab.Max()).Msg("watershed flooded")
	ds.Set(dataset.Key(cfg.Layer, dataset.LabelsSuffix), lab)
	return nil
}

// Components labels the foreground mask by connected components, splitting
// any component larger than the configured area, and stores the result
// under {layer}_labels.
func Components(ds *dataset.Dataset, cfg *config.Config, log zerolog.Logger) error {
	mask, err := ds.Bool(dataset.Key(cfg.Layer, dataset.MaskSuffix))
	if err != nil {
		return err
	}

	lab := labels.SplitConnected(mask, labels.SplitOptions{
		K:        cfg.Split.K,
		Square:   cfg.Split.Square,
		MinArea:  cfg.Split.MinArea,
		NIter:    cfg.Split.NIter,
		Distance: cfg.Split.Distance,
		MaxArea:  cfg.Split.MaxArea,
	})
	log.Debug().Int("labels", lab.Max()).Msg("components labeled")
	ds.Set(dataset.Key(cfg.Layer, dataset.LabelsSuffix), lab)
	return nil
}

// ExpandLabels grows labels outward by the configured distance and stores
// the result under {layer}_labels_expanded. Growth is confined to the
// mask layer when one exists.
func ExpandLabels(ds *dataset.Dataset, cfg *config.Config, log zerolog.Logger) error {
	lab, err := ds.Int(dataset.Key(cfg.Layer, dataset.LabelsSuffix))
	if err != nil {
		return err
	}

	var mask *grid.Bool
	if maskKey := dataset.Key(cfg.Layer, dataset.MaskSuffix); ds.Has(maskKey) {
		mask, err = ds.Bool(maskKey)
		if err != nil {
			return err
		}
	}

	expanded := labels.Expand(lab, cfg.Expand.Distance, cfg.Expand.MaxArea, mask)
	labelsKey := dataset.Key(cfg.Layer, dataset.LabelsSuffix)
	ds.Set(dataset.Key(labelsKey, dataset.ExpandedSuffix), expanded)
	return nil
}
