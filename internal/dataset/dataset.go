// Package dataset provides an in-memory layered dataset that segmentation
// stages chain through. Layers are named grids; derived layers follow the
// suffix convention {layer}_scores, {layer}_mask, {layer}_markers,
// {layer}_labels and {layer}_labels_expanded, so each stage can locate its
// predecessor's output without explicit plumbing.
package dataset

import (
	"errors"
	"fmt"
	"sort"

	"github.com/umitools/cellseg/internal/grid"
)

// Layer-key suffixes produced by the pipeline stages.
const (
	ScoresSuffix   = "scores"
	MaskSuffix     = "mask"
	MarkersSuffix  = "markers"
	LabelsSuffix   = "labels"
	ExpandedSuffix = "expanded"
)

// ErrLayerNotFound is returned when a requested layer does not exist.
var ErrLayerNotFound = errors.New("dataset: layer not found")

// Key derives a layer key from a base layer name and a suffix.
func Key(layer, suffix string) string {
	return layer + "_" + suffix
}

// Dataset holds named layers of a single sample. A layer value is one of
// *grid.Float64, *grid.Int or *grid.Bool. Datasets are not safe for
// concurrent mutation; the pipeline runs stages sequentially.
type Dataset struct {
	Name   string
	layers map[string]any
}

// New creates an empty dataset.
func New(name string) *Dataset {
	return &Dataset{Name: name, layers: make(map[string]any)}
}

// Set stores a layer, replacing any existing layer with the same key.
func (d *Dataset) Set(key string, layer any) {
	d.layers[key] = layer
}

// Has reports whether a layer exists.
func (d *Dataset) Has(key string) bool {
	_, ok := d.layers[key]
	return ok
}

// Keys returns all layer keys in sorted order.
func (d *Dataset) Keys() []string {
	keys := make([]string, 0, len(d.layers))
	for k := range d.layers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Float returns a float grid layer.
func (d *Dataset) Float(key string) (*grid.Float64, error) {
	v, ok := d.layers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrLayerNotFound, key)
	}
	g, ok := v.(*grid.Float64)
	if !ok {
		return nil, fmt.Errorf("dataset: layer %q is %T, not a float grid", key, v)
	}
	return g, nil
}

// Int returns an integer grid layer.
func (d *Dataset) Int(key string) (*grid.Int, error) {
	v, ok := d.layers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrLayerNotFound, key)
	}
	g, ok := v.(*grid.Int)
	if !ok {
		return nil, fmt.Errorf("dataset: layer %q is %T, not an int grid", key, v)
	}
	return g, nil
}

// Bool returns a boolean mask layer.
func (d *Dataset) Bool(key string) (*grid.Bool, error) {
	v, ok := d.layers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrLayerNotFound, key)
	}
	g, ok := v.(*grid.Bool)
	if !ok {
		return nil, fmt.Errorf("dataset: layer %q is %T, not a mask", key, v)
	}
	return g, nil
}

// Resolve returns the first existing key among Key(layer, suffix) for the
// given suffixes, falling back to the literal layer name. This mirrors the
// stage convention of preferring derived layers over raw input.
func (d *Dataset) Resolve(layer string, suffixes ...string) (string, bool) {
	for _, s := range suffixes {
		if k := Key(layer, s); d.Has(k) {
			return k, true
		}
	}
	return layer, d.Has(layer)
}
