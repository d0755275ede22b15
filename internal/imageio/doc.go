// Package imageio moves grids in and out of files.
//
// Count layers come from stained-tissue images (any format the decoders
// understand) or from CSV matrices, optionally gzip-compressed. Label
// grids render to color PNGs with a deterministic palette so runs can be
// compared visually.
package imageio
