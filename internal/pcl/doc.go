// Package pcl converts raw portable-canopy-LiDAR transect returns into
// canopy structural-complexity metrics.
//
// Responsibilities: pulse classification, spatial binning into a dense
// 1 m (x, z) hit grid, Beer-Lambert light-extinction normalisation,
// vegetation-area-index derivation, and the structural metrics suite
// (rumple, gap fraction, rugosity, effective number of layers).
// Key types: PulseRecord, HitGrid, SummaryRow, OutputRecord.
//
// Dependency rule: pcl is pure transform code. No file, database or
// network I/O is allowed in this package; ingest, export, render and
// storage live in their own packages and depend on pcl, never the
// other way round.
package pcl
