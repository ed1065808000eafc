// Package kmeans implements the clustering engine used to build colour palettes.
//
// Three partitioning algorithms are provided: Lloyd (batch reassignment),
// MacQueen (online updates after every move) and Hartigan-Wong (single point
// transfers). Lloyd and MacQueen are seeded by an Initializer (Random,
// KMeansPlusPlus or ScalableKMeans); Hartigan-Wong starts from a partition.
//
// Squared Euclidean distance is the only metric. Clusters that lose all of
// their members are dropped, so a Result may hold fewer than k clusters.
//
// Nothing in this package is safe for concurrent use with a shared Rand.
// Sweep gives every k its own source.
package kmeans
