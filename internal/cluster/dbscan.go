// Package cluster labels point sets by neighborhood density. It implements
// the classic DBSCAN scheme: a point is a core point when its eps-ball holds
// at least MinSamples points (itself included), clusters grow by expanding
// core points transitively, and whatever ends up in no cluster is noise.
package cluster

import "github.com/relabs-tech/drawing_board/internal/board"

const noise = -1

// DBSCAN is a deterministic density clusterer over board coordinates.
// Expansion order follows input order, so identical inputs with identical
// parameters always produce identical labelings.
type DBSCAN struct {
	// Eps is the neighborhood radius.
	Eps float64
	// MinSamples is the minimum ball population for a core point.
	MinSamples int
}

var _ board.DensityClusterer = DBSCAN{}

// Labels assigns each point a cluster index, or -1 for noise.
func (d DBSCAN) Labels(points []board.Coordinate) []int {
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = noise
	}

	cluster := 0
	visited := make([]bool, len(points))
	for i := range points {
		if visited[i] {
			continue
		}
		visited[i] = true

		seed := d.neighborhood(points, i)
		if len(seed) < d.MinSamples {
			continue
		}

		labels[i] = cluster
		for k := 0; k < len(seed); k++ {
			j := seed[k]
			if labels[j] == noise {
				labels[j] = cluster // border point, reachable from a core
			}
			if visited[j] {
				continue
			}
			visited[j] = true
			labels[j] = cluster
			if grown := d.neighborhood(points, j); len(grown) >= d.MinSamples {
				seed = append(seed, grown...)
			}
		}
		cluster++
	}
	return labels
}

// Inliers returns the points labeled into some dense cluster, preserving
// input order. When the set is smaller than MinSamples no point could ever be
// a core point, so the whole set survives untouched.
func (d DBSCAN) Inliers(points []board.Coordinate) []board.Coordinate {
	if len(points) < d.MinSamples {
		return append([]board.Coordinate(nil), points...)
	}

	labels := d.Labels(points)
	kept := make([]board.Coordinate, 0, len(points))
	for i, p := range points {
		if labels[i] != noise {
			kept = append(kept, p)
		}
	}
	return kept
}

// neighborhood lists the indices within Eps of points[i], i itself included.
func (d DBSCAN) neighborhood(points []board.Coordinate, i int) []int {
	var hood []int
	for j, p := range points {
		if points[i].Distance(p) <= d.Eps {
			hood = append(hood, j)
		}
	}
	return hood
}
