package kmeans

import "gonum.org/v1/gonum/floats"

// clusterState is the per-cluster state owned by a running partitioner.
// An inactive state has no centroid; an active one holds the running mean of
// its members and their count. Active states may briefly have size zero while
// seeding, before any point has joined.
type clusterState struct {
	active   bool
	centroid Point
	size     int
}

func seededState(seed Point) clusterState {
	return clusterState{active: true, centroid: seed.Clone()}
}

func (s *clusterState) clear() {
	*s = clusterState{}
}

// add moves the centroid towards p and counts it as a member.
func (s *clusterState) add(p Point) {
	AddPointToCentroid(s.centroid, p, s.size)
	s.size++
}

// remove drops p from the cluster. Removing the last member empties it.
func (s *clusterState) remove(p Point) {
	if s.size <= 1 {
		s.clear()
		return
	}
	if err := RemovePointFromCentroid(s.centroid, p, s.size); err != nil {
		s.clear()
		return
	}
	s.size--
}

// batchStates computes sizes and centroids from scratch for an assignment.
// Clusters without members come back inactive.
func batchStates(k int, points []Point, assignment []int) []clusterState {
	dim := len(points[0])
	states := make([]clusterState, k)
	for j := range states {
		states[j].centroid = make(Point, dim)
	}
	for i, p := range points {
		s := &states[assignment[i]]
		floats.Add(s.centroid, p)
		s.size++
	}
	for j := range states {
		if states[j].size == 0 {
			states[j].clear()
			continue
		}
		states[j].active = true
		floats.Scale(1/float64(states[j].size), states[j].centroid)
	}
	return states
}

func sizesOf(states []clusterState) []int {
	sizes := make([]int, len(states))
	for j, s := range states {
		sizes[j] = s.size
	}
	return sizes
}
