package kmeans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElbowMatchesDefinition(t *testing.T) {
	r, err := Run(Lloyd{}, 2, twoBlobs(), NewRand(5))
	require.NoError(t, err)

	var want float64
	for _, c := range r.Clusters() {
		centroid, err := CentroidOf(c.Points)
		require.NoError(t, err)
		for _, p := range c.Points {
			want += SquaredDistance(p, centroid)
		}
	}
	want /= float64(len(r.Points))
	assert.InDelta(t, want, Elbow(r), 1e-12)
	assert.Equal(t, Elbow(r), r.Elbow())
}

func TestSilhouette(t *testing.T) {
	tests := []struct {
		name       string
		points     []Point
		assignment []int
		sizes      []int
		want       float64
	}{
		{
			name:       "two pairs",
			points:     []Point{{0}, {1}, {10}, {11}},
			assignment: []int{0, 0, 1, 1},
			sizes:      []int{2, 2},
			want:       (109.5/110.5 + 89.5/90.5) / 2,
		},
		{
			name:       "singleton scores zero",
			points:     []Point{{0}, {5}, {6}},
			assignment: []int{0, 1, 1},
			sizes:      []int{1, 2},
			want:       (24.0/25 + 35.0/36) / 3,
		},
		{
			name:       "one cluster left",
			points:     []Point{{0}, {5}, {6}},
			assignment: []int{0, 0, 0},
			sizes:      []int{3, 0},
			want:       0,
		},
		{
			name:       "identical points",
			points:     []Point{{2}, {2}, {2}, {2}},
			assignment: []int{0, 0, 1, 1},
			sizes:      []int{2, 2},
			want:       0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Result{K: len(tt.sizes), Points: tt.points, Assignment: tt.assignment, Sizes: tt.sizes}
			assert.InDelta(t, tt.want, Silhouette(r), 1e-12)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1}, Normalize([]float64{2, 4, 6}))
	assert.Equal(t, []float64{1, 0.25, 0}, Normalize([]float64{9, 3, 1}))
	assert.Equal(t, []float64{0, 0, 0}, Normalize([]float64{7, 7, 7}))
	assert.Empty(t, Normalize(nil))
}

func TestEstimateBestK(t *testing.T) {
	k, err := EstimateBestK(2, 4, []float64{1, 0.5, 0.05, 0.02, 0})
	require.NoError(t, err)
	assert.Equal(t, 3, k)

	// A flat curve has no elbow; every angle is straight and the lowest k wins.
	k, err = EstimateBestK(3, 6, []float64{0, 0, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 3, k)

	k, err = EstimateBestK(1, 1, []float64{1, 0.1, 0})
	require.NoError(t, err)
	assert.Equal(t, 1, k)
}

func TestEstimateBestKErrors(t *testing.T) {
	tests := []struct {
		name       string
		kMin, kMax int
		scores     []float64
	}{
		{"zero kMin", 0, 3, []float64{1, 0.5, 0.2, 0.1, 0}},
		{"inverted range", 4, 2, []float64{1, 0.5, 0}},
		{"too few scores", 2, 4, []float64{1, 0.5, 0}},
		{"too many scores", 2, 2, []float64{1, 0.5, 0.2, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EstimateBestK(tt.kMin, tt.kMax, tt.scores)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func scored(s float64) *Result {
	r := &Result{}
	r.silhouetteOnce.Do(func() { r.silhouette = s })
	return r
}

func TestBestBySilhouette(t *testing.T) {
	assert.Equal(t, 2, BestBySilhouette([]*Result{scored(0.1), scored(0.4), scored(0.8), scored(0.3)}))
	assert.Equal(t, 0, BestBySilhouette([]*Result{scored(0.5), scored(0.5)}))
	assert.Equal(t, -1, BestBySilhouette(nil))
}
