package kmeans

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle() []Point {
	return blobs(31, 20, Point{0, 0}, Point{10, 0}, Point{5, 8.66})
}

func TestSweepFindsBlobCount(t *testing.T) {
	points := triangle()
	for _, criterion := range []Criterion{CriterionElbow, CriterionSilhouette} {
		t.Run(string(criterion), func(t *testing.T) {
			res, err := Sweep(context.Background(), Lloyd{Init: KMeansPlusPlus{}}, 2, 5, points, SweepOptions{
				Seed:      1,
				Criterion: criterion,
			})
			require.NoError(t, err)
			assert.Equal(t, 3, res.K)
			require.NotNil(t, res.Best)
			assert.Same(t, res.Results[3], res.Best)
			assert.Len(t, res.Best.Clusters(), 3)

			for k := 1; k <= 6; k++ {
				assert.Contains(t, res.Results, k)
			}
			if criterion == CriterionElbow {
				assert.Len(t, res.Scores, 6)
				assert.Equal(t, 1.0, res.Scores[0])
			} else {
				assert.Nil(t, res.Scores)
			}
		})
	}
}

func TestSweepSingleK(t *testing.T) {
	points := triangle()
	res, err := Sweep(context.Background(), MacQueen{}, 4, 4, points, SweepOptions{Seed: 9})
	require.NoError(t, err)
	assert.Equal(t, 4, res.K)
	assert.Len(t, res.Results, 1)
	assert.Nil(t, res.Scores)

	want, err := Run(MacQueen{}, 4, points, SeedFor(9, 4))
	require.NoError(t, err)
	assert.Equal(t, want.Assignment, res.Best.Assignment)
}

func TestSweepIndependentOfParallelism(t *testing.T) {
	points := uniform(32, 200, 3)
	alg := HartiganWong{}
	serial, err := Sweep(context.Background(), alg, 2, 6, points, SweepOptions{Seed: 3, Parallelism: 1})
	require.NoError(t, err)
	parallel, err := Sweep(context.Background(), alg, 2, 6, points, SweepOptions{Seed: 3, Parallelism: 8})
	require.NoError(t, err)

	assert.Equal(t, serial.K, parallel.K)
	assert.Equal(t, serial.Scores, parallel.Scores)
	for k, r := range serial.Results {
		assert.Equal(t, r.Assignment, parallel.Results[k].Assignment, "k=%d", k)

		want, err := Run(alg, k, points, SeedFor(3, k))
		require.NoError(t, err)
		assert.Equal(t, want.Assignment, r.Assignment, "k=%d", k)
	}
}

func TestSweepRangeEdges(t *testing.T) {
	points := uniform(33, 5, 3)

	res, err := Sweep(context.Background(), Lloyd{}, 1, 3, points, SweepOptions{})
	require.NoError(t, err)
	assert.Len(t, res.Scores, 5)
	assert.NotContains(t, res.Results, 0)
	assert.GreaterOrEqual(t, res.K, 1)
	assert.LessOrEqual(t, res.K, 3)

	res, err = Sweep(context.Background(), Lloyd{}, 3, 5, points, SweepOptions{})
	require.NoError(t, err)
	assert.Len(t, res.Scores, 5)
	assert.NotContains(t, res.Results, 6)
	assert.GreaterOrEqual(t, res.K, 3)
	assert.LessOrEqual(t, res.K, 5)
}

func TestSweepErrors(t *testing.T) {
	points := uniform(34, 10, 3)
	ctx := context.Background()

	_, err := Sweep(ctx, Lloyd{}, 0, 3, points, SweepOptions{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = Sweep(ctx, Lloyd{}, 5, 3, points, SweepOptions{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = Sweep(ctx, Lloyd{}, 2, 11, points, SweepOptions{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = Sweep(ctx, Lloyd{}, 2, 4, points, SweepOptions{Criterion: "gap"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Sweep(cancelled, Lloyd{}, 2, 4, points, SweepOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseCriterion(t *testing.T) {
	c, err := ParseCriterion("")
	require.NoError(t, err)
	assert.Equal(t, CriterionElbow, c)
	c, err = ParseCriterion("silhouette")
	require.NoError(t, err)
	assert.Equal(t, CriterionSilhouette, c)
	_, err = ParseCriterion("gap")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
