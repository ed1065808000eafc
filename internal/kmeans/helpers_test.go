package kmeans

// twoBlobs returns 6 points near (0,0) followed by 6 points near (10,10).
func twoBlobs() []Point {
	offsets := []Point{{0, 0}, {0.1, 0}, {0, 0.1}, {-0.1, 0}, {0, -0.1}, {0.05, 0.05}}
	var points []Point
	for _, centre := range []Point{{0, 0}, {10, 10}} {
		for _, o := range offsets {
			points = append(points, Point{centre[0] + o[0], centre[1] + o[1]})
		}
	}
	return points
}

// blobs returns size points scattered tightly around each centre.
func blobs(seed int64, size int, centres ...Point) []Point {
	rng := NewRand(seed)
	var points []Point
	for _, c := range centres {
		for range size {
			p := make(Point, len(c))
			for d := range c {
				p[d] = c[d] + (rng.Float64()-0.5)*0.5
			}
			points = append(points, p)
		}
	}
	return points
}

// uniform returns n points drawn uniformly from the unit cube.
func uniform(seed int64, n, dim int) []Point {
	rng := NewRand(seed)
	points := make([]Point, n)
	for i := range points {
		points[i] = make(Point, dim)
		for d := range points[i] {
			points[i][d] = rng.Float64()
		}
	}
	return points
}

func allAlgorithms() []Algorithm {
	return []Algorithm{
		Lloyd{Init: KMeansPlusPlus{}},
		MacQueen{Init: KMeansPlusPlus{}},
		HartiganWong{},
	}
}
