// colourskim - k-means colour palette extraction
//
// colourskim samples the pixels of an image, clusters them in a perceptual
// colour space and prints the dominant colours.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import "github.com/jmylchreest/colourskim/internal/cli"

func main() {
	cli.Execute()
}
