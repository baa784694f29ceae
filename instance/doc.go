// Package instance loads TSP instances from TOML, YAML or JSON files and
// turns them into the matrix and options package tsp consumes.
//
// A file carries the weight matrix and its interpretation:
//
//	name = "classic4"
//	source = 0
//	symmetric = false     # mirror one-sided edges before solving
//	zero_is_edge = false  # 0 means "no edge" unless set
//	labels = ["A", "B", "C", "D"]
//	weights = [
//	  [0, 10, 15, 20],
//	  [10, 0, 35, 25],
//	  [15, 35, 0, 30],
//	  [20, 25, 30, 0],
//	]
//
// "No edge" is written as 0 (default policy), inf in TOML, .inf in YAML, or
// null in JSON (which decodes to 0).
package instance
