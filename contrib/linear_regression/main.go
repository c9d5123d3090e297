package main

import "github.com/thoreinstein/espresso/pkg/problem"

func main() {
	problem.Main("linear_regression", New())
}
