// The main package for the pricetracker executable.
package main

import (
	"github.com/InflatablePotato/amazon-price-tracker-api/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
