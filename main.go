// main is the entry point of the phasma CLI.
package main

import (
	"github.com/VizLoreLabs/phasmaFoodPlatform/cmd"
	"github.com/VizLoreLabs/phasmaFoodPlatform/internal/contract"
)

func main() {
	err := cmd.Execute()
	if tErr := cmd.Teardown(); tErr != nil {
		contract.LogWarn("Cannot release resources", tErr)
	}
	if err != nil {
		contract.LogFatal("Error starting CLI", err)
	}
}
