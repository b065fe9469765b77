package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// mustFlag reads a flag registered in init(). A lookup error means the command
// definition is wrong, so it panics instead of returning.
func mustFlag[T any](name string, get func(string) (T, error)) T {
	val, err := get(name)
	if err != nil {
		panic(fmt.Sprintf("flag --%s: %v", name, err))
	}
	return val
}

func mustGetBool(cmd *cobra.Command, name string) bool {
	return mustFlag(name, cmd.Flags().GetBool)
}

func mustGetInt(cmd *cobra.Command, name string) int {
	return mustFlag(name, cmd.Flags().GetInt)
}

func mustGetString(cmd *cobra.Command, name string) string {
	return mustFlag(name, cmd.Flags().GetString)
}

func mustGetFloat64(cmd *cobra.Command, name string) float64 {
	return mustFlag(name, cmd.Flags().GetFloat64)
}

// addImageFlag registers --image on the flows that can run on a still file
// instead of the camera.
func addImageFlag(cmd *cobra.Command) {
	cmd.Flags().String("image", "", "Use this image file instead of capturing from the camera")
}

// addThresholdFlag registers --threshold on commands that match faces.
func addThresholdFlag(cmd *cobra.Command) {
	cmd.Flags().Float64("threshold", 0, "Match threshold override (default MATCH_THRESHOLD)")
}
