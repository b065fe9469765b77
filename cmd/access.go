package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/recognition"
)

var accessCmd = &cobra.Command{
	Use:   "access",
	Short: "Open the door for a recognised person",
	Long: `Recognise the single face in the current frame and send one unlock request
to the door controller at DOOR_URL. Failed requests are not retried.`,
	Args: cobra.NoArgs,
	RunE: runAccess,
}

func init() {
	rootCmd.AddCommand(accessCmd)
	addImageFlag(accessCmd)
	addThresholdFlag(accessCmd)
}

func runAccess(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	frame, err := a.imageFrame(cmd)
	if err != nil {
		return err
	}

	var rec recognition.Recognition
	if frame != nil {
		rec, err = a.service.CheckAccessFrame(cmd.Context(), frame)
	} else {
		rec, err = a.service.CheckAccess(cmd.Context())
	}
	if rec.PersonID != "" {
		fmt.Printf("Access granted for %s (distance %.3f)\n", rec.Name, rec.Distance)
	}
	if err != nil {
		return userError(err)
	}

	fmt.Println("Door opened.")
	return nil
}
