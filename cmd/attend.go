package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/recognition"
)

var attendCmd = &cobra.Command{
	Use:   "attend",
	Short: "Mark attendance for the person in front of the camera",
	Long: `Recognise the single face in the current frame and append a row to the
attendance file, at most once per person per day.`,
	Args: cobra.NoArgs,
	RunE: runAttend,
}

func init() {
	rootCmd.AddCommand(attendCmd)
	addImageFlag(attendCmd)
	addThresholdFlag(attendCmd)
}

func runAttend(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	frame, err := a.imageFrame(cmd)
	if err != nil {
		return err
	}

	var mark recognition.Mark
	if frame != nil {
		mark, err = a.service.MarkAttendanceFrame(cmd.Context(), frame)
	} else {
		mark, err = a.service.MarkAttendance(cmd.Context())
	}
	if err != nil {
		if mark.Name != "" {
			return fmt.Errorf("%s: %w", mark.Name, userError(err))
		}
		return userError(err)
	}

	fmt.Printf("Attendance marked for %s (%s) at %s %s\n",
		mark.Name, mark.RegNumber, mark.Row.Date, mark.Row.Time)
	return nil
}
