package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/recognition"
)

var registerCmd = &cobra.Command{
	Use:   "register <name> <reg-number>",
	Short: "Register a new face",
	Long: `Capture a frame, require exactly one face in it and store its encoding under
"<name>_<reg-number>". Registration is refused when the face already matches a
registered person.

Examples:
  face-attendance register "Alice Smith" 101
  face-attendance register Bob 202 --image bob.jpg`,
	Args: cobra.ExactArgs(2),
	RunE: runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)
	addImageFlag(registerCmd)
	addThresholdFlag(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	frame, err := a.imageFrame(cmd)
	if err != nil {
		return err
	}

	var person recognition.Person
	if frame != nil {
		person, err = a.service.RegisterFrame(cmd.Context(), args[0], args[1], frame)
	} else {
		person, err = a.service.Register(cmd.Context(), args[0], args[1])
	}
	if err != nil {
		return userError(err)
	}

	fmt.Printf("%s registered successfully! (%d faces stored)\n", person.Name, a.store.Len())
	return nil
}
