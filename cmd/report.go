package cmd

import (
	"bytes"
	"fmt"

	"github.com/google/renameio"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/constants"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Email the attendance report",
	Long: `Convert the attendance file to a spreadsheet and email it to
RECIPIENT_EMAIL. With --output the spreadsheet is written to a file instead.

Examples:
  face-attendance report
  face-attendance report --output ` + constants.ReportFileName,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("output", "o", "", "Write the spreadsheet to this file instead of emailing it")
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	if output := mustGetString(cmd, "output"); output != "" {
		var buf bytes.Buffer
		if err := a.log.ExportXLSX(&buf); err != nil {
			return userError(err)
		}
		if err := renameio.WriteFile(output, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		fmt.Printf("Attendance report written to %s\n", output)
		return nil
	}

	if err := a.service.SendReport(cmd.Context()); err != nil {
		return userError(err)
	}
	fmt.Printf("Attendance report sent to %s\n", a.cfg.Email.Recipient)
	return nil
}
