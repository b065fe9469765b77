package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/attendance"
)

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Inspect or clear the attendance file",
}

var attendanceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List attendance rows",
	Args:  cobra.NoArgs,
	RunE:  runAttendanceList,
}

var attendanceClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all attendance records",
	Long: `Delete the attendance file. Registered faces are not affected.

Example:
  face-attendance attendance clear --yes`,
	Args: cobra.NoArgs,
	RunE: runAttendanceClear,
}

func init() {
	rootCmd.AddCommand(attendanceCmd)
	attendanceCmd.AddCommand(attendanceListCmd)
	attendanceCmd.AddCommand(attendanceClearCmd)

	attendanceListCmd.Flags().Bool("json", false, "Output as JSON")
	attendanceListCmd.Flags().String("date", "", "Only show rows for this date (YYYY-MM-DD)")
	attendanceClearCmd.Flags().Bool("yes", false, "Skip confirmation prompt")
}

func confirmAction(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

func runAttendanceList(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	rows, err := a.service.Attendance()
	if err != nil {
		return err
	}
	if date := mustGetString(cmd, "date"); date != "" {
		rows = filterByDate(rows, date)
	}

	if mustGetBool(cmd, "json") {
		if rows == nil {
			rows = []attendance.Row{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		fmt.Println("No attendance records.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(attendance.Header, "\t"))
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, r.RegNumber, r.Date, r.Time)
	}
	w.Flush()
	return nil
}

func filterByDate(rows []attendance.Row, date string) []attendance.Row {
	var out []attendance.Row
	for _, r := range rows {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out
}

func runAttendanceClear(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	skipConfirm := mustGetBool(cmd, "yes")

	if !a.log.Exists() {
		fmt.Println("No attendance records to clear.")
		return nil
	}

	if !skipConfirm && !confirmAction("Are you sure you want to clear all attendance records? [y/N]: ") {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := a.service.ClearAttendance(); err != nil {
		return userError(err)
	}
	fmt.Println("Attendance records cleared.")
	return nil
}
