package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/facestore"
)

var facesCmd = &cobra.Command{
	Use:   "faces",
	Short: "Manage registered faces",
}

var facesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered faces in storage order",
	Args:  cobra.NoArgs,
	RunE:  runFacesList,
}

var facesDeleteCmd = &cobra.Command{
	Use:   "delete <index|person-id>",
	Short: "Delete one registered face",
	Long: `Delete a registered face by its list index or by its "<name>_<reg-number>" id.
The remaining faces keep their order.

Examples:
  face-attendance faces delete 0
  face-attendance faces delete Alice_101 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runFacesDelete,
}

func init() {
	rootCmd.AddCommand(facesCmd)
	facesCmd.AddCommand(facesListCmd)
	facesCmd.AddCommand(facesDeleteCmd)

	facesListCmd.Flags().Bool("json", false, "Output as JSON")
	facesDeleteCmd.Flags().Bool("yes", false, "Skip confirmation prompt")
}

type faceEntry struct {
	Index     int    `json:"index"`
	PersonID  string `json:"person_id"`
	Name      string `json:"name"`
	RegNumber string `json:"reg_number"`
	Dim       int    `json:"dim"`
}

func runFacesList(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	records := a.service.Faces()
	entries := make([]faceEntry, len(records))
	for i, rec := range records {
		entries[i] = faceEntry{
			Index:     i,
			PersonID:  rec.PersonID,
			Name:      rec.Name(),
			RegNumber: rec.RegNumber(),
			Dim:       len(rec.Encoding),
		}
	}

	if mustGetBool(cmd, "json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No faces registered.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tNAME\tREG NUMBER")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\n", e.Index, e.Name, e.RegNumber)
	}
	w.Flush()
	fmt.Printf("\n%d face(s), threshold %.2f\n", len(entries), a.service.Threshold())
	return nil
}

func runFacesDelete(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	skipConfirm := mustGetBool(cmd, "yes")

	target, err := resolveFace(a.service.Faces(), args[0])
	if err != nil {
		return userError(err)
	}

	if !skipConfirm && !confirmAction(fmt.Sprintf("Delete %s (%s)? [y/N]: ", target.Name(), target.RegNumber())) {
		fmt.Println("Cancelled.")
		return nil
	}

	if index, convErr := strconv.Atoi(args[0]); convErr == nil {
		_, err = a.service.DeleteFace(index)
	} else {
		_, err = a.service.DeleteFaceByID(args[0])
	}
	if err != nil {
		return userError(err)
	}

	fmt.Printf("Deleted %s. %d face(s) remaining.\n", target.PersonID, a.store.Len())
	return nil
}

// resolveFace finds the record a delete argument refers to.
func resolveFace(records []facestore.Record, key string) (facestore.Record, error) {
	if index, err := strconv.Atoi(key); err == nil {
		if index < 0 || index >= len(records) {
			return facestore.Record{}, facestore.ErrIndexOutOfRange
		}
		return records[index], nil
	}
	for _, rec := range records {
		if rec.PersonID == key {
			return rec, nil
		}
	}
	return facestore.Record{}, facestore.ErrNotFound
}
