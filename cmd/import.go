package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/facestore"
	"github.com/kozaktomas/face-attendance/internal/recognition"
)

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Register faces from a directory of photos",
	Long: `Register every image in a directory. Files must be named
"<name>_<reg-number>.<ext>" (jpg, jpeg, png, bmp or webp); the part after the
last underscore is the registration number. Each photo must show exactly one
face. Duplicates and failures are reported and skipped.

Example:
  face-attendance import ./enrolment`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().Bool("json", false, "Output results as JSON lines instead of a progress bar")
	addThresholdFlag(importCmd)
}

var importExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".webp"}

type importFile struct {
	path      string
	name      string
	regNumber string
}

// scanImportDir lists the importable images in dir, sorted by file name.
// Files whose names do not split into a name and registration number are skipped.
func scanImportDir(dir string) ([]importFile, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []importFile
	var skipped []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !slices.Contains(importExtensions, ext) {
			continue
		}
		name, reg, ok := facestore.SplitPersonID(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		if !ok {
			skipped = append(skipped, e.Name())
			continue
		}
		files = append(files, importFile{
			path:      filepath.Join(dir, e.Name()),
			name:      name,
			regNumber: reg,
		})
	}
	return files, skipped, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	jsonOutput := mustGetBool(cmd, "json")

	files, skipped, err := scanImportDir(args[0])
	if err != nil {
		return err
	}
	for _, name := range skipped {
		fmt.Fprintf(os.Stderr, "Skipping %s: expected <name>_<reg-number>\n", name)
	}
	if len(files) == 0 {
		fmt.Println("No images to import.")
		return nil
	}

	var bar *progressbar.ProgressBar
	if !jsonOutput {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("Registering faces"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("faces"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionFullWidth(),
		)
	}

	var registered, duplicates int
	var failures []string
	for _, f := range files {
		err := importOne(cmd, a, f)
		switch {
		case err == nil:
			registered++
		case errors.Is(err, recognition.ErrDuplicate):
			duplicates++
		default:
			failures = append(failures, fmt.Sprintf("%s: %s", filepath.Base(f.path), recognition.UserMessage(err)))
		}

		if jsonOutput {
			status := "registered"
			if err != nil {
				status = recognition.UserMessage(err)
			}
			line, _ := json.Marshal(map[string]string{"file": filepath.Base(f.path), "status": status})
			fmt.Println(string(line))
		} else {
			bar.Add(1)
		}
	}

	if !jsonOutput {
		fmt.Printf("\nRegistered: %d, duplicates: %d, failed: %d\n", registered, duplicates, len(failures))
		for _, msg := range failures {
			fmt.Printf("  %s\n", msg)
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("%d image(s) failed to import", len(failures))
	}
	return nil
}

func importOne(cmd *cobra.Command, a *app, f importFile) error {
	frame, err := readImage(f.path, a.cfg.Camera.MaxSize)
	if err != nil {
		return err
	}
	_, err = a.service.RegisterFrame(cmd.Context(), f.name, f.regNumber, frame)
	return err
}
