package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	exportLog bool
	exportOut string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all memory records as JSON, or the review log as JSON lines",
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace memory records with those in an exported JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportLog, "log", false, "export the review log instead of the records")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	var w io.Writer = cmd.OutOrStdout()
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if exportLog {
		return db.ExportLog(w)
	}
	return db.ExportJSON(w)
}

func runImport(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	n, err := db.ImportJSON(f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d records\n", n)
	return nil
}
