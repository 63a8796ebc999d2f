package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkupCmd = &cobra.Command{
	Use:   "checkup",
	Short: "Find stored records and log entries that no loaded fact claims",
	RunE:  runCheckup,
}

func runCheckup(cmd *cobra.Command, args []string) error {
	eng, closeFn, err := openEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	c, err := eng.Checkup()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "duplicate facts skipped at load: %d\n", c.Duplicates)
	fmt.Fprintf(out, "records without a fact: %d\n", len(c.OrphanRecords))
	for _, k := range c.OrphanRecords {
		fmt.Fprintf(out, "  %s\n", k)
	}
	fmt.Fprintf(out, "log keys without a fact: %d\n", len(c.OrphanEvents))
	for _, k := range c.OrphanEvents {
		fmt.Fprintf(out, "  %s\n", k)
	}
	return nil
}
