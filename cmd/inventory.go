package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/davidroman0O/racadm/pkg/racadm"
	"github.com/spf13/cobra"
)

func newInventoryCommand(a *app) *cobra.Command {
	var asJSON bool

	inventoryCmd := &cobra.Command{
		Use:   "inventory",
		Short: "List firmware components and their versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(tool *racadm.Tool, target racadm.Target) error {
				inventory, err := tool.GetSoftwareInventory(cmd.Context(), target)
				if err != nil {
					return err
				}

				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(inventory)
				}

				labels := make([]string, 0, len(inventory))
				for label := range inventory {
					labels = append(labels, label)
				}
				sort.Strings(labels)

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "DEVICE\tCURRENT\tROLLBACK\tAVAILABLE\tINSTALLED")
				for _, label := range labels {
					d := inventory[label]
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", label, d.CurrentVersion, d.RollbackVersion, d.AvailableVersion, d.InstallationDate)
				}
				return w.Flush()
			})
		},
	}
	inventoryCmd.Flags().BoolVar(&asJSON, "json", false, "Print the inventory as JSON")

	return inventoryCmd
}
