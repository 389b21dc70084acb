package cmd

import (
	"fmt"

	"github.com/davidroman0O/racadm/pkg/racadm"
	"github.com/spf13/cobra"
)

func newBIOSCommand(a *app) *cobra.Command {
	biosCmd := &cobra.Command{
		Use:   "bios",
		Short: "Manage BIOS settings through configuration profiles",
	}

	var share racadm.ShareConfig
	applyCmd := &cobra.Command{
		Use:   "apply <path>",
		Short: "Import a configuration XML and wait for the job to finish",
		Long: `Imports a server configuration profile. The path is either on a CIFS
share (//server/share/bios.xml) or on the machine running racadm
(/abs/path/bios.xml). With --stage the local file is uploaded to that path
first, which requires an ssh section in the config file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			share.FilePath = args[0]

			return a.run(func(tool *racadm.Tool, target racadm.Target) error {
				outcome, err := tool.SetBIOSConfig(cmd.Context(), target, share)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Configuration %s applied on %s (job %s, %d polls)\n",
					share.FilePath, describe(target), outcome.Status.JobID, outcome.Attempts)
				return nil
			})
		},
	}

	applyCmd.Flags().StringVar(&share.User, "share-user", "", "CIFS share user (defaults to share.user)")
	applyCmd.Flags().StringVar(&share.Password, "share-password", "", "CIFS share password (defaults to share.password)")
	applyCmd.Flags().StringVar(&share.StageFrom, "stage", "", "Local file uploaded to <path> before the import")
	biosCmd.AddCommand(applyCmd)

	return biosCmd
}
