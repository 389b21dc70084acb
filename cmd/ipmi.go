package cmd

import (
	"fmt"

	"github.com/davidroman0O/racadm/pkg/racadm"
	"github.com/spf13/cobra"
)

func newIPMICommand(a *app) *cobra.Command {
	ipmiCmd := &cobra.Command{
		Use:   "ipmi",
		Short: "Enable or disable IPMI over LAN",
	}

	ipmiCmd.AddCommand(&cobra.Command{
		Use:   "enable",
		Short: "Turn on IPMI over LAN (iDRAC.IPMILan.Enable 1)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(tool *racadm.Tool, target racadm.Target) error {
				if err := tool.EnableIPMI(cmd.Context(), target); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "IPMI over LAN enabled on %s\n", describe(target))
				return nil
			})
		},
	})

	ipmiCmd.AddCommand(&cobra.Command{
		Use:   "disable",
		Short: "Turn off IPMI over LAN (iDRAC.IPMILan.Enable 0)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(tool *racadm.Tool, target racadm.Target) error {
				if err := tool.DisableIPMI(cmd.Context(), target); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "IPMI over LAN disabled on %s\n", describe(target))
				return nil
			})
		},
	})

	return ipmiCmd
}
