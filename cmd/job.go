package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/davidroman0O/racadm/pkg/racadm"
	"github.com/spf13/cobra"
)

func newJobCommand(a *app) *cobra.Command {
	jobCmd := &cobra.Command{
		Use:   "job",
		Short: "Inspect and wait for controller jobs",
	}

	jobCmd.AddCommand(&cobra.Command{
		Use:   "status <jobId>",
		Short: "Print the current state of a job as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(tool *racadm.Tool, target racadm.Target) error {
				status, err := tool.GetJobStatus(cmd.Context(), target, args[0])
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(status)
			})
		},
	})

	var delay time.Duration
	waitCmd := &cobra.Command{
		Use:   "wait <jobId>...",
		Short: "Poll jobs until each completes, fails or runs out of retries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("delay") {
				pollCfg, err := a.cfg.PollerConfig()
				if err != nil {
					return err
				}
				delay = pollCfg.InitialDelay
			}

			return a.run(func(tool *racadm.Tool, target racadm.Target) error {
				results, err := tool.WaitJobs(cmd.Context(), target, args, delay)

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "JOB\tOUTCOME\tPOLLS\tMESSAGE")
				for _, r := range results {
					outcome, polls, message := "Error", 0, ""
					if r.Outcome != nil {
						outcome, polls = string(r.Outcome.Kind), r.Outcome.Attempts
						if r.Outcome.Status != nil {
							message = r.Outcome.Status.Message
						}
					}
					if r.Err != nil && message == "" {
						message = r.Err.Error()
					}
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.JobID, outcome, polls, message)
				}
				if flushErr := w.Flush(); flushErr != nil {
					return flushErr
				}
				return err
			})
		},
	}
	waitCmd.Flags().DurationVar(&delay, "delay", 0, "Wait before the first re-poll, doubled after each (defaults to poll.initialDelay)")
	jobCmd.AddCommand(waitCmd)

	return jobCmd
}
