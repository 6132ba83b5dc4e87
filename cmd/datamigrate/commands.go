package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/consensuslabs/pavilion-network/datamigrate/internal/app"
	"github.com/consensuslabs/pavilion-network/datamigrate/internal/datamigration"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	configPath := os.Getenv("DATAMIGRATE_CONFIG_PATH")
	if configPath == "" {
		configPath = "."
	}

	root := &cobra.Command{
		Use:   "datamigrate",
		Short: "Run and inspect data migrations",
		Long: `datamigrate applies the registered data migrations to the configured
database and reports which of them have completed.

Configuration is read from config.yaml in the directory given by --config and
can be overridden with DATAMIGRATE_* environment variables.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", configPath, "directory containing config.yaml")

	root.AddCommand(newRunCommand(&configPath), newStatusCommand(&configPath))
	return root
}

func newRunCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Apply every pending data migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			components, err := app.Bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer components.Close()

			report, err := components.Runner.Run(cmd.Context())
			printReport(cmd, report)
			return err
		},
	}
}

func printReport(cmd *cobra.Command, report *datamigration.PassReport) {
	if report == nil {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s: %d completed, %d suppressed, %d already applied\n",
		report.RunID, len(report.Completed()), len(report.Suppressed()), len(report.Skipped))
	for _, o := range report.Outcomes {
		line := fmt.Sprintf("  %-10s %s", o.Kind, o.Unit)
		if o.Kind == datamigration.OutcomeCompleted && !o.BodyRan {
			line += " (gate already advanced)"
		}
		if o.Err != nil {
			line += ": " + o.Err.Error()
		}
		fmt.Fprintln(out, line)
	}
}

func newStatusCommand(configPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which data migrations have completed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			components, err := app.Bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer components.Close()

			status, err := components.Runner.Status(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(status)
			}
			return printStatus(cmd, status)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print status as JSON")
	return cmd
}

func printStatus(cmd *cobra.Command, status *datamigration.Status) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATE\tCOMPLETED AT\tGATE INDEX\tON FAILURE")
	for _, u := range status.Units {
		state, completedAt := "pending", "-"
		if u.Completed {
			state = "completed"
			completedAt = u.CompletedAt.UTC().Format(time.RFC3339)
		}
		index := "-"
		if u.RepeatableIndex != 0 {
			index = fmt.Sprint(u.RepeatableIndex)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.Name, state, completedAt, index, u.CatchPolicy)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if status.GateIndex != nil {
		fmt.Fprintf(out, "\n%s: %d\n", datamigration.GateSettingKey, *status.GateIndex)
	} else {
		fmt.Fprintf(out, "\n%s: unset\n", datamigration.GateSettingKey)
	}
	if len(status.Unregistered) > 0 {
		names := make([]string, len(status.Unregistered))
		for i, rec := range status.Unregistered {
			names[i] = rec.ID
		}
		fmt.Fprintf(out, "recorded but not registered: %s\n", strings.Join(names, ", "))
	}
	return nil
}
