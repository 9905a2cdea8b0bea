/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/contactbook/internal/logger"
	"github.com/spf13/cobra"
)

// crashesCmd represents the crashes command
var crashesCmd = &cobra.Command{
	Use:   "crashes",
	Short: "List saved crash logs",
	Long: `List the crash logs written when contactbook hit an unexpected error.
Only the newest logs are kept. Use --last to print the most recent one.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		last, _ := cmd.Flags().GetBool("last")
		out := cmd.OutOrStdout()

		logs, err := logger.ListCrashLogs()
		if err != nil {
			return fmt.Errorf("list crash logs: %w", err)
		}

		if last {
			if len(logs) == 0 {
				fmt.Fprintln(out, "No crash logs.")
				return nil
			}
			content, err := logger.ReadCrashLog(logs[len(logs)-1])
			if err != nil {
				return fmt.Errorf("read crash log: %w", err)
			}
			fmt.Fprint(out, content)
			return nil
		}

		if isJSON() {
			if logs == nil {
				logs = []string{}
			}
			return printJSON(out, map[string]any{"crash_logs": logs})
		}
		if len(logs) == 0 {
			fmt.Fprintln(out, "No crash logs.")
			return nil
		}
		for _, path := range logs {
			fmt.Fprintln(out, path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(crashesCmd)
	crashesCmd.Flags().Bool("last", false, "print the most recent crash log")
}
