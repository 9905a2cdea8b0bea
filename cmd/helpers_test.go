package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/josephgoksu/contactbook/types"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// runResult is the outcome of one CLI invocation.
type runResult struct {
	Code   int
	Stdout string
	Stderr string
}

// resetCLI clears the state a previous invocation left in the global command
// tree, viper and the package-level config.
func resetCLI(t *testing.T) {
	t.Helper()
	viper.Reset()
	resetFlags(rootCmd)
	GlobalAppConfig = types.AppConfig{}
	appLogger = zap.NewNop()
	t.Setenv("HOME", t.TempDir())
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// runCLI executes contactbook with args and captures both streams.
func runCLI(t *testing.T, args ...string) runResult {
	t.Helper()
	resetCLI(t)

	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	return runResult{Code: code, Stdout: stdout.String(), Stderr: stderr.String()}
}

// tempDB returns a contacts file path inside a fresh temp dir.
func tempDB(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}
