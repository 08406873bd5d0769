/*
SPDX-FileCopyrightText: 2025 Deutsche Telekom AG

SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/telekom/series-registry/pkg/config"
)

type runtimeState struct {
	configPath string
	writer     io.Writer
}

type runtimeKey struct{}

// NewRootCommand assembles the command tree. Output of read-only commands
// goes to w (stdout when nil).
func NewRootCommand(w io.Writer) *cobra.Command {
	if w == nil {
		w = os.Stdout
	}
	rt := &runtimeState{configPath: config.DefaultConfigPath, writer: w}

	root := &cobra.Command{
		Use:           "series-registry",
		Short:         "Subscription registry for a lecture series",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(w)
	root.PersistentFlags().StringVar(&rt.configPath, "config", rt.configPath, "Path to config file")
	root.SetContext(context.WithValue(context.Background(), runtimeKey{}, rt))

	root.AddCommand(
		NewServeCommand(),
		NewSubscribersCommand(),
		NewVersionCommand(),
	)
	return root
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCommand(os.Stdout).Execute()
}

func getRuntime(cmd *cobra.Command) *runtimeState {
	if v := cmd.Context(); v != nil {
		if rt, ok := v.Value(runtimeKey{}).(*runtimeState); ok {
			return rt
		}
	}
	return &runtimeState{configPath: config.DefaultConfigPath, writer: cmd.OutOrStdout()}
}

// resolveConfig loads the effective configuration. A missing file is only an
// error when --config was given explicitly.
func resolveConfig(cmd *cobra.Command) (config.Config, string, error) {
	rt := getRuntime(cmd)
	required := false
	if f := cmd.Flags().Lookup("config"); f != nil {
		required = f.Changed
	}
	cfg, err := config.Resolve(rt.configPath, required)
	return cfg, rt.configPath, err
}
