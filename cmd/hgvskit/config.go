package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hgvskit/hgvskit/internal/vconfig"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage hgvskit configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.hgvskit.yaml.",
		Example: `  hgvskit config                          # show all config
  hgvskit config set shift.policy unambiguous
  hgvskit config get shift.policy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := vconfig.Set(flagConfigPath, args[0], args[1]); err != nil {
				return err
			}
			path := flagConfigPath
			if path == "" {
				path, _ = vconfig.DefaultPath()
			}
			fmt.Printf("Set %s = %s in %s\n", args[0], args[1], path)
			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			val, err := vconfig.Get(flagConfigPath, args[0])
			if err != nil {
				return err
			}
			fmt.Println(val)
			return nil
		},
	}
}

func runConfigShow() error {
	settings, err := vconfig.All(flagConfigPath)
	if err != nil {
		return err
	}
	if len(settings) == 0 {
		path := flagConfigPath
		if path == "" {
			path, _ = vconfig.DefaultPath()
		}
		fmt.Printf("# No configuration set. Config file: %s\n", path)
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}
