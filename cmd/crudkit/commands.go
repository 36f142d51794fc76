package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"crudkit/internal/catalog"
	"crudkit/internal/config"
	"crudkit/internal/logging"
	"crudkit/internal/naming"
	"crudkit/internal/resolver"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "crudkit",
		Short:         "Generate CRUD accessor surfaces from a schema configuration",
		Version:       fmt.Sprintf("%s (%s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "Config file path")
	config.DefineFlags(root.PersistentFlags())

	root.AddCommand(newDescribeCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newCallCmd())
	return root
}

// loadConfig loads and validates configuration for a command, logging
// warnings and refusing to proceed on validation errors.
func loadConfig(cmd *cobra.Command) (*config.Config, *logging.Logger, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.LoadOptions{ConfigFile: cfgPath, Flags: cmd.Flags()})
	if err != nil {
		return nil, nil, err
	}

	logger := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	result := cfg.Validate()
	for _, warn := range result.Warnings {
		logger.Warn("configuration warning",
			"field", warn.Field,
			"message", warn.Message,
			"hint", warn.Hint,
		)
	}
	if result.HasErrors() {
		for _, e := range result.Errors {
			logger.Error("configuration error",
				"field", e.Field,
				"message", e.Message,
				"hint", e.Hint,
			)
		}
		return nil, nil, fmt.Errorf("invalid configuration: %s", result.Error())
	}
	return cfg, logger, nil
}

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe [resource]",
		Short: "Print the generated accessor listing for configured resources",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			namer := naming.New(cfg.Naming, nil)
			res := resolver.New(catalog.Default(), namer)

			printed := 0
			for _, resource := range cfg.Resources {
				if len(args) == 1 && resource.Name != args[0] {
					continue
				}
				if err := describeResource(cmd, res, namer, resource); err != nil {
					return err
				}
				printed++
			}
			if len(args) == 1 && printed == 0 {
				return fmt.Errorf("resource %q is not configured", args[0])
			}
			return nil
		},
	}
}

func describeResource(cmd *cobra.Command, res *resolver.Resolver, namer *naming.Namer, resource config.Resource) error {
	suffix := namer.SuffixFor(resource.Name, naming.SuffixOptions{Disabled: resource.SuffixDisabled()})
	resolved, err := res.Resolve(suffix, resource.SelectorInput())
	if err != nil {
		return fmt.Errorf("resource %q: %w", resource.Name, err)
	}

	cmd.Printf("%s\n", resource.Name)
	// Traverse the catalog so the listing order is stable.
	for _, spec := range res.Catalog().Specs() {
		if entry, ok := resolved[spec.ID]; ok {
			cmd.Printf("  %s\n", entry.Description)
		}
	}
	return nil
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger.Info("configuration is valid",
				"resources", len(cfg.Resources),
			)
			cmd.Printf("configuration ok: %d resource(s)\n", len(cfg.Resources))
			return nil
		},
	}
}
