package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"

	"crudkit/internal/binding"
	"crudkit/internal/catalog"
	"crudkit/internal/config"
	"crudkit/internal/naming"
	"crudkit/internal/resolver"
	"crudkit/internal/schema"
	"crudkit/internal/store"
)

func newCallCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "call <resource> <accessor> [args...]",
		Short: "Invoke a generated accessor against the configured database",
		Long: `Invoke a generated accessor against the configured database.

Arguments are parsed as JSON where possible, so maps and numbers work as
expected; anything that is not valid JSON is passed through as a string.

Examples:
  crudkit call User all_users null
  crudkit call User get_user 5 null
  crudkit call User create_user '{"email":"x@example.com"}'`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			resource, ok := findResource(cfg, args[0])
			if !ok {
				return fmt.Errorf("resource %q is not configured", args[0])
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			db, err := sql.Open("mysql", cfg.Database.DSN())
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() {
				_ = db.Close()
			}()
			db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
			db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
			db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
			if err := db.PingContext(ctx); err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}

			namer := naming.New(cfg.Naming, logger.Logger)
			model := resource.Model(namer)
			if cfg.Database.Database != "" {
				model, err = schema.Introspect(ctx, db, cfg.Database.Database, model)
				if err != nil {
					return fmt.Errorf("failed to introspect %s: %w", model.Table, err)
				}
			}

			res := resolver.New(catalog.Default(), namer)
			suffix := namer.SuffixFor(resource.Name, naming.SuffixOptions{Disabled: resource.SuffixDisabled()})
			resolved, err := res.Resolve(suffix, resource.SelectorInput())
			if err != nil {
				return err
			}

			registry, err := binding.Bind(res.Catalog(), resolved, model, store.New(db, logger.Logger))
			if err != nil {
				return err
			}

			callArgs := make([]any, len(args)-2)
			for i, raw := range args[2:] {
				callArgs[i] = parseArg(raw)
			}

			out, err := registry.Call(ctx, args[1], callArgs...)
			if err != nil {
				return err
			}
			return printResult(cmd, out)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall call timeout")
	return cmd
}

func findResource(cfg *config.Config, name string) (config.Resource, bool) {
	for _, res := range cfg.Resources {
		if res.Name == name {
			return res, true
		}
	}
	return config.Resource{}, false
}

// parseArg interprets a CLI argument as JSON when possible, falling back
// to the raw string. "null" therefore becomes an absent-options argument.
func parseArg(raw string) any {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return raw
	}
	if m, ok := parsed.(map[string]any); ok {
		return m
	}
	return parsed
}

func printResult(cmd *cobra.Command, out any) error {
	if out == nil {
		cmd.Println("null")
		return nil
	}
	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(encoded))
	return nil
}
