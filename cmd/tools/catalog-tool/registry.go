// cmd/tools/catalog-tool/registry.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"proposal-engine/pkg/registry"
)

func newRegistryCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect and update the activity registry",
	}
	cmd.PersistentFlags().StringVar(&path, "path", "", "registry file (default is the compiled-in registry)")

	load := func() (*registry.ActivityRegistry, error) {
		if path == "" {
			return registry.Default(), nil
		}
		reg, err := registry.LoadRegistry(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load registry: %w", err)
		}
		return reg, nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List registered task types with their timeout and retries",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				reg, err := load()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, taskType := range reg.TaskTypes() {
					a, _ := reg.Find(taskType)
					fmt.Fprintf(out, "%-26s %-10s timeout=%s retries=%d\n", a.TaskType, a.Category, a.Timeout, a.Retries)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "check",
			Short: "Report duplicate task types and missing schemas",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				reg, err := load()
				if err != nil {
					return err
				}
				if problems := reg.Check(); len(problems) > 0 {
					return fmt.Errorf("registry invalid:\n  %s", strings.Join(problems, "\n  "))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
				return nil
			},
		},
		newSetCmd(&path),
		newScaffoldCmd(&path),
	)
	return cmd
}

func newSetCmd(path *string) *cobra.Command {
	var id, field, value string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update one field of a registered activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if *path == "" {
				return fmt.Errorf("--path is required to update a registry file")
			}
			reg, err := registry.LoadRegistry(*path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := updateActivity(reg, id, field, value); err != nil {
				return err
			}
			reg.LastUpdated = time.Now().Format(time.RFC3339)
			if err := saveRegistry(reg, *path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, field %s to %s\n", id, field, value)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "activity ID to update")
	cmd.Flags().StringVar(&field, "field", "", "field to update (status, version, description, timeout, retries)")
	cmd.Flags().StringVar(&value, "value", "", "new value for the field")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("field")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func updateActivity(reg *registry.ActivityRegistry, id, field, value string) error {
	for i := range reg.Activities {
		if reg.Activities[i].ID != id {
			continue
		}
		a := &reg.Activities[i]
		switch field {
		case "status":
			a.ImplementationStatus = value
		case "version":
			a.Version = value
		case "description":
			a.Description = value
		case "timeout":
			if _, err := time.ParseDuration(value); err != nil {
				return fmt.Errorf("invalid timeout value: %w", err)
			}
			a.Timeout = value
		case "retries":
			retries, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid retries value: %w", err)
			}
			a.Retries = retries
		default:
			return fmt.Errorf("unknown field: %s", field)
		}
		return nil
	}
	return fmt.Errorf("activity with ID %s not found", id)
}

func saveRegistry(reg *registry.ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}
