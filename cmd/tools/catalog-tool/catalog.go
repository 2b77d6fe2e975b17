// cmd/tools/catalog-tool/catalog.go
package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"proposal-engine/internal/engine/rules"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Work with rule catalogs",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "validate <path>",
			Short: "Load a catalog file and report structural problems",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				catalog, err := rules.Load(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Catalog valid: %d sections, %d artifacts, %d candidates\n",
					len(catalog.Sections), len(catalog.Artifacts), len(catalog.Candidates))
				return nil
			},
		},
		&cobra.Command{
			Use:   "dump",
			Short: "Print the compiled-in catalog as YAML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := rules.Default().Marshal()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			},
		},
		newSectionsCmd(),
	)
	return cmd
}

func newSectionsCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "List the checklist sections and their items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := rules.Default()
			if path != "" {
				var err error
				if catalog, err = rules.Load(path); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			for _, id := range catalog.SectionIDs() {
				section, _ := catalog.Section(id)
				items := section.Instantiate()
				fmt.Fprintf(out, "%s (%d items)\n", id, len(items))
				for _, item := range items {
					req := "optional"
					if item.Required {
						req = "required"
					}
					deps := append([]string(nil), item.Dependencies...)
					sort.Strings(deps)
					fmt.Fprintf(out, "  %-28s %-8s %v\n", item.ID, req, deps)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "catalog file (default is the compiled-in catalog)")
	return cmd
}
