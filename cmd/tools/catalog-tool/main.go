// cmd/tools/catalog-tool/main.go
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "catalog-tool",
		Short: "Inspect and validate rule catalogs and the activity registry",
		Long: `catalog-tool checks the YAML rule catalog the proposal engine loads
(checklist sections, artifact rules, subcontractor candidates) and maintains
the activity registry that describes each job worker.

Examples:
  catalog-tool catalog dump > catalog.yaml
  catalog-tool catalog validate catalog.yaml
  catalog-tool registry check --path pkg/registry/activities.json
  catalog-tool registry set --id select-partner --field timeout --value 15s`,
		SilenceUsage: true,
	}
	root.AddCommand(newCatalogCmd(), newRegistryCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
