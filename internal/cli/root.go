package cli

import (
	"github.com/spf13/cobra"

	"github.com/mockd/mockd/internal/config"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "mockd",
		Short:   "mockd - OpenAPI mock server",
		Version: "1.0.0",

		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	config.BindCommonFlags(root)

	root.AddCommand(ServeCommand())
	root.AddCommand(EndpointsCommand())
	root.AddCommand(SchemasCommand())
	root.AddCommand(SecurityCommand())
	root.AddCommand(MockCommand())

	return root
}
