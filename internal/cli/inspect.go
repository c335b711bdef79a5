package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func EndpointsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "List the operations declared in the document",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, srv, err := setup(cmd)
			if err != nil {
				return err
			}

			ops, err := srv.Endpoints()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "METHOD\tPATH\tOPERATION ID\tSUMMARY")
			for _, op := range ops {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", op.Method, op.Path, op.ID, op.Summary)
			}
			return w.Flush()
		},
	}
}

func SchemasCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "List the component schemas declared in the document",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, srv, err := setup(cmd)
			if err != nil {
				return err
			}

			schemas, err := srv.Schemas()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTYPE\tPROPERTIES")
			for _, s := range schemas {
				fmt.Fprintf(w, "%s\t%s\t%d\n", s.Name, s.Type, len(s.Properties))
			}
			return w.Flush()
		},
	}
}

func SecurityCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "security",
		Short: "List the security schemes declared in the document",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, srv, err := setup(cmd)
			if err != nil {
				return err
			}

			schemes, err := srv.SecuritySchemes()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTYPE\tSCHEME\tIN")
			for _, s := range schemes {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Name, s.Type, s.Scheme, s.In)
			}
			return w.Flush()
		},
	}
}
