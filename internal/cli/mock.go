package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func MockCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Generate a sample value for a schema or a full response for an operation",
		RunE:  runMock,
	}
	cmd.Flags().String("schema", "", "Component schema name to generate")
	cmd.Flags().String("operation", "", "Operation id to synthesize a response for")
	return cmd
}

func runMock(cmd *cobra.Command, args []string) error {
	schemaName, _ := cmd.Flags().GetString("schema")
	operationID, _ := cmd.Flags().GetString("operation")
	if (schemaName == "") == (operationID == "") {
		return fmt.Errorf("exactly one of --schema or --operation is required")
	}

	cfg, _, srv, err := setup(cmd)
	if err != nil {
		return err
	}

	var out any
	if schemaName != "" {
		out, err = srv.MockData(schemaName, mockOptions(cfg))
	} else {
		out, err = srv.MockResponse(operationID, mockOptions(cfg))
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
