package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/EO-DataHub/eodhp-graphql-gateway/api/schema"
	"github.com/EO-DataHub/eodhp-graphql-gateway/api/services"
	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	queryString    string
	queryFile      string
	queryVariables string
	operationName  string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Execute a single GraphQL document against the data service and print the result",
	RunE: func(cmd *cobra.Command, args []string) error {

		// Load the config and set up logging
		commonSetUp()

		service := services.NewService(appCfg)

		gatewaySchema, err := schema.New(service.Data)
		if err != nil {
			return fmt.Errorf("failed to build GraphQL schema: %w", err)
		}

		document, err := readDocument(queryString, queryFile)
		if err != nil {
			return err
		}

		var variables map[string]interface{}
		if queryVariables != "" {
			if err := json.Unmarshal([]byte(queryVariables), &variables); err != nil {
				return fmt.Errorf("invalid variables: %w", err)
			}
		}

		ctx := log.Logger.WithContext(context.Background())
		result := graphql.Do(graphql.Params{
			Schema:         gatewaySchema,
			RequestString:  document,
			VariableValues: variables,
			OperationName:  operationName,
			Context:        ctx,
		})

		return writeResult(cmd.OutOrStdout(), result)
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryString, "query", "q", "", "GraphQL document to execute")
	queryCmd.Flags().StringVarP(&queryFile, "file", "f", "", "file containing the GraphQL document, - for stdin")
	queryCmd.Flags().StringVar(&queryVariables, "variables", "", "variables as a JSON object")
	queryCmd.Flags().StringVar(&operationName, "operation", "", "name of the operation to run")
}

func readDocument(query, file string) (string, error) {
	switch {
	case query != "" && file != "":
		return "", errors.New("only one of --query and --file may be set")
	case query != "":
		return query, nil
	case file == "-":
		raw, err := io.ReadAll(os.Stdin)
		return string(raw), err
	case file != "":
		raw, err := os.ReadFile(file)
		return string(raw), err
	}
	return "", errors.New("one of --query or --file is required")
}

func writeResult(w io.Writer, result *graphql.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
