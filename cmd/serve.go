package cmd

import (
	"fmt"
	"net/http"

	"github.com/EO-DataHub/eodhp-graphql-gateway/api/handlers"
	"github.com/EO-DataHub/eodhp-graphql-gateway/api/middleware"
	"github.com/EO-DataHub/eodhp-graphql-gateway/api/schema"
	"github.com/EO-DataHub/eodhp-graphql-gateway/api/services"
	"github.com/EO-DataHub/eodhp-graphql-gateway/internal/appconfig"
	"github.com/gorilla/mux"
	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	host string
	port int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server for handling GraphQL requests",
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config and set up logging
		commonSetUp()

		if cmd.Flags().Changed("host") {
			appCfg.Host = host
		}
		if cmd.Flags().Changed("port") {
			appCfg.Port = port
		}

		service := services.NewService(appCfg)

		gatewaySchema, err := schema.New(service.Data)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to build GraphQL schema")
		}

		r := newRouter(appCfg, gatewaySchema)

		addr := fmt.Sprintf("%s:%d", appCfg.Host, appCfg.Port)
		log.Info().Str("data_service", appCfg.DataService.URL).
			Msgf("Server started at %s", addr)

		if err := http.ListenAndServe(addr, r); err != nil {
			log.Error().Err(err).Msg("could not start server")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&host, "host", appconfig.DefaultHost, "host to run the server on")
	serveCmd.Flags().IntVar(&port, "port", appconfig.DefaultPort, "port to run the server on")
}

// newRouter registers the gateway routes under the configured base path.
func newRouter(cfg *appconfig.Config, gatewaySchema graphql.Schema) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", handlers.Health()).Methods(http.MethodGet)

	api := r.PathPrefix(cfg.BasePath).Subrouter()
	api.Use(middleware.WithLogger)

	api.HandleFunc(cfg.GraphQLPath, handlers.GraphQL(gatewaySchema)).
		Methods(http.MethodGet, http.MethodPost)

	return r
}
