package cmd

import (
	"fmt"
	"net/http"

	"github.com/EO-DataHub/eodhp-graphql-gateway/api/middleware"
	"github.com/EO-DataHub/eodhp-graphql-gateway/internal/jsonstore"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	seedPath  string
	storeHost string
	storePort int
)

var devstoreCmd = &cobra.Command{
	Use:   "devstore",
	Short: "Run an in-memory companies and users data service for local development",
	Run: func(cmd *cobra.Command, args []string) {
		setLogging(logLevel)

		seed := jsonstore.Seed{}
		if seedPath != "" {
			var err error
			seed, err = jsonstore.LoadSeed(seedPath)
			if err != nil {
				log.Fatal().Err(err).Str("seed", seedPath).Msg("Failed to load seed")
			}
		}

		store := jsonstore.New(seed)
		log.Info().Int("users", len(seed.Users)).Int("companies", len(seed.Companies)).
			Msg("Data store seeded")

		addr := fmt.Sprintf("%s:%d", storeHost, storePort)
		log.Info().Msgf("Data store started at %s", addr)

		if err := http.ListenAndServe(addr, middleware.WithLogger(store.Handler())); err != nil {
			log.Error().Err(err).Msg("could not start data store")
		}
	},
}

func init() {
	rootCmd.AddCommand(devstoreCmd)
	devstoreCmd.Flags().StringVar(&seedPath, "seed", "", "json-server style db.json to seed the store with")
	devstoreCmd.Flags().StringVar(&storeHost, "host", "127.0.0.1", "host to run the data store on")
	devstoreCmd.Flags().IntVar(&storePort, "port", 3000, "port to run the data store on")
}
