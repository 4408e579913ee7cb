package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	services "github.com/EO-DataHub/eodhp-graphql-gateway/api/services"
	"github.com/EO-DataHub/eodhp-graphql-gateway/models"
	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds the size of a GraphQL request body.
const maxBodyBytes = 1 << 20

var errMissingQuery = errors.New("query is required")

// GraphQL serves the schema over HTTP. Once a document has been received the
// response is always 200; resolver and validation failures are reported in
// the errors list of the result.
func GraphQL(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context()).With().
			Str("handler", "GraphQL").Logger()

		req, err := parseGraphQLRequest(r)
		if err != nil {
			logger.Debug().Err(err).Msg("invalid graphql request")
			services.HandleErrResponse(w, http.StatusBadRequest, err)
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        r.Context(),
		})

		if result.HasErrors() {
			logger.Debug().Int("errors", len(result.Errors)).
				Str("operation", req.OperationName).
				Msg("graphql request completed with errors")
		}

		services.WriteResponse(w, http.StatusOK, result)
	}
}

// Health reports that the gateway process is up.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.WriteResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func parseGraphQLRequest(r *http.Request) (*models.GraphQLRequest, error) {
	var req models.GraphQLRequest

	switch r.Method {
	case http.MethodGet:
		query := r.URL.Query()
		req.Query = query.Get("query")
		req.OperationName = query.Get("operationName")
		if variables := query.Get("variables"); variables != "" {
			if err := json.Unmarshal([]byte(variables), &req.Variables); err != nil {
				return nil, fmt.Errorf("invalid variables: %w", err)
			}
		}

	case http.MethodPost:
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}

		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if mediaType == "application/graphql" {
			req.Query = string(body)
			break
		}
		if err := json.Unmarshal(body, &req); err != nil {
			return nil, fmt.Errorf("invalid request payload: %w", err)
		}

	default:
		return nil, fmt.Errorf("method %s not allowed", r.Method)
	}

	if req.Query == "" {
		return nil, errMissingQuery
	}
	return &req, nil
}
