package cmd

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/EO-DataHub/eodhp-graphql-gateway/api/schema"
	"github.com/EO-DataHub/eodhp-graphql-gateway/api/services"
	"github.com/EO-DataHub/eodhp-graphql-gateway/internal/appconfig"
	"github.com/EO-DataHub/eodhp-graphql-gateway/internal/jsonstore"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRouter(t *testing.T) {
	store := jsonstore.New(jsonstore.Seed{
		Companies: []map[string]interface{}{{"id": "1", "name": "Apple"}},
	})
	upstream := httptest.NewServer(store.Handler())
	defer upstream.Close()

	cfg, err := appconfig.ParseConfig([]byte("basePath: /api\ndataService:\n  url: " + upstream.URL + "\n"))
	require.NoError(t, err)

	s, err := schema.New(services.NewService(cfg).Data)
	require.NoError(t, err)

	gateway := httptest.NewServer(newRouter(cfg, s))
	defer gateway.Close()

	resp, err := http.Post(gateway.URL+"/api/graphql", "application/json",
		strings.NewReader(`{"query": "{ company(id: \"1\") { name } }"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	health, err := http.Get(gateway.URL + "/healthz")
	require.NoError(t, err)
	health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)

	notFound, err := http.Get(gateway.URL + "/graphql")
	require.NoError(t, err)
	notFound.Body.Close()
	assert.Equal(t, http.StatusNotFound, notFound.StatusCode)
}

func TestReadDocument(t *testing.T) {
	doc, err := readDocument("{ user { id } }", "")
	assert.NoError(t, err)
	assert.Equal(t, "{ user { id } }", doc)

	_, err = readDocument("", "")
	assert.Error(t, err)

	_, err = readDocument("{ a }", "query.graphql")
	assert.Error(t, err)
}

func TestSetLogging(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())

	setLogging("DEBUG")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	setLogging("nonsense")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}
