package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/EO-DataHub/eodhp-graphql-gateway/models"
	"github.com/rs/zerolog"
)

// ErrUpstreamUnavailable is returned when the data service cannot be reached.
var ErrUpstreamUnavailable = errors.New("data service unavailable")

// HTTPError is returned when the data service answers with a non-success status.
type HTTPError struct {
	Message string
	Status  int
}

func (e *HTTPError) Error() string {
	return e.Message
}

// DataServiceClient is a client for interacting with the companies and users
// REST data service.
type DataServiceClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewDataServiceClient creates a new instance of DataServiceClient. A zero
// timeout leaves the default client behaviour in place.
func NewDataServiceClient(baseURL string, timeout time.Duration) *DataServiceClient {
	return &DataServiceClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// GetUser retrieves a single user by ID.
func (dc *DataServiceClient) GetUser(ctx context.Context, id string) (*models.User, error) {
	respBody, _, err := dc.makeRequest(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var user *models.User
	if err := decodeBody(respBody, &user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetCompany retrieves a single company by ID.
func (dc *DataServiceClient) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	respBody, _, err := dc.makeRequest(ctx, http.MethodGet, "/companies/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var company *models.Company
	if err := decodeBody(respBody, &company); err != nil {
		return nil, err
	}
	return company, nil
}

// GetCompanyUsers retrieves the users belonging to a company, in the order the
// data service returns them.
func (dc *DataServiceClient) GetCompanyUsers(ctx context.Context, companyID string) ([]models.User, error) {
	path := fmt.Sprintf("/companies/%s/users", url.PathEscape(companyID))

	respBody, _, err := dc.makeRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var users []models.User
	if err := decodeBody(respBody, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser creates a user and returns the record stored by the data service.
func (dc *DataServiceClient) CreateUser(ctx context.Context, user models.NewUser) (*models.User, error) {
	body, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user: %w", err)
	}

	respBody, _, err := dc.makeRequest(ctx, http.MethodPost, "/users", body)
	if err != nil {
		return nil, err
	}

	var created *models.User
	if err := decodeBody(respBody, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateUser sends a partial update for a user. Only the keys present in
// fields are sent. A nil user is returned if the data service answers with an
// empty body.
func (dc *DataServiceClient) UpdateUser(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user update: %w", err)
	}

	respBody, _, err := dc.makeRequest(ctx, http.MethodPatch, "/users/"+url.PathEscape(id), body)
	if err != nil {
		return nil, err
	}

	var updated *models.User
	if err := decodeBody(respBody, &updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteUser deletes a user. The data service answers deletes with an empty
// body, in which case a nil user is returned.
func (dc *DataServiceClient) DeleteUser(ctx context.Context, id string) (*models.User, error) {
	respBody, _, err := dc.makeRequest(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var deleted *models.User
	if err := decodeBody(respBody, &deleted); err != nil {
		return nil, err
	}
	return deleted, nil
}

// decodeBody unmarshals a response body into v, leaving v untouched when the
// body is empty.
func decodeBody(body []byte, v interface{}) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Helper function for making HTTP requests to the data service.
func (dc *DataServiceClient) makeRequest(ctx context.Context, method, path string, body []byte) ([]byte, int, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("method", method).
		Str("path", path).
		Logger()

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, dc.BaseURL+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := dc.HTTPClient.Do(req)
	if err != nil {
		logger.Debug().Err(err).Msg("data service request failed")
		return nil, 0, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	logger.Debug().Int("status", resp.StatusCode).Msg("data service responded")

	if resp.StatusCode >= 400 {
		return respBody, resp.StatusCode, &HTTPError{
			Message: fmt.Sprintf("data service error: %s %s: status %d", method, path, resp.StatusCode),
			Status:  resp.StatusCode,
		}
	}

	return respBody, resp.StatusCode, nil
}
