package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/EO-DataHub/eodhp-graphql-gateway/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUser(t *testing.T) {
	mockResponse := `{"id": "23", "firstName": "Bill", "age": 20, "companyId": "1"}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users/23", r.URL.Path)
		_, _ = w.Write([]byte(mockResponse))
	}))
	defer server.Close()

	client := NewDataServiceClient(server.URL, 0)
	user, err := client.GetUser(context.Background(), "23")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "23", user.ID)
	assert.Equal(t, "Bill", user.FirstName)
	require.NotNil(t, user.Age)
	assert.Equal(t, 20, *user.Age)
	assert.Equal(t, "1", user.CompanyID)
}

func TestGetCompany(t *testing.T) {
	mockResponse := `{"id": "1", "name": "Apple", "description": "iphone"}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/companies/1", r.URL.Path)
		_, _ = w.Write([]byte(mockResponse))
	}))
	defer server.Close()

	client := NewDataServiceClient(server.URL+"/", 0)
	company, err := client.GetCompany(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, &models.Company{ID: "1", Name: "Apple", Description: "iphone"}, company)
}

func TestGetCompanyUsers_KeepsUpstreamOrder(t *testing.T) {
	mockResponse := `[{"id": "47", "firstName": "Samantha"}, {"id": "23", "firstName": "Bill"}]`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/companies/2/users", r.URL.Path)
		_, _ = w.Write([]byte(mockResponse))
	}))
	defer server.Close()

	client := NewDataServiceClient(server.URL, 0)
	users, err := client.GetCompanyUsers(context.Background(), "2")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "47", users[0].ID)
	assert.Equal(t, "23", users[1].ID)
	assert.Nil(t, users[0].Age)
}

func TestCreateUser_OmitsAbsentFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"firstName": "Stephen"}`, string(body))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "u1", "firstName": "Stephen"}`))
	}))
	defer server.Close()

	client := NewDataServiceClient(server.URL, 0)
	user, err := client.CreateUser(context.Background(), models.NewUser{FirstName: "Stephen"})
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestCreateUser_SendsAllFields(t *testing.T) {
	age := 5
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"firstName": "A", "age": 5, "companyId": "1"}`, string(body))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "u2", "firstName": "A", "age": 5, "companyId": "1"}`))
	}))
	defer server.Close()

	client := NewDataServiceClient(server.URL, 0)
	user, err := client.CreateUser(context.Background(), models.NewUser{FirstName: "A", Age: &age, CompanyID: "1"})
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
}

func TestUpdateUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/users/40", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"id": "40", "age": 10}`, string(body))
		_, _ = w.Write([]byte(`{"id": "40", "firstName": "Alex", "age": 10}`))
	}))
	defer server.Close()

	client := NewDataServiceClient(server.URL, 0)
	user, err := client.UpdateUser(context.Background(), "40", map[string]interface{}{"id": "40", "age": 10})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, 10, *user.Age)
}

func TestUpdateUser_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewDataServiceClient(server.URL, 0)
	user, err := client.UpdateUser(context.Background(), "40", map[string]interface{}{"id": "40"})
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestDeleteUser_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/users/40", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewDataServiceClient(server.URL, 0)
	user, err := client.DeleteUser(context.Background(), "40")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestGetUser_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewDataServiceClient(server.URL, 0)
	user, err := client.GetUser(context.Background(), "missing")
	assert.Nil(t, user)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.False(t, errors.Is(err, ErrUpstreamUnavailable))
}

func TestGetUser_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewDataServiceClient(url, 0)
	user, err := client.GetUser(context.Background(), "23")
	assert.Nil(t, user)
	assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
}

func TestGetUser_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewDataServiceClient(server.URL, 0)
	_, err := client.GetUser(context.Background(), "23")
	assert.ErrorContains(t, err, "failed to decode response")
}

func TestHandleErrResponse(t *testing.T) {
	w := httptest.NewRecorder()
	HandleErrResponse(w, http.StatusBadRequest, errors.New("boom"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success": 0, "error_details": "boom"}`, w.Body.String())
}
