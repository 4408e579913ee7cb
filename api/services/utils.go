package services

import (
	"encoding/json"
	"net/http"

	"github.com/EO-DataHub/eodhp-graphql-gateway/models"
)

func WriteResponse(w http.ResponseWriter, statusCode int, response interface{}) {

	w.Header().Set("Content-Type", "application/json")

	// We don't want to cache API responses so the client receives most curent data
	w.Header().Set("Cache-Control", "max-age=0")

	w.WriteHeader(statusCode)

	if response != nil {
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}
	}
}

func HandleErrResponse(w http.ResponseWriter, statusCode int, err error) {
	response := models.Response{
		Success:      0,
		ErrorDetails: err.Error(),
	}

	WriteResponse(w, statusCode, response)
}
