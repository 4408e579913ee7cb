package models

// Response is the envelope written when a request is rejected before it
// reaches the schema.
type Response struct {
	Success      int    `json:"success"`
	ErrorDetails string `json:"error_details,omitempty"`
}

// GraphQLRequest is the body of a GraphQL-over-HTTP request.
type GraphQLRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}
