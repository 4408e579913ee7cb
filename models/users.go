package models

// User represents a user held by the data service.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	Age       *int   `json:"age,omitempty"`
	CompanyID string `json:"companyId,omitempty"`
}

// NewUser is the payload sent to the data service to create a user.
type NewUser struct {
	FirstName string `json:"firstName"`
	Age       *int   `json:"age,omitempty"`
	CompanyID string `json:"companyId,omitempty"`
}
