package dto

// CreateAccountRequest is the input for creating a ledger account.
type CreateAccountRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	AccountType string `json:"accountType"`
}
