package models

// Account is the persistence representation of a ledger account row.
type Account struct {
	AccountID   string
	Code        string
	Name        string
	AccountType string
	IsActive    bool
	AuditFields
}
