package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finledger/ledger-core/internal/apperrors"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the closed set of account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

const (
	maxAccountCodeLength = 20
	maxAccountNameLength = 200
)

// Account represents a ledger account within a tenant namespace.
// Accounts are immutable after creation except for the active flag.
type Account struct {
	AccountID   string      `json:"accountID"` // Primary key (UUID)
	Code        string      `json:"code"`      // Tenant-scoped unique code
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	IsActive    bool        `json:"isActive"`
	AuditFields
}

// NewAccount creates a new active account, enforcing creation invariants.
// It returns the account together with the AccountCreated event describing it;
// code uniqueness is enforced by the storage layer under the concurrency
// coordinator, not here.
func NewAccount(code, name string, accountType AccountType, creatorUserID string, now time.Time) (*Account, Event, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)

	if code == "" {
		return nil, nil, fmt.Errorf("%w: account code is required", apperrors.ErrValidation)
	}
	if len(code) > maxAccountCodeLength {
		return nil, nil, fmt.Errorf("%w: account code must be at most %d characters", apperrors.ErrValidation, maxAccountCodeLength)
	}
	if name == "" {
		return nil, nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}
	if len(name) > maxAccountNameLength {
		return nil, nil, fmt.Errorf("%w: account name must be at most %d characters", apperrors.ErrValidation, maxAccountNameLength)
	}
	if !accountType.IsValid() {
		return nil, nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, accountType)
	}

	account := &Account{
		AccountID:   uuid.NewString(),
		Code:        code,
		Name:        name,
		AccountType: accountType,
		IsActive:    true,
		AuditFields: AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	event := AccountCreated{
		AccountID: account.AccountID,
		Code:      account.Code,
		At:        now,
	}

	return account, event, nil
}
