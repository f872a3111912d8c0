package models

import "time"

type MutationState string

const (
	MutationPending    MutationState = "pending"
	MutationCommitted  MutationState = "committed"
	MutationRolledBack MutationState = "rolled_back"
)

// Mutation records one optimistic status change on an account.
type Mutation struct {
	ID        string        `json:"id"`
	AccountID string        `json:"account_id"`
	Role      Role          `json:"role"`
	From      AccountStatus `json:"from"`
	To        AccountStatus `json:"to"`
	State     MutationState `json:"state"`
	Error     string        `json:"error,omitempty"`
	Notified  bool          `json:"notified"`
	StartedAt time.Time     `json:"started_at"`
	SettledAt *time.Time    `json:"settled_at,omitempty"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required,account_status"`
}
