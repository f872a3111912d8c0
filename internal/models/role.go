package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEnum is wrapped by every Parse* helper in this package when the
// raw value is not a member of the closed set.
var ErrInvalidEnum = errors.New("invalid enum value")

type Role string

const (
	RoleClient Role = "client"
	RoleDriver Role = "driver"
	RoleAdmin  Role = "admin"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusBanned   AccountStatus = "banned"
	AccountStatusOffline  AccountStatus = "offline"
	AccountStatusRejected AccountStatus = "rejected"
)

func ParseRole(raw string) (Role, error) {
	switch Role(strings.TrimSpace(raw)) {
	case RoleClient:
		return RoleClient, nil
	case RoleDriver:
		return RoleDriver, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("%w: role %q", ErrInvalidEnum, raw)
	}
}

// Managed reports whether accounts of this role are listed on a management screen.
func (r Role) Managed() bool {
	switch r {
	case RoleClient, RoleDriver:
		return true
	case RoleAdmin:
		return false
	default:
		return false
	}
}

// Statuses lists every status an account of this role may hold.
func (r Role) Statuses() []AccountStatus {
	switch r {
	case RoleClient:
		return []AccountStatus{AccountStatusActive, AccountStatusBanned}
	case RoleDriver:
		return []AccountStatus{AccountStatusActive, AccountStatusOffline, AccountStatusRejected, AccountStatusBanned}
	case RoleAdmin:
		return []AccountStatus{AccountStatusActive}
	default:
		return nil
	}
}

// InitialStatus is the status assumed when a stored record carries none.
func (r Role) InitialStatus() AccountStatus {
	switch r {
	case RoleDriver:
		return AccountStatusOffline
	case RoleClient, RoleAdmin:
		return AccountStatusActive
	default:
		return ""
	}
}

// ParseStatus validates raw against the role's status set. An empty value
// maps to InitialStatus; anything else outside the set is an error.
func (r Role) ParseStatus(raw string) (AccountStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return r.InitialStatus(), nil
	}
	for _, s := range r.Statuses() {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %s status %q", ErrInvalidEnum, r, raw)
}

// Transitions returns the statuses offered as actions for an account in
// state from. Drivers move through an approval flow; clients toggle a ban.
func (r Role) Transitions(from AccountStatus) []AccountStatus {
	switch r {
	case RoleDriver:
		switch from {
		case AccountStatusOffline:
			return []AccountStatus{AccountStatusActive, AccountStatusRejected}
		case AccountStatusActive:
			return []AccountStatus{AccountStatusBanned}
		case AccountStatusBanned, AccountStatusRejected:
			return []AccountStatus{AccountStatusActive}
		}
	case RoleClient:
		switch from {
		case AccountStatusActive:
			return []AccountStatus{AccountStatusBanned}
		case AccountStatusBanned:
			return []AccountStatus{AccountStatusActive}
		}
	case RoleAdmin:
	}
	return nil
}

// Collection label used in messages, "user" for clients.
func (r Role) Label() string {
	switch r {
	case RoleClient:
		return "user"
	case RoleDriver:
		return "driver"
	case RoleAdmin:
		return "admin"
	default:
		return string(r)
	}
}
