package documents

import (
	"context"
	"errors"
	"fmt"

	"rideadmin/internal/models"
	"rideadmin/internal/repositories/interfaces"
	"rideadmin/pkg/docstore"
	"rideadmin/pkg/logger"
)

const UsersCollection = "users"

type accountRepository struct {
	store  docstore.Store
	logger *logger.Logger
}

func NewAccountRepository(store docstore.Store, log *logger.Logger) interfaces.AccountRepository {
	return &accountRepository{
		store:  store,
		logger: log.WithField("collection", UsersCollection),
	}
}

func (r *accountRepository) Subscribe(ctx context.Context, role models.Role) (interfaces.Subscription[*models.Account], error) {
	var filters []docstore.Filter
	if role != "" {
		filters = append(filters, docstore.Eq("role", string(role)))
	}

	sub, err := r.store.Subscribe(ctx, UsersCollection, filters...)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to accounts: %w", err)
	}

	return newDecodedSubscription(sub, decodeAccount, r.logger), nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	doc, err := r.store.Get(ctx, UsersCollection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return readAccount(*doc)
}

func (r *accountRepository) UpdateStatus(ctx context.Context, id string, status models.AccountStatus) error {
	err := r.store.Update(ctx, UsersCollection, id, map[string]interface{}{"status": string(status)})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return interfaces.ErrNotFound
		}
		return fmt.Errorf("failed to update account status: %w", err)
	}
	return nil
}

// readAccount decodes a record leniently: role and status come back as stored.
func readAccount(doc docstore.Document) (*models.Account, error) {
	var record accountRecord
	if err := dataTo(doc, &record); err != nil {
		return nil, err
	}
	return record.account(doc.ID), nil
}

// decodeAccount is the strict form used for live listings.
func decodeAccount(doc docstore.Document) (*models.Account, error) {
	account, err := readAccount(doc)
	if err != nil {
		return nil, err
	}

	role, err := models.ParseRole(string(account.Role))
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", doc.ID, err)
	}

	status, err := role.ParseStatus(string(account.Status))
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", doc.ID, err)
	}

	account.Role, account.Status = role, status
	return account, nil
}
