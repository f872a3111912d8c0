package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"rideadmin/internal/models"
	"rideadmin/internal/repositories/interfaces"
	"rideadmin/internal/utils"
	"rideadmin/pkg/logger"
	"rideadmin/pkg/notify"
	"rideadmin/pkg/storage"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// AccountService backs the user and driver management screens.
type AccountService interface {
	List(ctx context.Context, role models.Role, filter models.AccountFilter) (*models.AccountList, error)
	// Watch opens a live, filterable view of one role. The caller must Close it.
	Watch(ctx context.Context, role models.Role, filter models.AccountFilter) (*AccountView, error)
	UpdateStatus(ctx context.Context, adminID string, role models.Role, id, status string) (*models.Mutation, error)
	DriverDocuments(ctx context.Context, id string) ([]models.DriverDocument, error)
}

type AccountServiceConfig struct {
	SearchDebounce time.Duration
	DocumentURLTTL time.Duration
}

type accountService struct {
	accountRepo interfaces.AccountRepository
	bookingRepo interfaces.BookingRepository
	notifier    notify.Notifier
	storage     storage.StorageProvider
	config      AccountServiceConfig
	logger      *logger.Logger
	now         func() time.Time
}

func NewAccountService(
	accountRepo interfaces.AccountRepository,
	bookingRepo interfaces.BookingRepository,
	notifier notify.Notifier,
	storageProvider storage.StorageProvider,
	config AccountServiceConfig,
	log *logger.Logger,
) AccountService {
	return &accountService{
		accountRepo: accountRepo,
		bookingRepo: bookingRepo,
		notifier:    notifier,
		storage:     storageProvider,
		config:      config,
		logger:      log.WithComponent("accounts"),
		now:         time.Now,
	}
}

func (s *accountService) List(ctx context.Context, role models.Role, filter models.AccountFilter) (*models.AccountList, error) {
	view, err := s.Watch(ctx, role, filter)
	if err != nil {
		return nil, err
	}
	return firstValue(ctx, view.LiveView)
}

func (s *accountService) Watch(ctx context.Context, role models.Role, filter models.AccountFilter) (*AccountView, error) {
	if !role.Managed() {
		return nil, fmt.Errorf("%w: role %q", ErrInvalidFilter, role)
	}
	if err := ValidateAccountFilter(role, filter); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	sub, err := s.accountRepo.Subscribe(ctx, role)
	if err != nil {
		cancel()
		return nil, err
	}

	view := &AccountView{
		role:      role,
		service:   s,
		filter:    filter,
		totals:    make(map[string]int),
		refresh:   make(chan struct{}, 1),
		debouncer: utils.NewDebouncer(s.config.SearchDebounce),
	}
	view.LiveView = newLiveView[*models.AccountList](cancel, func() {
		view.debouncer.Stop()
		sub.Stop()
	})

	view.run(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case snap, ok := <-sub.Updates():
				if !ok {
					return streamEnded(ctx, role.Label()+"s", sub.Err())
				}
				totals := s.countRides(ctx, role, snap.Items)
				view.replace(snap, totals)
			case <-view.refresh:
			}

			if list := view.Current(); list != nil {
				view.publish(list)
			}
		}
	})

	return view, nil
}

// countRides derives each account's ride total from the bookings that
// reference it. One query per account; failures count as zero.
func (s *accountService) countRides(ctx context.Context, role models.Role, accounts []*models.Account) map[string]int {
	totals := make(map[string]int, len(accounts))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(utils.MaxConcurrentLookups)
	for _, a := range accounts {
		g.Go(func() error {
			var (
				n   int
				err error
			)
			if role == models.RoleDriver {
				n, err = s.bookingRepo.CountByDriver(ctx, a.ID)
			} else {
				n, err = s.bookingRepo.CountByClient(ctx, a.BookingKey())
			}
			if err != nil {
				if ctx.Err() == nil {
					s.logger.WithError(err).WithField("account_id", a.ID).Warn("Failed to count rides")
				}
				return nil
			}

			mu.Lock()
			totals[a.ID] = n
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return totals
}

func (s *accountService) UpdateStatus(ctx context.Context, adminID string, role models.Role, id, status string) (*models.Mutation, error) {
	to, err := parseTargetStatus(role, status)
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) || errors.Is(err, interfaces.ErrInvalidRecord) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	if account.Role != role {
		return nil, ErrAccountNotFound
	}

	return s.commit(ctx, adminID, account, to, nil)
}

// commit writes an optimistic status change. The local copy has already been
// updated by the caller; rollback restores it when the write fails.
func (s *accountService) commit(ctx context.Context, adminID string, before *models.Account, to models.AccountStatus, rollback func()) (*models.Mutation, error) {
	mutation := &models.Mutation{
		ID:        uuid.NewString(),
		AccountID: before.ID,
		Role:      before.Role,
		From:      before.Status,
		To:        to,
		State:     models.MutationPending,
		StartedAt: s.now(),
	}

	err := s.accountRepo.UpdateStatus(ctx, before.ID, to)
	settled := s.now()
	mutation.SettledAt = &settled

	if err != nil {
		if rollback != nil {
			rollback()
		}
		mutation.State = models.MutationRolledBack
		mutation.Error = err.Error()
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"account_id": before.ID,
			"from":       before.Status,
			"to":         to,
		}).Error("Status update failed, rolled back")
		return mutation, fmt.Errorf("%w: %w", ErrStatusUpdateFailed, err)
	}

	mutation.State = models.MutationCommitted
	s.logger.LogAdminAction(adminID, "update_"+before.Role.Label()+"_status", map[string]interface{}{
		"account_id":  before.ID,
		"from":        before.Status,
		"to":          to,
		"mutation_id": mutation.ID,
	})

	if before.Role == models.RoleDriver && to == models.AccountStatusActive {
		mutation.Notified = s.notifyApproval(context.WithoutCancel(ctx), before)
	}

	return mutation, nil
}

func (s *accountService) notifyApproval(ctx context.Context, driver *models.Account) bool {
	if s.notifier == nil {
		return false
	}

	err := s.notifier.NotifyDriverApproved(ctx, &notify.DriverApproval{
		DriverID: driver.ID,
		Email:    driver.Email,
		Name:     driver.Name,
		Phone:    driver.Phone,
	})
	if err != nil {
		s.logger.WithError(err).WithField("driver_id", driver.ID).Warn("Driver approval notification failed")
		return false
	}
	return true
}

func (s *accountService) DriverDocuments(ctx context.Context, id string) ([]models.DriverDocument, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) || errors.Is(err, interfaces.ErrInvalidRecord) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	if account.Role != models.RoleDriver {
		return nil, ErrAccountNotFound
	}

	names := make([]string, 0, len(account.Documents))
	for name := range account.Documents {
		names = append(names, name)
	}
	sort.Strings(names)

	documents := make([]models.DriverDocument, 0, len(names))
	for _, name := range names {
		ref := account.Documents[name]
		if ref == "" {
			continue
		}

		link := ref
		if !storage.IsURL(ref) {
			link, err = s.storage.GetURL(ctx, ref, s.config.DocumentURLTTL)
			if err != nil {
				return nil, fmt.Errorf("failed to sign %s document: %w", name, err)
			}
		}

		documents = append(documents, models.DriverDocument{Name: name, Key: ref, URL: link})
	}

	return documents, nil
}

// ValidateAccountFilter accepts "all", empty, or a status of the role.
func ValidateAccountFilter(role models.Role, filter models.AccountFilter) error {
	if filter.Status == "" || filter.Status == utils.FilterAll {
		return nil
	}
	for _, s := range role.Statuses() {
		if string(s) == filter.Status {
			return nil
		}
	}
	return fmt.Errorf("%w: %s status %q", ErrInvalidFilter, role.Label(), filter.Status)
}

func parseTargetStatus(role models.Role, raw string) (models.AccountStatus, error) {
	if raw == "" {
		return "", ErrInvalidStatus
	}
	status, err := role.ParseStatus(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidStatus, err)
	}
	return status, nil
}

// FilterAccounts applies the search and status filter. Search matches name,
// email and phone, plus the licence number for drivers.
func FilterAccounts(accounts []*models.Account, filter models.AccountFilter) []*models.Account {
	out := make([]*models.Account, 0, len(accounts))
	for _, a := range accounts {
		if filter.Status != "" && filter.Status != utils.FilterAll && string(a.Status) != filter.Status {
			continue
		}

		fields := []string{a.Name, a.Email, a.Phone}
		if a.Role == models.RoleDriver {
			fields = append(fields, a.LicenseNumber)
		}
		if !utils.MatchesAny(filter.Search, fields...) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// AccountView is a live management table for one role. It holds its own copy
// of the accounts, so optimistic status changes show up immediately and are
// rolled back locally when the store rejects them.
type AccountView struct {
	*LiveView[*models.AccountList]

	role      models.Role
	service   *accountService
	debouncer *utils.Debouncer
	refresh   chan struct{}

	mu       sync.Mutex
	ready    bool
	accounts []*models.Account
	totals   map[string]int
	skipped  int
	filter   models.AccountFilter
}

func (v *AccountView) replace(snap interfaces.Snapshot[*models.Account], totals map[string]int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.accounts = snap.Items
	v.totals = totals
	v.skipped = snap.Skipped
	v.ready = true
}

func (v *AccountView) signal() {
	select {
	case v.refresh <- struct{}{}:
	default:
	}
}

// Current renders the table as it stands. It is nil until the first snapshot
// has arrived.
func (v *AccountView) Current() *models.AccountList {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.ready {
		return nil
	}

	filtered := FilterAccounts(v.accounts, v.filter)
	rows := make([]*models.AccountRow, 0, len(filtered))
	for _, a := range filtered {
		rows = append(rows, &models.AccountRow{
			Account:        a.Clone(),
			TotalRides:     v.totals[a.ID],
			AllowedActions: v.role.Transitions(a.Status),
		})
	}

	return &models.AccountList{
		Role:    v.role,
		Filter:  v.filter,
		Rows:    rows,
		Total:   len(v.accounts),
		Skipped: v.skipped,
	}
}

// SetFilter replaces the filter after the debounce period.
func (v *AccountView) SetFilter(filter models.AccountFilter) error {
	if err := ValidateAccountFilter(v.role, filter); err != nil {
		return err
	}

	v.debouncer.Submit(func() {
		v.mu.Lock()
		v.filter = filter
		v.mu.Unlock()
		v.signal()
	})
	return nil
}

// UpdateStatus applies the change to the view at once, then writes it. When
// the write fails the account goes back to its previous status, unless a
// newer change has replaced it in the meantime.
func (v *AccountView) UpdateStatus(ctx context.Context, adminID, id, status string) (*models.Mutation, error) {
	to, err := parseTargetStatus(v.role, status)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	account := v.find(id)
	if account == nil {
		v.mu.Unlock()
		return nil, ErrAccountNotFound
	}
	before := account.Clone()
	account.Status = to
	v.mu.Unlock()
	v.signal()

	return v.service.commit(ctx, adminID, before, to, func() {
		v.mu.Lock()
		if current := v.find(id); current != nil && current.Status == to {
			current.Status = before.Status
		}
		v.mu.Unlock()
		v.signal()
	})
}

func (v *AccountView) find(id string) *models.Account {
	for _, a := range v.accounts {
		if a.ID == id {
			return a
		}
	}
	return nil
}
