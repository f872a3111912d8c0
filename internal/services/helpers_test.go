package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"rideadmin/internal/models"
	"rideadmin/internal/repositories/documents"
	"rideadmin/internal/repositories/interfaces"
	"rideadmin/pkg/docstore"
	"rideadmin/pkg/identity"
	"rideadmin/pkg/logger"
	"rideadmin/pkg/notify"
)

var day = time.Date(2024, 12, 1, 9, 0, 0, 0, time.UTC)

type testRepos struct {
	store    *docstore.MemoryStore
	accounts interfaces.AccountRepository
	bookings interfaces.BookingRepository
	payments interfaces.PaymentRepository
}

func newTestRepos() *testRepos {
	store := docstore.NewMemoryStore()
	log := logger.NewNop()
	return &testRepos{
		store:    store,
		accounts: documents.NewAccountRepository(store, log),
		bookings: documents.NewBookingRepository(store, log),
		payments: documents.NewPaymentRepository(store, log),
	}
}

func (r *testRepos) putAccount(id, role, name, status string, extra map[string]interface{}) {
	data := map[string]interface{}{"role": role, "name": name}
	if status != "" {
		data["status"] = status
	}
	for k, v := range extra {
		data[k] = v
	}
	r.store.Put(documents.UsersCollection, id, data)
}

func (r *testRepos) putBooking(id string, data map[string]interface{}) {
	r.store.Put(documents.BookingsCollection, id, data)
}

func (r *testRepos) putPayment(id string, amount float64, status string, at time.Time) {
	r.store.Put(documents.PaymentsCollection, id, map[string]interface{}{
		"amount":    amount,
		"status":    status,
		"createdAt": at,
	})
}

func next[T any](t *testing.T, updates <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-updates:
		if !ok {
			t.Fatal("updates closed unexpectedly")
		}
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
	}
	var zero T
	return zero
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

// gatedAccountRepo blocks status writes until the test releases them.
type gatedAccountRepo struct {
	interfaces.AccountRepository
	entered chan struct{}
	release chan error
}

func newGatedAccountRepo(inner interfaces.AccountRepository) *gatedAccountRepo {
	return &gatedAccountRepo{
		AccountRepository: inner,
		entered:           make(chan struct{}),
		release:           make(chan error),
	}
}

func (g *gatedAccountRepo) UpdateStatus(ctx context.Context, id string, status models.AccountStatus) error {
	g.entered <- struct{}{}
	if err := <-g.release; err != nil {
		return err
	}
	return g.AccountRepository.UpdateStatus(ctx, id, status)
}

type failingPaymentRepo struct {
	err error
}

func (f *failingPaymentRepo) SubscribeSuccessful(ctx context.Context) (interfaces.Subscription[*models.Payment], error) {
	return nil, f.err
}

type recordingNotifier struct {
	mu        sync.Mutex
	approvals []*notify.DriverApproval
	err       error
}

func (n *recordingNotifier) Name() string { return "recording" }

func (n *recordingNotifier) NotifyDriverApproved(ctx context.Context, approval *notify.DriverApproval) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.approvals = append(n.approvals, approval)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.approvals)
}

type fakeProvider struct {
	mu         sync.Mutex
	principals map[string]*identity.Principal // keyed by email
	password   string
	signOutErr error
	signedOut  []string
}

func (p *fakeProvider) SignIn(ctx context.Context, email, password string) (*identity.Principal, error) {
	principal, ok := p.principals[email]
	if !ok || password != p.password {
		return nil, identity.ErrInvalidCredentials
	}
	return principal, nil
}

func (p *fakeProvider) SignOut(ctx context.Context, uid string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signedOut = append(p.signedOut, uid)
	return p.signOutErr
}

func (p *fakeProvider) signOuts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.signedOut...)
}
