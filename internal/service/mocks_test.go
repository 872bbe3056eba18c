package service_test

import (
	"context"
	"sync"

	"github.com/boddenberg/lamf-portal-go/internal/domain"
)

// --- Mocks ---

type mockApplicationStore struct {
	mu          sync.Mutex
	all         []domain.LoanApplication
	byStatus    map[domain.ApplicationStatus][]domain.LoanApplication
	listErr     error
	listCalls   int
	statusCalls []domain.ApplicationStatus
	updates     []domain.UpdateApplicationRequest
	created     []domain.CreateApplicationRequest
}

func (m *mockApplicationStore) ListApplications(_ context.Context) ([]domain.LoanApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	return m.all, m.listErr
}

func (m *mockApplicationStore) ListApplicationsByStatus(_ context.Context, status domain.ApplicationStatus) ([]domain.LoanApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusCalls = append(m.statusCalls, status)
	return m.byStatus[status], m.listErr
}

func (m *mockApplicationStore) UpdateApplication(_ context.Context, id string, req *domain.UpdateApplicationRequest) (*domain.LoanApplication, error) {
	m.updates = append(m.updates, *req)
	return &domain.LoanApplication{ID: id, Status: req.Status}, nil
}

func (m *mockApplicationStore) CreateApplication(_ context.Context, req *domain.CreateApplicationRequest) (*domain.LoanApplication, error) {
	m.created = append(m.created, *req)
	return &domain.LoanApplication{ID: "new-app", Status: req.Status}, nil
}

type mockAccountStore struct {
	accounts []domain.Account
	err      error
	owners   []domain.AccountOwnerFilter
	created  []domain.CreateAccountRequest
}

func (m *mockAccountStore) ListAccounts(_ context.Context, owner domain.AccountOwnerFilter) ([]domain.Account, error) {
	m.owners = append(m.owners, owner)
	return m.accounts, m.err
}

func (m *mockAccountStore) CreateAccount(_ context.Context, req *domain.CreateAccountRequest) (*domain.Account, error) {
	m.created = append(m.created, *req)
	return &domain.Account{ID: "new-acct", AccountType: req.AccountType}, nil
}

type mockCollateralStore struct {
	all      []domain.Collateral
	byStatus map[domain.CollateralStatus][]domain.Collateral
	err      error

	// When set, ListCollaterals signals started and waits for release.
	started chan struct{}
	release chan struct{}

	updates []domain.UpdateCollateralRequest
	pledges []domain.PledgeCollateralRequest
}

func (m *mockCollateralStore) ListCollaterals(_ context.Context) ([]domain.Collateral, error) {
	if m.started != nil {
		close(m.started)
		<-m.release
	}
	return m.all, m.err
}

func (m *mockCollateralStore) ListCollateralsByStatus(_ context.Context, status domain.CollateralStatus) ([]domain.Collateral, error) {
	return m.byStatus[status], m.err
}

func (m *mockCollateralStore) UpdateCollateral(_ context.Context, id string, req *domain.UpdateCollateralRequest) (*domain.Collateral, error) {
	m.updates = append(m.updates, *req)
	return &domain.Collateral{ID: id}, nil
}

func (m *mockCollateralStore) PledgeCollateral(_ context.Context, req *domain.PledgeCollateralRequest) (*domain.Collateral, error) {
	m.pledges = append(m.pledges, *req)
	return &domain.Collateral{ID: "new-coll", Status: req.Status}, nil
}

type mockRepaymentStore struct {
	list          *domain.RepaymentList
	err           error
	customerCalls []string
	loanCalls     []string
	allCalls      int
	created       []domain.CreateRepaymentRequest
}

func (m *mockRepaymentStore) ListRepayments(_ context.Context) (*domain.RepaymentList, error) {
	m.allCalls++
	return m.list, m.err
}

func (m *mockRepaymentStore) ListRepaymentsByCustomer(_ context.Context, id string) (*domain.RepaymentList, error) {
	m.customerCalls = append(m.customerCalls, id)
	return m.list, m.err
}

func (m *mockRepaymentStore) ListRepaymentsByLoan(_ context.Context, id string) (*domain.RepaymentList, error) {
	m.loanCalls = append(m.loanCalls, id)
	return m.list, m.err
}

func (m *mockRepaymentStore) CreateRepayment(_ context.Context, req *domain.CreateRepaymentRequest) (*domain.Repayment, error) {
	m.created = append(m.created, *req)
	return &domain.Repayment{
		ID:     "new-rep",
		Amount: req.Amount,
		Loan:   &domain.Loan{LoanNumber: "LN-1", PrincipalOutstanding: 387500},
	}, nil
}
