package repository

import (
	"context"

	"github.com/JosephChoi/investment-report-sub001/internal/model"

	"gorm.io/gorm"
)

// Store bundles the entity lookups and writes reconciliation needs, bound
// to one gorm handle. Bind it to a transaction and every call is part of
// that transaction's all-or-nothing batch; bind it to the root DB and the
// calls are independent.
type Store struct {
	db            *gorm.DB
	users         *UserRepository
	accounts      *AccountRepository
	balances      *BalanceRepository
	portfolioType *PortfolioTypeRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		users:         NewUserRepository(db),
		accounts:      NewAccountRepository(db),
		balances:      NewBalanceRepository(db),
		portfolioType: NewPortfolioTypeRepository(db),
	}
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.users.GetByEmail(ctx, s.db, email)
}

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	return s.users.Create(ctx, s.db, user)
}

func (s *Store) FindAccountByNumber(ctx context.Context, accountNumber string) (*model.Account, error) {
	return s.accounts.GetByNumber(ctx, s.db, accountNumber)
}

func (s *Store) CreateAccount(ctx context.Context, account *model.Account) error {
	return s.accounts.Create(ctx, s.db, account)
}

func (s *Store) FindPortfolioTypeByName(ctx context.Context, name string) (*model.PortfolioType, error) {
	return s.portfolioType.GetByName(ctx, s.db, name)
}

func (s *Store) CreateBalanceRecord(ctx context.Context, record *model.BalanceRecord) error {
	return s.balances.Create(ctx, s.db, record)
}
