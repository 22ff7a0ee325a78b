package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/JosephChoi/investment-report-sub001/internal/model"
)

// DirectStore performs the same entity operations as Store through a plain
// database/sql client with hand-written statements. It is the fallback
// persistence path: every call is an independent, auto-committed write, so
// a row that fails here fails alone. It must never share a connection pool
// or driver state with the ORM path.
type DirectStore struct {
	db *sql.DB
}

func NewDirectStore(db *sql.DB) *DirectStore {
	return &DirectStore{db: db}
}

func (s *DirectStore) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, email, name, phone, role FROM user WHERE email = ?",
		strings.ToLower(email),
	)
	var u model.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Phone, &u.Role); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (s *DirectStore) CreateUser(ctx context.Context, user *model.User) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO user (email, name, phone, role, created_at, updated_at) VALUES (?, ?, ?, ?, NOW(), NOW())",
		strings.ToLower(user.Email), user.Name, user.Phone, user.Role,
	)
	if err != nil {
		return err
	}
	user.ID, err = res.LastInsertId()
	return err
}

func (s *DirectStore) FindAccountByNumber(ctx context.Context, accountNumber string) (*model.Account, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, account_number, user_id, portfolio_type, portfolio_type_id, contract_date FROM account WHERE account_number = ?",
		accountNumber,
	)
	var a model.Account
	if err := row.Scan(&a.ID, &a.AccountNumber, &a.UserID, &a.PortfolioType, &a.PortfolioTypeID, &a.ContractDate); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (s *DirectStore) CreateAccount(ctx context.Context, account *model.Account) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO account (account_number, user_id, portfolio_type, portfolio_type_id, contract_date, created_at, updated_at) VALUES (?, ?, ?, ?, ?, NOW(), NOW())",
		account.AccountNumber, account.UserID, account.PortfolioType, account.PortfolioTypeID, account.ContractDate,
	)
	if err != nil {
		return err
	}
	account.ID, err = res.LastInsertId()
	return err
}

func (s *DirectStore) FindPortfolioTypeByName(ctx context.Context, name string) (*model.PortfolioType, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, category, risk_level FROM portfolio_type WHERE name = ?",
		name,
	)
	var pt model.PortfolioType
	if err := row.Scan(&pt.ID, &pt.Name, &pt.Description, &pt.Category, &pt.RiskLevel); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &pt, nil
}

func (s *DirectStore) CreateBalanceRecord(ctx context.Context, record *model.BalanceRecord) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO balance_record (account_id, balance, record_date, created_at) VALUES (?, ?, ?, NOW())",
		record.AccountID, record.Balance.String(), record.RecordDate,
	)
	if err != nil {
		return err
	}
	record.ID, err = res.LastInsertId()
	return err
}
