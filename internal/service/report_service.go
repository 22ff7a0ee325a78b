package service

import (
	"context"

	"github.com/JosephChoi/investment-report-sub001/internal/model"
	"github.com/JosephChoi/investment-report-sub001/internal/repository"

	"gorm.io/gorm"
)

// BalanceReport is an account together with its most recent balance record.
type BalanceReport struct {
	Account *model.Account       `json:"account"`
	Latest  *model.BalanceRecord `json:"latest"`
}

// ReportService serves the read side: pass-through queries over the
// reconciled store for customer and operator views.
type ReportService struct {
	accounts *repository.AccountRepository
	balances *repository.BalanceRepository
	overdue  *repository.OverdueRepository
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{
		accounts: repository.NewAccountRepository(db),
		balances: repository.NewBalanceRepository(db),
		overdue:  repository.NewOverdueRepository(db),
	}
}

// CurrentBalance returns the account's latest balance record; Latest is nil
// for an account with no history yet.
func (s *ReportService) CurrentBalance(ctx context.Context, accountNumber string) (*BalanceReport, error) {
	account, err := s.accounts.MustGetByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	latest, err := s.balances.LatestByAccountID(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	return &BalanceReport{Account: account, Latest: latest}, nil
}

// BalanceHistory returns the account's balance records, newest first.
func (s *ReportService) BalanceHistory(ctx context.Context, accountNumber string, limit int) ([]*model.BalanceRecord, error) {
	account, err := s.accounts.MustGetByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	return s.balances.ListByAccountID(ctx, account.ID, limit)
}

// CurrentOverdueBatch returns the rows of the current batch along with its
// batch id. An empty table yields an empty list and "".
func (s *ReportService) CurrentOverdueBatch(ctx context.Context) (string, []*model.OverduePaymentRecord, error) {
	batchID, err := s.overdue.CurrentBatchID(ctx)
	if err != nil {
		return "", nil, err
	}
	if batchID == "" {
		return "", nil, nil
	}
	records, err := s.overdue.ListByBatchID(ctx, batchID)
	if err != nil {
		return "", nil, err
	}
	return batchID, records, nil
}
