package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/JosephChoi/investment-report-sub001/internal/config"
	"github.com/JosephChoi/investment-report-sub001/internal/logging"
	"github.com/JosephChoi/investment-report-sub001/internal/model"
	"github.com/JosephChoi/investment-report-sub001/internal/repository"
	"github.com/JosephChoi/investment-report-sub001/pkg/dateutil"
	"github.com/JosephChoi/investment-report-sub001/pkg/idgen"
	"github.com/JosephChoi/investment-report-sub001/pkg/spreadsheet"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// EntityStore is the persistence contract reconciliation runs against. Two
// implementations exist with different failure semantics: the gorm store
// bound to a transaction (all-or-nothing across the batch) and the direct
// database/sql store (independent auto-committed calls).
type EntityStore interface {
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	FindAccountByNumber(ctx context.Context, accountNumber string) (*model.Account, error)
	CreateAccount(ctx context.Context, account *model.Account) error
	FindPortfolioTypeByName(ctx context.Context, name string) (*model.PortfolioType, error)
	CreateBalanceRecord(ctx context.Context, record *model.BalanceRecord) error
}

// OutboxWriter enqueues an upload audit event.
type OutboxWriter interface {
	Enqueue(ctx context.Context, msg *model.OutboxMessage) error
}

// RowFailure describes a single skipped or failed data row. Row is the
// 1-based data row number (header excluded), matching what the operator
// sees in the spreadsheet minus one.
type RowFailure struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ReconciledEntry is one successfully processed {user, account, balance}
// triple.
type ReconciledEntry struct {
	UserID        int64           `json:"user_id"`
	AccountID     int64           `json:"account_id"`
	Email         string          `json:"email"`
	AccountNumber string          `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
}

// UploadResult is the structured outcome of a portfolio upload. Partial
// success is explicit: Processed counts persisted rows, Skipped counts rows
// rejected by validation, Failures lists per-row reasons, and Path names
// which persistence path actually committed the data.
type UploadResult struct {
	UploadNo   string            `json:"upload_no"`
	FileName   string            `json:"file_name"`
	RecordDate string            `json:"record_date"`
	Path       string            `json:"path"`
	Processed  int               `json:"processed"`
	Skipped    int               `json:"skipped"`
	Failures   []RowFailure      `json:"failures,omitempty"`
	Entries    []ReconciledEntry `json:"entries"`
}

// IngestService runs the portfolio ingestion pipeline: parse, normalize,
// reconcile, persist. Persistence is two-staged: a gorm transaction first,
// and on any transaction error the same logical operations re-run row by
// row through the independent direct client, logging and skipping row
// failures instead of aborting the upload.
type IngestService struct {
	cfg *config.Config
	log *logrus.Logger

	runTx  func(ctx context.Context, fn func(store EntityStore, outbox OutboxWriter) error) error
	direct EntityStore
	outbox OutboxWriter
}

func NewIngestService(db *gorm.DB, directDB *sql.DB, cfg *config.Config) *IngestService {
	return &IngestService{
		cfg: cfg,
		log: logging.GetLogger(),
		runTx: func(ctx context.Context, fn func(store EntityStore, outbox OutboxWriter) error) error {
			return db.Transaction(func(tx *gorm.DB) error {
				return fn(repository.NewStore(tx), repository.NewOutboxRepository(tx))
			})
		},
		direct: repository.NewDirectStore(directDB),
		outbox: repository.NewOutboxRepository(db),
	}
}

// ProcessPortfolioUpload ingests one uploaded roster/balance spreadsheet.
// defaultPortfolio fills in for rows whose portfolio column is blank.
// Validation failures (missing filename date, empty or unreadable sheet)
// reject the upload before any write.
func (s *IngestService) ProcessPortfolioUpload(ctx context.Context, fileName string, data []byte, defaultPortfolio string) (*UploadResult, error) {
	recordDate, err := dateutil.ExtractFileDate(fileName)
	if err != nil {
		return nil, err
	}

	doc, err := spreadsheet.Parse(data, fileName)
	if err != nil {
		return nil, err
	}

	result := &UploadResult{
		UploadNo:   idgen.GenerateUploadNo(),
		FileName:   fileName,
		RecordDate: recordDate.Format(dateutil.DateFormat),
	}

	txErr := s.runTx(ctx, func(store EntityStore, outbox OutboxWriter) error {
		report, err := s.reconcileRows(ctx, store, doc.Rows, recordDate, defaultPortfolio, false)
		if err != nil {
			return err
		}
		result.apply(report, PathTransactional)
		return outbox.Enqueue(ctx, s.uploadEvent(result, "portfolio"))
	})
	if txErr == nil {
		return result, nil
	}

	s.log.WithFields(logrus.Fields{
		"upload_no": result.UploadNo,
		"file":      fileName,
		"error":     txErr.Error(),
	}).Warn("transactional path failed, falling back to direct path")

	report, err := s.reconcileRows(ctx, s.direct, doc.Rows, recordDate, defaultPortfolio, true)
	if err != nil {
		return nil, &PersistenceError{Path: PathDirect, Err: err}
	}
	// A fallback run that persisted nothing because every row hit a store
	// error means both paths failed; that is fatal, not a partial success.
	if report.processed == 0 && report.storeFailures > 0 {
		return nil, &PersistenceError{
			Path: PathDirect,
			Err:  fmt.Errorf("no rows persisted, %d store failures", report.storeFailures),
		}
	}
	result.apply(report, PathDirect)

	// Audit event is best-effort on the fallback path; the data itself is
	// already committed row by row.
	if err := s.outbox.Enqueue(ctx, s.uploadEvent(result, "portfolio")); err != nil {
		s.log.WithField("upload_no", result.UploadNo).Warnf("failed to enqueue upload event: %v", err)
	}
	return result, nil
}

type reconcileReport struct {
	processed     int
	skipped       int
	storeFailures int // rows lost to store errors, as opposed to validation skips
	failures      []RowFailure
	entries       []ReconciledEntry
}

func (r *UploadResult) apply(rep *reconcileReport, path string) {
	r.Path = path
	r.Processed = rep.processed
	r.Skipped = rep.skipped
	r.Failures = rep.failures
	r.Entries = rep.entries
}

// reconcileRows maps every data row to persistent entities: find-or-create
// user by lowercased email, find-or-create account by account number, and
// an unconditional balance record append. Rows missing required fields are
// always skipped and counted, never fatal. Store errors abort when
// continueOnError is false (the transactional stage, where one error rolls
// the whole batch back) and are logged and skipped when true (the direct
// stage). Rows run strictly sequentially so two rows naming the same
// not-yet-created entity cannot race a duplicate into existence.
func (s *IngestService) reconcileRows(ctx context.Context, store EntityStore, rows []spreadsheet.Row, recordDate time.Time, defaultPortfolio string, continueOnError bool) (*reconcileReport, error) {
	report := &reconcileReport{}

	for i, row := range rows {
		rowNo := i + 1

		name := row["name"]
		email := strings.ToLower(strings.TrimSpace(row["email"]))
		accountNumber := row["account_number"]
		portfolioName := row["portfolio_name"]
		if portfolioName == "" {
			portfolioName = defaultPortfolio
		}
		balanceRaw := row["end_of_period_balance"]
		if balanceRaw == "" {
			balanceRaw = row["balance"]
		}

		if name == "" || email == "" || accountNumber == "" || portfolioName == "" || balanceRaw == "" {
			report.skipped++
			report.failures = append(report.failures, RowFailure{Row: rowNo, Reason: "missing required field"})
			continue
		}

		balance, err := parseAmount(balanceRaw)
		if err != nil {
			report.skipped++
			report.failures = append(report.failures, RowFailure{Row: rowNo, Reason: fmt.Sprintf("unreadable balance %q", balanceRaw)})
			continue
		}

		entry, err := s.reconcileRow(ctx, store, row, name, email, accountNumber, portfolioName, balance, recordDate)
		if err != nil {
			if !continueOnError {
				return nil, fmt.Errorf("row %d: %w", rowNo, err)
			}
			s.log.WithFields(logrus.Fields{
				"row":   rowNo,
				"email": email,
			}).Warnf("direct path row failed, skipping: %v", err)
			report.storeFailures++
			report.failures = append(report.failures, RowFailure{Row: rowNo, Reason: err.Error()})
			continue
		}

		report.processed++
		report.entries = append(report.entries, *entry)
	}

	return report, nil
}

func (s *IngestService) reconcileRow(ctx context.Context, store EntityStore, row spreadsheet.Row, name, email, accountNumber, portfolioName string, balance decimal.Decimal, recordDate time.Time) (*ReconciledEntry, error) {
	user, err := store.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		user = &model.User{
			Email: email,
			Name:  name,
			Phone: row["phone"],
			Role:  s.roleFor(email),
		}
		if err := store.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	}

	account, err := store.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	if account == nil {
		account = &model.Account{
			AccountNumber: accountNumber,
			UserID:        user.ID,
			PortfolioType: portfolioName,
			ContractDate:  parseOptionalDate(row["contract_date"]),
		}
		// Lookup resolution is best-effort: a missing portfolio type row
		// leaves the id null, it never blocks the account.
		if pt, err := store.FindPortfolioTypeByName(ctx, portfolioName); err != nil {
			s.log.Warnf("portfolio type lookup failed for %q: %v", portfolioName, err)
		} else if pt != nil {
			account.PortfolioTypeID = &pt.ID
		} else {
			s.log.Infof("no portfolio type named %q, storing account without lookup id", portfolioName)
		}
		if err := store.CreateAccount(ctx, account); err != nil {
			return nil, fmt.Errorf("create account: %w", err)
		}
	}

	record := &model.BalanceRecord{
		AccountID:  account.ID,
		Balance:    balance,
		RecordDate: recordDate,
	}
	if err := store.CreateBalanceRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("create balance record: %w", err)
	}

	return &ReconciledEntry{
		UserID:        user.ID,
		AccountID:     account.ID,
		Email:         email,
		AccountNumber: accountNumber,
		Balance:       balance,
	}, nil
}

func (s *IngestService) roleFor(email string) string {
	if s.cfg.Business.IsAdminEmail(email) {
		return model.RoleAdmin
	}
	return s.cfg.Business.DefaultRole
}

func (s *IngestService) uploadEvent(result *UploadResult, kind string) *model.OutboxMessage {
	payload, _ := json.Marshal(map[string]interface{}{
		"upload_no":   result.UploadNo,
		"kind":        kind,
		"file_name":   result.FileName,
		"record_date": result.RecordDate,
		"path":        result.Path,
		"processed":   result.Processed,
		"skipped":     result.Skipped,
	})
	return &model.OutboxMessage{
		MessageKey: result.UploadNo,
		Topic:      s.cfg.Kafka.Topic.UploadResult,
		Payload:    string(payload),
		Status:     model.OutboxStatusPending,
	}
}

// parseAmount reads a money cell, tolerating thousands separators.
func parseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	return decimal.NewFromString(cleaned)
}

func parseOptionalDate(raw string) *time.Time {
	normalized := dateutil.NormalizeDate(raw)
	if normalized == "" {
		return nil
	}
	t, err := time.Parse(dateutil.DateFormat, normalized)
	if err != nil {
		return nil
	}
	return &t
}
