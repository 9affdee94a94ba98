package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/finance-dashboard/internal/errors"
	"github.com/finance-dashboard/internal/logging"
	"github.com/finance-dashboard/internal/models"
	"github.com/finance-dashboard/internal/types"
	"github.com/jackc/pgx/v5"
)

// IngestService imports transactions from uploaded CSV files. The whole
// batch is validated before any row is inserted; a file with any invalid
// row is rejected with per-row errors and leaves no partial state.
type IngestService struct {
	runner          TxRunner
	transactionRepo TransactionRepository
	accountRepo     AccountReader
	balances        BalanceWriter
	logger          *logging.Logger
}

// NewIngestService creates a new ingestion service
func NewIngestService(runner TxRunner, transactionRepo TransactionRepository, accountRepo AccountReader, balances BalanceWriter, logger *logging.Logger) *IngestService {
	return &IngestService{
		runner:          runner,
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		balances:        balances,
		logger:          logger,
	}
}

// IngestResult summarizes a successful import
type IngestResult struct {
	AccountID string `json:"account_id"`
	Imported  int    `json:"imported"`
}

// ingestRow is a validated CSV row awaiting insertion
type ingestRow struct {
	amount      float64
	category    types.TransactionCategory
	description *string
	timestamp   time.Time
}

// UploadCSV parses and imports a transaction CSV for a user. The target
// account is accountID when given, otherwise the user's oldest account. The
// required columns are amount and category; description and timestamp are
// optional. Unknown categories coerce to other.
func (s *IngestService) UploadCSV(ctx context.Context, userID, accountID string, r io.Reader) (*IngestResult, error) {
	targetID, err := s.resolveTargetAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	rows, err := parseCSV(r)
	if err != nil {
		return nil, err
	}

	var delta float64
	transactions := make([]*models.Transaction, len(rows))
	for i, row := range rows {
		transactions[i] = &models.Transaction{
			AccountID:   targetID,
			Amount:      row.amount,
			Category:    row.category,
			Description: row.description,
			Timestamp:   row.timestamp,
		}
		delta += row.amount
	}

	err = s.runner.WithinTx(ctx, func(tx pgx.Tx) error {
		for _, txn := range transactions {
			if err := s.transactionRepo.CreateTx(ctx, tx, txn); err != nil {
				return err
			}
		}
		if len(transactions) == 0 {
			return nil
		}
		return s.balances.ApplyBalanceDeltaTx(ctx, tx, targetID, delta)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"account_id": targetID,
		"rows":       len(transactions),
	}).Info("imported transaction batch")

	return &IngestResult{AccountID: targetID, Imported: len(transactions)}, nil
}

// resolveTargetAccount picks the account the batch lands in, checking
// ownership of an explicit id
func (s *IngestService) resolveTargetAccount(ctx context.Context, userID, accountID string) (string, error) {
	if accountID != "" {
		owned, err := s.accountRepo.ExistsByIDAndUser(ctx, accountID, userID)
		if err != nil {
			return "", err
		}
		if !owned {
			return "", &types.ServiceError{Code: "ACCOUNT_NOT_FOUND", Message: fmt.Sprintf("account not found: %s", accountID)}
		}
		return accountID, nil
	}

	account, err := s.accountRepo.GetFirstByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return account.ID, nil
}

// parseCSV reads the full file and validates every row before returning.
// Any invalid row fails the whole batch with a per-row error report.
func parseCSV(r io.Reader) ([]ingestRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &types.ServiceError{Code: "MISSING_COLUMNS", Message: "file is empty"}
	}
	if err != nil {
		return nil, &types.ServiceError{Code: "INVALID_INPUT", Message: fmt.Sprintf("failed to read header: %v", err)}
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	amountIdx, hasAmount := columns["amount"]
	categoryIdx, hasCategory := columns["category"]
	if !hasAmount || !hasCategory {
		var missing []string
		if !hasAmount {
			missing = append(missing, "amount")
		}
		if !hasCategory {
			missing = append(missing, "category")
		}
		return nil, &types.ServiceError{
			Code:    "MISSING_COLUMNS",
			Message: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")),
			Details: map[string]interface{}{"missing": missing},
		}
	}

	descriptionIdx, hasDescription := columns["description"]
	timestampIdx, hasTimestamp := columns["timestamp"]

	var rows []ingestRow
	var rowErrors []errors.RowError
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrors = append(rowErrors, errors.RowError{Row: line, Message: err.Error()})
			continue
		}

		row := ingestRow{}

		amount, err := strconv.ParseFloat(strings.TrimSpace(record[amountIdx]), 64)
		if err != nil {
			rowErrors = append(rowErrors, errors.RowError{
				Row:     line,
				Message: fmt.Sprintf("invalid amount: %q", record[amountIdx]),
			})
			continue
		}
		row.amount = amount

		row.category = types.NormalizeCategory(strings.TrimSpace(record[categoryIdx]))

		if hasDescription && descriptionIdx < len(record) {
			if desc := strings.TrimSpace(record[descriptionIdx]); desc != "" {
				row.description = &desc
			}
		}

		if hasTimestamp && timestampIdx < len(record) {
			raw := strings.TrimSpace(record[timestampIdx])
			if raw != "" {
				ts, err := parseTimestamp(raw)
				if err != nil {
					rowErrors = append(rowErrors, errors.RowError{
						Row:     line,
						Message: fmt.Sprintf("invalid timestamp: %q", raw),
					})
					continue
				}
				row.timestamp = ts
			}
		}

		rows = append(rows, row)
	}

	if len(rowErrors) > 0 {
		return nil, errors.NewBatchValidationError(rowErrors)
	}

	return rows, nil
}

// parseTimestamp accepts RFC 3339 timestamps and bare dates
func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format")
}
