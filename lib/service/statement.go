package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/surau-digital/surauhub/common"
	"github.com/surau-digital/surauhub/db/models"
	"github.com/surau-digital/surauhub/lib/accounting"
	"github.com/surau-digital/surauhub/lib/statement"
	"github.com/uptrace/bun"
)

type StatementUpload struct {
	Month          int
	Year           int
	OpeningBalance decimal.NullDecimal
	FileName       string
	Content        io.Reader
	UploadedBy     int64
}

type StatementImportResult struct {
	Statement *models.BankStatement `json:"statement"`
	Inserted  int                   `json:"inserted"`
	Skipped   int                   `json:"skipped"`
	Errors    []string              `json:"errors,omitempty"`
}

// ImportStatement parses a bank statement CSV and stores it with its
// transactions in one database transaction. Unreadable rows are skipped.
func (svc *SurauService) ImportStatement(ctx context.Context, upload StatementUpload) (*StatementImportResult, error) {
	if _, err := accounting.NewPeriod(upload.Year, upload.Month); err != nil {
		return nil, invalid("%v", err)
	}
	content, err := io.ReadAll(upload.Content)
	if err != nil {
		return nil, err
	}
	parsed, err := statement.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, invalid("could not read statement file: %v", err)
	}

	exists, err := svc.statementExists(ctx, svc.DB, upload.Month, upload.Year)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateStatement
	}

	var location string
	if svc.Archive != nil {
		location, err = svc.Archive.Save(ctx, "statements", upload.FileName, bytes.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("archive statement file: %w", err)
		}
	}

	stmt := &models.BankStatement{
		Month:          upload.Month,
		Year:           upload.Year,
		OpeningBalance: upload.OpeningBalance,
		FileName:       upload.FileName,
		FilePath:       location,
		UploadedBy:     upload.UploadedBy,
	}
	err = svc.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// checked again inside the transaction, the unique index is the last line of defence
		exists, err := svc.statementExists(ctx, tx, upload.Month, upload.Year)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateStatement
		}
		if _, err := tx.NewInsert().Model(stmt).Exec(ctx); err != nil {
			return err
		}
		transactions := make([]models.Transaction, 0, len(parsed.Rows))
		for _, row := range parsed.Rows {
			transactions = append(transactions, models.Transaction{
				StatementID:     stmt.ID,
				TransactionDate: row.Date,
				CustomerEftNo:   row.CustomerEftNo,
				TransactionCode: row.TransactionCode,
				Description:     row.Description,
				Reference:       row.Reference,
				Branch:          row.Branch,
				DebitAmount:     row.Debit,
				CreditAmount:    row.Credit,
				Balance:         row.Balance,
				Counterparty:    row.Counterparty,
				PaymentDetails:  row.PaymentDetails,
				TransactionType: common.TransactionTypeUncategorized,
			})
		}
		if len(transactions) > 0 {
			if _, err := tx.NewInsert().Model(&transactions).Exec(ctx); err != nil {
				return err
			}
			stmt.TotalTransactions = len(transactions)
		}
		_, err = tx.NewUpdate().Model(stmt).Column("total_transactions", "updated_at").WherePK().Exec(ctx)
		return err
	})
	if err != nil {
		if location != "" {
			if delErr := svc.Archive.Delete(ctx, location); delErr != nil {
				svc.Logger.Errorf("Could not remove archived statement file %s: %v", location, delErr)
			}
		}
		return nil, err
	}

	result := &StatementImportResult{
		Statement: stmt,
		Inserted:  stmt.TotalTransactions,
		Skipped:   len(parsed.Skipped),
	}
	for _, skipped := range parsed.Skipped {
		svc.Logger.Warnf("Statement %d/%d: skipped %s", upload.Month, upload.Year, skipped.Error())
		result.Errors = append(result.Errors, skipped.Error())
	}
	svc.publish(models.Event{
		Type:     common.EventStatementImported,
		EntityID: stmt.ID,
		Tahun:    stmt.Year,
		Bulan:    stmt.Month,
		UserID:   upload.UploadedBy,
		Data:     map[string]interface{}{"inserted": result.Inserted, "skipped": result.Skipped},
	})
	return result, nil
}

func (svc *SurauService) statementExists(ctx context.Context, db bun.IDB, month, year int) (bool, error) {
	return db.NewSelect().Model((*models.BankStatement)(nil)).
		Where("month = ?", month).
		Where("year = ?", year).
		Exists(ctx)
}

func (svc *SurauService) ListStatements(ctx context.Context, year int) ([]models.BankStatement, error) {
	statements := []models.BankStatement{}
	q := svc.DB.NewSelect().Model(&statements).OrderExpr("year DESC, month DESC")
	if year != 0 {
		q = q.Where("year = ?", year)
	}
	err := q.Scan(ctx)
	return statements, err
}

func (svc *SurauService) FindStatement(ctx context.Context, id int64, withTransactions bool) (*models.BankStatement, error) {
	var stmt models.BankStatement
	q := svc.DB.NewSelect().Model(&stmt).Where("bank_statement.id = ?", id)
	if withTransactions {
		q = q.Relation("Transactions", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("transaction_date ASC, id ASC")
		})
	}
	if err := q.Limit(1).Scan(ctx); err != nil {
		return nil, notFound(err, "statement")
	}
	return &stmt, nil
}

type StatementBalances struct {
	OpeningBalance     decimal.NullDecimal
	ClosingBalanceBank decimal.NullDecimal
}

// UpdateStatementBalances replaces both balances. A null value clears it.
func (svc *SurauService) UpdateStatementBalances(ctx context.Context, id int64, balances StatementBalances) (*models.BankStatement, error) {
	stmt, err := svc.FindStatement(ctx, id, false)
	if err != nil {
		return nil, err
	}
	stmt.OpeningBalance = balances.OpeningBalance
	stmt.ClosingBalanceBank = balances.ClosingBalanceBank
	_, err = svc.DB.NewUpdate().Model(stmt).
		Column("opening_balance", "closing_balance_bank", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

// DeleteStatement removes a statement with all of its transactions.
func (svc *SurauService) DeleteStatement(ctx context.Context, id int64, userId int64) error {
	stmt, err := svc.FindStatement(ctx, id, false)
	if err != nil {
		return err
	}
	err = svc.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*models.Transaction)(nil)).Where("statement_id = ?", id).Exec(ctx); err != nil {
			return err
		}
		res, err := tx.NewDelete().Model((*models.BankStatement)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("statement: %w", ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if stmt.FilePath != "" && svc.Archive != nil {
		if err := svc.Archive.Delete(ctx, stmt.FilePath); err != nil {
			svc.Logger.Errorf("Could not remove archived statement file %s: %v", stmt.FilePath, err)
		}
	}
	svc.publish(models.Event{
		Type:     common.EventStatementDeleted,
		EntityID: id,
		Tahun:    stmt.Year,
		Bulan:    stmt.Month,
		UserID:   userId,
	})
	return nil
}

// StatementFile opens the archived upload of a statement.
func (svc *SurauService) StatementFile(ctx context.Context, id int64) (*models.BankStatement, io.ReadCloser, error) {
	stmt, err := svc.FindStatement(ctx, id, false)
	if err != nil {
		return nil, nil, err
	}
	if stmt.FilePath == "" || svc.Archive == nil {
		return nil, nil, fmt.Errorf("statement file: %w", ErrNotFound)
	}
	rc, err := svc.Archive.Open(ctx, stmt.FilePath)
	if err != nil {
		return nil, nil, err
	}
	return stmt, rc, nil
}
