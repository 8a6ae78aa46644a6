package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/surau-digital/surauhub/common"
	"github.com/surau-digital/surauhub/db/migrations"
	"github.com/surau-digital/surauhub/db/models"
	"github.com/surau-digital/surauhub/lib/archive"
	"github.com/surau-digital/surauhub/lib/logging"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/migrate"
	_ "modernc.org/sqlite"
)

var dbCounter int64

// newTestService returns a service over a fresh in-memory database with all
// migrations applied.
func newTestService(t *testing.T) *SurauService {
	t.Helper()
	ctx := context.Background()
	dsn := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	sqldb, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	migrator := migrate.NewMigrator(db, migrations.Migrations)
	require.NoError(t, migrator.Init(ctx))
	_, err = migrator.Migrate(ctx)
	require.NoError(t, err)

	store, err := archive.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	return &SurauService{
		Config: &Config{
			JWTSecret:            []byte("SECRET"),
			JWTAccessTokenExpiry: 3600,
		},
		DB:          db,
		Logger:      logging.Logger("", "off"),
		EventPubSub: NewPubsub(),
		Archive:     store,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(dec(s))
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

type txSeed struct {
	date        time.Time
	txType      string
	category    string
	subCategory string
	flag        string
	credit      string
	debit       string
}

// seedStatement stores a statement for (month, year) with the given transactions.
func seedStatement(t *testing.T, svc *SurauService, year int, month time.Month, opening string, seeds ...txSeed) *models.BankStatement {
	t.Helper()
	ctx := context.Background()
	stmt := &models.BankStatement{Month: int(month), Year: year, OpeningBalance: nullDec(opening)}
	_, err := svc.DB.NewInsert().Model(stmt).Exec(ctx)
	require.NoError(t, err)
	for _, s := range seeds {
		seedTransaction(t, svc, stmt.ID, s)
	}
	return stmt
}

func seedTransaction(t *testing.T, svc *SurauService, statementId int64, s txSeed) *models.Transaction {
	t.Helper()
	if s.txType == "" {
		s.txType = common.TransactionTypeUncategorized
	}
	tx := &models.Transaction{
		StatementID:     statementId,
		TransactionDate: s.date,
		Description:     strings.ToUpper(s.subCategory),
		TransactionType: s.txType,
		BulanPerkiraan:  s.flag,
		CreditAmount:    nullDec(s.credit),
		DebitAmount:     nullDec(s.debit),
	}
	switch s.txType {
	case common.TransactionTypePenerimaan:
		tx.CategoryPenerimaan, tx.SubCategoryPenerimaan = s.category, s.subCategory
	case common.TransactionTypePembayaran:
		tx.CategoryPembayaran, tx.SubCategoryPembayaran = s.category, s.subCategory
	}
	_, err := svc.DB.NewInsert().Model(tx).Exec(context.Background())
	require.NoError(t, err)
	return tx
}

func receipt(date time.Time, category, sub, amount string) txSeed {
	return txSeed{date: date, txType: common.TransactionTypePenerimaan, category: category, subCategory: sub, credit: amount}
}

func payment(date time.Time, category, sub, amount string) txSeed {
	return txSeed{date: date, txType: common.TransactionTypePembayaran, category: category, subCategory: sub, debit: amount}
}

func (s txSeed) accrued(flag string) txSeed {
	s.flag = flag
	return s
}
