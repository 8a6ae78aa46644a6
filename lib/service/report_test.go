package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surau-digital/surauhub/common"
	"github.com/surau-digital/surauhub/lib/accounting"
)

// seedYear stores January to March 2024 with accrual flags at both month edges.
func seedYear(t *testing.T, svc *SurauService) {
	seedStatement(t, svc, 2023, 12, "1000",
		receipt(day(2023, 12, 28), "Sumbangan Am", "Tabung Jumaat", "30.00").accrued(common.BulanDepan),
	)
	seedStatement(t, svc, 2024, 1, "",
		receipt(day(2024, 1, 5), "Sumbangan Am", "Tabung Jumaat", "200.00"),
		receipt(day(2024, 1, 15), "Hasil Sewaan", "Sewa Dewan", "100.00").accrued(common.BulanDepan),
		payment(day(2024, 1, 20), "Pentadbiran", "Bil Elektrik", "80.00"),
		txSeed{date: day(2024, 1, 21), debit: "999.00"},
	)
	seedStatement(t, svc, 2024, 2, "",
		payment(day(2024, 2, 10), "Pentadbiran", "Bil Air", "50.00").accrued(common.BulanSebelum),
		receipt(day(2024, 2, 12), "Hasil Sewaan", "", "60.00"),
	)
}

func TestAggregateYearAppliesAccrualFlags(t *testing.T) {
	svc := newTestService(t)
	seedYear(t, svc)

	agg, err := svc.AggregateYear(context.Background(), 2024)
	require.NoError(t, err)

	jan := agg.Month(1).Totals
	// 200 same month plus 30 pushed from December; the Jan 15 receipt moves to February
	assert.Equal(t, "230.00", jan.Credit.StringFixed(2))
	// 80 same month plus 50 pulled back from February; the uncategorized 999 never counts
	assert.Equal(t, "130.00", jan.Debit.StringFixed(2))

	feb := agg.Month(2).Totals
	assert.Equal(t, "160.00", feb.Credit.StringFixed(2))
	assert.True(t, feb.Debit.IsZero())

	sewa := agg.Breakdown(common.TransactionTypePenerimaan, "Hasil Sewaan")
	require.Len(t, sewa, 2)
	assert.Equal(t, "Sewa Dewan", sewa[0].SubCategory)
	assert.Equal(t, common.FallbackCategory, sewa[1].SubCategory)

	month, err := svc.AggregateMonth(context.Background(), 2024, 2)
	require.NoError(t, err)
	assert.True(t, month.Totals.Credit.Equal(feb.Credit))
}

func TestAggregateEmptyYear(t *testing.T) {
	svc := newTestService(t)
	agg, err := svc.AggregateYear(context.Background(), 2030)
	require.NoError(t, err)
	assert.True(t, agg.Totals.Credit.IsZero())
	assert.True(t, agg.Totals.Debit.IsZero())
}

func TestBukuTunai(t *testing.T) {
	svc := newTestService(t)
	seedYear(t, svc)

	report, err := svc.BukuTunai(context.Background(), 2024, 1)
	require.NoError(t, err)
	// December: 1000 opening, nothing counted in December itself
	assert.Equal(t, "1000.00", report.OpeningBalance.StringFixed(2))
	require.Len(t, report.Lines, 4)
	assert.Equal(t, "Tabung Jumaat", report.Lines[0].SubCategory)
	assert.Equal(t, "1030.00", report.Lines[0].Balance.StringFixed(2))
	assert.Equal(t, "230.00", report.TotalCredit.StringFixed(2))
	assert.Equal(t, "130.00", report.TotalDebit.StringFixed(2))
	assert.Equal(t, "1100.00", report.ClosingBalance.StringFixed(2))
	assert.Empty(t, report.Warnings)

	feb, err := svc.BukuTunai(context.Background(), 2024, 2)
	require.NoError(t, err)
	assert.True(t, feb.OpeningBalance.Equal(report.ClosingBalance))
}

func TestBukuTunaiWarnsOnConflictingOpeningBalance(t *testing.T) {
	svc := newTestService(t)
	seedYear(t, svc)
	ctx := context.Background()
	stmts, err := svc.ListStatements(ctx, 2024)
	require.NoError(t, err)
	for _, s := range stmts {
		if s.Month == 2 {
			_, err = svc.UpdateStatementBalances(ctx, s.ID, StatementBalances{OpeningBalance: nullDec("1500")})
			require.NoError(t, err)
		}
	}

	report, err := svc.BukuTunai(ctx, 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, "1500.00", report.OpeningBalance.StringFixed(2))
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "statement says 1500.00")
	assert.Contains(t, report.Warnings[0], "1100.00")
}

func TestPenyesuaianBank(t *testing.T) {
	svc := newTestService(t)
	seedYear(t, svc)
	ctx := context.Background()
	stmts, err := svc.ListStatements(ctx, 2024)
	require.NoError(t, err)
	for _, s := range stmts {
		if s.Month == 1 {
			// bank: 1000 + 30 (Dec 28) + 200 + 100 - 80 - 999
			_, err = svc.UpdateStatementBalances(ctx, s.ID, StatementBalances{ClosingBalanceBank: nullDec("251")})
			require.NoError(t, err)
		}
	}

	report, err := svc.PenyesuaianBank(ctx, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, "1100.00", report.BookClosingBalance.StringFixed(2))
	require.Len(t, report.NotYetInBook, 2)
	require.Len(t, report.NotYetInBank, 1)
	assert.Equal(t, "251.00", report.AdjustedBookClose.StringFixed(2))
	assert.True(t, report.Reconciled)
	assert.True(t, report.Difference.Decimal.IsZero())
}

func TestPenyesuaianBankCarriesEarlierUncategorized(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	seedStatement(t, svc, 2024, 1, "1000",
		receipt(day(2024, 1, 5), "Sumbangan Am", "Tabung Jumaat", "100.00"),
		txSeed{date: day(2024, 1, 10), credit: "40.00"},
	)
	feb := seedStatement(t, svc, 2024, 2, "",
		receipt(day(2024, 2, 3), "Sumbangan Am", "Tabung Jumaat", "20.00"),
	)
	// bank: 1000 + 100 + 40 + 20
	_, err := svc.UpdateStatementBalances(ctx, feb.ID, StatementBalances{ClosingBalanceBank: nullDec("1160")})
	require.NoError(t, err)

	report, err := svc.PenyesuaianBank(ctx, 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, "1120.00", report.BookClosingBalance.StringFixed(2))
	require.Len(t, report.NotYetInBook, 1)
	assert.Equal(t, "belum dikategorikan, bulan terdahulu", report.NotYetInBook[0].Reason)
	assert.Equal(t, "40.00", report.NotYetInBook[0].Credit.StringFixed(2))
	assert.Empty(t, report.NotYetInBank)
	assert.Equal(t, "1160.00", report.AdjustedBookClose.StringFixed(2))
	assert.True(t, report.Reconciled)

	// an explicit opening already holds the bank balance
	_, err = svc.UpdateStatementBalances(ctx, feb.ID, StatementBalances{OpeningBalance: nullDec("1140"), ClosingBalanceBank: nullDec("1160")})
	require.NoError(t, err)
	report, err = svc.PenyesuaianBank(ctx, 2024, 2)
	require.NoError(t, err)
	assert.Empty(t, report.NotYetInBook)
	assert.Equal(t, "1160.00", report.AdjustedBookClose.StringFixed(2))
	assert.True(t, report.Reconciled)
}

func TestOpeningBalanceCountsFirstMonthPulledBack(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	seedStatement(t, svc, 2024, 1, "",
		payment(day(2024, 1, 3), "Pentadbiran", "Bil Elektrik", "50.00").accrued(common.BulanSebelum),
		receipt(day(2024, 1, 20), "Sumbangan Am", "Tabung Jumaat", "100.00"),
	)

	jan, err := svc.OpeningBalance(ctx, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, "-50.00", jan.Opening.StringFixed(2))

	feb, err := svc.OpeningBalance(ctx, 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, "50.00", feb.Opening.StringFixed(2))
	assert.False(t, feb.Explicit)

	balances, _, err := svc.MonthlyBalances(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, "-50.00", balances[0].Opening.StringFixed(2))
	assert.Equal(t, "50.00", balances[0].Closing.StringFixed(2))
}

func TestPenyataTahunan(t *testing.T) {
	svc := newTestService(t)
	seedYear(t, svc)

	report, err := svc.PenyataTahunan(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, "390.00", report.Penerimaan.Semasa.StringFixed(2))
	assert.Equal(t, "0.00", report.Penerimaan.Sebelum.StringFixed(2))
	assert.Equal(t, "130.00", report.Pembayaran.Semasa.StringFixed(2))
	assert.Equal(t, "260.00", report.LebihanSemasa.StringFixed(2))
	assert.Equal(t, "1000.00", report.OpeningBalance.StringFixed(2))
	assert.Equal(t, "1260.00", report.ClosingBalance.StringFixed(2))
	require.Len(t, report.Months, 12)
	for i := 1; i < 12; i++ {
		assert.True(t, report.Months[i].Opening.Equal(report.Months[i-1].Closing))
	}

	var categories []string
	for _, l := range report.Penerimaan.Lines {
		categories = append(categories, l.Category)
	}
	assert.Equal(t, []string{"Hasil Sewaan", "Sumbangan Am"}, categories)
}

func TestMonthlyBalancesMatchCarryForward(t *testing.T) {
	svc := newTestService(t)
	seedYear(t, svc)
	ctx := context.Background()

	balances, warnings, err := svc.MonthlyBalances(ctx, 2024)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	for _, b := range balances {
		assert.True(t, b.Closing.Equal(accounting.Close(b.Opening, accounting.Totals{Credit: b.Credit, Debit: b.Debit})))
	}

	opening, err := svc.OpeningBalance(ctx, 2024, 3)
	require.NoError(t, err)
	assert.True(t, opening.Opening.Equal(balances[2].Opening))
	assert.False(t, opening.Explicit)
}

func TestReportPDFs(t *testing.T) {
	svc := newTestService(t)
	svc.Config.Branding = BrandingConfig{Title: "Surau Al-Ikhlas", Address: "Jalan Masjid, 43000 Kajang"}
	seedYear(t, svc)
	ctx := context.Background()

	cashBook, err := svc.BukuTunai(ctx, 2024, 1)
	require.NoError(t, err)
	out, err := svc.BukuTunaiPDF(cashBook)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))

	recon, err := svc.PenyesuaianBank(ctx, 2024, 1)
	require.NoError(t, err)
	out, err = svc.PenyesuaianBankPDF(recon)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))

	annual, err := svc.PenyataTahunan(ctx, 2024)
	require.NoError(t, err)
	out, err = svc.PenyataTahunanPDF(annual)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestBulanTahun(t *testing.T) {
	assert.Equal(t, "Mac 2024", bulanTahun(3, 2024))
	assert.Equal(t, "2024", bulanTahun(0, 2024))
}
