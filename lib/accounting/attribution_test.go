package accounting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/surau-digital/surauhub/common"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func period(y int, m time.Month) Period {
	return Period{Year: y, Month: m}
}

func TestPeriodWrapsAcrossYears(t *testing.T) {
	assert.Equal(t, period(2023, time.December), period(2024, time.January).Prev())
	assert.Equal(t, period(2025, time.January), period(2024, time.December).Next())
	assert.Equal(t, period(2024, time.May), period(2024, time.June).Prev())
	assert.True(t, period(2023, time.December).Before(period(2024, time.January)))
	assert.False(t, period(2024, time.January).Before(period(2024, time.January)))
}

func TestNewPeriodRejectsBadMonth(t *testing.T) {
	_, err := NewPeriod(2024, 13)
	assert.Error(t, err)
	_, err = NewPeriod(2024, 0)
	assert.Error(t, err)
	p, err := NewPeriod(2024, 2)
	assert.NoError(t, err)
	assert.Equal(t, period(2024, time.February), p)
}

func TestPeriodsInclusiveRange(t *testing.T) {
	ps := Periods(period(2023, time.November), period(2024, time.February))
	assert.Equal(t, []Period{
		period(2023, time.November),
		period(2023, time.December),
		period(2024, time.January),
		period(2024, time.February),
	}, ps)
	assert.Empty(t, Periods(period(2024, time.March), period(2024, time.February)))
}

func TestBulanDepanPushedIntoNextMonth(t *testing.T) {
	e := Entry{
		Date:           date(2024, time.January, 15),
		Type:           common.TransactionTypePenerimaan,
		BulanPerkiraan: common.BulanDepan,
		Credit:         decimal.NewFromInt(100),
	}
	assert.True(t, Included(e, period(2024, time.February)))
	assert.False(t, Included(e, period(2024, time.January)))
}

func TestBulanSebelumPulledBackIntoPreviousMonth(t *testing.T) {
	e := Entry{
		Date:           date(2024, time.February, 10),
		Type:           common.TransactionTypePembayaran,
		BulanPerkiraan: common.BulanSebelum,
		Debit:          decimal.NewFromInt(50),
	}
	assert.True(t, Included(e, period(2024, time.January)))
	assert.False(t, Included(e, period(2024, time.February)))
}

func TestNullFlagBehavesLikeBulanSemasa(t *testing.T) {
	e := Entry{Date: date(2024, time.March, 1), Type: common.TransactionTypePenerimaan}
	assert.True(t, Included(e, period(2024, time.March)))
	e.BulanPerkiraan = common.BulanSemasa
	assert.True(t, Included(e, period(2024, time.March)))
}

func TestUncategorizedNeverIncluded(t *testing.T) {
	e := Entry{Date: date(2024, time.March, 1), Type: common.TransactionTypeUncategorized}
	assert.False(t, Included(e, period(2024, time.March)))
}

func TestEachTransactionCountedInExactlyOneMonth(t *testing.T) {
	flags := []string{"", common.BulanSemasa, common.BulanDepan, common.BulanSebelum}
	dates := []time.Time{
		date(2023, time.December, 31),
		date(2024, time.January, 1),
		date(2024, time.January, 31),
		date(2024, time.December, 15),
	}
	for _, d := range dates {
		for _, flag := range flags {
			e := Entry{Date: d, Type: common.TransactionTypePenerimaan, BulanPerkiraan: flag}
			calendar := PeriodOf(d)
			count := 0
			for _, candidate := range []Period{calendar.Prev(), calendar, calendar.Next()} {
				if Included(e, candidate) {
					count++
				}
			}
			assert.Equal(t, 1, count, "date %s flag %q", d.Format("2006-01-02"), flag)
		}
	}
}

func TestDecemberBulanDepanLandsInNextYear(t *testing.T) {
	p, ok := EffectivePeriod(date(2023, time.December, 20), common.BulanDepan)
	assert.True(t, ok)
	assert.Equal(t, period(2024, time.January), p)

	p, ok = EffectivePeriod(date(2024, time.January, 3), common.BulanSebelum)
	assert.True(t, ok)
	assert.Equal(t, period(2023, time.December), p)
}

func TestUnknownFlagIsNeverCounted(t *testing.T) {
	_, ok := EffectivePeriod(date(2024, time.January, 3), "bulan_lain")
	assert.False(t, ok)
}

func TestCategoryAmountUsesTypeSide(t *testing.T) {
	e := Entry{Type: common.TransactionTypePenerimaan, Credit: decimal.NewFromInt(7), Debit: decimal.NewFromInt(3)}
	assert.True(t, decimal.NewFromInt(7).Equal(CategoryAmount(e)))
	e.Type = common.TransactionTypePembayaran
	assert.True(t, decimal.NewFromInt(3).Equal(CategoryAmount(e)))
}

func TestLabelFallsBack(t *testing.T) {
	assert.Equal(t, common.FallbackCategory, Label("  "))
	assert.Equal(t, "Utiliti", Label(" Utiliti "))
}
