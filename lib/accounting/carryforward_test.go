package accounting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCloseBalance(t *testing.T) {
	got := Close(amount("1000"), Totals{Credit: amount("250.50"), Debit: amount("100.25")})
	assert.True(t, amount("1150.25").Equal(got))
}

func TestChainIsIdempotent(t *testing.T) {
	periods := Periods(period(2024, time.January), period(2024, time.March))
	totals := map[Period]Totals{
		period(2024, time.January):  {Credit: amount("100"), Debit: amount("40")},
		period(2024, time.February): {Credit: amount("10"), Debit: amount("0")},
	}
	first, _ := Chain(amount("500"), periods, totals, nil)
	second, _ := Chain(amount("500"), periods, totals, nil)
	assert.Equal(t, first, second)
	assert.True(t, amount("560").Equal(first[0].Closing))
	assert.True(t, amount("560").Equal(first[1].Opening))
	assert.True(t, amount("570").Equal(first[2].Closing))
}

func TestChainOverrideWinsAndWarns(t *testing.T) {
	periods := Periods(period(2024, time.January), period(2024, time.February))
	totals := map[Period]Totals{
		period(2024, time.January): {Credit: amount("100"), Debit: amount("0")},
	}
	overrides := map[Period]decimal.Decimal{period(2024, time.February): amount("90")}
	balances, warnings := Chain(amount("0"), periods, totals, overrides)
	assert.True(t, amount("90").Equal(balances[1].Opening))
	assert.True(t, balances[1].Explicit)
	assert.Len(t, warnings, 1)
	assert.True(t, amount("100").Equal(warnings[0].Computed))
	assert.Contains(t, warnings[0].String(), "2/2024")
}

func TestChainZeroOverrideIsIgnored(t *testing.T) {
	periods := Periods(period(2024, time.January), period(2024, time.February))
	totals := map[Period]Totals{period(2024, time.January): {Credit: amount("100")}}
	overrides := map[Period]decimal.Decimal{period(2024, time.February): decimal.Zero}
	balances, warnings := Chain(amount("0"), periods, totals, overrides)
	assert.False(t, balances[1].Explicit)
	assert.True(t, amount("100").Equal(balances[1].Opening))
	assert.Empty(t, warnings)
}

func TestOpeningCarriesForwardFromLatestAnchor(t *testing.T) {
	totals := map[Period]Totals{
		period(2023, time.November): {Credit: amount("999")},
		period(2023, time.December): {Credit: amount("50"), Debit: amount("20")},
		period(2024, time.January):  {Credit: amount("10")},
	}
	overrides := map[Period]decimal.Decimal{
		period(2023, time.November): amount("1"),
		period(2023, time.December): amount("1000"),
	}
	opening, computed, anchored := Opening(period(2024, time.February), period(2023, time.November), totals, overrides)
	assert.True(t, anchored)
	assert.True(t, amount("1040").Equal(opening), opening.String())
	assert.True(t, opening.Equal(computed))
}

func TestOpeningExplicitTargetWins(t *testing.T) {
	totals := map[Period]Totals{period(2024, time.January): {Credit: amount("10")}}
	overrides := map[Period]decimal.Decimal{
		period(2024, time.January):  amount("100"),
		period(2024, time.February): amount("200"),
	}
	opening, computed, anchored := Opening(period(2024, time.February), period(2024, time.January), totals, overrides)
	assert.True(t, anchored)
	assert.True(t, amount("200").Equal(opening))
	assert.True(t, amount("110").Equal(computed))
}

func TestOpeningWithoutAnchorStartsFromZero(t *testing.T) {
	totals := map[Period]Totals{
		period(2024, time.January):  {Credit: amount("10"), Debit: amount("4")},
		period(2024, time.February): {Credit: amount("1")},
	}
	opening, _, anchored := Opening(period(2024, time.March), period(2024, time.January), totals, nil)
	assert.False(t, anchored)
	assert.True(t, amount("7").Equal(opening))
}
