package accounting

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/surau-digital/surauhub/common"
)

// Entry is the part of a bank transaction the books care about. It is also
// used for pre-summed rows, one per day and category.
type Entry struct {
	Date           time.Time
	Type           string
	BulanPerkiraan string
	Category       string
	SubCategory    string
	Credit         decimal.Decimal
	Debit          decimal.Decimal
}

// EffectivePeriod returns the month a transaction dated on date is counted in.
// An empty flag counts as bulan_semasa. Unknown flags are never counted.
func EffectivePeriod(date time.Time, flag string) (Period, bool) {
	calendar := PeriodOf(date)
	switch flag {
	case "", common.BulanSemasa:
		return calendar, true
	case common.BulanDepan:
		return calendar.Next(), true
	case common.BulanSebelum:
		return calendar.Prev(), true
	}
	return Period{}, false
}

// Included reports whether e contributes to the totals of target.
func Included(e Entry, target Period) bool {
	if e.Type == common.TransactionTypeUncategorized || e.Type == "" {
		return false
	}
	p, ok := EffectivePeriod(e.Date, e.BulanPerkiraan)
	return ok && p == target
}

// CategoryAmount is the amount a categorized entry adds to its category:
// credits for penerimaan, debits for pembayaran.
func CategoryAmount(e Entry) decimal.Decimal {
	switch e.Type {
	case common.TransactionTypePenerimaan:
		return e.Credit
	case common.TransactionTypePembayaran:
		return e.Debit
	}
	return decimal.Zero
}

// Label trims a category label and falls back to Lain-lain when it is empty.
func Label(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return common.FallbackCategory
	}
	return s
}
