package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type MonthBalance struct {
	Period  Period          `json:"-"`
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Opening decimal.Decimal `json:"opening_balance"`
	Credit  decimal.Decimal `json:"total_credit"`
	Debit   decimal.Decimal `json:"total_debit"`
	Closing decimal.Decimal `json:"closing_balance"`
	// Explicit is set when the statement's own opening balance was used.
	Explicit bool `json:"explicit_opening"`
}

// Warning records an explicit opening balance that differs from the balance
// carried forward from earlier months.
type Warning struct {
	Period   Period
	Explicit decimal.Decimal
	Computed decimal.Decimal
}

func (w Warning) String() string {
	return fmt.Sprintf("opening balance for %d/%d: statement says %s, carried forward balance is %s",
		int(w.Period.Month), w.Period.Year, w.Explicit.StringFixed(2), w.Computed.StringFixed(2))
}

func Close(opening decimal.Decimal, t Totals) decimal.Decimal {
	return opening.Add(t.Credit).Sub(t.Debit)
}

// Explicit returns the override for p. Zero is treated as "not set".
func Explicit(overrides map[Period]decimal.Decimal, p Period) (decimal.Decimal, bool) {
	v, ok := overrides[p]
	if !ok || v.IsZero() {
		return decimal.Zero, false
	}
	return v, true
}

// Chain runs the carry-forward over periods in order. opening is the carried
// balance entering the first period. A period with an explicit override
// starts from the override; a disagreement is reported, not corrected.
func Chain(opening decimal.Decimal, periods []Period, totals map[Period]Totals, overrides map[Period]decimal.Decimal) ([]MonthBalance, []Warning) {
	var (
		balances []MonthBalance
		warnings []Warning
		carried  = opening
	)
	for i, p := range periods {
		b := MonthBalance{Period: p, Year: p.Year, Month: int(p.Month), Opening: carried}
		if v, ok := Explicit(overrides, p); ok {
			// the caller checks the first period against its own anchor
			if i > 0 && !v.Equal(carried) {
				warnings = append(warnings, Warning{Period: p, Explicit: v, Computed: carried})
			}
			b.Opening = v
			b.Explicit = true
		}
		t := totals[p]
		b.Credit = t.Credit
		b.Debit = t.Debit
		b.Closing = Close(b.Opening, t)
		carried = b.Closing
		balances = append(balances, b)
	}
	return balances, warnings
}

// Opening resolves the opening balance of target. It starts from the latest
// explicit override before target (or zero when there is none) and carries
// the attributed movement of every month up to target forward. An explicit
// override on target itself wins; hasAnchor tells whether the computed value
// had an explicit starting point to compare against.
func Opening(target Period, earliest Period, totals map[Period]Totals, overrides map[Period]decimal.Decimal) (opening, computed decimal.Decimal, hasAnchor bool) {
	start := earliest
	computed = decimal.Zero
	for p, v := range overrides {
		if v.IsZero() || !p.Before(target) {
			continue
		}
		if !hasAnchor || start.Before(p) {
			start = p
			computed = v
			hasAnchor = true
		}
	}
	for p := start; p.Before(target); p = p.Next() {
		computed = Close(computed, totals[p])
	}
	if v, ok := Explicit(overrides, target); ok {
		return v, computed, hasAnchor
	}
	return computed, computed, hasAnchor
}
