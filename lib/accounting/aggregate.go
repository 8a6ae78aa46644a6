package accounting

import (
	"sort"

	"github.com/shopspring/decimal"
)

type Totals struct {
	Credit decimal.Decimal `json:"credit"`
	Debit  decimal.Decimal `json:"debit"`
}

func (t Totals) Net() decimal.Decimal {
	return t.Credit.Sub(t.Debit)
}

func (t Totals) Add(o Totals) Totals {
	return Totals{Credit: t.Credit.Add(o.Credit), Debit: t.Debit.Add(o.Debit)}
}

type CategoryKey struct {
	Type        string
	Category    string
	SubCategory string
}

// Line is one row of a category breakdown.
type Line struct {
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	SubCategory string          `json:"sub_category,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}

type Bucket struct {
	Period     Period
	Totals     Totals
	Categories map[CategoryKey]decimal.Decimal
}

func newBucket(p Period) *Bucket {
	return &Bucket{
		Period:     p,
		Totals:     Totals{Credit: decimal.Zero, Debit: decimal.Zero},
		Categories: map[CategoryKey]decimal.Decimal{},
	}
}

func (b *Bucket) add(e Entry) {
	b.Totals.Credit = b.Totals.Credit.Add(e.Credit)
	b.Totals.Debit = b.Totals.Debit.Add(e.Debit)
	key := CategoryKey{Type: e.Type, Category: Label(e.Category), SubCategory: Label(e.SubCategory)}
	b.Categories[key] = b.Categories[key].Add(CategoryAmount(e))
}

// Distribute assigns each entry to its effective period in one pass and
// returns a bucket for every month from..to inclusive. Entries counted
// outside the range are dropped.
func Distribute(entries []Entry, from, to Period) map[Period]*Bucket {
	buckets := map[Period]*Bucket{}
	for _, p := range Periods(from, to) {
		buckets[p] = newBucket(p)
	}
	for _, e := range entries {
		p, ok := EffectivePeriod(e.Date, e.BulanPerkiraan)
		if !ok {
			continue
		}
		b, inRange := buckets[p]
		if !inRange || !Included(e, p) {
			continue
		}
		b.add(e)
	}
	return buckets
}

// AggregateMonth sums the entries counted in target.
func AggregateMonth(entries []Entry, target Period) *Bucket {
	return Distribute(entries, target, target)[target]
}

type YearAggregate struct {
	Year   int
	Months [12]*Bucket
	Totals Totals
}

// AggregateYear buckets a whole year in a single pass over entries.
func AggregateYear(entries []Entry, year int) *YearAggregate {
	jan := Period{Year: year, Month: 1}
	dec := Period{Year: year, Month: 12}
	buckets := Distribute(entries, jan, dec)
	agg := &YearAggregate{Year: year, Totals: Totals{Credit: decimal.Zero, Debit: decimal.Zero}}
	for i, p := range Periods(jan, dec) {
		agg.Months[i] = buckets[p]
		agg.Totals = agg.Totals.Add(buckets[p].Totals)
	}
	return agg
}

// Month returns the bucket of month m (1-12).
func (y *YearAggregate) Month(m int) *Bucket {
	return y.Months[m-1]
}

// Categories sums category amounts over the whole year.
func (y *YearAggregate) Categories() map[CategoryKey]decimal.Decimal {
	out := map[CategoryKey]decimal.Decimal{}
	for _, b := range y.Months {
		for k, v := range b.Categories {
			out[k] = out[k].Add(v)
		}
	}
	return out
}

// ByCategory lists the yearly totals of txType grouped by category.
func (y *YearAggregate) ByCategory(txType string) []Line {
	sums := map[string]decimal.Decimal{}
	for k, v := range y.Categories() {
		if k.Type != txType {
			continue
		}
		sums[k.Category] = sums[k.Category].Add(v)
	}
	lines := make([]Line, 0, len(sums))
	for category, amount := range sums {
		lines = append(lines, Line{Type: txType, Category: category, Amount: amount})
	}
	sortLines(lines)
	return lines
}

// Breakdown lists the yearly subcategory totals of one category.
func (y *YearAggregate) Breakdown(txType, category string) []Line {
	var lines []Line
	for k, v := range y.Categories() {
		if k.Type != txType || k.Category != category {
			continue
		}
		lines = append(lines, Line{Type: txType, Category: k.Category, SubCategory: k.SubCategory, Amount: v})
	}
	sortLines(lines)
	return lines
}

// Lain-lain always sorts last.
func sortLines(lines []Line) {
	sort.Slice(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if a.Category != b.Category {
			return labelLess(a.Category, b.Category)
		}
		return labelLess(a.SubCategory, b.SubCategory)
	})
}

func labelLess(a, b string) bool {
	if a == Label("") || b == Label("") {
		return b == Label("") && a != b
	}
	return a < b
}

// Sum adds up the amounts of lines.
func Sum(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}
