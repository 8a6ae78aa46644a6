package service

import (
	"context"
	"sort"

	"github.com/surau-digital/surauhub/common"
	"github.com/surau-digital/surauhub/lib/accounting"
)

// CategoryGroup lists the subcategories known for one category.
type CategoryGroup struct {
	Category      string   `json:"category"`
	SubCategories []string `json:"sub_categories"`
}

type CategoryCatalogue struct {
	Penerimaan []CategoryGroup `json:"penerimaan"`
	Pembayaran []CategoryGroup `json:"pembayaran"`
}

var defaultCategories = map[string]map[string][]string{
	common.TransactionTypePenerimaan: {
		"Sumbangan Am":    {"Tabung Jumaat", "Derma Orang Awam", "Infaq"},
		"Sumbangan Khas":  {"Program Ramadan", "Korban", "Tahfiz"},
		"Hasil Sewaan":    {"Sewa Dewan", "Sewa Kedai", "Sewa Peralatan"},
		"Hasil Pelaburan": {"Dividen", "Faedah Simpanan"},
		"Geran":           {"Geran Kerajaan Negeri", "Geran Persekutuan"},
	},
	common.TransactionTypePembayaran: {
		"Pentadbiran":     {"Elaun Imam", "Elaun Bilal", "Gaji Pekerja", "Bil Elektrik", "Bil Air", "Alat Tulis"},
		"Khidmat Sosial":  {"Bantuan Asnaf", "Khairat Kematian", "Program Komuniti"},
		"Aset":            {"Peralatan", "Perabot", "Kenderaan", "Bangunan"},
		"Penyelenggaraan": {"Baik Pulih Bangunan", "Pembersihan", "Landskap"},
		"Program":         {"Kuliah", "Ceramah", "Sambutan Hari Kebesaran"},
	},
}

type usedCategory struct {
	TransactionType string `bun:"transaction_type"`
	Category        string `bun:"category"`
	SubCategory     string `bun:"sub_category"`
}

// Categories merges the default catalogue with every category already used
// on a transaction.
func (svc *SurauService) Categories(ctx context.Context) (*CategoryCatalogue, error) {
	used := []usedCategory{}
	err := svc.DB.NewSelect().
		TableExpr("transactions AS t").
		Distinct().
		ColumnExpr("t.transaction_type").
		ColumnExpr("CASE WHEN t.transaction_type = ? THEN t.category_pembayaran ELSE t.category_penerimaan END AS category", common.TransactionTypePembayaran).
		ColumnExpr("CASE WHEN t.transaction_type = ? THEN t.sub_category_pembayaran ELSE t.sub_category_penerimaan END AS sub_category", common.TransactionTypePembayaran).
		Where("t.transaction_type <> ?", common.TransactionTypeUncategorized).
		Scan(ctx, &used)
	if err != nil {
		return nil, err
	}

	merged := map[string]map[string]map[string]bool{}
	add := func(txType, category, subCategory string) {
		if merged[txType] == nil {
			merged[txType] = map[string]map[string]bool{}
		}
		category = accounting.Label(category)
		if merged[txType][category] == nil {
			merged[txType][category] = map[string]bool{}
		}
		if subCategory != "" {
			merged[txType][category][subCategory] = true
		}
	}
	for txType, categories := range defaultCategories {
		for category, subCategories := range categories {
			add(txType, category, "")
			for _, sub := range subCategories {
				add(txType, category, sub)
			}
		}
	}
	for _, u := range used {
		add(u.TransactionType, u.Category, u.SubCategory)
	}

	return &CategoryCatalogue{
		Penerimaan: groups(merged[common.TransactionTypePenerimaan]),
		Pembayaran: groups(merged[common.TransactionTypePembayaran]),
	}, nil
}

func groups(categories map[string]map[string]bool) []CategoryGroup {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sortCategories(names)
	out := make([]CategoryGroup, 0, len(names))
	for _, name := range names {
		subs := make([]string, 0, len(categories[name]))
		for sub := range categories[name] {
			subs = append(subs, sub)
		}
		sortCategories(subs)
		out = append(out, CategoryGroup{Category: name, SubCategories: subs})
	}
	return out
}

// sortCategories sorts labels alphabetically with Lain-lain last.
func sortCategories(labels []string) {
	sort.Slice(labels, func(i, j int) bool {
		a, b := labels[i], labels[j]
		if a == common.FallbackCategory || b == common.FallbackCategory {
			return b == common.FallbackCategory && a != b
		}
		return a < b
	})
}
