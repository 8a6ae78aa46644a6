package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/surau-digital/surauhub/common"
	"github.com/surau-digital/surauhub/db/models"
	"github.com/surau-digital/surauhub/lib/accounting"
	"github.com/uptrace/bun"
)

// NotaKind describes one note of the annual statement: the subcategories of
// a single category, this year against last year.
type NotaKind struct {
	Kind     string `json:"kind"`
	Title    string `json:"title"`
	Type     string `json:"transaction_type"`
	Category string `json:"category"`
}

var notaKinds = []NotaKind{
	{Kind: "aset", Title: "Nota Aset", Type: common.TransactionTypePembayaran, Category: "Aset"},
	{Kind: "khidmat-sosial", Title: "Nota Khidmat Sosial", Type: common.TransactionTypePembayaran, Category: "Khidmat Sosial"},
	{Kind: "pentadbiran", Title: "Nota Pentadbiran", Type: common.TransactionTypePembayaran, Category: "Pentadbiran"},
	{Kind: "hasil-sewaan", Title: "Nota Hasil Sewaan", Type: common.TransactionTypePenerimaan, Category: "Hasil Sewaan"},
	{Kind: "sumbangan-khas", Title: "Nota Sumbangan Khas", Type: common.TransactionTypePenerimaan, Category: "Sumbangan Khas"},
}

func NotaKinds() []NotaKind {
	return append([]NotaKind(nil), notaKinds...)
}

func LookupNotaKind(kind string) (NotaKind, error) {
	for _, k := range notaKinds {
		if k.Kind == kind {
			return k, nil
		}
	}
	return NotaKind{}, fmt.Errorf("nota %q: %w", kind, ErrNotFound)
}

type Nota struct {
	NotaKind
	Tahun         int              `json:"tahun"`
	Rows          []models.NotaRow `json:"rows"`
	JumlahSemasa  decimal.Decimal  `json:"jumlah_semasa"`
	JumlahSebelum decimal.Decimal  `json:"jumlah_sebelum"`
}

func validTahun(tahun int) error {
	if _, err := accounting.NewPeriod(tahun, 1); err != nil {
		return invalid("%v", err)
	}
	return nil
}

func (svc *SurauService) notaRows(ctx context.Context, db bun.IDB, kind string, tahun int) ([]models.NotaRow, error) {
	rows := []models.NotaRow{}
	err := db.NewSelect().Model(&rows).
		Where("nota = ?", kind).
		Where("tahun = ?", tahun).
		OrderExpr("turutan ASC, id ASC").
		Scan(ctx)
	return rows, err
}

func (svc *SurauService) GetNota(ctx context.Context, kind string, tahun int) (*Nota, error) {
	def, err := LookupNotaKind(kind)
	if err != nil {
		return nil, err
	}
	if err := validTahun(tahun); err != nil {
		return nil, err
	}
	rows, err := svc.notaRows(ctx, svc.DB, kind, tahun)
	if err != nil {
		return nil, err
	}
	return newNota(def, tahun, rows), nil
}

func newNota(def NotaKind, tahun int, rows []models.NotaRow) *Nota {
	n := &Nota{NotaKind: def, Tahun: tahun, Rows: rows, JumlahSemasa: decimal.Zero, JumlahSebelum: decimal.Zero}
	for _, r := range rows {
		n.JumlahSemasa = n.JumlahSemasa.Add(r.JumlahSemasa)
		n.JumlahSebelum = n.JumlahSebelum.Add(r.JumlahSebelum)
	}
	return n
}

// GenerateNota replaces the auto generated rows of (kind, tahun) with fresh
// totals per subcategory. Subcategories with a manual row are left alone.
func (svc *SurauService) GenerateNota(ctx context.Context, kind string, tahun int, userId int64) (*Nota, error) {
	def, err := LookupNotaKind(kind)
	if err != nil {
		return nil, err
	}
	if err := validTahun(tahun); err != nil {
		return nil, err
	}

	unlock := svc.notaLocks.Lock(fmt.Sprintf("%s/%d", kind, tahun))
	defer unlock()

	var rows []models.NotaRow
	err = svc.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*models.NotaRow)(nil)).
			Where("nota = ?", kind).
			Where("tahun = ?", tahun).
			Where("state = ?", models.NotaStateAutoGenerated).
			Exec(ctx)
		if err != nil {
			return err
		}
		manual, err := svc.notaRows(ctx, tx, kind, tahun)
		if err != nil {
			return err
		}
		taken := map[string]bool{}
		for _, r := range manual {
			taken[r.Perkara] = true
		}

		entries, err := svc.loadEntries(ctx, tx,
			accounting.Period{Year: tahun - 1, Month: time.January},
			accounting.Period{Year: tahun, Month: time.December})
		if err != nil {
			return err
		}
		generated := notaLines(def, tahun, entries)
		fresh := make([]models.NotaRow, 0, len(generated))
		for i, r := range generated {
			if taken[r.Perkara] {
				continue
			}
			r.Turutan = i + 1
			fresh = append(fresh, r)
		}
		if len(fresh) > 0 {
			if _, err := tx.NewInsert().Model(&fresh).Exec(ctx); err != nil {
				return err
			}
		}
		rows, err = svc.notaRows(ctx, tx, kind, tahun)
		return err
	})
	if err != nil {
		return nil, err
	}

	svc.publish(models.Event{
		Type:   common.EventNotaGenerated,
		Tahun:  tahun,
		UserID: userId,
		Data:   map[string]interface{}{"nota": kind, "rows": len(rows)},
	})
	return newNota(def, tahun, rows), nil
}

// notaLines aggregates the subcategories of def for tahun and tahun-1.
func notaLines(def NotaKind, tahun int, entries []accounting.Entry) []models.NotaRow {
	current := accounting.AggregateYear(entries, tahun).Breakdown(def.Type, def.Category)
	previous := accounting.AggregateYear(entries, tahun-1).Breakdown(def.Type, def.Category)

	bySub := map[string]*models.NotaRow{}
	var order []string
	row := func(sub string) *models.NotaRow {
		r, ok := bySub[sub]
		if !ok {
			r = &models.NotaRow{
				Nota:          def.Kind,
				Tahun:         tahun,
				Kategori:      def.Category,
				Perkara:       sub,
				JumlahSemasa:  decimal.Zero,
				JumlahSebelum: decimal.Zero,
				State:         models.NotaStateAutoGenerated,
			}
			bySub[sub] = r
			order = append(order, sub)
		}
		return r
	}
	for _, l := range current {
		r := row(l.SubCategory)
		r.JumlahSemasa = r.JumlahSemasa.Add(l.Amount)
	}
	for _, l := range previous {
		r := row(l.SubCategory)
		r.JumlahSebelum = r.JumlahSebelum.Add(l.Amount)
	}
	sortCategories(order)
	out := make([]models.NotaRow, 0, len(order))
	for _, sub := range order {
		out = append(out, *bySub[sub])
	}
	return out
}

type NotaRowInput struct {
	Tahun         int
	Perkara       string
	JumlahSemasa  decimal.Decimal
	JumlahSebelum decimal.Decimal
	Catatan       string
	Turutan       int
}

func (in NotaRowInput) validate() error {
	if err := validTahun(in.Tahun); err != nil {
		return err
	}
	if strings.TrimSpace(in.Perkara) == "" {
		return invalid("perkara is required")
	}
	return nil
}

// CreateNotaRow adds a manual row. Manual rows survive regeneration.
func (svc *SurauService) CreateNotaRow(ctx context.Context, kind string, in NotaRowInput) (*models.NotaRow, error) {
	def, err := LookupNotaKind(kind)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	row := &models.NotaRow{
		Nota:          kind,
		Tahun:         in.Tahun,
		Kategori:      def.Category,
		Perkara:       strings.TrimSpace(in.Perkara),
		JumlahSemasa:  in.JumlahSemasa,
		JumlahSebelum: in.JumlahSebelum,
		Catatan:       in.Catatan,
		Turutan:       in.Turutan,
		State:         models.NotaStateManual,
	}
	if _, err := svc.DB.NewInsert().Model(row).Exec(ctx); err != nil {
		return nil, err
	}
	return row, nil
}

func (svc *SurauService) findNotaRow(ctx context.Context, kind string, id int64) (*models.NotaRow, error) {
	var row models.NotaRow
	err := svc.DB.NewSelect().Model(&row).Where("id = ?", id).Where("nota = ?", kind).Limit(1).Scan(ctx)
	if err != nil {
		return nil, notFound(err, "nota row")
	}
	return &row, nil
}

// UpdateNotaRow edits a row. Any edit moves the row to the manual state.
func (svc *SurauService) UpdateNotaRow(ctx context.Context, kind string, id int64, in NotaRowInput) (*models.NotaRow, error) {
	if _, err := LookupNotaKind(kind); err != nil {
		return nil, err
	}
	row, err := svc.findNotaRow(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if in.Tahun == 0 {
		in.Tahun = row.Tahun
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	row.Tahun = in.Tahun
	row.Perkara = strings.TrimSpace(in.Perkara)
	row.JumlahSemasa = in.JumlahSemasa
	row.JumlahSebelum = in.JumlahSebelum
	row.Catatan = in.Catatan
	row.Turutan = in.Turutan
	row.State = models.NotaStateManual
	_, err = svc.DB.NewUpdate().Model(row).
		Column("tahun", "perkara", "jumlah_semasa", "jumlah_sebelum", "catatan", "turutan", "state", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (svc *SurauService) DeleteNotaRow(ctx context.Context, kind string, id int64) error {
	if _, err := LookupNotaKind(kind); err != nil {
		return err
	}
	res, err := svc.DB.NewDelete().Model((*models.NotaRow)(nil)).Where("id = ?", id).Where("nota = ?", kind).Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("nota row: %w", ErrNotFound)
	}
	return nil
}

// DeleteNotaYear removes every row of (kind, tahun), manual rows included.
func (svc *SurauService) DeleteNotaYear(ctx context.Context, kind string, tahun int) (int64, error) {
	if _, err := LookupNotaKind(kind); err != nil {
		return 0, err
	}
	if err := validTahun(tahun); err != nil {
		return 0, err
	}
	res, err := svc.DB.NewDelete().Model((*models.NotaRow)(nil)).Where("nota = ?", kind).Where("tahun = ?", tahun).Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// RegenerateNotes refreshes every note that already has auto generated rows
// for one of years. Notes nobody generated yet are not created.
func (svc *SurauService) RegenerateNotes(ctx context.Context, years []int) (int, error) {
	regenerated := 0
	seen := map[int]bool{}
	for _, tahun := range years {
		if seen[tahun] || validTahun(tahun) != nil {
			continue
		}
		seen[tahun] = true
		for _, def := range notaKinds {
			exists, err := svc.DB.NewSelect().Model((*models.NotaRow)(nil)).
				Where("nota = ?", def.Kind).
				Where("tahun = ?", tahun).
				Where("state = ?", models.NotaStateAutoGenerated).
				Exists(ctx)
			if err != nil {
				return regenerated, err
			}
			if !exists {
				continue
			}
			if _, err := svc.GenerateNota(ctx, def.Kind, tahun, 0); err != nil {
				return regenerated, err
			}
			regenerated++
		}
	}
	return regenerated, nil
}
