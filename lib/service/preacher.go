package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/surau-digital/surauhub/common"
	"github.com/surau-digital/surauhub/db/models"
	"github.com/surau-digital/surauhub/lib/accounting"
	"github.com/uptrace/bun"
)

func (svc *SurauService) ListPreachers(ctx context.Context, activeOnly bool) ([]models.Preacher, error) {
	preachers := []models.Preacher{}
	q := svc.DB.NewSelect().Model(&preachers).OrderExpr("nama ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	err := q.Scan(ctx)
	return preachers, err
}

func (svc *SurauService) CreatePreacher(ctx context.Context, nama, noTelefon, bidang string) (*models.Preacher, error) {
	nama = strings.TrimSpace(nama)
	if nama == "" {
		return nil, invalid("nama is required")
	}
	preacher := &models.Preacher{
		Nama:      nama,
		NoTelefon: strings.TrimSpace(noTelefon),
		Bidang:    strings.TrimSpace(bidang),
		Active:    true,
	}
	if _, err := svc.DB.NewInsert().Model(preacher).Exec(ctx); err != nil {
		return nil, err
	}
	return preacher, nil
}

func (svc *SurauService) SetPreacherActive(ctx context.Context, id int64, active bool) (*models.Preacher, error) {
	var preacher models.Preacher
	if err := svc.DB.NewSelect().Model(&preacher).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
		return nil, notFound(err, "preacher")
	}
	preacher.Active = active
	_, err := svc.DB.NewUpdate().Model(&preacher).Column("active").WherePK().Exec(ctx)
	return &preacher, err
}

// ListSchedules returns the schedule of one month, or of the whole year when month is 0.
func (svc *SurauService) ListSchedules(ctx context.Context, year, month int) ([]models.PreacherSchedule, error) {
	from, to := accounting.Period{Year: year, Month: time.January}, accounting.Period{Year: year, Month: time.December}
	if month != 0 {
		p, err := accounting.NewPeriod(year, month)
		if err != nil {
			return nil, invalid("%v", err)
		}
		from, to = p, p
	} else if err := validTahun(year); err != nil {
		return nil, err
	}
	schedules := []models.PreacherSchedule{}
	err := svc.DB.NewSelect().Model(&schedules).
		Relation("Preacher").
		Where("preacher_schedule.tarikh >= ?", from.Start()).
		Where("preacher_schedule.tarikh < ?", to.End()).
		OrderExpr("preacher_schedule.tarikh ASC, preacher_schedule.slot ASC").
		Scan(ctx)
	return schedules, err
}

type ScheduleInput struct {
	Tarikh     time.Time
	Slot       string
	PreacherID int64
	Topik      string
	Catatan    string
}

func validSlot(slot string) bool {
	for _, s := range common.PreacherSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// UpsertSchedules writes a batch of slots in one transaction. A slot that is
// already taken on that day is overwritten.
func (svc *SurauService) UpsertSchedules(ctx context.Context, inputs []ScheduleInput) ([]models.PreacherSchedule, error) {
	if len(inputs) == 0 {
		return nil, invalid("no schedule entries given")
	}
	seen := map[string]bool{}
	schedules := make([]models.PreacherSchedule, 0, len(inputs))
	preacherIds := map[int64]bool{}
	for i, in := range inputs {
		slot := strings.ToLower(strings.TrimSpace(in.Slot))
		if !validSlot(slot) {
			return nil, invalid("entry %d: unknown slot %q", i+1, in.Slot)
		}
		if in.Tarikh.IsZero() || in.PreacherID == 0 {
			return nil, invalid("entry %d: tarikh and preacher_id are required", i+1)
		}
		tarikh := time.Date(in.Tarikh.Year(), in.Tarikh.Month(), in.Tarikh.Day(), 0, 0, 0, 0, time.UTC)
		key := fmt.Sprintf("%s/%s", tarikh.Format("2006-01-02"), slot)
		if seen[key] {
			return nil, invalid("entry %d: %s is given twice", i+1, key)
		}
		seen[key] = true
		preacherIds[in.PreacherID] = true
		schedules = append(schedules, models.PreacherSchedule{
			Tarikh:     tarikh,
			Slot:       slot,
			PreacherID: in.PreacherID,
			Topik:      strings.TrimSpace(in.Topik),
			Catatan:    strings.TrimSpace(in.Catatan),
		})
	}

	err := svc.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		ids := make([]int64, 0, len(preacherIds))
		for id := range preacherIds {
			ids = append(ids, id)
		}
		count, err := tx.NewSelect().Model((*models.Preacher)(nil)).Where("id IN (?)", bun.In(ids)).Count(ctx)
		if err != nil {
			return err
		}
		if count != len(ids) {
			return invalid("unknown preacher in schedule")
		}
		_, err = tx.NewInsert().Model(&schedules).
			On("CONFLICT (tarikh, slot) DO UPDATE").
			Set("preacher_id = EXCLUDED.preacher_id").
			Set("topik = EXCLUDED.topik").
			Set("catatan = EXCLUDED.catatan").
			Set("updated_at = ?", time.Now().UTC()).
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (svc *SurauService) DeleteSchedule(ctx context.Context, id int64) error {
	res, err := svc.DB.NewDelete().Model((*models.PreacherSchedule)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("schedule: %w", ErrNotFound)
	}
	return nil
}
