package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/surau-digital/surauhub/common"
	"github.com/surau-digital/surauhub/db/models"
	"github.com/surau-digital/surauhub/lib/khairat"
	"github.com/uptrace/bun"
)

type DependentInput struct {
	Nama     string
	NoKp     string
	Hubungan string
}

type KhairatApplication struct {
	Nama       string
	NoKp       string
	NoTelefon  string
	Alamat     string
	Dependents []DependentInput
}

func dependentModels(memberId int64, inputs []DependentInput) ([]models.KhairatDependent, error) {
	deps := make([]models.KhairatDependent, 0, len(inputs))
	for i, in := range inputs {
		nama := strings.TrimSpace(in.Nama)
		hubungan := strings.ToLower(strings.TrimSpace(in.Hubungan))
		if nama == "" || hubungan == "" {
			return nil, invalid("dependent %d: nama and hubungan are required", i+1)
		}
		deps = append(deps, models.KhairatDependent{
			MemberID: memberId,
			Nama:     nama,
			NoKp:     khairat.NormalizeNoKp(in.NoKp),
			Hubungan: hubungan,
		})
	}
	return deps, nil
}

// ApplyKhairat registers a pending membership with its dependents.
func (svc *SurauService) ApplyKhairat(ctx context.Context, app KhairatApplication) (*models.KhairatMember, error) {
	noKp := khairat.NormalizeNoKp(app.NoKp)
	if strings.TrimSpace(app.Nama) == "" || noKp == "" {
		return nil, invalid("nama and no_kp are required")
	}
	if _, err := dependentModels(0, app.Dependents); err != nil {
		return nil, err
	}
	member := &models.KhairatMember{
		Nama:         strings.TrimSpace(app.Nama),
		NoKp:         noKp,
		NoTelefon:    strings.TrimSpace(app.NoTelefon),
		Alamat:       strings.TrimSpace(app.Alamat),
		Status:       common.KhairatStatusPending,
		TarikhDaftar: time.Now().UTC(),
	}
	err := svc.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*models.KhairatMember)(nil)).Where("no_kp = ?", noKp).Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateMember
		}
		if _, err := tx.NewInsert().Model(member).Exec(ctx); err != nil {
			return err
		}
		deps, err := dependentModels(member.ID, app.Dependents)
		if err != nil {
			return err
		}
		if len(deps) > 0 {
			if _, err := tx.NewInsert().Model(&deps).Exec(ctx); err != nil {
				return err
			}
		}
		member.Dependents = deps
		return nil
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

type KhairatFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}

func (svc *SurauService) ListKhairat(ctx context.Context, filter KhairatFilter) ([]models.KhairatMember, int, error) {
	members := []models.KhairatMember{}
	q := svc.DB.NewSelect().Model(&members)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("LOWER(nama) LIKE ?", like).WhereOr("no_kp LIKE ?", like).WhereOr("LOWER(no_ahli) LIKE ?", like)
		})
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	count, err := q.OrderExpr("nama ASC, id ASC").Limit(limit).Offset(filter.Offset).ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return members, count, nil
}

func (svc *SurauService) FindKhairat(ctx context.Context, id int64) (*models.KhairatMember, error) {
	var member models.KhairatMember
	err := svc.DB.NewSelect().Model(&member).
		Relation("Dependents", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("id ASC")
		}).
		Where("khairat_member.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err, "khairat member")
	}
	return &member, nil
}

// ApproveKhairat moves a pending application to approved and assigns a member number.
func (svc *SurauService) ApproveKhairat(ctx context.Context, id int64, userId int64) (*models.KhairatMember, error) {
	member, err := svc.FindKhairat(ctx, id)
	if err != nil {
		return nil, err
	}
	if member.Status != common.KhairatStatusPending {
		return nil, invalid("only pending applications can be approved, this one is %s", member.Status)
	}
	member.Status = common.KhairatStatusApproved
	member.ApprovedBy = userId
	member.ApprovedAt = bun.NullTime{Time: time.Now().UTC()}
	member.RejectReason = ""
	if member.NoAhli == "" {
		member.NoAhli = fmt.Sprintf("KK%05d", member.ID)
	}
	_, err = svc.DB.NewUpdate().Model(member).
		Column("status", "approved_by", "approved_at", "reject_reason", "no_ahli", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	svc.publish(models.Event{Type: common.EventKhairatApproved, EntityID: member.ID, UserID: userId})
	return member, nil
}

func (svc *SurauService) RejectKhairat(ctx context.Context, id int64, reason string, userId int64) (*models.KhairatMember, error) {
	member, err := svc.FindKhairat(ctx, id)
	if err != nil {
		return nil, err
	}
	if member.Status != common.KhairatStatusPending {
		return nil, invalid("only pending applications can be rejected, this one is %s", member.Status)
	}
	if strings.TrimSpace(reason) == "" {
		return nil, invalid("a reason is required")
	}
	member.Status = common.KhairatStatusRejected
	member.RejectReason = strings.TrimSpace(reason)
	_, err = svc.DB.NewUpdate().Model(member).Column("status", "reject_reason", "updated_at").WherePK().Exec(ctx)
	if err != nil {
		return nil, err
	}
	svc.publish(models.Event{
		Type:     common.EventKhairatRejected,
		EntityID: member.ID,
		UserID:   userId,
		Data:     map[string]interface{}{"reason": member.RejectReason},
	})
	return member, nil
}

// ReplaceDependents swaps the whole dependent list of a member in one transaction.
func (svc *SurauService) ReplaceDependents(ctx context.Context, id int64, inputs []DependentInput) (*models.KhairatMember, error) {
	member, err := svc.FindKhairat(ctx, id)
	if err != nil {
		return nil, err
	}
	deps, err := dependentModels(member.ID, inputs)
	if err != nil {
		return nil, err
	}
	err = svc.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*models.KhairatDependent)(nil)).Where("member_id = ?", member.ID).Exec(ctx); err != nil {
			return err
		}
		if len(deps) > 0 {
			if _, err := tx.NewInsert().Model(&deps).Exec(ctx); err != nil {
				return err
			}
		}
		_, err := tx.NewUpdate().Model(member).Column("updated_at").WherePK().Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	member.Dependents = deps
	return member, nil
}

func (svc *SurauService) DeleteKhairat(ctx context.Context, id int64) error {
	return svc.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*models.KhairatDependent)(nil)).Where("member_id = ?", id).Exec(ctx); err != nil {
			return err
		}
		res, err := tx.NewDelete().Model((*models.KhairatMember)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("khairat member: %w", ErrNotFound)
		}
		return nil
	})
}

type KhairatImportResult struct {
	Inserted   int      `json:"inserted"`
	Updated    int      `json:"updated"`
	Dependents int      `json:"dependents"`
	Errors     int      `json:"errors"`
	Messages   []string `json:"messages,omitempty"`
}

// ImportKhairat loads a member workbook. Members are matched on no_kp; an
// existing member gets its details and dependents replaced by the sheet.
// Bad rows are skipped, the rest is written in one transaction.
func (svc *SurauService) ImportKhairat(ctx context.Context, r io.Reader, fileName string, userId int64) (*KhairatImportResult, error) {
	sheet, err := khairat.Read(r)
	if err != nil {
		return nil, invalid("could not read workbook: %v", err)
	}
	result := &KhairatImportResult{}
	for _, e := range sheet.Errors {
		svc.Logger.Warnf("Khairat import %s: %s", fileName, e.Error())
		result.Errors++
		result.Messages = append(result.Messages, e.Error())
	}

	now := time.Now().UTC()
	err = svc.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var current *models.KhairatMember
		cleared := map[int64]bool{}
		for _, row := range sheet.Rows {
			switch row.Kind {
			case khairat.RowMember:
				member, inserted, err := upsertMember(ctx, tx, row, userId, now)
				if err != nil {
					return fmt.Errorf("baris %d: %w", row.Line, err)
				}
				if inserted {
					result.Inserted++
				} else {
					result.Updated++
				}
				current = member
			case khairat.RowDependent:
				if current == nil {
					continue
				}
				if !cleared[current.ID] {
					_, err := tx.NewDelete().Model((*models.KhairatDependent)(nil)).Where("member_id = ?", current.ID).Exec(ctx)
					if err != nil {
						return err
					}
					cleared[current.ID] = true
				}
				dep := &models.KhairatDependent{MemberID: current.ID, Nama: row.Nama, NoKp: row.NoKp, Hubungan: row.Hubungan}
				if _, err := tx.NewInsert().Model(dep).Exec(ctx); err != nil {
					return fmt.Errorf("baris %d: %w", row.Line, err)
				}
				result.Dependents++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func upsertMember(ctx context.Context, tx bun.Tx, row khairat.Row, userId int64, now time.Time) (*models.KhairatMember, bool, error) {
	existing := []models.KhairatMember{}
	if err := tx.NewSelect().Model(&existing).Where("no_kp = ?", row.NoKp).Limit(1).Scan(ctx); err != nil {
		return nil, false, err
	}
	if len(existing) == 0 {
		member := &models.KhairatMember{
			NoAhli:       row.NoAhli,
			Nama:         row.Nama,
			NoKp:         row.NoKp,
			NoTelefon:    row.NoTelefon,
			Alamat:       row.Alamat,
			Status:       common.KhairatStatusApproved,
			TarikhDaftar: now,
			ApprovedBy:   userId,
			ApprovedAt:   bun.NullTime{Time: now},
		}
		if _, err := tx.NewInsert().Model(member).Exec(ctx); err != nil {
			return nil, false, err
		}
		return member, true, nil
	}
	member := &existing[0]
	member.Nama = row.Nama
	if row.NoAhli != "" {
		member.NoAhli = row.NoAhli
	}
	if row.NoTelefon != "" {
		member.NoTelefon = row.NoTelefon
	}
	if row.Alamat != "" {
		member.Alamat = row.Alamat
	}
	_, err := tx.NewUpdate().Model(member).Column("nama", "no_ahli", "no_telefon", "alamat", "updated_at").WherePK().Exec(ctx)
	return member, false, err
}
