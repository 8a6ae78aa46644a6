package migrations

import (
	"context"

	"github.com/surau-digital/surauhub/db/models"
	"github.com/uptrace/bun"
)

/* Since this init will reflect the latest model fields when run on fresh db
make sure that when you add/remove columns in subsequent migrations IfNotExists/IfExists is used
otherwise it's going to result in errors.
*/
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		tables := []interface{}{
			(*models.User)(nil),
			(*models.BankStatement)(nil),
			(*models.Transaction)(nil),
			(*models.NotaRow)(nil),
			(*models.KhairatMember)(nil),
			(*models.KhairatDependent)(nil),
			(*models.Preacher)(nil),
			(*models.PreacherSchedule)(nil),
		}
		for _, table := range tables {
			if _, err := db.NewCreateTable().Model(table).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		tables := []interface{}{
			(*models.PreacherSchedule)(nil),
			(*models.Preacher)(nil),
			(*models.KhairatDependent)(nil),
			(*models.KhairatMember)(nil),
			(*models.NotaRow)(nil),
			(*models.Transaction)(nil),
			(*models.BankStatement)(nil),
			(*models.User)(nil),
		}
		for _, table := range tables {
			if _, err := db.NewDropTable().Model(table).IfExists().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
