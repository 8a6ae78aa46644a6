package common

const (
	RoleAdmin     = "admin"
	RoleBendahari = "bendahari"
	RoleHeadImam  = "head_imam"
	RoleStaff     = "staff"

	TransactionTypeUncategorized = "uncategorized"
	TransactionTypePenerimaan    = "penerimaan"
	TransactionTypePembayaran    = "pembayaran"

	BulanSemasa  = "bulan_semasa"
	BulanDepan   = "bulan_depan"
	BulanSebelum = "bulan_sebelum"

	// used when a transaction has no category or subcategory
	FallbackCategory = "Lain-lain"

	KhairatStatusPending  = "pending"
	KhairatStatusApproved = "approved"
	KhairatStatusRejected = "rejected"

	EventStatementImported      = "statement.imported"
	EventStatementDeleted       = "statement.deleted"
	EventTransactionCategorized = "transaction.categorized"
	EventNotaGenerated          = "nota.generated"
	EventKhairatApproved        = "khairat.approved"
	EventKhairatRejected        = "khairat.rejected"
)

var (
	FinancialWriteRoles = []string{RoleAdmin, RoleBendahari}
	FinancialReadRoles  = []string{RoleAdmin, RoleBendahari, RoleHeadImam}
	KhairatWriteRoles   = []string{RoleAdmin, RoleBendahari}
	PreacherWriteRoles  = []string{RoleAdmin, RoleHeadImam}
	AllRoles            = []string{RoleAdmin, RoleBendahari, RoleHeadImam, RoleStaff}

	PreacherSlots = []string{"subuh", "dhuha", "maghrib", "isyak", "jumaat"}
)
