package constants

// Organization permissions
const (
	PermAdminFull     = "freight-admin.admin.full-permit"
	PermOperatorFull  = "freight-admin.operator.full-permit"
	PermFinanceFull   = "freight-admin.finance.full-permit"
	PermDriverPartial = "freight-admin.driver.status-update"

	// Special permissions
	PermAny = "any"
)

// Permission groups for convenience
var (
	ShipmentReadPermissions = []string{
		PermAdminFull,
		PermOperatorFull,
		PermFinanceFull,
	}

	ShipmentWritePermissions = []string{
		PermAdminFull,
		PermOperatorFull,
	}

	StatusUpdatePermissions = []string{
		PermAdminFull,
		PermOperatorFull,
		PermDriverPartial,
	}

	LedgerPermissions = []string{
		PermAdminFull,
		PermFinanceFull,
	}
)
