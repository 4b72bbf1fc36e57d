package rbac

// Role constants
const (
	RoleDraftingAgent     = "drafting_agent"
	RoleControlOfficer    = "control_officer"
	RoleValidationOfficer = "validation_officer"
	RoleMOA               = "moa" // Management Operations Administrator
)

// Permission constants
const (
	PermCreateDocument      = "create_document"
	PermSubmitDocument      = "submit_document"
	PermReviewDocument      = "review_document"   // under_control -> under_validation
	PermValidateDocument    = "validate_document" // under_validation -> validated/rejected
	PermCreateControl       = "create_control"
	PermUpdateCompliance    = "update_compliance"
	PermRecordNonCompliance = "record_non_compliance"
	PermValidateDeclarant   = "validate_declarant"
	PermManageTemplates     = "manage_templates"
	PermManageDocumentTypes = "manage_document_types"
)

// RolePermissions is the capability table: every operation consults it once
// instead of re-deriving role checks inline.
var RolePermissions = map[string][]string{
	RoleDraftingAgent: {
		PermCreateDocument, PermSubmitDocument,
	},
	RoleControlOfficer: {
		PermReviewDocument,
		PermCreateControl, PermUpdateCompliance, PermRecordNonCompliance, PermValidateDeclarant,
	},
	RoleValidationOfficer: {
		PermValidateDocument, PermManageTemplates,
		PermCreateControl, PermUpdateCompliance, PermRecordNonCompliance, PermValidateDeclarant,
	},
	RoleMOA: {
		PermManageTemplates, PermManageDocumentTypes,
	},
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role, permission string) bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}

// IsValidRole reports whether role belongs to the closed role set.
func IsValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}

// DocumentTransitionPermission maps a status transition to the permission
// that authorizes it. Submit (draft -> under_control) has its own operation
// and creator check, so it is not listed here.
func DocumentTransitionPermission(from, to string) (string, bool) {
	switch {
	case from == "under_control" && to == "under_validation":
		return PermReviewDocument, true
	case from == "under_validation" && (to == "validated" || to == "rejected"):
		return PermValidateDocument, true
	}
	return "", false
}
