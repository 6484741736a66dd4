// Package authz holds the single capability check every route and service consults.
package authz

import "revistas_backend/internal/models"

// Principal is the authenticated caller.
type Principal struct {
	UserID         int64
	Username       string
	Role           string
	CongregationID *int64
}

// IsAdmin reports whether the principal carries the ADMIN role.
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// Action names something a principal may attempt.
type Action string

const (
	ActionCatalogRead        Action = "catalog:read"
	ActionCatalogManage      Action = "catalog:manage"
	ActionPeriodRead         Action = "period:read"
	ActionPeriodManage       Action = "period:manage"
	ActionOrganizationRead   Action = "organization:read"
	ActionOrganizationManage Action = "organization:manage"
	ActionUserManage         Action = "user:manage"
	ActionOrderCreate        Action = "order:create"
	ActionOrderList          Action = "order:list"
	ActionOrderListAll       Action = "order:list-all"
	ActionOrderView          Action = "order:view"
	ActionOrderEdit          Action = "order:edit"
	ActionOrderDelete        Action = "order:delete"
	ActionOrderChangeStatus  Action = "order:change-status"
	ActionReportView         Action = "report:view"
)

// Resource identifies what an action targets. The zero value means "no specific record".
type Resource struct {
	SubmittedByID  int64
	CongregationID int64
}

// OrderResource describes an existing order for ownership checks.
func OrderResource(o *models.Order) Resource {
	return Resource{SubmittedByID: o.SubmittedByID, CongregationID: o.CongregationID}
}

// everyone lists the actions any authenticated user may perform on any resource.
var everyone = map[Action]bool{
	ActionCatalogRead:      true,
	ActionPeriodRead:       true,
	ActionOrganizationRead: true,
	ActionOrderCreate:      true,
	ActionOrderList:        true,
}

// Can reports whether p may perform a on r.
func Can(p Principal, a Action, r Resource) bool {
	if p.IsAdmin() {
		return true
	}
	if p.Role != models.RoleUser {
		return false
	}
	if everyone[a] {
		return true
	}

	switch a {
	case ActionOrderEdit, ActionOrderDelete:
		return r.SubmittedByID != 0 && r.SubmittedByID == p.UserID
	case ActionOrderView:
		if r.SubmittedByID != 0 && r.SubmittedByID == p.UserID {
			return true
		}
		return p.CongregationID != nil && r.CongregationID != 0 && r.CongregationID == *p.CongregationID
	default:
		return false
	}
}
