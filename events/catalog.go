package events

import "github.com/yeremiapane/teamtask-app/models"

// Type adalah enum tertutup untuk event notifikasi.
type Type string

const (
	// Member management
	MemberJoin    Type = "member_join"
	MemberLeave   Type = "member_leave"
	MemberRemoved Type = "member_removed"

	// Role changes
	RoleChange   Type = "role_change"
	RolePromoted Type = "role_promoted"
	RoleDemoted  Type = "role_demoted"

	// Permission changes
	PermissionGranted Type = "permission_granted"
	PermissionRevoked Type = "permission_revoked"

	// Team lifecycle
	TeamCreated Type = "team_created"
	TeamDeleted Type = "team_deleted"
	TeamUpdated Type = "team_updated"

	// Tasks
	TaskAssigned  Type = "task_assigned"
	TaskCompleted Type = "task_completed"
	TaskOverdue   Type = "task_overdue"
	Mention       Type = "mention"

	// Operational
	AuditLog        Type = "audit_log"
	SecurityAlert   Type = "security_alert"
	SystemBroadcast Type = "system_broadcast"
)

// Defaults adalah priority dan message kind bawaan untuk satu event type.
// Caller boleh meng-override keduanya saat dispatch.
type Defaults struct {
	Priority    string
	MessageKind string
}

// Catalog adalah lookup table statis event type -> Defaults.
// Dibuat lewat NewCatalog dan diinject ke dependents, bukan singleton.
type Catalog struct {
	defaults map[Type]Defaults
}

func NewCatalog() *Catalog {
	return &Catalog{defaults: map[Type]Defaults{
		MemberJoin:    {models.PriorityMedium, models.KindSuccess},
		MemberLeave:   {models.PriorityMedium, models.KindInfo},
		MemberRemoved: {models.PriorityMedium, models.KindWarning},

		RoleChange:   {models.PriorityHigh, models.KindInfo},
		RolePromoted: {models.PriorityHigh, models.KindSuccess},
		RoleDemoted:  {models.PriorityHigh, models.KindWarning},

		PermissionGranted: {models.PriorityMedium, models.KindSuccess},
		PermissionRevoked: {models.PriorityMedium, models.KindWarning},

		TeamCreated: {models.PriorityMedium, models.KindSuccess},
		TeamDeleted: {models.PriorityUrgent, models.KindError},
		TeamUpdated: {models.PriorityMedium, models.KindInfo},

		TaskAssigned:  {models.PriorityMedium, models.KindInfo},
		TaskCompleted: {models.PriorityMedium, models.KindSuccess},
		TaskOverdue:   {models.PriorityHigh, models.KindWarning},
		Mention:       {models.PriorityMedium, models.KindInfo},

		AuditLog:        {models.PriorityLow, models.KindInfo},
		SecurityAlert:   {models.PriorityUrgent, models.KindError},
		SystemBroadcast: {models.PriorityMedium, models.KindInfo},
	}}
}

// Known melaporkan apakah t terdaftar di catalog.
func (c *Catalog) Known(t Type) bool {
	_, ok := c.defaults[t]
	return ok
}

// Lookup mengembalikan Defaults untuk t.
func (c *Catalog) Lookup(t Type) (Defaults, bool) {
	d, ok := c.defaults[t]
	return d, ok
}

// Types mengembalikan semua event type terdaftar.
func (c *Catalog) Types() []Type {
	out := make([]Type, 0, len(c.defaults))
	for t := range c.defaults {
		out = append(out, t)
	}
	return out
}
