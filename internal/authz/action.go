package authz

// Action names a gated operation. Handlers pass one of these
// constants to Engine.Authorize; the rules table below is the single
// source of truth for which roles may perform it and which ownership
// fact a USER principal must additionally hold.
type Action string

const (
	ActionUserList    Action = "user.list"
	ActionUserGet     Action = "user.get"
	ActionUserUpdate  Action = "user.update"
	ActionUserPromote Action = "user.promote"
	ActionUserDelete  Action = "user.delete"

	ActionTeamCreate       Action = "team.create"
	ActionTeamList         Action = "team.list"
	ActionTeamGet          Action = "team.get"
	ActionTeamCurrent      Action = "team.current"
	ActionTeamJoin         Action = "team.join"
	ActionTeamLeave        Action = "team.leave"
	ActionTeamRemoveMember Action = "team.remove_member"
	ActionTeamDelete       Action = "team.delete"

	ActionProjectCreate  Action = "project.create"
	ActionProjectList    Action = "project.list"
	ActionProjectGet     Action = "project.get"
	ActionProjectCurrent Action = "project.current"
	ActionProjectUpdate  Action = "project.update"
	ActionProjectDelete  Action = "project.delete"

	ActionEvaluationPut    Action = "evaluation.put"
	ActionEvaluationList   Action = "evaluation.list"
	ActionEvaluationGet    Action = "evaluation.get"
	ActionEvaluationDelete Action = "evaluation.delete"
)

// ownership is the per-instance requirement applied to a USER
// principal after the role gate. Elevated roles listed in a rule
// never reach this check.
type ownership int

const (
	ownDenied      ownership = iota // USER may never perform the action
	ownNone                         // role gate only, no instance check
	ownSelf                         // target must be the principal's own record
	ownTeamMember                   // principal must belong to the target team
	ownTeamLeader                   // principal must lead the target team
	ownProjectTeam                  // principal's team must own the target project
)

// rule couples the allowed-role set of an action with the ownership
// requirement a USER must satisfy. Roles in elevated pass on role
// alone.
type rule struct {
	elevated map[Role]bool
	user     ownership
}

func roles(rs ...Role) map[Role]bool {
	m := make(map[Role]bool, len(rs))
	for _, r := range rs {
		m[r] = true
	}
	return m
}

// rules maps every gated action to its decision rule. Keeping the
// whole policy in one table replaces the per-handler role arrays the
// platform accumulated over time, which had drifted apart (evaluation
// deletion in particular). Evaluation deletion deliberately excludes
// ADMIN: only the roles that can submit a score can retract one.
var rules = map[Action]rule{
	ActionUserList:    {elevated: roles(RoleSuperAdmin, RoleAdmin), user: ownDenied},
	ActionUserGet:     {elevated: roles(RoleSuperAdmin, RoleAdmin, RoleEvaluator), user: ownDenied},
	ActionUserUpdate:  {elevated: roles(RoleSuperAdmin, RoleAdmin), user: ownSelf},
	ActionUserPromote: {elevated: roles(RoleSuperAdmin), user: ownDenied},
	ActionUserDelete:  {elevated: roles(RoleSuperAdmin, RoleAdmin), user: ownDenied},

	ActionTeamCreate:       {elevated: roles(RoleSuperAdmin, RoleAdmin), user: ownNone},
	ActionTeamList:         {elevated: roles(RoleSuperAdmin, RoleAdmin, RoleEvaluator), user: ownDenied},
	ActionTeamGet:          {elevated: roles(RoleSuperAdmin, RoleAdmin, RoleEvaluator), user: ownTeamMember},
	ActionTeamCurrent:      {elevated: roles(), user: ownNone},
	ActionTeamJoin:         {elevated: roles(), user: ownNone},
	ActionTeamLeave:        {elevated: roles(), user: ownNone},
	ActionTeamRemoveMember: {elevated: roles(RoleSuperAdmin, RoleAdmin), user: ownTeamLeader},
	ActionTeamDelete:       {elevated: roles(RoleSuperAdmin, RoleAdmin), user: ownDenied},

	ActionProjectCreate:  {elevated: roles(RoleSuperAdmin, RoleAdmin), user: ownTeamLeader},
	ActionProjectList:    {elevated: roles(RoleSuperAdmin, RoleAdmin, RoleEvaluator), user: ownDenied},
	ActionProjectGet:     {elevated: roles(RoleSuperAdmin, RoleAdmin, RoleEvaluator), user: ownProjectTeam},
	ActionProjectCurrent: {elevated: roles(), user: ownNone},
	ActionProjectUpdate:  {elevated: roles(RoleSuperAdmin, RoleAdmin), user: ownProjectTeam},
	ActionProjectDelete:  {elevated: roles(RoleSuperAdmin, RoleAdmin), user: ownDenied},

	ActionEvaluationPut:    {elevated: roles(RoleSuperAdmin, RoleEvaluator), user: ownDenied},
	ActionEvaluationList:   {elevated: roles(RoleSuperAdmin, RoleAdmin, RoleEvaluator), user: ownDenied},
	ActionEvaluationGet:    {elevated: roles(RoleSuperAdmin, RoleAdmin, RoleEvaluator), user: ownProjectTeam},
	ActionEvaluationDelete: {elevated: roles(RoleSuperAdmin, RoleEvaluator), user: ownDenied},
}

// AllowedRoles returns the full set of roles that can ever pass the
// role gate for an action, including USER when an ownership path
// exists. Used by tests and by route registration to pick the coarse
// RequireRole set for a group.
func AllowedRoles(a Action) []Role {
	r, ok := rules[a]
	if !ok {
		return nil
	}
	out := make([]Role, 0, len(r.elevated)+1)
	for _, role := range []Role{RoleSuperAdmin, RoleAdmin, RoleEvaluator} {
		if r.elevated[role] {
			out = append(out, role)
		}
	}
	if r.elevated[RoleUser] || r.user != ownDenied {
		out = append(out, RoleUser)
	}
	return out
}
