package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// allActions enumerates every gated action so table coverage can be
// asserted mechanically instead of by eyeball.
var allActions = []Action{
	ActionUserList, ActionUserGet, ActionUserUpdate, ActionUserPromote, ActionUserDelete,
	ActionTeamCreate, ActionTeamList, ActionTeamGet, ActionTeamCurrent,
	ActionTeamJoin, ActionTeamLeave, ActionTeamRemoveMember, ActionTeamDelete,
	ActionProjectCreate, ActionProjectList, ActionProjectGet, ActionProjectCurrent,
	ActionProjectUpdate, ActionProjectDelete,
	ActionEvaluationPut, ActionEvaluationList, ActionEvaluationGet, ActionEvaluationDelete,
}

func TestRulesCoverEveryAction(t *testing.T) {
	for _, a := range allActions {
		_, ok := rules[a]
		assert.True(t, ok, "no rule for action %s", a)
	}
	assert.Len(t, rules, len(allActions), "rules table has entries for unknown actions")
}

func TestAllowedRoles(t *testing.T) {
	cases := []struct {
		action Action
		want   []Role
	}{
		{ActionUserList, []Role{RoleSuperAdmin, RoleAdmin}},
		{ActionUserGet, []Role{RoleSuperAdmin, RoleAdmin, RoleEvaluator}},
		{ActionUserUpdate, []Role{RoleSuperAdmin, RoleAdmin, RoleUser}},
		{ActionUserPromote, []Role{RoleSuperAdmin}},
		{ActionUserDelete, []Role{RoleSuperAdmin, RoleAdmin}},

		{ActionTeamCreate, []Role{RoleSuperAdmin, RoleAdmin, RoleUser}},
		{ActionTeamList, []Role{RoleSuperAdmin, RoleAdmin, RoleEvaluator}},
		{ActionTeamGet, []Role{RoleSuperAdmin, RoleAdmin, RoleEvaluator, RoleUser}},
		{ActionTeamCurrent, []Role{RoleUser}},
		{ActionTeamJoin, []Role{RoleUser}},
		{ActionTeamLeave, []Role{RoleUser}},
		{ActionTeamRemoveMember, []Role{RoleSuperAdmin, RoleAdmin, RoleUser}},
		{ActionTeamDelete, []Role{RoleSuperAdmin, RoleAdmin}},

		{ActionProjectCreate, []Role{RoleSuperAdmin, RoleAdmin, RoleUser}},
		{ActionProjectList, []Role{RoleSuperAdmin, RoleAdmin, RoleEvaluator}},
		{ActionProjectGet, []Role{RoleSuperAdmin, RoleAdmin, RoleEvaluator, RoleUser}},
		{ActionProjectCurrent, []Role{RoleUser}},
		{ActionProjectUpdate, []Role{RoleSuperAdmin, RoleAdmin, RoleUser}},
		{ActionProjectDelete, []Role{RoleSuperAdmin, RoleAdmin}},

		{ActionEvaluationPut, []Role{RoleSuperAdmin, RoleEvaluator}},
		{ActionEvaluationList, []Role{RoleSuperAdmin, RoleAdmin, RoleEvaluator}},
		{ActionEvaluationGet, []Role{RoleSuperAdmin, RoleAdmin, RoleEvaluator, RoleUser}},
		{ActionEvaluationDelete, []Role{RoleSuperAdmin, RoleEvaluator}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, AllowedRoles(tc.action), "action %s", tc.action)
	}
}

func TestAllowedRolesUnknownAction(t *testing.T) {
	assert.Nil(t, AllowedRoles(Action("no.such.action")))
}

// Score retraction is narrower than administration: ADMIN can list
// and read evaluations but never delete one.
func TestEvaluationDeleteExcludesAdmin(t *testing.T) {
	assert.NotContains(t, AllowedRoles(ActionEvaluationDelete), RoleAdmin)
	assert.Contains(t, AllowedRoles(ActionEvaluationList), RoleAdmin)
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{"SUPER_ADMIN", "ADMIN", "EVALUATOR", "USER"} {
		assert.True(t, ValidRole(r), r)
	}
	for _, r := range []string{"", "user", "ROOT", "SUPERADMIN"} {
		assert.False(t, ValidRole(r), r)
	}
}

func TestPermitsIsExactMembership(t *testing.T) {
	allowed := roles(RoleAdmin)
	assert.True(t, Permits(RoleAdmin, allowed))
	// No hierarchy: SUPER_ADMIN does not inherit ADMIN's grants.
	assert.False(t, Permits(RoleSuperAdmin, allowed))
	assert.False(t, Permits(RoleUser, allowed))
}
