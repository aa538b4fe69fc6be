// Package authz decides whether an authenticated principal may
// perform an action on a resource instance. The decision composes a
// role gate (the rules table in action.go) with ownership facts
// looked up at decision time through a Resolver. The engine never
// touches transport concerns: it returns a Decision and the calling
// handler maps it to a status code.
package authz

import "context"

// Principal is the identity extracted from a verified credential.
// It is rebuilt per request and passed explicitly into Authorize;
// nothing in this package reads ambient request state.
type Principal struct {
	UserID string
	Role   Role
}

// Resource carries the instance references an ownership check may
// need. Only the fields relevant to the action have to be set:
// OwnerID for self-scoped actions, TeamID for team-scoped ones,
// ProjectID for project-scoped ones.
type Resource struct {
	OwnerID   string
	TeamID    string
	ProjectID string
}

// Reason classifies a denial so the handler can choose a status
// without inspecting strings.
type Reason string

const (
	ReasonForbidden       Reason = "forbidden"
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonNotFound        Reason = "not_found"
)

// Decision is the outcome of an authorization check. Denials are
// ordinary values, not errors; only resolver lookup failures surface
// through Authorize's error return.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision        { return Decision{Allowed: true} }
func deny(r Reason) Decision { return Decision{Allowed: false, Reason: r} }

// Resolver supplies the ownership facts needed to refine a role
// decision into a per-instance one. Implementations read current
// persisted state on every call; results are never cached across
// requests because membership changes between them. When the subject
// has no user row, every predicate reports false rather than failing.
type Resolver interface {
	IsTeamMember(ctx context.Context, userID, teamID string) (bool, error)
	IsTeamLeader(ctx context.Context, userID, teamID string) (bool, error)
	OwnsProject(ctx context.Context, userID, projectID string) (bool, error)
	CurrentTeamOf(ctx context.Context, userID string) (string, error)
}

// Engine evaluates (principal, action, resource) triples against the
// rules table. The role gate runs strictly before any ownership
// lookup, so a principal lacking the role never causes a state read
// and cannot learn anything from one.
type Engine struct {
	resolver Resolver
}

func NewEngine(r Resolver) *Engine {
	if r == nil {
		panic("nil resolver passed to NewEngine")
	}
	return &Engine{resolver: r}
}

// Authorize returns the decision for one action on one resource.
// A non-nil error means an ownership lookup failed unexpectedly and
// the handler should answer with an internal error, not a denial.
func (e *Engine) Authorize(ctx context.Context, p Principal, a Action, res Resource) (Decision, error) {
	if p.UserID == "" || !ValidRole(string(p.Role)) {
		return deny(ReasonUnauthenticated), nil
	}
	r, ok := rules[a]
	if !ok {
		// Unknown actions are denied, never silently allowed.
		return deny(ReasonForbidden), nil
	}
	if Permits(p.Role, r.elevated) {
		return allow(), nil
	}
	if p.Role != RoleUser || r.user == ownDenied {
		return deny(ReasonForbidden), nil
	}

	switch r.user {
	case ownNone:
		return allow(), nil
	case ownSelf:
		if res.OwnerID != "" && res.OwnerID == p.UserID {
			return allow(), nil
		}
		return deny(ReasonForbidden), nil
	case ownTeamMember:
		ok, err := e.resolver.IsTeamMember(ctx, p.UserID, res.TeamID)
		if err != nil {
			return Decision{}, err
		}
		if ok {
			return allow(), nil
		}
		return deny(ReasonForbidden), nil
	case ownTeamLeader:
		ok, err := e.resolver.IsTeamLeader(ctx, p.UserID, res.TeamID)
		if err != nil {
			return Decision{}, err
		}
		if ok {
			return allow(), nil
		}
		return deny(ReasonForbidden), nil
	case ownProjectTeam:
		ok, err := e.resolver.OwnsProject(ctx, p.UserID, res.ProjectID)
		if err != nil {
			return Decision{}, err
		}
		if ok {
			return allow(), nil
		}
		return deny(ReasonForbidden), nil
	}
	return deny(ReasonForbidden), nil
}
