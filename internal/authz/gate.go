// Package authz decides whether an authenticated actor may mutate a resource.
//
// Decisions are made by a list of rules; the first rule that allows wins and
// the default is deny. The only rule registered by Default is ownership.
// Role names (admin, cant_edit, cant_delete) reach every rule through Actor
// so role-based overrides can be added as another Rule without touching
// callers. No such rule is registered today.
package authz

import (
	"github.com/Baaaki/content-square/pkg/logger"
	"go.uber.org/zap"
)

type Action string

const (
	ActionEditPost   Action = "edit_post"
	ActionDeletePost Action = "delete_post"
)

// Actor is the authenticated identity performing an action
type Actor struct {
	ID   uint
	Role string
}

// Owned is implemented by resources that record an owning user
type Owned interface {
	OwnedBy() uint
}

// Rule grants an action. Returning false means "no opinion", not "deny".
type Rule interface {
	Allows(actor Actor, action Action, resource any) bool
}

// RuleFunc adapts a plain function to Rule
type RuleFunc func(actor Actor, action Action, resource any) bool

func (f RuleFunc) Allows(actor Actor, action Action, resource any) bool {
	return f(actor, action, resource)
}

// OwnershipRule allows any action on a resource owned by the actor.
// Resources without an owner are never allowed.
type OwnershipRule struct{}

func (OwnershipRule) Allows(actor Actor, _ Action, resource any) bool {
	owned, ok := resource.(Owned)
	if !ok || owned == nil {
		return false
	}
	return owned.OwnedBy() == actor.ID
}

// Gate holds no per-call state and is safe for concurrent use
type Gate struct {
	rules []Rule
}

func NewGate(rules ...Rule) *Gate {
	return &Gate{rules: rules}
}

// Default returns the gate used by the services: ownership only
func Default() *Gate {
	return NewGate(OwnershipRule{})
}

func (g *Gate) CanPerform(actor Actor, action Action, resource any) bool {
	for _, rule := range g.rules {
		if rule.Allows(actor, action, resource) {
			return true
		}
	}

	logger.Log.Debug("Permission denied",
		zap.Uint("actor_id", actor.ID),
		zap.String("role", actor.Role),
		zap.String("action", string(action)),
	)
	return false
}
