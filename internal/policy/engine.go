// Package policy provides the OPA-backed access policy engine. Mutating
// operations on community content go through it before the service acts.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.access_policy.decision"),
		rego.Module("access_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Input describes one access check.
type Input struct {
	Action  string `json:"action"`
	UserID  string `json:"user_id"`
	OwnerID string `json:"owner_id"`
	IsAdmin bool   `json:"is_admin"`
	Public  bool   `json:"public"`
}

// Evaluate checks the access policy. Returns "allow" or "deny".
func (e *Engine) Evaluate(ctx context.Context, input Input) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return "deny", nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return "deny", nil
}

// Allowed is a convenience wrapper around Evaluate.
func (e *Engine) Allowed(ctx context.Context, input Input) (bool, error) {
	decision, err := e.Evaluate(ctx, input)
	if err != nil {
		return false, err
	}
	return decision == "allow", nil
}

// DefaultPolicy is the default access policy: owners and admins may
// mutate their content, anyone may view public content, and only
// non-owners may vote.
const DefaultPolicy = `
package access_policy

default decision := "deny"

# Admins may do anything.
decision := "allow" if {
	input.is_admin == true
}

# Owners may mutate their own content.
decision := "allow" if {
	input.action != "vote.cast"
	input.user_id == input.owner_id
	input.user_id != ""
}

# Anyone may view public content.
decision := "allow" if {
	input.action == "solution.view"
	input.public == true
}

# Voting on someone else's solution.
decision := "allow" if {
	input.action == "vote.cast"
	input.user_id != input.owner_id
	input.user_id != ""
}
`
