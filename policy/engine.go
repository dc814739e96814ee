// Package policy evaluates upload admission policy with OPA.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Decisions produced by the upload policy.
const (
	DecisionAllow      = "allow"
	DecisionRejectType = "reject_type"
	DecisionRejectSize = "reject_size"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.upload_policy.decision"),
		rego.Module("upload_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// UploadInput is the policy input for one upload.
type UploadInput struct {
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// Evaluate checks the upload policy and returns the decision string.
func (e *Engine) Evaluate(ctx context.Context, input UploadInput) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The policy defines a default, so this means it failed to load.
		return "", fmt.Errorf("upload policy produced no decision")
	}

	decision, ok := results[0].Expressions[0].Value.(string)
	if !ok {
		return "", fmt.Errorf("upload policy returned unexpected type %T", results[0].Expressions[0].Value)
	}
	return decision, nil
}

// DefaultPolicy is the default upload admission policy: an allowlist of
// MIME types and a 10MB size cap.
const DefaultPolicy = `
package upload_policy

import rego.v1

allowed_mime_types := [
	"text/plain",
	"application/pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
]

max_size := 10485760

default decision := "allow"

decision := "reject_type" if not allowed_type

decision := "reject_size" if {
	allowed_type
	input.size > max_size
}

allowed_type if input.mime_type in allowed_mime_types
`
