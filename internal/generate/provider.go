// Package generate implements the multi-provider generation cascade:
// an ordered list of providers, each gated by availability and schema
// validation with a bounded retry, terminated by a deterministic
// generator that never fails.
package generate

import "context"

// Provider is one generation strategy. The cascade driver is generic over
// this contract and is the same code whether producing ideas or plans.
type Provider interface {
	// Name identifies the provider in evidence and logs.
	Name() string
	// Model returns the configured model identifier, if applicable.
	Model() string
	// Available reports whether the provider has what it needs (a
	// credential); unavailable providers are skipped without an attempt.
	Available() bool
	// Generate produces raw text for a prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}
