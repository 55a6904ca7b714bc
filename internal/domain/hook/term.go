// Package hook defines the in-memory domain model materialised from the
// RDF hook vocabulary: hooks, predicates, pipelines, steps, and the
// execution records they produce.
package hook

// HookID is the IRI that identifies a gh:Hook resource.
type HookID string

// StepID is the IRI that identifies an op:Step resource.
type StepID string
