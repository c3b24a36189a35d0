// Package compat implements homestead's backward-compatibility gate.
//
// Homestead occasionally ships changes that silently alter the behavior of an
// existing manifest. Each one is recorded in an ordered catalog together with
// the version that introduced it. Before evaluation, the gate compares the
// manifest's pinned compat_version against the catalog and refuses to proceed
// while changes newer than the pin apply to the deployment, listing the manual
// migration steps for every one of them.
package compat

import "github.com/zjrosen/homestead/internal/config"

// Condition reports whether a change is relevant to the deployment described
// by snap. Conditions must only read from the snapshot; they are evaluated
// lazily, once per gate check.
type Condition func(snap config.Snapshot) bool

// Change is one versioned breaking-change announcement.
type Change struct {
	// Version of homestead that introduced the change.
	Version string

	// When scopes the change to deployments it affects.
	// Nil means the change always applies.
	When Condition

	// Message holds the migration instructions, fully expanded against the
	// snapshot at catalog construction.
	Message string
}

// Applies reports whether the change is relevant to the given deployment.
func (c Change) Applies(snap config.Snapshot) bool {
	return c.When == nil || c.When(snap)
}
