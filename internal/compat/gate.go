package compat

import (
	"fmt"
	"strings"

	"github.com/zjrosen/homestead/internal/config"
	"github.com/zjrosen/homestead/internal/log"
	"github.com/zjrosen/homestead/internal/version"
)

// Result is the outcome of a gate check.
type Result struct {
	// OK reports whether evaluation may proceed.
	OK bool

	// Incompatible holds the blocking changes in registry order.
	// Empty when OK.
	Incompatible []Change

	// Message is the aggregated migration notice. Empty when OK.
	Message string
}

// Check decides whether a manifest pinned to declared may be evaluated
// against the given registry. declared == "" means the manifest never pinned
// a version; that always passes (a fresh deployment has nothing to migrate).
//
// The check is pure and stateless: it reads only its three inputs, performs
// no I/O, and is safe to call concurrently. A returned error means the
// registry or the declared version is itself defective (malformed version,
// empty registry); it is distinct from a blocked Result and must never be
// presented as a migration notice.
func Check(declared string, reg *Registry, snap config.Snapshot) (Result, error) {
	if declared == "" {
		log.Debug(log.CatCompat, "no compat_version pinned, skipping gate")
		return Result{OK: true}, nil
	}

	newest, err := reg.LatestVersion()
	if err != nil {
		return Result{}, err
	}

	cmp, err := version.Compare(declared, newest)
	if err != nil {
		return Result{}, fmt.Errorf("declared compat_version: %w", err)
	}
	if cmp >= 0 {
		log.Debug(log.CatCompat, "manifest at or ahead of newest change", "declared", declared, "newest", newest)
		return Result{OK: true}, nil
	}

	var incompatible []Change
	for _, c := range reg.All() {
		cmp, err := version.Compare(c.Version, declared)
		if err != nil {
			// Unreachable for a validated registry, but never swallowed
			return Result{}, fmt.Errorf("registered change: %w", err)
		}
		if cmp <= 0 {
			continue
		}
		applies := c.Applies(snap)
		log.Debug(log.CatCompat, "condition evaluated", "change", c.Version, "applies", applies)
		if !applies {
			continue
		}
		incompatible = append(incompatible, c)
	}

	if len(incompatible) == 0 {
		log.Debug(log.CatCompat, "no applicable changes beyond pin", "declared", declared)
		return Result{OK: true}, nil
	}

	log.Info(log.CatCompat, "evaluation blocked", "declared", declared, "newest", newest, "changes", len(incompatible))
	return Result{
		OK:           false,
		Incompatible: incompatible,
		Message:      aggregateMessage(declared, newest, incompatible),
	}, nil
}

// aggregateMessage renders the migration notice: a preamble naming the pin,
// one bullet per blocking change in registry order, and an epilogue telling
// the user how to re-pin once the steps are done.
func aggregateMessage(declared, newest string, changes []Change) string {
	var b strings.Builder

	fmt.Fprintf(&b, "This manifest is pinned to homestead %s. Changes since then require manual migration steps:\n\n", declared)

	for _, c := range changes {
		b.WriteString(bullet(c))
	}

	fmt.Fprintf(&b, "\nAfter working through the items above, set compat_version to %q (or run 'homestead pin %s') to resume evaluation.", newest, newest)

	return b.String()
}

// bullet renders one change as a list item, indenting continuation lines so
// multi-line instructions stay visually attached to their marker.
func bullet(c Change) string {
	lines := strings.Split(strings.TrimSpace(c.Message), "\n")
	var b strings.Builder
	for i, line := range lines {
		if i == 0 {
			b.WriteString("  - ")
		} else {
			b.WriteString("    ")
		}
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("    [introduced in %s]\n", c.Version))
	return b.String()
}
