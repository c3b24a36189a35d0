// Package version implements the dotted-version comparator used by the
// compatibility gate.
//
// Versions are dot-separated sequences of components. Components are compared
// numerically when both sides parse as integers at that position, otherwise
// lexicographically. A missing trailing component ranks lower than any present
// one, so "0.30" < "0.30.0". The leading component must be numeric; a version
// containing characters outside [0-9A-Za-z.] is malformed.
package version

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/zjrosen/homestead/internal/cachemanager"
	"github.com/zjrosen/homestead/internal/log"
)

// MalformedError reports a version string that cannot be parsed. It signals a
// data-integrity defect, not a user migration issue, and must never be folded
// into a migration notice.
type MalformedError struct {
	Version string
	Reason  string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed version %q: %s", e.Version, e.Reason)
}

// component is one parsed version segment.
type component struct {
	raw     string
	num     int
	numeric bool
}

// Parsing is pure, so results are cached read-through. The cache is an
// optimization only; comparison is a function of the strings alone, so it has
// no ordering implications. Parse errors are never cached.
var parseCache = cachemanager.NewReadThroughCache[string](
	cachemanager.NewInMemoryCacheManager[string, []component]("version-parse",
		cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval),
	func(ctx context.Context, raw string) ([]component, error) {
		return parseComponents(raw)
	},
	false,
)

// Compare returns -1 if a < b, 0 if equal, 1 if a > b.
// A malformed version on either side yields a *MalformedError.
func Compare(a, b string) (int, error) {
	ctx := context.Background()

	compsA, err := parseCache.Get(ctx, a, a, cachemanager.DefaultExpiration)
	if err != nil {
		return 0, err
	}
	compsB, err := parseCache.Get(ctx, b, b, cachemanager.DefaultExpiration)
	if err != nil {
		return 0, err
	}

	for i := 0; i < len(compsA) || i < len(compsB); i++ {
		// A shorter version with an equal prefix ranks lower
		if i >= len(compsA) {
			return -1, nil
		}
		if i >= len(compsB) {
			return 1, nil
		}

		ca, cb := compsA[i], compsB[i]
		if ca.numeric && cb.numeric {
			if ca.num != cb.num {
				if ca.num < cb.num {
					return -1, nil
				}
				return 1, nil
			}
			continue
		}
		if cmp := strings.Compare(ca.raw, cb.raw); cmp != 0 {
			log.Debug(log.CatVersion, "lexicographic fallback", "a", ca.raw, "b", cb.raw)
			return cmp, nil
		}
	}
	return 0, nil
}

func parseComponents(raw string) ([]component, error) {
	if raw == "" {
		return nil, &MalformedError{Version: raw, Reason: "empty string"}
	}
	for _, r := range raw {
		if r == '.' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		return nil, &MalformedError{Version: raw, Reason: "only alphanumeric and dot characters are allowed"}
	}

	parts := strings.Split(raw, ".")
	comps := make([]component, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		comps[i] = component{raw: p, num: n, numeric: err == nil}
	}
	if !comps[0].numeric {
		return nil, &MalformedError{Version: raw, Reason: "leading component must be numeric"}
	}
	return comps, nil
}
