package skemafile

import (
	"context"
	"fmt"
	"sort"
)

// buildChain sorts migrations by source version and verifies they form the
// contiguous sequence 1..currentVersion-1. It reports the first violation;
// construction must fail rather than return a store that misbehaves at load
// time.
func buildChain(migrations []Migration, currentVersion int) ([]Migration, error) {
	chain := make([]Migration, len(migrations))
	copy(chain, migrations)
	sort.SliceStable(chain, func(i, j int) bool {
		return chain[i].FromVersion < chain[j].FromVersion
	})

	for i, m := range chain {
		if m.FromVersion != i+1 {
			return nil, fmt.Errorf("skemafile: migrations must form a contiguous chain starting at version 1; gap or duplicate at expected version %d (got %d)", i+1, m.FromVersion)
		}
		if m.Schema == nil {
			return nil, fmt.Errorf("skemafile: migration from version %d has no schema", m.FromVersion)
		}
		if m.Migrate == nil {
			return nil, fmt.Errorf("skemafile: migration from version %d has no migrate function", m.FromVersion)
		}
	}

	if len(chain) > 0 {
		if currentVersion == 0 {
			return nil, fmt.Errorf("skemafile: Config.Version is required when migrations are supplied")
		}
		if last := chain[len(chain)-1].FromVersion; last != currentVersion-1 {
			return nil, fmt.Errorf("skemafile: migration chain must terminate at version %d (currentVersion-1), ends at %d", currentVersion-1, last)
		}
	}
	return chain, nil
}

// runMigrations walks data from version `from` up to the store's current
// version, validating each intermediate document against the source schema of
// the step that consumes it. Chain construction guarantees one step per
// version below the current one, so lookup is positional.
func (s *Store[T]) runMigrations(ctx context.Context, data any, from int) (any, error) {
	cur := data
	for ver := from; ver < s.version; ver++ {
		idx := ver - 1
		if idx < 0 || idx >= len(s.chain) || s.chain[idx].FromVersion != ver {
			return nil, newErrorf(KindMigration, "no migration registered for version %d", ver)
		}
		step := s.chain[idx]
		validated, err := step.Schema.Decode(ctx, cur)
		if err != nil {
			return nil, wrapErrorf(KindMigration, err, "migration %d->%d: source document failed validation: %v", ver, ver+1, err)
		}
		next, err := step.Migrate(ctx, validated)
		if err != nil {
			return nil, wrapErrorf(KindMigration, err, "migration %d->%d failed: %v", ver, ver+1, err)
		}
		cur = next
	}
	return cur, nil
}
