package reconcile

import "sort"

// emissionWeight ranks an action for stable ordering within one side's
// batch: creates and updates (and the non-destructive StartDownload) before
// removes, per spec.md §5's ordering guarantee ("actions that remove items
// are emitted after those that create/update them").
func emissionWeight(t ActionType) int {
	switch t {
	case ActionCreateLocal, ActionUpdateLocal, ActionStartDownload,
		ActionCreateCloud, ActionUpdateCloud:
		return 0
	case ActionRemoveLocal, ActionRemoveCloud:
		return 1
	default:
		return 0
	}
}

// orderBatch stably reorders actions produced within a single incremental
// reconciliation pass so removes trail creates/updates. Stable sort
// preserves the purity property (spec.md §8 property 1): given the same
// input actions, the same output order results every time.
func orderBatch(actions []Action) []Action {
	sort.SliceStable(actions, func(i, j int) bool {
		return emissionWeight(actions[i].Type) < emissionWeight(actions[j].Type)
	})

	return actions
}
