package repositories

import "sort"

// Reconciliation summarises the association changes applied to a service.
type Reconciliation struct {
	Removed []int64
	Added   []int64
	Updated []int64
}

// DiffMembership computes the product ids to remove (old minus new) and to
// add (new minus old). Duplicates collapse and both results are sorted.
func DiffMembership(oldIDs, newIDs []int64) (toRemove, toAdd []int64) {
	oldSet := make(map[int64]struct{}, len(oldIDs))
	for _, id := range oldIDs {
		oldSet[id] = struct{}{}
	}
	newSet := make(map[int64]struct{}, len(newIDs))
	for _, id := range newIDs {
		newSet[id] = struct{}{}
	}

	toRemove = []int64{}
	for id := range oldSet {
		if _, ok := newSet[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	toAdd = []int64{}
	for id := range newSet {
		if _, ok := oldSet[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	sort.Slice(toRemove, func(i, j int) bool { return toRemove[i] < toRemove[j] })
	sort.Slice(toAdd, func(i, j int) bool { return toAdd[i] < toAdd[j] })
	return toRemove, toAdd
}
