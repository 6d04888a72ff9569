package analytics

import "sort"

// Canonicalize collapses raw order-state rows into one canonical record per
// distinct order id.
//
// Rows are first stable-sorted by timestamp descending, so callers do not
// have to rely on the store's query order. Within each group the first
// non-pending row wins (the newest resolved state); if every observation is
// still pending, the newest pending row stands. Rows without an order id
// cannot be grouped and are dropped.
func Canonicalize(rows []OrderStateRow) []CanonicalOrder {
	if len(rows) == 0 {
		return nil
	}

	sorted := make([]OrderStateRow, len(rows))
	copy(sorted, rows)
	// Stable keeps the store's insertion order for equal timestamps.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	type group struct {
		winner   OrderStateRow
		resolved bool
	}
	index := make(map[string]int, len(sorted))
	groups := make([]group, 0, len(sorted))
	order := make([]string, 0, len(sorted))

	for _, row := range sorted {
		if row.OrderID == "" {
			continue
		}
		at, seen := index[row.OrderID]
		if !seen {
			index[row.OrderID] = len(groups)
			groups = append(groups, group{winner: row, resolved: !isPending(row.State)})
			order = append(order, row.OrderID)
			continue
		}
		if !groups[at].resolved && !isPending(row.State) {
			groups[at] = group{winner: row, resolved: true}
		}
	}

	out := make([]CanonicalOrder, 0, len(order))
	for _, id := range order {
		row := groups[index[id]].winner
		out = append(out, CanonicalOrder{
			OrderStateRow: row,
			Bucket:        ClassifyState(row.State),
		})
	}
	return out
}
