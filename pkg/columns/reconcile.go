package columns

// DefaultVisibility computes the visibility every live column gets when
// nothing is stored: the column's DefaultVisible when set, otherwise visible
// for the first DefaultVisibleCount positions.
func DefaultVisibility(live []Descriptor) map[string]bool {
	vis := make(map[string]bool, len(live))
	for i, col := range live {
		if _, ok := vis[col.ID]; ok {
			continue
		}
		if col.DefaultVisible != nil {
			vis[col.ID] = *col.DefaultVisible
			continue
		}
		vis[col.ID] = i < DefaultVisibleCount
	}
	return vis
}

// Reconcile produces a working configuration from stored settings (nil when
// none) and the live column list.
//
// The resulting order holds every live id exactly once: surviving stored ids
// keep their stored relative order, new ids follow in live order. Visibility
// is the defaults overlaid with the stored map. Stored entries for columns
// that are gone are kept so a returning column gets its old setting back.
func Reconcile(stored *Settings, live []Descriptor) Config {
	defaults := DefaultVisibility(live)
	if stored == nil {
		return Config{Order: IDs(live), Visibility: defaults}
	}

	liveSet := make(map[string]struct{}, len(live))
	for _, col := range live {
		liveSet[col.ID] = struct{}{}
	}

	order := make([]string, 0, len(live))
	placed := make(map[string]struct{}, len(live))
	for _, id := range stored.Order {
		if _, ok := liveSet[id]; !ok {
			continue
		}
		if _, dup := placed[id]; dup {
			continue
		}
		placed[id] = struct{}{}
		order = append(order, id)
	}
	for _, col := range live {
		if _, ok := placed[col.ID]; ok {
			continue
		}
		placed[col.ID] = struct{}{}
		order = append(order, col.ID)
	}

	vis := defaults
	for id, v := range stored.Visibility {
		vis[id] = v
	}
	return Config{Order: order, Visibility: vis}
}
