package columns

// Apply returns the columns a view should render, in configured order,
// visible ones only.
//
// Ids in cfg.Order that are not live are skipped. Live columns missing from
// cfg.Order are appended in live order; their visibility comes from cfg when
// present, then from DefaultVisible, and is otherwise true.
func Apply(live []Descriptor, cfg Config) []Descriptor {
	byID := make(map[string]Descriptor, len(live))
	for _, col := range live {
		if _, ok := byID[col.ID]; !ok {
			byID[col.ID] = col
		}
	}

	out := make([]Descriptor, 0, len(live))
	emitted := make(map[string]struct{}, len(live))
	for _, id := range cfg.Order {
		col, ok := byID[id]
		if !ok {
			continue
		}
		if _, done := emitted[id]; done {
			continue
		}
		emitted[id] = struct{}{}
		if cfg.IsVisible(id) {
			out = append(out, col)
		}
	}

	for _, col := range live {
		if _, done := emitted[col.ID]; done {
			continue
		}
		emitted[col.ID] = struct{}{}
		if appendedVisible(col, cfg) {
			out = append(out, col)
		}
	}
	return out
}

func appendedVisible(col Descriptor, cfg Config) bool {
	if v, ok := cfg.Visibility[col.ID]; ok {
		return v
	}
	if col.DefaultVisible != nil {
		return *col.DefaultVisible
	}
	return true
}

// Ordered returns every live column in configured order regardless of
// visibility, with the same repair rules as Apply. Editors use it to list
// hidden columns alongside visible ones.
func Ordered(live []Descriptor, cfg Config) []Descriptor {
	all := cfg.Clone()
	for id := range all.Visibility {
		all.Visibility[id] = true
	}
	for _, col := range live {
		all.Visibility[col.ID] = true
	}
	return Apply(live, all)
}
