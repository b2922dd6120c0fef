package structure

// refSet collects element refs grouped by model, dropping duplicates and
// keeping first-seen order for both models and keys.
type refSet struct {
	models []string
	keys   map[string][]string
	seen   map[Ref]struct{}
}

func newRefSet() refSet {
	return refSet{
		keys: make(map[string][]string),
		seen: make(map[Ref]struct{}),
	}
}

func (s *refSet) add(ref Ref) {
	if _, ok := s.seen[ref]; ok {
		return
	}
	s.seen[ref] = struct{}{}

	if _, ok := s.keys[ref.ModelURN]; !ok {
		s.models = append(s.models, ref.ModelURN)
	}
	s.keys[ref.ModelURN] = append(s.keys[ref.ModelURN], ref.Key)
}

func (s *refSet) groups() []RefGroup {
	groups := make([]RefGroup, 0, len(s.models))
	for _, model := range s.models {
		groups = append(groups, RefGroup{
			ModelURN: model,
			Keys:     append([]string(nil), s.keys[model]...),
		})
	}
	return groups
}

// elementList is an insertion-ordered element map. Re-adding a key replaces
// the element but keeps its position.
type elementList struct {
	order []string
	byKey map[string]Element
}

func newElementList() elementList {
	return elementList{byKey: make(map[string]Element)}
}

func (l *elementList) put(e Element) {
	if _, ok := l.byKey[e.Key]; !ok {
		l.order = append(l.order, e.Key)
	}
	l.byKey[e.Key] = e
}

func (l *elementList) get(key string) (Element, bool) {
	e, ok := l.byKey[key]
	return e, ok
}

func (l *elementList) all() []Element {
	out := make([]Element, 0, len(l.order))
	for _, key := range l.order {
		out = append(out, l.byKey[key])
	}
	return out
}
