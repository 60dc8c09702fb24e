package params

// Group is the set of base parameters sharing a scope.
type Group struct {
	scope   Scope
	views   []View
	members map[viewID]struct{}
}

// Groups partitions the registry by scope.
type Groups struct {
	Cruise  Group
	Profile Group
	Sample  Group
}

func buildGroups(views []View) Groups {
	g := Groups{
		Cruise:  newGroup(ScopeCruise),
		Profile: newGroup(ScopeProfile),
		Sample:  newGroup(ScopeSample),
	}
	for _, v := range views {
		switch v.Scope() {
		case ScopeCruise:
			g.Cruise.add(v)
		case ScopeProfile:
			g.Profile.add(v)
		case ScopeSample:
			g.Sample.add(v)
		}
	}
	return g
}

func newGroup(scope Scope) Group {
	return Group{scope: scope, members: make(map[viewID]struct{})}
}

func (g *Group) add(v View) {
	if _, ok := g.members[v.id()]; ok {
		return
	}
	g.members[v.id()] = struct{}{}
	g.views = append(g.views, v)
}

// Scope is the scope shared by every member.
func (g Group) Scope() Scope { return g.scope }

// Has reports whether a view equal to v is a member.
func (g Group) Has(v View) bool {
	_, ok := g.members[v.id()]
	return ok
}

// Views returns the members in canonical order.
func (g Group) Views() []View {
	out := make([]View, len(g.views))
	copy(out, g.views)
	return out
}

// Len is the number of members.
func (g Group) Len() int { return len(g.views) }

// ForScope returns the group for s.
func (g Groups) ForScope(s Scope) (Group, bool) {
	switch s {
	case ScopeCruise:
		return g.Cruise, true
	case ScopeProfile:
		return g.Profile, true
	case ScopeSample:
		return g.Sample, true
	}
	return Group{}, false
}
