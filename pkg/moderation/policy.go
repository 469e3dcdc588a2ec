package moderation

// Policy decides who may moderate whom
type Policy struct {
	operators map[string]struct{}
}

// NewPolicy creates a policy with the given bot operator ids. Operators bypass
// every rank check.
func NewPolicy(operatorIDs []string) *Policy {
	p := &Policy{operators: make(map[string]struct{}, len(operatorIDs))}
	for _, id := range operatorIDs {
		p.operators[id] = struct{}{}
	}
	return p
}

// IsOperator reports whether userID is a bot operator
func (p *Policy) IsOperator(userID string) bool {
	if p == nil {
		return false
	}
	_, ok := p.operators[userID]
	return ok
}

// CanModerate reports whether the actor may act on the target.
// The actor's rank must strictly exceed the target's.
func (p *Policy) CanModerate(actorID string, actorRank, targetRank int) bool {
	return p.IsOperator(actorID) || actorRank > targetRank
}

// MeetsMinimum reports whether the actor holds at least the minimum moderator rank
func (p *Policy) MeetsMinimum(actorID string, actorRank, minRank int) bool {
	return p.IsOperator(actorID) || actorRank >= minRank
}
