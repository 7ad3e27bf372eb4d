package core

// The store keeps denormalized references (school_id on every table, chains
// like class -> subject -> group -> coordinator) and enforces none of them.
// Every mutation therefore re-derives its consistency graph as an ordered
// relation chain: lookup steps fetch referenced entities, predicate steps
// compare already-fetched values. The first failing step terminates the
// chain; business-rule errors are never aggregated (unlike shape errors).

// RelationCheck is a single step in a relation chain.
type RelationCheck func() error

// RunRelationChain runs checks in order, stopping at the first failure.
func RunRelationChain(checks ...RelationCheck) error {
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// CheckSameSchool asserts that a referenced entity belongs to the school of
// the mutating request.
func CheckSameSchool(got, want, resource string) RelationCheck {
	return func() error {
		if got != want {
			return NewBadRequestError(resource + " belongs to a different school")
		}
		return nil
	}
}

// CheckEqual asserts that two independently-referenced values agree.
func CheckEqual(a, b, msg string) RelationCheck {
	return func() error {
		if a != b {
			return NewBadRequestError(msg)
		}
		return nil
	}
}
