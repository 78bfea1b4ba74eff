package service

// owned is satisfied by resources that carry an owner identity.
type owned interface {
	Owner() int64
}

// requireOwner returns forbidden when the resource is not owned by userID.
// Every mutating operation on an owned resource goes through this check, so
// the ownership policy is uniform across resource types.
func requireOwner[R owned](res R, userID int64, forbidden error) error {
	if res.Owner() != userID {
		return forbidden
	}
	return nil
}
