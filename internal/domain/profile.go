package domain

type Profile struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
}

// Caller is the identity a request acts as. It is passed explicitly into
// every ledger operation.
type Caller struct {
	ProfileID string
	Email     string
}

func (c Caller) Authenticated() bool {
	return c.ProfileID != ""
}
