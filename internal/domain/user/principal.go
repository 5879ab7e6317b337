package user

// Principal identifies the authenticated caller as reported by the
// account service. Authentication itself lives entirely behind the
// introspection client; the core only ever sees this record.
type Principal struct {
	UserID string
	Email  string
}
