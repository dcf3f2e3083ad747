package store

// UserRecord is a stored credential record. Created once at signup and
// immutable thereafter. The JSON tags define the on-disk format of the file
// backend; records are never marshaled into HTTP responses, so the hash
// stays server-side.
type UserRecord struct {
	// Username is the unique account identifier (2-30 alphanumeric chars).
	Username string `json:"username"`

	// PasswordHash is the salted, one-way password digest. Opaque to the
	// store; never logged and never compared outside the password package.
	PasswordHash string `json:"password"`

	// LuckyNumber is a random attribute in [0,100) assigned at signup.
	LuckyNumber int `json:"luckyNumber"`
}

// Clone returns a copy of the record so callers cannot mutate stored state.
func (r *UserRecord) Clone() *UserRecord {
	c := *r
	return &c
}
