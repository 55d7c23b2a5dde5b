package domain

// User is the signed-in viewer as resolved by the session provider.
type User struct {
	ID    string
	Name  string
	Email string
}
