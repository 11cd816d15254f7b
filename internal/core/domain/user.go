package domain

// Role is the permission level granted to a user.
type Role string

const (
	// RoleCommander may read, mutate and synchronize inventory.
	RoleCommander Role = "commander"

	// RoleTrader may read and mutate inventory but not synchronize.
	RoleTrader Role = "trader"

	// RoleObserver may only read.
	RoleObserver Role = "observer"
)

// User is an identity known to an outpost's user store.
type User struct {
	// Username is the login name.
	Username string `json:"username"`

	// PasswordHash is the argon2id hash of the password. Never the
	// plaintext, never serialized.
	PasswordHash string `json:"-"`

	// Role is the permission level.
	Role Role `json:"role"`

	// Fort is the outpost the user belongs to.
	Fort string `json:"fort"`
}

// CanMutate reports whether the role may create, update or delete
// inventory records.
func CanMutate(r Role) bool {
	return r == RoleCommander || r == RoleTrader
}

// CanSync reports whether the role may run export/import operations.
func CanSync(r Role) bool {
	return r == RoleCommander
}
