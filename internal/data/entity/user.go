package entity

type UserRole string

const (
	RoleCustomer UserRole = "CUSTOMER"
	RoleAdmin    UserRole = "ADMIN"
)

func (r UserRole) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// User is an identity record. Credentials live with the identity provider.
type User struct {
	Base
	Username string   `db:"username"`
	Email    string   `db:"email"`
	Role     UserRole `db:"role"`
}
