package entity

type UserRole string

const (
	RoleCustomer UserRole = "user"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	BaseNoDelete
	FullName      string   `db:"full_name"`
	Email         string   `db:"email"`
	PasswordHash  string   `db:"password"`
	Phone         string   `db:"phone"`
	Address       string   `db:"address"`
	Role          UserRole `db:"role"`
	EmailVerified bool     `db:"email_verified"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
