package entity

type UserRole string

const (
	RoleClient UserRole = "CLIENT"
	RoleOwner  UserRole = "OWNER"
)

type User struct {
	Base
	FullName      string   `db:"full_name"`
	Username      string   `db:"username"`
	Email         string   `db:"email"`
	PasswordHash  string   `db:"password"`
	Phone         *string  `db:"phone"`
	Role          UserRole `db:"role"`
	EmailVerified bool     `db:"email_verified"`
	IsActive      bool     `db:"is_active"`
}

func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}
