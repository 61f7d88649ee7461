package employee

import "time"

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	}
	return false
}

type Employee struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Department   *string
	Position     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the authenticated caller of a request. It is extracted from the
// verified token by the HTTP layer and passed explicitly to every service call.
type Identity struct {
	EmployeeID string
	Role       Role
}

// CanViewOthers reports whether the caller may read other employees' records.
func (i Identity) CanViewOthers() bool {
	return i.Role == RoleManager || i.Role == RoleAdmin
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
