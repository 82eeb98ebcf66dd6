package models

// UserRole is the closed set of actor roles the access policy recognizes.
// Staff and Manager share visibility rules; they are distinguished so the
// split survives future permission changes.
type UserRole string

const (
	RoleGuest   UserRole = "guest"
	RoleStaff   UserRole = "staff"
	RoleManager UserRole = "manager"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleGuest, RoleStaff, RoleManager:
		return true
	}
	return false
}

type User struct {
	BaseUUIDModel
	FirstName string   `gorm:"type:text"                        json:"firstName"`
	LastName  string   `gorm:"type:text"                        json:"lastName"`
	Email     *string  `gorm:"type:text;uniqueIndex"            json:"email,omitempty"`
	Phone     *string  `gorm:"type:text"                        json:"phone,omitempty"`
	Role      UserRole `gorm:"type:text;default:guest;index"    json:"role"`
	IsActive  bool     `gorm:"type:bool;default:true"           json:"isActive"`
}

// IsStaff reports whether the user carries hotel-operations rights.
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff || u.Role == RoleManager
}

func (u *User) IsGuest() bool {
	return u.Role == RoleGuest
}
