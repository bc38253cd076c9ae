package model

// Role represents user roles in the system.
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RoleAdmin   = "ADMIN"
	RoleCashier = "CASHIER"
)

var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Full access to catalog, stock, sales and user management",
	},
	{
		Code:        RoleCashier,
		Name:        "Cashier",
		Description: "Point-of-sale access: create sales, view products and dashboard",
	},
}
