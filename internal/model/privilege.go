package model

// Privilege represents a permission that can be assigned to users.
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name string `gorm:"type:varchar(100)" json:"name"`
}

// Default privileges for the system.
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	// Catalog
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "product:delete", Name: "Delete Product"},
	{Code: "category:manage", Name: "Manage Categories"},
	// Sales
	{Code: "sale:view", Name: "View Sale"},
	{Code: "sale:create", Name: "Create Sale"},
	// Stock ledger
	{Code: "stock:view", Name: "View Stock Transaction"},
	{Code: "stock:create", Name: "Create Stock Transaction"},
	// Dashboard
	{Code: "dashboard:view", Name: "View Dashboard"},
}
