package model

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents an authenticated user in the system.
type User struct {
	BaseModel
	Email       string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password    string      `gorm:"type:varchar(255);not null" json:"-"`
	FullName    string      `gorm:"type:varchar(255)" json:"full_name" validate:"required"`
	RoleID      *uint       `gorm:"index" json:"role_id"`
	Role        *Role       `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	IsActive    bool        `gorm:"default:true" json:"is_active"`
	Privileges  []Privilege `gorm:"many2many:user_privileges;" json:"privileges,omitempty"`
	// TokenVersion rotates on login, invalidating older sessions.
	TokenVersion string `gorm:"type:varchar(255);default:''" json:"-"`
}

// SetPassword hashes and sets the user's password.
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies the provided password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// GetPrivilegeCodes returns all privilege codes held by this user.
func (u *User) GetPrivilegeCodes() []string {
	codes := make([]string, len(u.Privileges))
	for i, p := range u.Privileges {
		codes[i] = p.Code
	}
	return codes
}

// UserResponse is used for API responses (without sensitive data).
type UserResponse struct {
	ID         uuid.UUID   `json:"id"`
	Email      string      `json:"email"`
	FullName   string      `json:"full_name"`
	RoleID     *uint       `json:"role_id,omitempty"`
	Role       *Role       `json:"role,omitempty"`
	IsActive   bool        `json:"is_active"`
	Privileges []Privilege `json:"privileges"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		RoleID:     u.RoleID,
		Role:       u.Role,
		IsActive:   u.IsActive,
		Privileges: u.Privileges,
	}
}
