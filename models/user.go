package models

import "time"

// Back-office roles. The notification feeds and the payout endpoints are
// scoped by these names.
const (
	RoleLegal   = "legal"
	RoleFinance = "finance"
	RoleAdmin   = "admin"
)

type User struct {
	UserID       uint       `gorm:"primaryKey;column:user_id" json:"user_id"`
	Email        string     `gorm:"column:email;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"column:password_hash" json:"-"`
	Name         string     `gorm:"column:name" json:"name"`
	Role         string     `gorm:"column:role" json:"role"` // legal|finance|admin
	CreateAt     time.Time  `gorm:"column:create_at" json:"created_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"-"`
}

func (User) TableName() string { return "users" }

// ValidRole reports whether role is one of the three back-office roles.
func ValidRole(role string) bool {
	switch role {
	case RoleLegal, RoleFinance, RoleAdmin:
		return true
	}
	return false
}
