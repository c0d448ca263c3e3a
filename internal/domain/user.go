package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleTenantAdmin Role = "tenant_admin"
	RoleAdmin       Role = "admin"
	RoleTeacher     Role = "teacher"
	RoleStudent     Role = "student"
)

// User represents a registered account. PasswordHash never leaves the server:
// it is excluded from JSON and stripped again at the service boundary.
type User struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantSlug         string             `bson:"tenant_slug,omitempty" json:"tenant_slug,omitempty"`
	Username           string             `bson:"username" json:"username"`
	Email              string             `bson:"email" json:"email"`
	Phone              string             `bson:"phone,omitempty" json:"phone,omitempty"`
	FullName           string             `bson:"fullName" json:"fullName"`
	PasswordHash       string             `bson:"password" json:"-"`
	Role               Role               `bson:"role" json:"role"`
	IsDefaultAdmin     bool               `bson:"is_default_admin" json:"is_default_admin"`
	MustChangePassword bool               `bson:"must_change_password" json:"must_change_password"`
	IsActive           bool               `bson:"is_active" json:"is_active"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
	LastLogin          *time.Time         `bson:"last_login,omitempty" json:"last_login,omitempty"`
}
