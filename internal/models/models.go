package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Priority represents the priority level of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid reports whether p is one of the known priority levels.
func (p Priority) IsValid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// UserRole represents the role of a user
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User represents a registered user
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string         `gorm:"not null;size:255" json:"-"` // Never expose password hash
	FirstName    string         `gorm:"size:100" json:"firstName,omitempty"`
	LastName     string         `gorm:"size:100" json:"lastName,omitempty"`
	Role         UserRole       `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsActive     bool           `gorm:"default:true;index" json:"isActive"`
	LastLoginAt  *time.Time     `gorm:"type:timestamp" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Lists        []List         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate hook to generate UUID if not set
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// RefreshToken represents a refresh token for JWT authentication
type RefreshToken struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"userId"`
	Token     string         `gorm:"uniqueIndex;not null;size:255" json:"-"` // Hashed token
	ExpiresAt time.Time      `gorm:"not null;index" json:"expiresAt"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	RevokedAt *time.Time     `gorm:"type:timestamp;index" json:"revokedAt,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	User      User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate hook to generate UUID if not set
func (rt *RefreshToken) BeforeCreate(_ *gorm.DB) error {
	if rt.ID == uuid.Nil {
		rt.ID = uuid.New()
	}
	return nil
}

// IsValid checks if the refresh token is still valid
func (rt *RefreshToken) IsValid() bool {
	return rt.RevokedAt == nil && time.Now().Before(rt.ExpiresAt)
}

// List represents a named collection of tasks owned by a user
type List struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"userId"`
	Name        string         `gorm:"not null;size:100;index:idx_user_list_name,unique" json:"name" binding:"required,min=1,max=100"`
	Description string         `gorm:"size:500" json:"description,omitempty" binding:"max=500"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	User        User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Tasks       []Task         `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE" json:"-"`
	TaskCount   int            `gorm:"-" json:"taskCount"`
}

// BeforeCreate hook to generate UUID if not set
func (l *List) BeforeCreate(_ *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// CreateListRequest represents the request to create a new list
type CreateListRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description,omitempty" binding:"max=500"`
}

// UpdateListRequest represents the request to update a list
type UpdateListRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
}

// Task represents a to-do item within a list
type Task struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ListID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"listId"`
	Name        string         `gorm:"not null;size:200" json:"name"`
	Description string         `gorm:"size:500" json:"description,omitempty"`
	Priority    Priority       `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	Position    int            `gorm:"not null;default:0" json:"position"`
	Completed   bool           `gorm:"default:false;index" json:"completed"`
	CompletedAt *time.Time     `gorm:"type:timestamp" json:"completedAt,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook to generate UUID if not set
func (t *Task) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// CreateTaskRequest represents the request to create a new task.
// Priority is optional and defaults to medium.
type CreateTaskRequest struct {
	Name        string    `json:"name" binding:"required,min=1,max=200"`
	Description string    `json:"description,omitempty" binding:"max=500"`
	Priority    *Priority `json:"priority,omitempty" binding:"omitempty,oneof=low medium high"`
}

// TaskFilter describes the filtering and paging applied to task queries.
// Nil pointer fields mean "no filter".
type TaskFilter struct {
	Done     *bool
	Priority *Priority
	ListID   *uuid.UUID
	Limit    int
	Offset   int
}

// Response is the envelope returned by task and list endpoints:
// {success, message, items?, item?, total?}
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Items   any    `json:"items,omitempty"`
	Item    any    `json:"item,omitempty"`
	Total   *int64 `json:"total,omitempty"`
}

// OK builds a success envelope with just a message.
func OK(message string) Response {
	return Response{Success: true, Message: message}
}

// Fail builds an error envelope.
func Fail(message string) Response {
	return Response{Success: false, Message: message}
}

// Authentication DTOs

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required,min=8,max=72"` // bcrypt max is 72 bytes
	FirstName string `json:"firstName,omitempty" binding:"max=100"`
	LastName  string `json:"lastName,omitempty" binding:"max=100"`
}

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents a refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	TokenType    string    `json:"tokenType"` // Always "Bearer"
	ExpiresIn    int       `json:"expiresIn"` // Access token expiry in seconds
	User         *UserInfo `json:"user"`
}

// UserInfo represents public user information (safe to expose)
type UserInfo struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	Role      UserRole  `json:"role"`
}
