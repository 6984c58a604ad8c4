package model

import "time"

// User represents an account that can log in and is credited with audit entries
type User struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, hidden from JSON

	Logs []LogEntry `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID      uint       `json:"id"`
	Name    string     `json:"name"`
	Email   string     `json:"email"`
	Created time.Time  `json:"created"`
	Updated *time.Time `json:"updated"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Created: u.CreatedAt,
		Updated: u.UpdatedAt,
	}
}

// UsersToResponse converts a slice of users
func UsersToResponse(users []User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = users[i].ToResponse()
	}
	return responses
}
