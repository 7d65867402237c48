package domain

import "time"

type User struct {
	UserID        string    `json:"id" dynamodbav:"user_id"`
	Email         string    `json:"email" dynamodbav:"email"`
	Phone         *string   `json:"phone" dynamodbav:"phone"`
	PasswordHash  string    `json:"-" dynamodbav:"password_hash"`
	Role          string    `json:"role" dynamodbav:"role"`
	FirstName     string    `json:"first_name" dynamodbav:"first_name"`
	LastName      string    `json:"last_name" dynamodbav:"last_name"`
	AuthProvider  string    `json:"auth_provider" dynamodbav:"auth_provider"`
	EmailVerified bool      `json:"email_verified" dynamodbav:"email_verified"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated" dynamodbav:"updated_at"`
}

type RegisterRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8,max=72"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Phone     *string `json:"phone" validate:"omitempty,e164"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
