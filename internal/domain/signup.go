package domain

import "gin-gorm-signup/internal/validation"

const (
	MsgRegistered  = "User registered successfully"
	MsgEmailExists = "Email already exists"
)

type SignupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// SignupResult 业务结果；Failure 仅供调用方分支，不序列化
type SignupResult struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	User    *UserSummary       `json:"user,omitempty"`
	Failure validation.Failure `json:"-"`
}

func Registered(u *User) SignupResult {
	return SignupResult{Success: true, Message: MsgRegistered, User: u.Summary()}
}

func Rejected(f validation.Failure) SignupResult {
	return SignupResult{Success: false, Message: f.Message(), Failure: f}
}
