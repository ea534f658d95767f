package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Failure 注册失败原因（封闭集合），调用方按类型分支，不解析文案
type Failure uint8

const (
	None Failure = iota
	InvalidEmail
	PasswordTooShort
	PasswordMismatch
	DuplicateEmail
)

// MinPasswordLen 按字符（rune）计数
const MinPasswordLen = 6

var passwordRule = fmt.Sprintf("min=%d", MinPasswordLen)

var messages = map[Failure]string{
	InvalidEmail:     "Please enter a valid email address",
	PasswordTooShort: fmt.Sprintf("Password must be at least %d characters long", MinPasswordLen),
	PasswordMismatch: "Passwords don't match",
	DuplicateEmail:   "Email already exists",
}

var fields = map[Failure]string{
	InvalidEmail:     "email",
	PasswordTooShort: "password",
	PasswordMismatch: "confirmPassword",
	DuplicateEmail:   "email",
}

var names = map[Failure]string{
	None:             "none",
	InvalidEmail:     "invalid_email",
	PasswordTooShort: "password_too_short",
	PasswordMismatch: "password_mismatch",
	DuplicateEmail:   "duplicate_email",
}

func (f Failure) Message() string { return messages[f] }

// Field 出错的请求字段名（与 JSON key 一致）
func (f Failure) Field() string { return fields[f] }

func (f Failure) String() string {
	if n, ok := names[f]; ok {
		return n
	}
	return "unknown"
}

// IsInput 是否为客户端输入错误（非业务冲突）
func (f Failure) IsInput() bool {
	return f == InvalidEmail || f == PasswordTooShort || f == PasswordMismatch
}

// validator 实例并发安全，包级复用
var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	if err := val.RegisterValidation("dotted_domain", dottedDomain); err != nil {
		panic(fmt.Sprintf("validation: register dotted_domain: %v", err))
	}
	return val
}

// domain 部分至少包含一个点，且不以点开头/结尾
func dottedDomain(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	at := strings.LastIndexByte(s, '@')
	if at < 0 {
		return false
	}
	d := s[at+1:]
	return strings.Contains(d, ".") && !strings.HasPrefix(d, ".") && !strings.HasSuffix(d, ".")
}

// Validate 按优先级校验，首个失败即返回；无副作用
func Validate(email, password, confirmPassword string) Failure {
	if err := v.Var(email, "required,email,dotted_domain"); err != nil {
		return InvalidEmail
	}
	if err := v.Var(password, passwordRule); err != nil {
		return PasswordTooShort
	}
	if err := v.VarWithValue(confirmPassword, password, "eqcsfield"); err != nil {
		return PasswordMismatch
	}
	return None
}
