package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"gin-gorm-signup/internal/domain"
	httpez "gin-gorm-signup/internal/transport/http/ez"
)

// Registrar 注册用例（由 service.RegistrationService 实现）
type Registrar interface {
	Register(ctx context.Context, req domain.SignupRequest) (domain.SignupResult, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type SignupHandler struct {
	svc Registrar
}

func NewSignupHandler(svc Registrar) *SignupHandler { return &SignupHandler{svc: svc} }

type emailQ struct {
	Email string `form:"email"`
}

type emailOut struct {
	Exists bool `json:"exists"`
}

// Mount 挂载到 /api/v1 下：
//
//	POST /auth/signup
//	GET  /auth/email-exists?email=
func (h *SignupHandler) Mount(api *gin.RouterGroup) {
	ez := httpez.New(api)

	httpez.RegisterAction(ez, httpez.Action[domain.SignupRequest, domain.SignupResult]{
		Method:  http.MethodPost,
		Path:    "/auth/signup",
		Binder:  httpez.BindJSON,
		Handler: h.signup,
	})
	httpez.RegisterAction(ez, httpez.Action[emailQ, emailOut]{
		Method:  http.MethodGet,
		Path:    "/auth/email-exists",
		Binder:  httpez.BindQuery,
		Handler: h.emailExists,
	})
}

func (h *SignupHandler) signup(c *gin.Context, in *domain.SignupRequest) (domain.SignupResult, error) {
	res, err := h.svc.Register(c.Request.Context(), *in)
	if err != nil {
		return domain.SignupResult{}, httpez.Internal("internal error", err)
	}
	// 输入错误带上字段名；重复邮箱属于业务结果，原样返回
	if res.Failure.IsInput() {
		return domain.SignupResult{}, httpez.Invalid(res.Failure.Field(), res.Message)
	}
	return res, nil
}

func (h *SignupHandler) emailExists(c *gin.Context, in *emailQ) (emailOut, error) {
	ok, err := h.svc.EmailExists(c.Request.Context(), in.Email)
	if err != nil {
		return emailOut{}, httpez.Internal("internal error", err)
	}
	return emailOut{Exists: ok}, nil
}
