package handler

import (
	"context"
	"crypto/subtle"

	"github.com/cloudwego/hertz/pkg/app"

	"RemindHub/config"
	"RemindHub/pkg/errors"
	"RemindHub/pkg/response"
	"RemindHub/pkg/token"
)

type issueTokenRequest struct {
	Subject string `json:"subject"`
	Secret  string `json:"secret"`
}

// IssueToken 用共享密钥换管理接口的访问令牌
// POST /v1/auth/token
func IssueToken(ctx context.Context, c *app.RequestContext) {
	var req issueTokenRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(config.Cfg.JWTSecret)) != 1 {
		response.Error(ctx, c, errors.Unauthorized)
		return
	}

	subject := req.Subject
	if subject == "" {
		subject = "admin"
	}

	accessToken, expiresIn, err := token.GenerateToken(subject)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"access_token": accessToken,
		"token_type":   "Bearer",
		"expires_in":   expiresIn,
	})
}
