package httpgin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/fringe/internal/backend"
	"github.com/kirinyoku/fringe/internal/service"
)

// setAccessToken stores the access token in an HttpOnly cookie; maxAge < 0
// clears it.
func setAccessToken(c *gin.Context, token string, maxAge int, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// @Summary  Log in
// @Param    req  body  LoginRequest  true  "credentials"
// @Success  200  {object}  LoginResponse
// @Failure  401  {object}  ErrorResponse
// @Router   /auth/login [post]
func handleLogin(svcs *service.Services, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		pair, err := svcs.Auth.Login(c.Request.Context(), backend.Credentials{
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			respondErr(c, err)
			return
		}

		setAccessToken(c, pair.AccessToken, 0, secure)
		c.JSON(http.StatusOK, LoginResponse{RefreshToken: pair.RefreshToken})
	}
}

// @Summary  Exchange a refresh token for a new access token
// @Param    req  body  RefreshRequest  true  "refresh token"
// @Success  200  {object}  LoginResponse
// @Failure  401  {object}  ErrorResponse
// @Router   /auth/refresh-token [post]
func handleRefreshToken(svcs *service.Services, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		access, _ := c.Cookie(accessTokenCookie)
		pair, err := svcs.Auth.RefreshToken(c.Request.Context(), backend.TokenPair{
			AccessToken:  access,
			RefreshToken: req.RefreshToken,
		})
		if err != nil {
			respondErr(c, err)
			return
		}

		setAccessToken(c, pair.AccessToken, 0, secure)
		c.JSON(http.StatusOK, LoginResponse{RefreshToken: pair.RefreshToken})
	}
}

// @Summary  Log out
// @Success  204
// @Router   /auth/logout [post]
func handleLogout(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		setAccessToken(c, "", -1, secure)
		c.Status(http.StatusNoContent)
	}
}

// handleAuthForward passes a JSON body to a backend account endpoint
// (register, forgot-password, reset-password) and answers 204.
func handleAuthForward(fn func(ctx context.Context, body json.RawMessage) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
		if err != nil {
			badRequest(c, "invalid body")
			return
		}
		if !json.Valid(body) {
			badRequest(c, "invalid JSON")
			return
		}

		if err := fn(c.Request.Context(), json.RawMessage(body)); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
