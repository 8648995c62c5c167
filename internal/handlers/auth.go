package handlers

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"restaurantadmin/internal/apperr"
	"restaurantadmin/internal/middleware"
	"restaurantadmin/internal/service"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type activateRequest struct {
	ActivationToken string `json:"activation_token"`
	ActivationCode  string `json:"activation_code"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type socialAuthRequest struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type updateInfoRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type updatePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type avatarRequest struct {
	Avatar string `json:"avatar"`
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":         true,
		"message":         fmt.Sprintf("Please check your email: %s to activate your account.", result.Email),
		"activationToken": result.ActivationToken,
	})
}

func (h HandlerSet) ActivateUser(c *gin.Context) {
	var req activateRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	if _, err := h.auth.Activate(c.Request.Context(), service.ActivateInput{
		ActivationToken: req.ActivationToken,
		ActivationCode:  req.ActivationCode,
	}); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true})
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respondSignedIn(c, result)
}

func (h HandlerSet) SocialAuth(c *gin.Context) {
	var req socialAuthRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.auth.SocialAuth(c.Request.Context(), service.SocialAuthInput{
		Email:  req.Email,
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respondSignedIn(c, result)
}

func (h HandlerSet) respondSignedIn(c *gin.Context, result service.AuthResult) {
	h.setSessionCookies(c, result.Access, result.Refresh)
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"user":        result.User,
		"accessToken": result.Access.Token,
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), middleware.UserID(c)); err != nil {
		h.fail(c, err)
		return
	}
	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

func (h HandlerSet) Refresh(c *gin.Context) {
	token, _ := c.Cookie(middleware.RefreshCookie)

	result, err := h.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.setSessionCookies(c, result.Access, result.Refresh)
	c.JSON(http.StatusOK, gin.H{"success": true, "accessToken": result.Access.Token})
}

func (h HandlerSet) Me(c *gin.Context) {
	user, err := h.auth.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h HandlerSet) UpdateUserInfo(c *gin.Context) {
	var req updateInfoRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	user, err := h.auth.UpdateInfo(c.Request.Context(), middleware.UserID(c), service.UpdateInfoInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}

func (h HandlerSet) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	user, err := h.auth.UpdatePassword(c.Request.Context(), middleware.UserID(c), service.UpdatePasswordInput{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}

func (h HandlerSet) UpdateAvatar(c *gin.Context) {
	upload, err := avatarUpload(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	user, err := h.auth.UpdateAvatar(c.Request.Context(), middleware.UserID(c), upload)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h HandlerSet) ListUsers(c *gin.Context) {
	users, err := h.auth.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

// avatarUpload accepts either a multipart "avatar" file or a JSON body whose
// avatar field is a base64 data URL.
func avatarUpload(c *gin.Context) (service.AvatarUpload, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fileHeader, err := c.FormFile("avatar")
		if err != nil {
			return service.AvatarUpload{}, service.ErrAvatarRequired
		}
		file, err := fileHeader.Open()
		if err != nil {
			return service.AvatarUpload{}, fmt.Errorf("open avatar: %w", err)
		}
		data, err := readAll(file)
		if err != nil {
			return service.AvatarUpload{}, err
		}
		return service.AvatarUpload{
			Body:        bytes.NewReader(data),
			ContentType: fileHeader.Header.Get("Content-Type"),
		}, nil
	}

	var req avatarRequest
	if err := bind(c, &req); err != nil {
		return service.AvatarUpload{}, err
	}
	if req.Avatar == "" {
		return service.AvatarUpload{}, service.ErrAvatarRequired
	}
	return decodeDataURL(req.Avatar)
}

func decodeDataURL(raw string) (service.AvatarUpload, error) {
	contentType := ""
	payload := raw
	if strings.HasPrefix(raw, "data:") {
		header, body, ok := strings.Cut(raw, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return service.AvatarUpload{}, service.ErrUnsupportedAvatar
		}
		contentType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		payload = body
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return service.AvatarUpload{}, apperr.Wrap(http.StatusBadRequest, "Avatar is not valid base64", err)
	}
	return service.AvatarUpload{Body: bytes.NewReader(data), ContentType: contentType}, nil
}
