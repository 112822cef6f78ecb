package handlers

import (
	"crypto/rand"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pawsquare/pawsquare/internal/auth"
	"github.com/pawsquare/pawsquare/internal/email"
	"github.com/pawsquare/pawsquare/internal/models"
)

type sendCodeReq struct {
	Email string `json:"email" binding:"required"`
}

func randomDigits(n int) (string, error) {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		out[i] = byte('0' + d.Int64())
	}
	return string(out), nil
}

func (h *Handler) SendVerifyCode(c *gin.Context) {
	var req sendCodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	code, err := randomDigits(6)
	if err != nil {
		fail(c, http.StatusInternalServerError, 20001, "failed to generate code")
		return
	}
	if err := h.Redis.SetVerifyCode(c.Request.Context(), req.Email, code); err != nil {
		fail(c, http.StatusInternalServerError, 20001, "redis error")
		return
	}

	go func(to, code string) {
		subject := "Your PawSquare verification code"
		body := "Hello,\n\nYour verification code is: " + code + "\n\nIt expires in 10 minutes.\n\nPawSquare\n"
		_ = email.SendText(h.SMTPSetting, to, subject, body)
	}(req.Email, code)

	ok(c, gin.H{"sent": true})
}

type createUserReq struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if req.Email == "" || req.Password == "" || req.Code == "" || req.Username == "" {
		fail(c, http.StatusBadRequest, 10002, "email, code, username and password required")
		return
	}

	code, err := h.Redis.GetVerifyCode(c.Request.Context(), req.Email)
	if err != nil {
		if err == redis.Nil {
			fail(c, http.StatusBadRequest, 10020, "verification code expired or not found")
			return
		}
		fail(c, http.StatusInternalServerError, 20001, "redis error")
		return
	}
	if code != req.Code {
		fail(c, http.StatusBadRequest, 10021, "invalid verification code")
		return
	}
	_ = h.Redis.DeleteVerifyCode(c.Request.Context(), req.Email)

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		fail(c, http.StatusInternalServerError, 20002, "failed to hash password")
		return
	}

	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		fail(c, http.StatusBadRequest, 10003, "failed to create user (email or username already taken)")
		return
	}

	token, err := auth.SignJWT(user.ID, h.Cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		fail(c, http.StatusInternalServerError, 20003, "failed to sign token")
		return
	}

	go func(to, uname string) {
		subject := "Welcome to PawSquare"
		body := "Hello " + uname + ",\n\n" +
			"Welcome to PawSquare, the community for pet owners.\n\n" +
			"If you did not create this account, please contact support.\n\n" +
			"PawSquare\n"
		_ = email.SendText(h.SMTPSetting, to, subject, body)
	}(user.Email, user.Username)

	ok(c, gin.H{
		"id":       user.ID,
		"email":    user.Email,
		"username": user.Username,
		"token":    token,
	})
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		fail(c, http.StatusUnauthorized, 40103, "invalid email or password")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		fail(c, http.StatusUnauthorized, 40103, "invalid email or password")
		return
	}

	token, err := auth.SignJWT(user.ID, h.Cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		fail(c, http.StatusInternalServerError, 20003, "failed to sign token")
		return
	}
	ok(c, gin.H{"id": user.ID, "token": token})
}

func (h *Handler) Me(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	var user models.User
	if err := h.DB.First(&user, uid).Error; err != nil {
		notFound(c, "user not found")
		return
	}
	followers, following, _ := h.SocialSvc.Counts(c.Request.Context(), uid)
	ok(c, gin.H{
		"user":      user,
		"email":     user.Email,
		"followers": followers,
		"following": following,
	})
}

func (h *Handler) GetUserByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, 10004, "invalid user id")
		return
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			notFound(c, "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}

	followers, following, _ := h.SocialSvc.Counts(c.Request.Context(), id)
	ok(c, gin.H{
		"user":      user,
		"followers": followers,
		"following": following,
	})
}

type updateProfileReq struct {
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
	Bio         *string `json:"bio"`
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	fields := map[string]any{}
	if req.DisplayName != nil {
		fields["display_name"] = *req.DisplayName
	}
	if req.AvatarURL != nil {
		fields["avatar_url"] = *req.AvatarURL
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if len(fields) == 0 {
		fail(c, http.StatusBadRequest, 10005, "nothing to update")
		return
	}
	if err := h.DB.Model(&models.User{}).Where("id = ?", uid).Updates(fields).Error; err != nil {
		fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	ok(c, gin.H{"updated": true})
}
