package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tkarls/memberbase/internal/application"
	"github.com/tkarls/memberbase/internal/domain/entity"
	"github.com/tkarls/memberbase/internal/domain/repository"
	"github.com/tkarls/memberbase/pkg/response"
	"github.com/tkarls/memberbase/pkg/validation"
)

type AccountHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewAccountHandler(svc *application.Service, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	Phone           *string `json:"phone"`
	MembershipLevel *string `json:"membershipLevel"`
	Points          *int64  `json:"points"`
}

func (r updateProfileRequest) toUpdate() entity.ProfileUpdate {
	upd := entity.ProfileUpdate{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Points:    r.Points,
	}
	if r.MembershipLevel != nil {
		lvl := entity.MembershipLevel(*r.MembershipLevel)
		upd.MembershipLevel = &lvl
	}
	return upd
}

// userPayload shapes a user for the wire. Optional fields are omitted until
// set; the password hash never leaves the service.
func userPayload(u *entity.User) gin.H {
	p := gin.H{
		"id":              u.ID,
		"email":           u.Email,
		"membershipLevel": u.MembershipLevel,
		"points":          u.Points,
		"createdAt":       u.CreatedAt,
	}
	if u.FirstName != nil {
		p["firstName"] = *u.FirstName
	}
	if u.LastName != nil {
		p["lastName"] = *u.LastName
	}
	if u.Phone != nil {
		p["phone"] = *u.Phone
	}
	return p
}

func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	sess, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated,
		gin.H{"token": sess.Token, "user": userPayload(sess.User)},
		"registered", gin.H{"expires_at": sess.ExpiresAt})
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	sess, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			h.Logger.WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"ip":         c.GetString("real_ip"),
			}).Info("login rejected")
		}
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK,
		gin.H{"token": sess.Token, "user": userPayload(sess.User)},
		"login successful", gin.H{"expires_at": sess.ExpiresAt})
}

func (h *AccountHandler) GetProfile(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, userPayload(u), "profile", nil)
}

func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString("userID")
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, req.toUpdate())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, userPayload(u), "profile updated", nil)
}

func (h *AccountHandler) writeServiceError(c *gin.Context, err error) {
	if ie, ok := application.AsInvalidInput(err); ok {
		response.Error[any](c, http.StatusBadRequest, "invalid input", map[string]string{ie.Field: ie.Reason})
		return
	}
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		response.Error[any](c, http.StatusBadRequest, "email already registered", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, application.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	default:
		h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("account operation failed")
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}
