package v1

import (
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := h.svc.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, tokens)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := h.svc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, tokens)
}

// Register is the self-service sign-up for patients. Staff accounts are
// created by administrators through the staff endpoints.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.svc.RegisterPatient(c.Request.Context(), &service.RegisterPatientCommand{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		NationalID:  req.NationalID,
		Phone:       req.Phone,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, toUserResponse(user))
}

func (h *AuthHandler) Me(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	user, err := h.svc.Me(c.Request.Context(), cl.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toUserResponse(user))
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), cl.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	respondNoContent(c)
}
