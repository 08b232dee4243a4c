package handlers

import (

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/sto-scheduler/internal/dto"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/httpresp"
	uccustomer "github.com/BruksfildServices01/sto-scheduler/internal/usecase/customer"
)

type AuthHandler struct {
	accounts *uccustomer.Accounts
}

func NewAuthHandler(accounts *uccustomer.Accounts) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// --------- Requests ---------

type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// LoginRequest accepts a username or an email in Username.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	Token    string           `json:"token"`
	User     dto.UserDTO      `json:"user"`
	Customer *dto.CustomerDTO `json:"customer"`
}

func newSession(s *uccustomer.Session) sessionResponse {
	out := sessionResponse{Token: s.Token, User: dto.User(s.User)}
	if s.Customer != nil {
		c := dto.Customer(*s.Customer)
		c.User = out.User
		out.Customer = &c
	}
	return out
}

// --------- Handlers ---------

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bind(c, &req) {
		return
	}

	session, err := h.accounts.Register(c.Request.Context(), uccustomer.RegisterInput(req))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, newSession(session))
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bind(c, &req) {
		return
	}

	session, err := h.accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, newSession(session))
}
