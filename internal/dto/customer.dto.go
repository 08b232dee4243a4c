package dto

import (
	"time"

	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

type UserDTO struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
}

func User(u models.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      u.Role,
	}
}

type CustomerDTO struct {
	ID            uint      `json:"id"`
	User          UserDTO   `json:"user"`
	Address       string    `json:"address"`
	Avatar        string    `json:"avatar"`
	LoyaltyPoints int       `json:"loyalty_points"`
	IsBlocked     bool      `json:"is_blocked"`
	CreatedAt     time.Time `json:"created_at"`
}

func Customer(c models.Customer) CustomerDTO {
	return CustomerDTO{
		ID:            c.ID,
		User:          User(c.User),
		Address:       c.Address,
		Avatar:        c.AvatarURL,
		LoyaltyPoints: c.LoyaltyPoints,
		IsBlocked:     c.IsBlocked,
		CreatedAt:     c.CreatedAt,
	}
}
