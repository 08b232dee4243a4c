package customer

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/sto-scheduler/internal/domain/customer"
	"github.com/BruksfildServices01/sto-scheduler/internal/domain/pricing"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/media"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
	"github.com/BruksfildServices01/sto-scheduler/internal/validators"
)

// ProfileView is a customer profile with its loyalty standing.
type ProfileView struct {
	Customer              *models.Customer
	CompletedAppointments int
	DiscountPercent       decimal.Decimal
}

// ProfileInput carries only the fields being changed.
type ProfileInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Address   *string
	Password  *string
}

// AvatarUploader stores an avatar image and returns its public URL.
type AvatarUploader interface {
	Upload(ctx context.Context, customerID uint, r io.Reader) (string, error)
}

type Profiles struct {
	repo    customer.Repository
	avatars AvatarUploader
}

func NewProfiles(repo customer.Repository, avatars AvatarUploader) *Profiles {
	return &Profiles{repo: repo, avatars: avatars}
}

func (uc *Profiles) Get(ctx context.Context, userID uint) (*ProfileView, error) {
	c, err := uc.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.view(ctx, c)
}

func (uc *Profiles) Update(ctx context.Context, userID uint, in ProfileInput) (*ProfileView, error) {
	c, err := uc.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if in.FirstName != nil {
		c.User.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		c.User.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Email != nil {
		email := validators.NormalizeEmail(*in.Email)
		if !validators.IsEmail(email) {
			fields["email"] = "Enter a valid email address."
		}
		c.User.Email = email
	}
	if in.Phone != nil {
		phone := validators.NormalizePhone(*in.Phone)
		if phone != "" && !validators.IsPhone(phone) {
			fields["phone"] = "Enter a valid phone number."
		}
		c.User.Phone = phone
	}
	if in.Address != nil {
		c.Address = strings.TrimSpace(*in.Address)
	}
	if in.Password != nil {
		if !validators.IsPassword(*in.Password) {
			fields["password"] = "Password must be at least 8 characters long."
		} else {
			hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, err
			}
			c.User.PasswordHash = string(hashed)
		}
	}
	if len(fields) > 0 {
		return nil, httperr.ValidationFields(fields)
	}

	if err := uc.repo.SaveProfile(ctx, c); err != nil {
		return nil, err
	}
	return uc.view(ctx, c)
}

// UploadAvatar replaces the avatar of the user's profile.
func (uc *Profiles) UploadAvatar(ctx context.Context, userID uint, r io.Reader) (*ProfileView, error) {
	c, err := uc.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if uc.avatars == nil {
		return nil, media.ErrStorageDisabled
	}

	url, err := uc.avatars.Upload(ctx, c.ID, r)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedImage) {
			return nil, httperr.ValidationFields(map[string]string{
				"avatar": "Upload a JPEG, PNG or GIF image.",
			})
		}
		return nil, err
	}

	c.AvatarURL = url
	if err := uc.repo.SaveProfile(ctx, c); err != nil {
		return nil, err
	}
	return uc.view(ctx, c)
}

func (uc *Profiles) History(ctx context.Context, userID uint) ([]models.ServiceHistory, error) {
	c, err := uc.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.repo.ListHistory(ctx, c.ID)
}

func (uc *Profiles) Loyalty(ctx context.Context, userID uint) ([]models.LoyaltyTransaction, error) {
	c, err := uc.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.repo.ListLoyalty(ctx, c.ID)
}

func (uc *Profiles) view(ctx context.Context, c *models.Customer) (*ProfileView, error) {
	completed, err := uc.repo.CountCompleted(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{
		Customer:              c,
		CompletedAppointments: completed,
		DiscountPercent:       pricing.DiscountPercent(completed),
	}, nil
}
