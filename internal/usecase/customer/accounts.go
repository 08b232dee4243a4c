package customer

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/sto-scheduler/internal/auth"
	"github.com/BruksfildServices01/sto-scheduler/internal/domain/customer"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
	"github.com/BruksfildServices01/sto-scheduler/internal/validators"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]{3,150}$`)

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// Session is a signed-in user.
type Session struct {
	Token    string
	User     models.User
	Customer *models.Customer
}

type Accounts struct {
	repo   customer.Repository
	tokens *auth.Tokens
}

func NewAccounts(repo customer.Repository, tokens *auth.Tokens) *Accounts {
	return &Accounts{repo: repo, tokens: tokens}
}

// Register creates a customer account with its profile and signs it in.
func (uc *Accounts) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = validators.NormalizeEmail(in.Email)
	in.Phone = validators.NormalizePhone(in.Phone)

	fields := map[string]string{}
	if !usernamePattern.MatchString(in.Username) {
		fields["username"] = "Use 3 to 150 letters, digits and @.+-_ characters."
	}
	if !validators.IsEmail(in.Email) {
		fields["email"] = "Enter a valid email address."
	}
	if !validators.IsPassword(in.Password) {
		fields["password"] = "Password must be at least 8 characters long."
	}
	if in.Phone != "" && !validators.IsPhone(in.Phone) {
		fields["phone"] = "Enter a valid phone number."
	}
	if len(fields) > 0 {
		return nil, httperr.ValidationFields(fields)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashed),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        in.Phone,
		Role:         models.RoleCustomer,
	}
	profile := &models.Customer{}

	if err := uc.repo.Register(ctx, user, profile); err != nil {
		return nil, err
	}
	return uc.session(user, profile)
}

// EnsureAdmin creates the administrator account unless a user with that
// username or email already exists. It reports whether a user was created.
func (uc *Accounts) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	username = strings.TrimSpace(username)
	email = validators.NormalizeEmail(email)
	if !usernamePattern.MatchString(username) || !validators.IsEmail(email) || !validators.IsPassword(password) {
		return false, httperr.Validation("invalid_admin", "Admin username, email or password is invalid.")
	}

	for _, login := range []string{username, email} {
		_, err := uc.repo.FindUserByLogin(ctx, login)
		if err == nil {
			return false, nil
		}
		if !httperr.IsKind(err, httperr.KindNotFound) {
			return false, err
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	admin := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         models.RoleAdmin,
	}
	if err := uc.repo.Register(ctx, admin, nil); err != nil {
		return false, err
	}
	return true, nil
}

// Login accepts a username or an email.
func (uc *Accounts) Login(ctx context.Context, login, password string) (*Session, error) {
	user, err := uc.repo.FindUserByLogin(ctx, login)
	if err != nil {
		if httperr.IsKind(err, httperr.KindNotFound) {
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, invalidCredentials()
	}

	var profile *models.Customer
	if !user.IsAdmin() {
		if profile, err = uc.repo.GetByUserID(ctx, user.ID); err != nil {
			return nil, err
		}
	}
	return uc.session(user, profile)
}

func (uc *Accounts) session(user *models.User, profile *models.Customer) (*Session, error) {
	token, err := uc.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: *user, Customer: profile}, nil
}

func invalidCredentials() error {
	return httperr.UnauthorizedErr("invalid_credentials", "Invalid username or password.")
}
