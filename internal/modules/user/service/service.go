package service

import (
	"context"
	"errors"
	"html"
	"strings"
	"time"

	"anoa.com/recruitportal/internal/entity"
	errorlog "anoa.com/recruitportal/internal/modules/errorlog/service"
	"anoa.com/recruitportal/internal/modules/user/dto"
	"anoa.com/recruitportal/internal/modules/user/repository"
	"anoa.com/recruitportal/pkg/apperror"
	commonDto "anoa.com/recruitportal/pkg/dto"
	"anoa.com/recruitportal/pkg/i18n"
	"anoa.com/recruitportal/pkg/token"
	"anoa.com/recruitportal/pkg/validator"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	reasonUserNotFound  = "login.user_not_found"
	reasonWrongPassword = "login.wrong_password"
)

var loginKeys = validator.Keys{
	"Username.required":      i18n.LoginRequired,
	"Password.required":      i18n.LoginRequired,
	"Username.min":           i18n.LoginUsernameTooShort,
	"Username.nodigitprefix": i18n.LoginUsernameDigit,
	"Password.min":           i18n.LoginPasswordTooShort,
}

var registerKeys = validator.Keys{
	"Username": i18n.LoginUsernameTooShort,
	"Password": i18n.LoginPasswordTooShort,
	"Pnr":      i18n.RegisterInvalidPnr,
	"Email":    i18n.RegisterInvalidMail,
}

type TokenIssuer interface {
	Issue(identity token.Identity) (string, time.Time, error)
}

type AuthService interface {
	Login(ctx context.Context, input dto.LoginInput, meta commonDto.RequestMeta) (*dto.AuthResponse, error)
	Register(ctx context.Context, input dto.RegisterInput, meta commonDto.RequestMeta) error
}

type authService struct {
	repo       repository.UserRepository
	tokens     TokenIssuer
	sink       errorlog.Sink
	sanitizer  *bluemonday.Policy
	bcryptCost int
	log        logrus.FieldLogger
}

func NewAuthService(repo repository.UserRepository, tokens TokenIssuer, sink errorlog.Sink, bcryptCost int, log logrus.FieldLogger) AuthService {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}

	return &authService{
		repo:       repo,
		tokens:     tokens,
		sink:       sink,
		sanitizer:  bluemonday.StrictPolicy(),
		bcryptCost: bcryptCost,
		log:        log,
	}
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput, meta commonDto.RequestMeta) (*dto.AuthResponse, error) {
	if err := validator.Struct(input, loginKeys); err != nil {
		return nil, err
	}

	person, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.sink.Log(ctx, errorlog.Entry{
				Username: errorlog.Str(input.Username),
				Reason:   reasonUserNotFound,
				Meta:     meta,
			})
			return nil, apperror.New(apperror.KindInvalidCredentials, i18n.LoginInvalidCredentials, nil)
		}

		s.log.WithError(err).WithField("username", input.Username).Error("failed to look up person")
		s.sink.Log(ctx, errorlog.Entry{
			Username: errorlog.Str(input.Username),
			Reason:   i18n.LoginFailed + ": " + err.Error(),
			Meta:     meta,
		})
		return nil, apperror.Internal(i18n.LoginFailed, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(person.Password), []byte(input.Password)); err != nil {
		s.sink.Log(ctx, errorlog.Entry{
			PersonID: errorlog.ID(person.PersonID),
			Email:    errorlog.Str(person.Email),
			Username: errorlog.Str(person.Username),
			Reason:   reasonWrongPassword,
			Meta:     meta,
		})
		return nil, apperror.New(apperror.KindInvalidCredentials, i18n.LoginInvalidCredentials, nil)
	}

	identity := token.Identity{
		PersonID: person.PersonID,
		Name:     person.Name,
		Username: person.Username,
		Role:     person.RoleID,
	}

	signed, expiresAt, err := s.tokens.Issue(identity)
	if err != nil {
		s.log.WithError(err).WithField("person_id", person.PersonID).Error("failed to issue token")
		return nil, apperror.Internal(i18n.LoginFailed, err)
	}

	return &dto.AuthResponse{
		Token:     signed,
		ExpiresAt: expiresAt.Unix(),
		User:      identity,
	}, nil
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput, meta commonDto.RequestMeta) error {
	if err := validator.Struct(input, registerKeys); err != nil {
		return err
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil {
		return s.registerFailed(ctx, input, meta, err)
	}
	if exists {
		return apperror.Conflict(i18n.RegisterUserExists)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return s.registerFailed(ctx, input, meta, err)
	}

	person := &entity.Person{
		Name:     s.plainText(input.Name),
		Surname:  s.plainText(input.Surname),
		Pnr:      input.Pnr,
		Email:    input.Email,
		Password: string(hashed),
		RoleID:   entity.RoleApplicant,
		Username: input.Username,
	}

	if err := s.repo.Create(ctx, person); err != nil {
		// lost the race against a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflict(i18n.RegisterUserExists)
		}
		return s.registerFailed(ctx, input, meta, err)
	}

	return nil
}

// plainText strips markup but keeps characters such as apostrophes intact.
func (s *authService) plainText(v string) string {
	return html.UnescapeString(s.sanitizer.Sanitize(strings.TrimSpace(v)))
}

func (s *authService) registerFailed(ctx context.Context, input dto.RegisterInput, meta commonDto.RequestMeta, err error) error {
	s.log.WithError(err).WithField("username", input.Username).Error("registration failed")
	s.sink.Log(ctx, errorlog.Entry{
		Email:    errorlog.Str(input.Email),
		Username: errorlog.Str(input.Username),
		Reason:   i18n.RegisterFailed + ": " + err.Error(),
		Meta:     meta,
	})
	return apperror.Internal(i18n.RegisterFailed, err)
}
