package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"anoa.com/recruitportal/internal/entity"
	"anoa.com/recruitportal/internal/modules/application/dto"
	"anoa.com/recruitportal/internal/modules/application/repository"
	errorlog "anoa.com/recruitportal/internal/modules/errorlog/service"
	"anoa.com/recruitportal/pkg/apperror"
	commonDto "anoa.com/recruitportal/pkg/dto"
	"anoa.com/recruitportal/pkg/i18n"
	"anoa.com/recruitportal/pkg/token"
	"github.com/sirupsen/logrus"
)

const (
	applyAction   = "apply"
	maxExperience = 99.99
	dateLayout    = "2006-01-02"

	releaseTimeout = 2 * time.Second
)

// Cooldown limits how often one person may submit.
type Cooldown interface {
	Acquire(ctx context.Context, subject, action string, limit time.Duration) (bool, error)
	Release(ctx context.Context, subject, action string) error
}

type ApplicationService interface {
	ListCompetences(ctx context.Context, meta commonDto.RequestMeta) ([]dto.CompetenceResponse, error)
	SubmitApplication(ctx context.Context, identity token.Identity, input dto.SubmitApplicationInput, meta commonDto.RequestMeta) error
	ListApplications(ctx context.Context, meta commonDto.RequestMeta) ([]dto.ApplicationSummary, error)
	SetApplicationStatus(ctx context.Context, input dto.SetStatusInput, meta commonDto.RequestMeta) (int64, error)
}

type applicationService struct {
	repo       repository.ApplicationRepository
	cooldown   Cooldown
	sink       errorlog.Sink
	applyLimit time.Duration
	log        logrus.FieldLogger
	now        func() time.Time
}

func NewApplicationService(repo repository.ApplicationRepository, cooldown Cooldown, sink errorlog.Sink, applyLimit time.Duration, log logrus.FieldLogger) ApplicationService {
	return &applicationService{
		repo:       repo,
		cooldown:   cooldown,
		sink:       sink,
		applyLimit: applyLimit,
		log:        log,
		now:        time.Now,
	}
}

func (s *applicationService) ListCompetences(ctx context.Context, meta commonDto.RequestMeta) ([]dto.CompetenceResponse, error) {
	competences, err := s.repo.FindAllCompetences(ctx)
	if err != nil {
		s.log.WithError(err).Error("failed to list competences")
		s.sink.Log(ctx, errorlog.Entry{Reason: i18n.ApplicationCompetencesFailed + ": " + err.Error(), Meta: meta})
		return nil, apperror.Internal(i18n.ApplicationCompetencesFailed, err)
	}

	res := make([]dto.CompetenceResponse, 0, len(competences))
	for _, c := range competences {
		res = append(res, dto.CompetenceResponse{CompetenceID: c.CompetenceID, Name: c.Name})
	}
	return res, nil
}

func (s *applicationService) SubmitApplication(ctx context.Context, identity token.Identity, input dto.SubmitApplicationInput, meta commonDto.RequestMeta) error {
	claimedID, err := validateUserData(input)
	if err != nil {
		return err
	}

	lines, err := competenceLines(input.Competences)
	if err != nil {
		return err
	}

	periods, err := availabilityPeriods(input.Availability, s.now())
	if err != nil {
		return err
	}

	if identity.Role != entity.RoleApplicant {
		return apperror.Forbidden(i18n.AuthRoleForbidden)
	}
	if claimedID != identity.PersonID {
		return apperror.Forbidden(i18n.ApplicationIdentityMismatch)
	}

	subject := strconv.FormatInt(identity.PersonID, 10)
	if s.cooldown != nil && s.applyLimit > 0 {
		allowed, err := s.cooldown.Acquire(ctx, subject, applyAction, s.applyLimit)
		if err != nil {
			s.log.WithError(err).WithField("person_id", identity.PersonID).Warn("submission cool-down unavailable")
		} else if !allowed {
			return apperror.New(apperror.KindRateLimited, i18n.ApplicationTooSoon, nil)
		}
	}

	stored, err := s.repo.Save(ctx, identity.PersonID, lines, periods)
	if err != nil {
		s.releaseCooldown(ctx, subject, identity.PersonID)

		s.log.WithError(err).WithField("person_id", identity.PersonID).Error("failed to save application")
		s.sink.Log(ctx, errorlog.Entry{
			PersonID: errorlog.ID(identity.PersonID),
			Email:    errorlog.Str(input.UserData.Email),
			Username: errorlog.Str(identity.Username),
			Reason:   i18n.ApplicationSubmitFailed + ": " + err.Error(),
			Meta:     meta,
		})
		return apperror.Internal(i18n.ApplicationSubmitFailed, err)
	}

	s.log.WithFields(logrus.Fields{
		"person_id":   identity.PersonID,
		"competences": stored,
		"periods":     len(periods),
	}).Info("application submitted")
	return nil
}

// releaseCooldown frees the lock of a failed submission, also when the
// request was cancelled.
func (s *applicationService) releaseCooldown(ctx context.Context, subject string, personID int64) {
	if s.cooldown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := s.cooldown.Release(ctx, subject, applyAction); err != nil {
		s.log.WithError(err).WithField("person_id", personID).Warn("failed to release submission cool-down")
	}
}

func (s *applicationService) ListApplications(ctx context.Context, meta commonDto.RequestMeta) ([]dto.ApplicationSummary, error) {
	applications, err := s.repo.FindAllApplications(ctx)
	if err != nil {
		s.log.WithError(err).Error("failed to list applications")
		s.sink.Log(ctx, errorlog.Entry{Reason: i18n.ApplicationListFailed + ": " + err.Error(), Meta: meta})
		return nil, apperror.Internal(i18n.ApplicationListFailed, err)
	}
	return applications, nil
}

func (s *applicationService) SetApplicationStatus(ctx context.Context, input dto.SetStatusInput, meta commonDto.RequestMeta) (int64, error) {
	personID, ok := input.PersonID.Int64()
	if !ok || personID <= 0 {
		return 0, apperror.Validation(i18n.ApplicationInvalidUser)
	}

	status, ok := entity.ParseStatus(strings.ToLower(strings.TrimSpace(input.Status)))
	if !ok {
		return 0, apperror.Validation(i18n.ApplicationInvalidStatus)
	}

	var competenceID *int64
	if input.CompetenceID.Present() {
		id, ok := input.CompetenceID.Int64()
		if !ok || id <= 0 {
			return 0, apperror.Validation(i18n.ApplicationInvalidCompetenceID)
		}
		competenceID = &id
	}

	affected, err := s.repo.UpdateStatus(ctx, personID, competenceID, status.Column())
	if err != nil {
		s.log.WithError(err).WithField("person_id", personID).Error("failed to set application status")
		s.sink.Log(ctx, errorlog.Entry{
			PersonID: errorlog.ID(personID),
			Reason:   i18n.ApplicationStatusFailed + ": " + err.Error(),
			Meta:     meta,
		})
		return 0, apperror.Internal(i18n.ApplicationStatusFailed, err)
	}

	return affected, nil
}

func validateUserData(input dto.SubmitApplicationInput) (int64, error) {
	if len(input.Competences) == 0 || len(input.Availability) == 0 || input.UserData == nil {
		return 0, apperror.Validation(i18n.ApplicationRequiredFields)
	}

	if role, ok := input.UserData.Role.Int64(); !ok || role != entity.RoleApplicant {
		return 0, apperror.Validation(i18n.ApplicationInvalidRole)
	}

	personID, ok := input.UserData.PersonID.Int64()
	if !ok || personID <= 0 {
		return 0, apperror.Validation(i18n.ApplicationInvalidUser)
	}
	return personID, nil
}

func competenceLines(in []dto.CompetenceInput) ([]repository.CompetenceLine, error) {
	lines := make([]repository.CompetenceLine, 0, len(in))
	for _, c := range in {
		years, ok := c.YearsOfExperience.Float64()
		if !ok || years > maxExperience {
			return nil, apperror.Validation(i18n.ApplicationInvalidExperience)
		}
		if years < 0 {
			return nil, apperror.Validation(i18n.ApplicationNegativeExperience)
		}
		lines = append(lines, repository.CompetenceLine{Name: strings.TrimSpace(c.CompetenceName), Years: years})
	}
	return lines, nil
}

// availabilityPeriods requires fromDate < toDate and fromDate not before today,
// compared as UTC calendar days.
func availabilityPeriods(in []dto.AvailabilityInput, now time.Time) ([]entity.Availability, error) {
	today := truncateDay(now)

	periods := make([]entity.Availability, 0, len(in))
	for _, a := range in {
		from, errFrom := parseDate(a.FromDate)
		to, errTo := parseDate(a.ToDate)
		if errFrom != nil || errTo != nil || !from.Before(to) || from.Before(today) {
			return nil, apperror.Validation(i18n.ApplicationInvalidDates)
		}
		periods = append(periods, entity.Availability{FromDate: from, ToDate: to})
	}
	return periods, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return truncateDay(t), nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
