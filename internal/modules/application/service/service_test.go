package service

import (
	"context"
	"errors"
	"testing"
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
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepo mimics the store: a submission is applied only when every row
// can be written.
type memoryRepo struct {
	competences []entity.Competence
	profiles    []entity.CompetenceProfile
	periods     []entity.Availability
	failSave    bool
	err         error
}

func (m *memoryRepo) FindAllCompetences(ctx context.Context) ([]entity.Competence, error) {
	return m.competences, m.err
}

func (m *memoryRepo) Save(ctx context.Context, personID int64, lines []repository.CompetenceLine, periods []entity.Availability) (int, error) {
	if m.failSave {
		return 0, errors.New("insert failed")
	}

	var profiles []entity.CompetenceProfile
	for _, line := range lines {
		for _, c := range m.competences {
			if c.Name == line.Name {
				profiles = append(profiles, entity.CompetenceProfile{PersonID: personID, CompetenceID: c.CompetenceID, YearsOfExperience: line.Years})
			}
		}
	}
	m.profiles = append(m.profiles, profiles...)
	for _, p := range periods {
		p.PersonID = personID
		m.periods = append(m.periods, p)
	}
	return len(profiles), nil
}

func (m *memoryRepo) FindAllApplications(ctx context.Context) ([]dto.ApplicationSummary, error) {
	return []dto.ApplicationSummary{}, m.err
}

func (m *memoryRepo) UpdateStatus(ctx context.Context, personID int64, competenceID *int64, status *string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var affected int64
	for i := range m.profiles {
		p := &m.profiles[i]
		if p.PersonID != personID || (competenceID != nil && p.CompetenceID != *competenceID) {
			continue
		}
		p.Status = status
		affected++
	}
	return affected, nil
}

type recordingSink struct {
	entries []errorlog.Entry
}

func (r *recordingSink) Log(ctx context.Context, entry errorlog.Entry) {
	r.entries = append(r.entries, entry)
}

type memoryCooldown struct {
	held       map[string]bool
	err        error
	releaseErr error
	released   int
	releaseCtx error
}

func (m *memoryCooldown) Acquire(ctx context.Context, subject, action string, limit time.Duration) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.held[subject+action] {
		return false, nil
	}
	m.held[subject+action] = true
	return true, nil
}

func (m *memoryCooldown) Release(ctx context.Context, subject, action string) error {
	m.releaseCtx = ctx.Err()
	if m.releaseErr != nil {
		return m.releaseErr
	}
	delete(m.held, subject+action)
	m.released++
	return nil
}

var (
	meta      = commonDto.RequestMeta{UserAgent: "test-agent", IPAddress: "10.0.0.1"}
	applicant = token.Identity{PersonID: 7, Name: "Alice", Username: "alice01", Role: entity.RoleApplicant}
	fixedNow  = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
)

type fixture struct {
	svc      *applicationService
	repo     *memoryRepo
	sink     *recordingSink
	cooldown *memoryCooldown
	logs     *test.Hook
}

func newFixture() *fixture {
	repo := &memoryRepo{competences: []entity.Competence{
		{CompetenceID: 1, Name: "ticket sales"},
		{CompetenceID: 2, Name: "lotteries"},
		{CompetenceID: 3, Name: "roller coaster operation"},
	}}
	sink := &recordingSink{}
	cooldown := &memoryCooldown{held: map[string]bool{}}
	log, hook := test.NewNullLogger()

	svc := NewApplicationService(repo, cooldown, sink, 10*time.Second, log).(*applicationService)
	svc.now = func() time.Time { return fixedNow }
	return &fixture{svc: svc, repo: repo, sink: sink, cooldown: cooldown, logs: hook}
}

func submission() dto.SubmitApplicationInput {
	return dto.SubmitApplicationInput{
		Competences: []dto.CompetenceInput{
			{CompetenceName: "lotteries", YearsOfExperience: dto.NewNumber("4")},
		},
		Availability: []dto.AvailabilityInput{
			{FromDate: "2099-01-01", ToDate: "2099-01-02"},
		},
		UserData: &dto.UserData{
			PersonID: dto.NewNumber("7"),
			Username: "alice01",
			Email:    "a@b.com",
			Role:     dto.NewNumber("2"),
		},
	}
}

func requireKey(t *testing.T, err error, kind apperror.Kind, key string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, kind, appErr.Kind)
	assert.Equal(t, key, appErr.Key)
}

func TestListCompetences(t *testing.T) {
	f := newFixture()

	res, err := f.svc.ListCompetences(context.Background(), meta)
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, dto.CompetenceResponse{CompetenceID: 2, Name: "lotteries"}, res[1])
}

func TestListCompetencesFailure(t *testing.T) {
	f := newFixture()
	f.repo.err = errors.New("db down")

	_, err := f.svc.ListCompetences(context.Background(), meta)
	requireKey(t, err, apperror.KindInternal, i18n.ApplicationCompetencesFailed)
	assert.Len(t, f.sink.entries, 1)
}

func TestSubmitApplication(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.svc.SubmitApplication(context.Background(), applicant, submission(), meta))

	require.Len(t, f.repo.profiles, 1)
	assert.Equal(t, int64(7), f.repo.profiles[0].PersonID)
	assert.Equal(t, int64(2), f.repo.profiles[0].CompetenceID)
	assert.Equal(t, 4.0, f.repo.profiles[0].YearsOfExperience)
	assert.Nil(t, f.repo.profiles[0].Status)

	require.Len(t, f.repo.periods, 1)
	assert.Equal(t, time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC), f.repo.periods[0].FromDate)
	assert.Empty(t, f.sink.entries)
}

func TestSubmitSkipsUnknownCompetence(t *testing.T) {
	f := newFixture()
	input := submission()
	input.Competences = append(input.Competences, dto.CompetenceInput{CompetenceName: "juggling", YearsOfExperience: dto.NewNumber("1")})

	require.NoError(t, f.svc.SubmitApplication(context.Background(), applicant, input, meta))
	assert.Len(t, f.repo.profiles, 1)
	assert.Len(t, f.repo.periods, 1)
}

func TestSubmitValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dto.SubmitApplicationInput)
		key    string
	}{
		{"no competences", func(in *dto.SubmitApplicationInput) { in.Competences = nil }, i18n.ApplicationRequiredFields},
		{"no availability", func(in *dto.SubmitApplicationInput) { in.Availability = nil }, i18n.ApplicationRequiredFields},
		{"no user data", func(in *dto.SubmitApplicationInput) { in.UserData = nil }, i18n.ApplicationRequiredFields},
		{"recruiter role claimed", func(in *dto.SubmitApplicationInput) { in.UserData.Role = dto.NewNumber("1") }, i18n.ApplicationInvalidRole},
		{"person id not numeric", func(in *dto.SubmitApplicationInput) { in.UserData.PersonID = dto.NewNumber("abc") }, i18n.ApplicationInvalidUser},
		{"negative experience", func(in *dto.SubmitApplicationInput) { in.Competences[0].YearsOfExperience = dto.NewNumber("-1") }, i18n.ApplicationNegativeExperience},
		{"experience not numeric", func(in *dto.SubmitApplicationInput) { in.Competences[0].YearsOfExperience = dto.NewNumber("many") }, i18n.ApplicationInvalidExperience},
		{"experience overflows column", func(in *dto.SubmitApplicationInput) { in.Competences[0].YearsOfExperience = dto.NewNumber("120") }, i18n.ApplicationInvalidExperience},
		{"equal dates", func(in *dto.SubmitApplicationInput) { in.Availability[0].ToDate = "2099-01-01" }, i18n.ApplicationInvalidDates},
		{"reversed dates", func(in *dto.SubmitApplicationInput) { in.Availability[0].FromDate = "2099-02-01" }, i18n.ApplicationInvalidDates},
		{"start in the past", func(in *dto.SubmitApplicationInput) {
			in.Availability[0] = dto.AvailabilityInput{FromDate: "2026-03-09", ToDate: "2026-04-01"}
		}, i18n.ApplicationInvalidDates},
		{"unparseable date", func(in *dto.SubmitApplicationInput) { in.Availability[0].FromDate = "soon" }, i18n.ApplicationInvalidDates},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			input := submission()
			tc.mutate(&input)

			err := f.svc.SubmitApplication(context.Background(), applicant, input, meta)
			requireKey(t, err, apperror.KindValidation, tc.key)
			assert.Empty(t, f.repo.profiles)
			assert.Empty(t, f.repo.periods)
			assert.Empty(t, f.sink.entries)
		})
	}
}

func TestSubmitAcceptsToday(t *testing.T) {
	f := newFixture()
	input := submission()
	input.Availability[0] = dto.AvailabilityInput{FromDate: "2026-03-10", ToDate: "2026-03-11T00:00:00Z"}

	require.NoError(t, f.svc.SubmitApplication(context.Background(), applicant, input, meta))
	assert.Len(t, f.repo.periods, 1)
}

func TestSubmitRequiresMatchingIdentity(t *testing.T) {
	f := newFixture()

	input := submission()
	input.UserData.PersonID = dto.NewNumber("8")
	err := f.svc.SubmitApplication(context.Background(), applicant, input, meta)
	requireKey(t, err, apperror.KindForbidden, i18n.ApplicationIdentityMismatch)

	recruiter := token.Identity{PersonID: 7, Username: "recruiter", Role: entity.RoleRecruiter}
	err = f.svc.SubmitApplication(context.Background(), recruiter, submission(), meta)
	requireKey(t, err, apperror.KindForbidden, i18n.AuthRoleForbidden)

	assert.Empty(t, f.repo.profiles)
}

func TestSubmitCooldown(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.SubmitApplication(ctx, applicant, submission(), meta))
	err := f.svc.SubmitApplication(ctx, applicant, submission(), meta)
	requireKey(t, err, apperror.KindRateLimited, i18n.ApplicationTooSoon)
	assert.Len(t, f.repo.profiles, 1)
}

func TestSubmitCooldownFailsOpen(t *testing.T) {
	f := newFixture()
	f.cooldown.err = errors.New("redis unreachable")

	require.NoError(t, f.svc.SubmitApplication(context.Background(), applicant, submission(), meta))
	assert.Len(t, f.repo.profiles, 1)
}

func TestSubmitWithoutCooldown(t *testing.T) {
	log, _ := test.NewNullLogger()
	repo := &memoryRepo{competences: []entity.Competence{{CompetenceID: 2, Name: "lotteries"}}}
	svc := NewApplicationService(repo, nil, &recordingSink{}, 10*time.Second, log).(*applicationService)
	svc.now = func() time.Time { return fixedNow }

	require.NoError(t, svc.SubmitApplication(context.Background(), applicant, submission(), meta))
	require.NoError(t, svc.SubmitApplication(context.Background(), applicant, submission(), meta))
	assert.Len(t, repo.profiles, 2, "duplicates accumulate")
}

func TestSubmitStoreFailureIsAllOrNothing(t *testing.T) {
	f := newFixture()
	f.repo.failSave = true

	err := f.svc.SubmitApplication(context.Background(), applicant, submission(), meta)
	requireKey(t, err, apperror.KindInternal, i18n.ApplicationSubmitFailed)

	assert.Empty(t, f.repo.profiles)
	assert.Empty(t, f.repo.periods)
	assert.Equal(t, 1, f.cooldown.released)

	require.Len(t, f.sink.entries, 1)
	entry := f.sink.entries[0]
	assert.Equal(t, int64(7), *entry.PersonID)
	assert.Equal(t, "a@b.com", *entry.Email)
	assert.Equal(t, "alice01", *entry.Username)
	assert.Equal(t, "test-agent", entry.Meta.UserAgent)
	assert.Equal(t, "10.0.0.1", entry.Meta.IPAddress)
}

func TestListApplicationsFailure(t *testing.T) {
	f := newFixture()
	f.repo.err = errors.New("db down")

	_, err := f.svc.ListApplications(context.Background(), meta)
	requireKey(t, err, apperror.KindInternal, i18n.ApplicationListFailed)
	assert.Len(t, f.sink.entries, 1)
}

func TestSetStatusLastWriteWins(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	input := submission()
	input.Competences = append(input.Competences, dto.CompetenceInput{CompetenceName: "ticket sales", YearsOfExperience: dto.NewNumber("1.5")})
	require.NoError(t, f.svc.SubmitApplication(ctx, applicant, input, meta))

	affected, err := f.svc.SetApplicationStatus(ctx, dto.SetStatusInput{Status: "accepted", PersonID: dto.NewNumber("7")}, meta)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	_, err = f.svc.SetApplicationStatus(ctx, dto.SetStatusInput{Status: "rejected", PersonID: dto.NewNumber("7")}, meta)
	require.NoError(t, err)

	for _, p := range f.repo.profiles {
		require.NotNil(t, p.Status)
		assert.Equal(t, "rejected", *p.Status)
	}
}

func TestSetStatusScopedAndUnhandled(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	input := submission()
	input.Competences = append(input.Competences, dto.CompetenceInput{CompetenceName: "ticket sales", YearsOfExperience: dto.NewNumber("1")})
	require.NoError(t, f.svc.SubmitApplication(ctx, applicant, input, meta))

	_, err := f.svc.SetApplicationStatus(ctx, dto.SetStatusInput{Status: "accepted", PersonID: dto.NewNumber("7")}, meta)
	require.NoError(t, err)

	affected, err := f.svc.SetApplicationStatus(ctx, dto.SetStatusInput{
		Status:       "unhandled",
		PersonID:     dto.NewNumber("7"),
		CompetenceID: dto.NewNumber("2"),
	}, meta)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	for _, p := range f.repo.profiles {
		if p.CompetenceID == 2 {
			assert.Nil(t, p.Status)
		} else {
			assert.Equal(t, "accepted", *p.Status)
		}
	}
}

func TestSetStatusValidation(t *testing.T) {
	cases := []struct {
		name  string
		input dto.SetStatusInput
		key   string
	}{
		{"missing person", dto.SetStatusInput{Status: "accepted"}, i18n.ApplicationInvalidUser},
		{"zero person", dto.SetStatusInput{Status: "accepted", PersonID: dto.NewNumber("0")}, i18n.ApplicationInvalidUser},
		{"non numeric person", dto.SetStatusInput{Status: "accepted", PersonID: dto.NewNumber("x")}, i18n.ApplicationInvalidUser},
		{"unknown status", dto.SetStatusInput{Status: "maybe", PersonID: dto.NewNumber("7")}, i18n.ApplicationInvalidStatus},
		{"bad competence", dto.SetStatusInput{Status: "accepted", PersonID: dto.NewNumber("7"), CompetenceID: dto.NewNumber("x")}, i18n.ApplicationInvalidCompetenceID},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.SetApplicationStatus(context.Background(), tc.input, meta)
			requireKey(t, err, apperror.KindValidation, tc.key)
		})
	}
}

func TestSetStatusStoreFailure(t *testing.T) {
	f := newFixture()
	f.repo.err = errors.New("deadlock")

	_, err := f.svc.SetApplicationStatus(context.Background(), dto.SetStatusInput{Status: "accepted", PersonID: dto.NewNumber("7")}, meta)
	requireKey(t, err, apperror.KindInternal, i18n.ApplicationStatusFailed)
	require.Len(t, f.sink.entries, 1)
	assert.Equal(t, int64(7), *f.sink.entries[0].PersonID)
}

func TestSubmitFailureReleasesCooldownAfterCancel(t *testing.T) {
	f := newFixture()
	f.repo.failSave = true
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.svc.SubmitApplication(ctx, applicant, submission(), meta)
	requireKey(t, err, apperror.KindInternal, i18n.ApplicationSubmitFailed)

	assert.Equal(t, 1, f.cooldown.released)
	assert.NoError(t, f.cooldown.releaseCtx, "release must not inherit the cancelled request")
	assert.Empty(t, f.cooldown.held)
}

func TestSubmitFailureLogsReleaseError(t *testing.T) {
	f := newFixture()
	f.repo.failSave = true
	f.cooldown.releaseErr = errors.New("redis timeout")

	err := f.svc.SubmitApplication(context.Background(), applicant, submission(), meta)
	requireKey(t, err, apperror.KindInternal, i18n.ApplicationSubmitFailed)

	var warned bool
	for _, entry := range f.logs.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Message == "failed to release submission cool-down" {
			warned = true
			assert.Equal(t, int64(7), entry.Data["person_id"])
		}
	}
	assert.True(t, warned)
}
