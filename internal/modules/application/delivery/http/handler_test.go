package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"anoa.com/recruitportal/internal/middleware"
	"anoa.com/recruitportal/internal/modules/application/dto"
	"anoa.com/recruitportal/pkg/apperror"
	commonDto "anoa.com/recruitportal/pkg/dto"
	"anoa.com/recruitportal/pkg/i18n"
	"anoa.com/recruitportal/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubApplicationService struct {
	competences  []dto.CompetenceResponse
	applications []dto.ApplicationSummary
	updated      int64
	err          error

	gotIdentity token.Identity
	gotSubmit   dto.SubmitApplicationInput
	gotStatus   dto.SetStatusInput
}

func (s *stubApplicationService) ListCompetences(ctx context.Context, meta commonDto.RequestMeta) ([]dto.CompetenceResponse, error) {
	return s.competences, s.err
}

func (s *stubApplicationService) SubmitApplication(ctx context.Context, identity token.Identity, input dto.SubmitApplicationInput, meta commonDto.RequestMeta) error {
	s.gotIdentity, s.gotSubmit = identity, input
	return s.err
}

func (s *stubApplicationService) ListApplications(ctx context.Context, meta commonDto.RequestMeta) ([]dto.ApplicationSummary, error) {
	return s.applications, s.err
}

func (s *stubApplicationService) SetApplicationStatus(ctx context.Context, input dto.SetStatusInput, meta commonDto.RequestMeta) (int64, error) {
	s.gotStatus = input
	return s.updated, s.err
}

var alice = token.Identity{PersonID: 7, Username: "alice01", Role: 2}

func newRouter(svc *stubApplicationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewApplicationHandler(svc)
	r := gin.New()
	withIdentity := func(c *gin.Context) {
		c.Set(middleware.IdentityKey, alice)
		c.Next()
	}
	r.GET("/apply", h.GetCompetences)
	r.POST("/apply", withIdentity, h.SubmitApplication)
	r.POST("/apply-anonymous", h.SubmitApplication)
	r.GET("/applications", h.GetApplications)
	r.POST("/applications", h.SetApplicationStatus)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetCompetencesReturnsArray(t *testing.T) {
	svc := &stubApplicationService{competences: []dto.CompetenceResponse{{CompetenceID: 2, Name: "lotteries"}}}

	w := do(newRouter(svc), http.MethodGet, "/apply", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"competence_id":2,"name":"lotteries"}]`, w.Body.String())
}

func TestSubmitApplicationUsesTokenIdentity(t *testing.T) {
	svc := &stubApplicationService{}
	body := `{
		"competences":[{"competenceName":"lotteries","yearsOfExperience":"4"}],
		"availability":[{"fromDate":"2099-01-01","toDate":"2099-01-02"}],
		"userData":{"person_id":7,"role":2,"username":"alice01","email":"a@b.com"}
	}`

	w := do(newRouter(svc), http.MethodPost, "/apply", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Application submitted successfully"}`, w.Body.String())
	assert.Equal(t, alice, svc.gotIdentity)
	require.Len(t, svc.gotSubmit.Competences, 1)
	years, ok := svc.gotSubmit.Competences[0].YearsOfExperience.Float64()
	assert.True(t, ok)
	assert.Equal(t, 4.0, years)
}

func TestSubmitApplicationErrors(t *testing.T) {
	svc := &stubApplicationService{err: apperror.Validation(i18n.ApplicationInvalidDates)}
	r := newRouter(svc)

	w := do(r, http.MethodPost, "/apply", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "start date")

	w = do(r, http.MethodPost, "/apply", `{"competences":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/apply-anonymous", `{}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetApplications(t *testing.T) {
	competences := "lotteries (4 years)"
	svc := &stubApplicationService{applications: []dto.ApplicationSummary{
		{PersonID: 7, Name: "Alice", Surname: "A", CompetencesWithExperience: &competences},
	}}

	w := do(newRouter(svc), http.MethodGet, "/applications", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Applications []dto.ApplicationSummary `json:"applications"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Applications, 1)
	assert.Equal(t, "lotteries (4 years)", *body.Applications[0].CompetencesWithExperience)
	assert.Nil(t, body.Applications[0].Status)
}

func TestGetApplicationsFailureHidesCause(t *testing.T) {
	svc := &stubApplicationService{err: apperror.Internal(i18n.ApplicationListFailed, errors.New("pq: password authentication failed"))}

	w := do(newRouter(svc), http.MethodGet, "/applications", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
	assert.Contains(t, w.Body.String(), "fetching applications")
}

func TestSetApplicationStatus(t *testing.T) {
	svc := &stubApplicationService{updated: 3}

	w := do(newRouter(svc), http.MethodPost, "/applications", `{"status":"accepted","person_id":"7"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Application status updated successfully","updated":3}`, w.Body.String())
	assert.Equal(t, "accepted", svc.gotStatus.Status)
	id, ok := svc.gotStatus.PersonID.Int64()
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
	assert.False(t, svc.gotStatus.CompetenceID.Present())
}
