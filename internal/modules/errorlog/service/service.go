package service

import (
	"context"
	"time"

	"anoa.com/recruitportal/internal/entity"
	"anoa.com/recruitportal/internal/modules/errorlog/repository"
	"anoa.com/recruitportal/pkg/dto"
	"github.com/sirupsen/logrus"
)

const writeTimeout = 5 * time.Second

// Entry describes one failure. Identifying fields are optional.
type Entry struct {
	PersonID *int64
	Email    *string
	Username *string
	Reason   string
	Meta     dto.RequestMeta
}

// Sink records failures on a best-effort basis. Log never fails and never
// blocks past a short timeout.
type Sink interface {
	Log(ctx context.Context, entry Entry)
}

type sink struct {
	repo repository.ErrorLogRepository
	log  logrus.FieldLogger
}

func NewSink(repo repository.ErrorLogRepository, log logrus.FieldLogger) Sink {
	return &sink{repo: repo, log: log}
}

func (s *sink) Log(ctx context.Context, entry Entry) {
	// the record is written even when the request was cancelled
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	record := &entity.ErrorLog{
		PersonID:  entry.PersonID,
		Email:     nonEmpty(entry.Email),
		Username:  nonEmpty(entry.Username),
		Reason:    entry.Reason,
		UserAgent: entry.Meta.UserAgent,
		IPAddress: entry.Meta.IPAddress,
		RequestID: entry.Meta.RequestID,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"reason":     entry.Reason,
			"request_id": entry.Meta.RequestID,
		}).Error("failed to persist error log")
	}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// Str is a helper for optional string fields.
func Str(s string) *string {
	return &s
}

// ID is a helper for the optional person id.
func ID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
