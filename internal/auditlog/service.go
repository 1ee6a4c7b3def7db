package auditlog

import (
	"log/slog"

	"github.com/frahmantamala/merchant-management/internal"
)

type Repository interface {
	Create(log *Log) error
	GetAll(limit int) ([]*Log, error)
	GetPaginated(limit, offset int) ([]*Log, int64, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Record persists one request capture. Called from the audit middleware after
// the response has been written; failures are logged, never surfaced.
func (s *Service) Record(log *Log) {
	log.Source = SourceInternal
	if err := s.repo.Create(log); err != nil {
		s.logger.Error("failed to persist audit log", "error", err, "method", log.Method, "url", log.URL)
	}
}

// RecordExternal ingests a log record produced outside this process.
func (s *Service) RecordExternal(dto ExternalLogDTO) (*Log, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error())
	}

	log := &Log{
		Method:       dto.Method,
		URL:          dto.URL,
		Headers:      dto.Headers,
		RequestBody:  dto.RequestBody,
		ResponseBody: dto.ResponseBody,
		StatusCode:   dto.StatusCode,
		DurationMs:   dto.DurationMs,
		Source:       SourceExternal,
	}

	if err := s.repo.Create(log); err != nil {
		s.logger.Error("failed to persist external log", "error", err)
		return nil, internal.NewInternalError("failed to persist log", err)
	}

	return log, nil
}

func (s *Service) GetAll(limit int) ([]*Log, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	logs, err := s.repo.GetAll(limit)
	if err != nil {
		s.logger.Error("failed to list logs", "error", err)
		return nil, internal.NewInternalError("failed to list logs", err)
	}
	return logs, nil
}

func (s *Service) GetPaginated(page, perPage int) ([]*Log, int64, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	logs, total, err := s.repo.GetPaginated(perPage, (page-1)*perPage)
	if err != nil {
		s.logger.Error("failed to list logs", "error", err)
		return nil, 0, internal.NewInternalError("failed to list logs", err)
	}
	return logs, total, nil
}
