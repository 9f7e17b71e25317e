package services

import (
	"context"
	"errors"
	"strings"

	"github.com/BerylCAtieno/paper-simplifier/internal/extractor"
	"github.com/BerylCAtieno/paper-simplifier/internal/models"
	"github.com/BerylCAtieno/paper-simplifier/internal/queue"
	"github.com/BerylCAtieno/paper-simplifier/internal/repository"
	"github.com/BerylCAtieno/paper-simplifier/internal/storage"
	"github.com/BerylCAtieno/paper-simplifier/internal/utils"
)

const (
	recentLimit = 10

	noPaperResponse = "Please provide the paper content or try uploading the paper again."
)

type PaperService interface {
	ProcessPaper(ctx context.Context, req *models.UploadRequest) (*models.AnalysisResult, error)
	Chat(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error)
	RecentPapers(ctx context.Context) ([]models.Paper, error)
	Stats(ctx context.Context) (*models.Stats, error)
	Categories(ctx context.Context) ([]string, error)
	PapersByCategory(ctx context.Context, category string) ([]models.Paper, error)
	QueueStatus() models.QueueStatus
}

// Analyzer is the slice of *pipeline.Pipeline the service needs.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*models.AnalysisResult, error)
	Ask(ctx context.Context, question, text string) (string, error)
}

type paperService struct {
	repo     repository.Repository
	archive  storage.Archive
	analyzer Analyzer
	queue    *queue.Queue
	logger   *utils.Logger
}

// NewService wires the processing queue to analyzer. A nil repo disables
// persistence and the chat fallback to the latest stored paper.
func NewService(repo repository.Repository, archive storage.Archive, analyzer Analyzer, logger *utils.Logger) PaperService {
	if archive == nil {
		archive = storage.NewNoopArchive()
	}
	s := &paperService{
		repo:     repo,
		archive:  archive,
		analyzer: analyzer,
		logger:   logger,
	}
	s.queue = queue.New(s.runJob, logger)
	return s
}

func (s *paperService) ProcessPaper(ctx context.Context, req *models.UploadRequest) (*models.AnalysisResult, error) {
	if !extractor.IsSupported(req.ContentType) {
		s.logger.Warn("Unsupported content type", "content_type", req.ContentType, "filename", req.Filename)
		return nil, utils.NewBadRequestError("Only PDF and plain text files are allowed")
	}

	text, err := extractor.Extract(req.File, req.ContentType)
	if err != nil {
		s.logger.Error("Failed to extract text", "error", err, "content_type", req.ContentType, "filename", req.Filename)
		return nil, utils.WrapInternalError("Failed to extract text from document", err)
	}
	s.logger.Info("Text extracted", "filename", req.Filename, "text_length", len(text))

	fileKey := storage.Key(utils.GenerateID(), req.Filename)
	if err := s.archive.Upload(ctx, fileKey, req.File, req.ContentType); err != nil {
		s.logger.Error("Failed to archive upload", "error", err, "file_key", fileKey)
		fileKey = ""
	}

	job := queue.NewJob(ctx, req.Filename, text, fileKey)
	if !s.queue.Submit(job) {
		s.logger.Info("Paper waiting for queue", "job_id", job.ID, "filename", req.Filename)
	}

	result, err := job.Wait(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("Caller left before job finished", "job_id", job.ID, "error", err)
			return nil, err
		}
		return nil, utils.WrapInternalError(err.Error(), err)
	}
	return result, nil
}

// runJob is the queue's Runner: analyze, then persist. Persistence failures
// are logged and the result is still returned.
func (s *paperService) runJob(ctx context.Context, job *queue.Job) (*models.AnalysisResult, error) {
	result, err := s.analyzer.Analyze(ctx, job.Text)
	if err != nil {
		return nil, err
	}
	result.Title = job.Title
	result.FileKey = job.FileKey

	if s.repo == nil {
		return result, nil
	}

	id, err := s.repo.Create(ctx, result.ToPaper())
	if err != nil {
		s.logger.Error("Failed to save paper", "error", err, "job_id", job.ID, "title", job.Title)
		return result, nil
	}
	result.ID = id

	s.logger.Info("Paper saved",
		"id", id,
		"title", job.Title,
		"input_tokens", result.Stats.InputTokens,
		"output_tokens", result.Stats.OutputTokens,
		"cost", result.Stats.Cost,
		"processing_time_ms", result.Stats.ProcessingTime)
	return result, nil
}

func (s *paperService) Chat(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	question := strings.TrimSpace(req.Message)
	if question == "" {
		return nil, utils.NewBadRequestError("Message is required")
	}

	text := req.PaperContent
	if strings.TrimSpace(text) == "" && s.repo != nil {
		latest, err := s.repo.LatestText(ctx)
		if err != nil {
			s.logger.Error("Failed to load latest paper", "error", err)
			return nil, utils.WrapInternalError("Failed to load paper content", err)
		}
		text = latest
	}
	if strings.TrimSpace(text) == "" {
		return &models.ChatResponse{Response: noPaperResponse}, nil
	}

	answer, err := s.analyzer.Ask(ctx, question, text)
	if err != nil {
		s.logger.Error("Chat failed", "error", err)
		return nil, utils.WrapInternalError(err.Error(), err)
	}
	return &models.ChatResponse{Response: answer}, nil
}

func (s *paperService) RecentPapers(ctx context.Context) ([]models.Paper, error) {
	if s.repo == nil {
		return []models.Paper{}, nil
	}
	papers, err := s.repo.Recent(ctx, recentLimit)
	if err != nil {
		s.logger.Error("Failed to fetch recent papers", "error", err)
		return nil, utils.WrapInternalError("Failed to fetch recent papers", err)
	}
	return papers, nil
}

func (s *paperService) Stats(ctx context.Context) (*models.Stats, error) {
	if s.repo == nil {
		return &models.Stats{}, nil
	}
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch stats", "error", err)
		return nil, utils.WrapInternalError("Failed to fetch stats", err)
	}
	return stats, nil
}

func (s *paperService) Categories(ctx context.Context) ([]string, error) {
	if s.repo == nil {
		return []string{}, nil
	}
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch categories", "error", err)
		return nil, utils.WrapInternalError("Failed to fetch categories", err)
	}
	return categories, nil
}

func (s *paperService) PapersByCategory(ctx context.Context, category string) ([]models.Paper, error) {
	if s.repo == nil {
		return []models.Paper{}, nil
	}
	papers, err := s.repo.ByCategory(ctx, category)
	if err != nil {
		s.logger.Error("Failed to fetch papers by category", "error", err, "category", category)
		return nil, utils.WrapInternalError("Failed to fetch papers", err)
	}
	return papers, nil
}

func (s *paperService) QueueStatus() models.QueueStatus {
	return s.queue.Status()
}
