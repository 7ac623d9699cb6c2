package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/codecritic/codecritic/internal/models"
	"github.com/codecritic/codecritic/pkg/logger"
	"gorm.io/gorm"
)

// ErrReadTimeout is returned when the uploaded payload cannot be consumed
// within the read bound. Handlers map it to 504.
var ErrReadTimeout = errors.New("reading uploaded file timed out")

const uploadReadTimeout = 30 * time.Second

// StaticAnalyzer is the linter contract the orchestrator depends on.
type StaticAnalyzer interface {
	Run(ctx context.Context, code string) string
}

// AIReviewer is the AI adapter contract the orchestrator depends on.
type AIReviewer interface {
	Review(ctx context.Context, code, staticResult string) []ReviewItem
}

// ReviewOutcome is the composite result returned to the caller and, in
// serialized form, persisted as a Review row.
type ReviewOutcome struct {
	User         string       `json:"user"`
	ReviewID     uint         `json:"review_id"`
	StaticResult string       `json:"static_result"`
	AIResult     []ReviewItem `json:"ai_result"`
}

// ReviewService sequences one review request: read the upload under a
// bound, run the linter, run the AI adapter with the linter output as
// context, then persist the composite result in a single transaction.
// The linter and AI steps never fail; only reading and persisting can
// terminate the flow.
type ReviewService struct {
	db          *gorm.DB
	analyzer    StaticAnalyzer
	ai          AIReviewer
	readTimeout time.Duration
}

func NewReviewService(db *gorm.DB, analyzer StaticAnalyzer, ai AIReviewer) *ReviewService {
	return &ReviewService{
		db:          db,
		analyzer:    analyzer,
		ai:          ai,
		readTimeout: uploadReadTimeout,
	}
}

// Run executes the full pipeline for one authenticated upload.
func (s *ReviewService) Run(ctx context.Context, email string, file io.Reader) (*ReviewOutcome, error) {
	logger.Info().Str("user", email).Msg("starting review")

	code, err := s.readBounded(file)
	if err != nil {
		logger.Error().Err(err).Str("user", email).Msg("reading upload failed")
		return nil, err
	}
	logger.Debug().Int("bytes", len(code)).Msg("file read successfully")

	staticResult := s.analyzer.Run(ctx, code)
	logger.Info().Str("user", email).Msg("static analysis completed")

	items := s.ai.Review(ctx, code, staticResult)
	logger.Info().Str("user", email).Int("items", len(items)).Msg("AI review completed")

	aiJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("serializing AI result: %w", err)
	}

	review := models.Review{
		Email:        email,
		Code:         code,
		StaticResult: staticResult,
		AIResult:     string(aiJSON),
	}
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&review).Error
	}); err != nil {
		logger.Error().Err(err).Str("user", email).Msg("persisting review failed")
		return nil, err
	}
	logger.Info().Uint("review_id", review.ID).Str("user", email).Msg("review saved")

	return &ReviewOutcome{
		User:         email,
		ReviewID:     review.ID,
		StaticResult: staticResult,
		AIResult:     items,
	}, nil
}

// readBounded consumes the upload with a wall-clock bound. On expiry the
// read is abandoned, not cancelled; the goroutine drains in the background
// and its result is discarded.
func (s *ReviewService) readBounded(file io.Reader) (string, error) {
	type readResult struct {
		data []byte
		err  error
	}

	ch := make(chan readResult, 1)
	go func() {
		data, err := io.ReadAll(file)
		ch <- readResult{data: data, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return "", fmt.Errorf("reading uploaded file: %w", res.err)
		}
		return string(res.data), nil
	case <-time.After(s.readTimeout):
		return "", ErrReadTimeout
	}
}
