package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dtroode/interview-assistant/internal/logger"
	"github.com/dtroode/interview-assistant/internal/model"
	"github.com/dtroode/interview-assistant/internal/scoring"
)

// Interview drives the session lifecycle: start, question sequencing,
// answer submission and status.
type Interview struct {
	sessionStore  model.SessionStore
	questionStore model.QuestionStore
	responseStore model.ResponseStore
	feedbackStore model.FeedbackStore
	logger        *logger.Logger
}

func NewInterview(
	sessionStore model.SessionStore,
	questionStore model.QuestionStore,
	responseStore model.ResponseStore,
	feedbackStore model.FeedbackStore,
	logger *logger.Logger,
) *Interview {
	return &Interview{
		sessionStore:  sessionStore,
		questionStore: questionStore,
		responseStore: responseStore,
		feedbackStore: feedbackStore,
		logger:        logger,
	}
}

// StartSession opens a new in-progress session for the user.
func (s *Interview) StartSession(ctx context.Context, userID int64, role string) (int64, error) {
	session, err := s.sessionStore.Create(ctx, model.Session{
		UserID: userID,
		Role:   strings.TrimSpace(role),
		Status: model.SessionStatusInProgress,
	})
	if err != nil {
		s.logger.Error("Interview service: failed to create session",
			"user_id", userID,
			"error", err.Error())
		return 0, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("Interview service: session started",
		"user_id", userID,
		"session_id", session.ID,
		"role", session.Role)

	return session.ID, nil
}

// NextQuestion returns the lowest-id question not yet answered in the session.
// When none remain the exhaustion sentinel is returned instead of an error.
func (s *Interview) NextQuestion(ctx context.Context, userID, sessionID int64) (model.Question, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return model.Question{}, err
	}

	question, err := s.questionStore.NextUnanswered(ctx, session.ID, session.Role)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Debug("Interview service: questions exhausted",
				"session_id", sessionID)
			return model.ExhaustedQuestion(), nil
		}
		s.logger.Error("Interview service: failed to select next question",
			"session_id", sessionID,
			"error", err.Error())
		return model.Question{}, fmt.Errorf("failed to select next question: %w", err)
	}

	return question, nil
}

// SubmitAnswer records an answer, scores it and stores the feedback.
//
// The session must belong to the user. An unknown question is accepted and
// scored without keywords. The response and its feedback are written by two
// separate statements, so a failure in between leaves a response without feedback.
func (s *Interview) SubmitAnswer(ctx context.Context, userID, sessionID, questionID int64, answer string) (model.AnswerResult, error) {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return model.AnswerResult{}, err
	}

	keywords := ""
	question, err := s.questionStore.GetByID(ctx, questionID)
	switch {
	case err == nil:
		keywords = question.ExpectedKeywords
	case errors.Is(err, model.ErrNotFound):
		s.logger.Debug("Interview service: answer for unknown question",
			"session_id", sessionID,
			"question_id", questionID)
	default:
		s.logger.Error("Interview service: failed to get question",
			"question_id", questionID,
			"error", err.Error())
		return model.AnswerResult{}, fmt.Errorf("failed to get question: %w", err)
	}

	response, err := s.responseStore.Create(ctx, model.Response{
		SessionID:  sessionID,
		QuestionID: questionID,
		UserID:     userID,
		AnswerText: answer,
	})
	if err != nil {
		s.logger.Error("Interview service: failed to store response",
			"session_id", sessionID,
			"question_id", questionID,
			"error", err.Error())
		return model.AnswerResult{}, fmt.Errorf("failed to store response: %w", err)
	}

	score := scoring.Score(answer, keywords)

	if err := s.feedbackStore.Create(ctx, score.Feedback(response.ID)); err != nil {
		s.logger.Error("Interview service: failed to store feedback",
			"response_id", response.ID,
			"error", err.Error())
		return model.AnswerResult{}, fmt.Errorf("failed to store feedback: %w", err)
	}

	s.logger.Info("Interview service: answer scored",
		"session_id", sessionID,
		"response_id", response.ID,
		"overall", score.Overall)

	return model.AnswerResult{ResponseID: response.ID, Score: score}, nil
}

// GetStatus returns the lifecycle state of an owned session.
func (s *Interview) GetStatus(ctx context.Context, userID, sessionID int64) (model.SessionStatus, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return "", err
	}
	return session.Status, nil
}

func (s *Interview) ownedSession(ctx context.Context, userID, sessionID int64) (model.Session, error) {
	session, err := s.sessionStore.GetByIDAndUser(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Session{}, model.ErrSessionNotFound
		}
		s.logger.Error("Interview service: failed to get session",
			"user_id", userID,
			"session_id", sessionID,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}
