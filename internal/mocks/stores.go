// Package mocks provides testify mocks for the model interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/interview-assistant/internal/model"
)

type UserStore struct{ mock.Mock }

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

type SessionStore struct{ mock.Mock }

func (m *SessionStore) Create(ctx context.Context, session model.Session) (model.Session, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *SessionStore) GetByIDAndUser(ctx context.Context, id, userID int64) (model.Session, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *SessionStore) ListByUser(ctx context.Context, userID int64) ([]model.HistoryItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.HistoryItem)
	return items, args.Error(1)
}

type QuestionStore struct{ mock.Mock }

func (m *QuestionStore) GetByID(ctx context.Context, id int64) (model.Question, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Question), args.Error(1)
}

func (m *QuestionStore) NextUnanswered(ctx context.Context, sessionID int64, role string) (model.Question, error) {
	args := m.Called(ctx, sessionID, role)
	return args.Get(0).(model.Question), args.Error(1)
}

type ResponseStore struct{ mock.Mock }

func (m *ResponseStore) Create(ctx context.Context, response model.Response) (model.Response, error) {
	args := m.Called(ctx, response)
	return args.Get(0).(model.Response), args.Error(1)
}

type FeedbackStore struct{ mock.Mock }

func (m *FeedbackStore) Create(ctx context.Context, feedback model.Feedback) error {
	return m.Called(ctx, feedback).Error(0)
}

func (m *FeedbackStore) ListByResponse(ctx context.Context, responseID, userID int64) ([]model.Feedback, error) {
	args := m.Called(ctx, responseID, userID)
	items, _ := args.Get(0).([]model.Feedback)
	return items, args.Error(1)
}

func (m *FeedbackStore) ListBySession(ctx context.Context, sessionID, userID int64) ([]model.Feedback, error) {
	args := m.Called(ctx, sessionID, userID)
	items, _ := args.Get(0).([]model.Feedback)
	return items, args.Error(1)
}

func (m *FeedbackStore) Aggregate(ctx context.Context, sessionID, userID int64) (model.SessionReport, error) {
	args := m.Called(ctx, sessionID, userID)
	return args.Get(0).(model.SessionReport), args.Error(1)
}

var (
	_ model.UserStore     = (*UserStore)(nil)
	_ model.SessionStore  = (*SessionStore)(nil)
	_ model.QuestionStore = (*QuestionStore)(nil)
	_ model.ResponseStore = (*ResponseStore)(nil)
	_ model.FeedbackStore = (*FeedbackStore)(nil)
)
