package testutil

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dtroode/interview-assistant/internal/model"
)

// MemStore keeps every table in memory and hands out views implementing the store interfaces.
type MemStore struct {
	mu        sync.Mutex
	nextID    int64
	users     []model.User
	sessions  []model.Session
	questions []model.Question
	responses []model.Response
	feedback  []model.Feedback

	// FeedbackErr, when set, makes every feedback insert fail.
	FeedbackErr error
}

// DefaultQuestions mirrors the first rows of the seed migration.
func DefaultQuestions() []model.Question {
	backend := "backend"
	frontend := "frontend"
	return []model.Question{
		{ID: 1, Text: "Explain what a REST API is and its main principles.", ExpectedKeywords: "http,stateless,resource"},
		{ID: 2, Text: "What does ACID mean for database transactions?", Role: &backend, ExpectedKeywords: "atomicity,consistency,isolation,durability"},
		{ID: 3, Text: "What is the virtual DOM and why is it useful?", Role: &frontend, ExpectedKeywords: "diff,render,performance"},
	}
}

func NewMemStore(questions ...model.Question) *MemStore {
	return &MemStore{nextID: 100, questions: questions}
}

func (m *MemStore) Users() model.UserStore         { return memUsers{m} }
func (m *MemStore) Sessions() model.SessionStore   { return memSessions{m} }
func (m *MemStore) Questions() model.QuestionStore { return memQuestions{m} }
func (m *MemStore) Responses() model.ResponseStore { return memResponses{m} }
func (m *MemStore) Feedback() model.FeedbackStore  { return memFeedback{m} }

// ResponseCount returns how many responses are stored for a session.
func (m *MemStore) ResponseCount(sessionID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, r := range m.responses {
		if r.SessionID == sessionID {
			n++
		}
	}
	return n
}

func (m *MemStore) id() int64 {
	m.nextID++
	return m.nextID
}

type memUsers struct{ m *MemStore }

func (s memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for _, u := range s.m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (s memUsers) Create(_ context.Context, user model.User) (model.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for _, u := range s.m.users {
		if u.Email == user.Email {
			return model.User{}, model.ErrEmailTaken
		}
	}
	user.ID = s.m.id()
	user.CreatedAt = time.Now()
	s.m.users = append(s.m.users, user)
	return user, nil
}

type memSessions struct{ m *MemStore }

func (s memSessions) Create(_ context.Context, session model.Session) (model.Session, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	session.ID = s.m.id()
	session.CreatedAt = time.Now()
	s.m.sessions = append(s.m.sessions, session)
	return session, nil
}

func (s memSessions) GetByIDAndUser(_ context.Context, id, userID int64) (model.Session, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for _, session := range s.m.sessions {
		if session.ID == id && session.UserID == userID {
			return session, nil
		}
	}
	return model.Session{}, model.ErrNotFound
}

func (s memSessions) ListByUser(_ context.Context, userID int64) ([]model.HistoryItem, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	items := make([]model.HistoryItem, 0)
	for i := len(s.m.sessions) - 1; i >= 0; i-- {
		session := s.m.sessions[i]
		if session.UserID != userID {
			continue
		}
		item := model.HistoryItem{
			SessionID: session.ID,
			Role:      session.Role,
			Status:    session.Status,
			CreatedAt: session.CreatedAt,
		}
		if report := s.m.aggregate(session.ID, userID); report.Count > 0 {
			avg := report.AvgOverall
			item.AvgOverall = &avg
		}
		items = append(items, item)
	}
	return items, nil
}

type memQuestions struct{ m *MemStore }

func (s memQuestions) GetByID(_ context.Context, id int64) (model.Question, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for _, q := range s.m.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return model.Question{}, model.ErrNotFound
}

func (s memQuestions) NextUnanswered(_ context.Context, sessionID int64, role string) (model.Question, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	var answered []int64
	for _, r := range s.m.responses {
		if r.SessionID == sessionID {
			answered = append(answered, r.QuestionID)
		}
	}

	questions := slices.Clone(s.m.questions)
	slices.SortFunc(questions, func(a, b model.Question) int { return int(a.ID - b.ID) })
	for _, q := range questions {
		if q.Role != nil && *q.Role != role {
			continue
		}
		if slices.Contains(answered, q.ID) {
			continue
		}
		return q, nil
	}
	return model.Question{}, model.ErrNotFound
}

type memResponses struct{ m *MemStore }

func (s memResponses) Create(_ context.Context, response model.Response) (model.Response, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	response.ID = s.m.id()
	response.CreatedAt = time.Now()
	s.m.responses = append(s.m.responses, response)
	return response, nil
}

type memFeedback struct{ m *MemStore }

func (s memFeedback) Create(_ context.Context, feedback model.Feedback) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if s.m.FeedbackErr != nil {
		return s.m.FeedbackErr
	}
	s.m.feedback = append(s.m.feedback, feedback)
	return nil
}

func (s memFeedback) ListByResponse(_ context.Context, responseID, userID int64) ([]model.Feedback, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	return s.m.filterFeedback(func(r model.Response) bool {
		return r.ID == responseID && r.UserID == userID
	}), nil
}

func (s memFeedback) ListBySession(_ context.Context, sessionID, userID int64) ([]model.Feedback, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	return s.m.filterFeedback(func(r model.Response) bool {
		return r.SessionID == sessionID && r.UserID == userID
	}), nil
}

func (s memFeedback) Aggregate(_ context.Context, sessionID, userID int64) (model.SessionReport, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	return s.m.aggregate(sessionID, userID), nil
}

func (m *MemStore) filterFeedback(match func(model.Response) bool) []model.Feedback {
	items := make([]model.Feedback, 0)
	for _, r := range m.responses {
		if !match(r) {
			continue
		}
		for _, f := range m.feedback {
			if f.ResponseID == r.ID {
				items = append(items, f)
			}
		}
	}
	return items
}

func (m *MemStore) aggregate(sessionID, userID int64) model.SessionReport {
	report := model.SessionReport{SessionID: sessionID}
	items := m.filterFeedback(func(r model.Response) bool {
		return r.SessionID == sessionID && r.UserID == userID
	})
	if len(items) == 0 {
		return report
	}

	for _, f := range items {
		report.AvgOverall += float64(f.Overall)
		report.AvgCommunication += float64(f.Communication)
		report.AvgCorrectness += float64(f.Correctness)
		report.AvgCompleteness += float64(f.Completeness)
	}
	n := float64(len(items))
	report.AvgOverall /= n
	report.AvgCommunication /= n
	report.AvgCorrectness /= n
	report.AvgCompleteness /= n
	report.Count = len(items)
	return report
}
