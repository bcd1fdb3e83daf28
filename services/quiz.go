// services/quiz.go
package services

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Jaywinner/academy_api/dto"
	"github.com/Jaywinner/academy_api/model"
	"github.com/Jaywinner/academy_api/shared"
)

const (
	lessonQuizTimeout = 5 * time.Minute
	moduleQuizTimeout = 10 * time.Minute

	// A module quiz draws at most this many questions from the pool.
	moduleQuizMaxQuestions = 5

	lessonQuizXP       = 100
	moduleQuizBaseXP   = 50
	moduleQuizPerScore = 25
)

// QuizSession is the in-memory state of one running quiz. Sessions are
// never persisted; an idle session past its timeout is reaped and every
// operation on it fails afterwards.
type QuizSession struct {
	ID       string
	UserID   string
	Kind     string
	CourseID int
	ModuleID int
	LessonID int

	Questions []model.Quiz

	mu           sync.Mutex
	index        int
	correct      int
	answered     bool
	finished     bool
	lastActivity time.Time
}

func (s *QuizSession) timeout() time.Duration {
	if s.Kind == shared.QuizKindModule {
		return moduleQuizTimeout
	}
	return lessonQuizTimeout
}

func (s *QuizSession) expired(now time.Time) bool {
	return now.Sub(s.lastActivity) > s.timeout()
}

type QuizService struct {
	appContext.DefaultService

	sqlSvc         *SqliteService
	contentSvc     *ContentService
	achievementSvc *AchievementService
	progressSvc    *ProgressService

	mu       sync.Mutex
	sessions map[string]*QuizSession

	closed chan struct{}
}

const QUIZ_SVC = "quiz_svc"

func (svc QuizService) Id() string {
	return QUIZ_SVC
}

func (svc *QuizService) Configure(ctx *appContext.Context) error {
	svc.sessions = make(map[string]*QuizSession)
	svc.closed = make(chan struct{}, 1)
	return svc.DefaultService.Configure(ctx)
}

func (svc *QuizService) Start() error {
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	svc.contentSvc = svc.Service(CONTENT_SVC).(*ContentService)
	svc.achievementSvc = svc.Service(ACHIEVEMENT_SVC).(*AchievementService)
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)

	go svc.reapExpiredSessions()

	return nil
}

func (svc *QuizService) Shutdown() {
	svc.closed <- struct{}{}
}

// ==================== SESSION LIFECYCLE ====================

// StartLessonQuiz opens a single-question session for the lesson's quiz.
func (svc *QuizService) StartLessonQuiz(userID, username string, courseID, moduleID, lessonID int) (*dto.QuizSessionResponse, error) {
	lesson, err := svc.contentSvc.GetLesson(courseID, moduleID, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.Quiz == nil {
		return nil, shared.NewNotFoundError(
			fmt.Errorf("course %d module %d lesson %d has no quiz", courseID, moduleID, lessonID),
			"This lesson doesn't have a quiz")
	}

	if _, err := svc.sqlSvc.EnsureUser(userID, username); err != nil {
		return nil, err
	}

	session := &QuizSession{
		ID:           uuid.Must(uuid.NewV7()).String(),
		UserID:       userID,
		Kind:         shared.QuizKindLesson,
		CourseID:     courseID,
		ModuleID:     moduleID,
		LessonID:     lessonID,
		Questions:    []model.Quiz{*lesson.Quiz},
		lastActivity: time.Now(),
	}

	svc.register(session)
	return svc.view(session), nil
}

// StartModuleQuiz opens a shuffled multi-question session over every quiz
// in the module, capped at five questions.
func (svc *QuizService) StartModuleQuiz(userID, username string, courseID, moduleID int) (*dto.QuizSessionResponse, error) {
	quizzes, err := svc.contentSvc.ModuleQuizzes(courseID, moduleID)
	if err != nil {
		return nil, err
	}
	if len(quizzes) == 0 {
		return nil, shared.NewNotFoundError(
			fmt.Errorf("course %d module %d has no quizzes", courseID, moduleID),
			"This module doesn't have any quizzes yet")
	}

	if _, err := svc.sqlSvc.EnsureUser(userID, username); err != nil {
		return nil, err
	}

	rand.Shuffle(len(quizzes), func(i, j int) {
		quizzes[i], quizzes[j] = quizzes[j], quizzes[i]
	})
	if len(quizzes) > moduleQuizMaxQuestions {
		quizzes = quizzes[:moduleQuizMaxQuestions]
	}

	session := &QuizSession{
		ID:           uuid.Must(uuid.NewV7()).String(),
		UserID:       userID,
		Kind:         shared.QuizKindModule,
		CourseID:     courseID,
		ModuleID:     moduleID,
		Questions:    quizzes,
		lastActivity: time.Now(),
	}

	svc.register(session)
	return svc.view(session), nil
}

func (svc *QuizService) register(session *QuizSession) {
	svc.mu.Lock()
	svc.sessions[session.ID] = session
	svc.mu.Unlock()
	metricQuizSessionsActive.Inc()
}

func (svc *QuizService) remove(sessionID string) {
	svc.mu.Lock()
	if _, ok := svc.sessions[sessionID]; ok {
		delete(svc.sessions, sessionID)
		metricQuizSessionsActive.Dec()
	}
	svc.mu.Unlock()
}

// lookup fetches the session and enforces ownership. Expired sessions are
// reaped on touch.
func (svc *QuizService) lookup(sessionID, userID string) (*QuizSession, error) {
	svc.mu.Lock()
	session, ok := svc.sessions[sessionID]
	svc.mu.Unlock()

	if !ok {
		return nil, shared.NewNotFoundError(fmt.Errorf("session %s", sessionID), "Quiz session not found")
	}
	if session.UserID != userID {
		return nil, shared.NewUnauthorizedError(
			fmt.Errorf("session %s does not belong to %s", sessionID, userID), "This quiz isn't yours")
	}
	if session.expired(time.Now()) {
		svc.remove(sessionID)
		return nil, shared.NewNotFoundError(fmt.Errorf("session %s expired", sessionID), "Quiz session expired")
	}
	return session, nil
}

func (svc *QuizService) view(session *QuizSession) *dto.QuizSessionResponse {
	q := session.Questions[session.index]
	return &dto.QuizSessionResponse{
		SessionID:      session.ID,
		Kind:           session.Kind,
		QuestionNumber: session.index + 1,
		TotalQuestions: len(session.Questions),
		Question:       q.Question,
		Options:        q.Options,
	}
}

// ==================== TRANSITIONS ====================

// SubmitAnswer grades the current question. A second submit for the same
// question is rejected without mutating anything.
func (svc *QuizService) SubmitAnswer(sessionID, userID string, answerIndex int) (*dto.AnswerResponse, error) {
	session, err := svc.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.finished {
		return nil, shared.NewConflictError(fmt.Errorf("session %s finished", sessionID), "Quiz already finished")
	}

	question := session.Questions[session.index]
	if answerIndex < 0 || answerIndex >= len(question.Options) {
		return nil, shared.NewBadRequestError(
			fmt.Errorf("answer index %d out of range", answerIndex), "Invalid answer option")
	}

	if session.answered {
		return &dto.AnswerResponse{
			AlreadyAnswered: true,
			CorrectIndex:    question.Correct,
			Explanation:     question.Explanation,
		}, nil
	}

	session.answered = true
	session.lastActivity = time.Now()

	correct := answerIndex == question.Correct
	if correct {
		session.correct++
	}

	result := &dto.AnswerResponse{
		Correct:      correct,
		CorrectIndex: question.Correct,
		Explanation:  question.Explanation,
	}

	// Lesson quizzes are one question; grading it ends the session.
	if session.Kind == shared.QuizKindLesson {
		payout, err := svc.finishLocked(session)
		if err != nil {
			return nil, err
		}
		result.Finished = true
		result.Result = payout
	}

	return result, nil
}

// NextQuestion advances a module session to the following question. Only
// valid after the current question was answered and when one remains.
func (svc *QuizService) NextQuestion(sessionID, userID string) (*dto.QuizSessionResponse, error) {
	session, err := svc.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.finished {
		return nil, shared.NewConflictError(fmt.Errorf("session %s finished", sessionID), "Quiz already finished")
	}
	if !session.answered {
		return nil, shared.NewConflictError(
			fmt.Errorf("session %s question %d unanswered", sessionID, session.index), "Answer the current question first")
	}
	if session.index >= len(session.Questions)-1 {
		return nil, shared.NewConflictError(
			fmt.Errorf("session %s on last question", sessionID), "No more questions, finish the quiz")
	}

	session.index++
	session.answered = false
	session.lastActivity = time.Now()

	return svc.view(session), nil
}

// FinishQuiz closes a module session after its last question was answered
// and pays out XP.
func (svc *QuizService) FinishQuiz(sessionID, userID string) (*dto.QuizResultResponse, error) {
	session, err := svc.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.finished {
		return nil, shared.NewConflictError(fmt.Errorf("session %s finished", sessionID), "Quiz already finished")
	}
	if session.index < len(session.Questions)-1 || !session.answered {
		return nil, shared.NewConflictError(
			fmt.Errorf("session %s not at end", sessionID), "Quiz still has unanswered questions")
	}

	return svc.finishLocked(session)
}

// finishLocked records the attempt and grants XP. Caller holds session.mu.
func (svc *QuizService) finishLocked(session *QuizSession) (*dto.QuizResultResponse, error) {
	session.finished = true

	score := session.correct
	total := len(session.Questions)

	var xp int
	if session.Kind == shared.QuizKindLesson {
		if score == total {
			xp = lessonQuizXP
		}
	} else {
		xp = moduleQuizBaseXP + moduleQuizPerScore*score
	}

	attempt := &model.QuizAttempt{
		UserID:   session.UserID,
		CourseID: session.CourseID,
		ModuleID: session.ModuleID,
		LessonID: session.LessonID,
		Kind:     session.Kind,
		Score:    score,
		Total:    total,
	}
	if err := svc.sqlSvc.RecordQuizAttempt(attempt); err != nil {
		return nil, err
	}
	metricQuizAttempts.WithLabelValues(session.Kind).Inc()

	result := &dto.QuizResultResponse{
		Score:      score,
		Total:      total,
		Percentage: float64(score) / float64(total) * 100,
		XPEarned:   xp,
		Perfect:    score == total,
	}

	if xp > 0 {
		grant, err := svc.progressSvc.GrantXP(session.UserID, xp)
		if err != nil {
			return nil, err
		}
		result.NewAchievements = grant.NewAchievements
	}

	if result.Perfect {
		badges, err := svc.achievementSvc.Evaluate(session.UserID, shared.CategoryPerfectQuiz)
		if err != nil {
			return nil, err
		}
		result.NewAchievements = append(result.NewAchievements, badges...)
	}

	svc.remove(session.ID)

	log.WithFields(log.Fields{
		"user_id": session.UserID,
		"kind":    session.Kind,
		"score":   score,
		"total":   total,
		"xp":      xp,
	}).Info("Quiz finished")

	return result, nil
}

// ==================== EXPIRY ====================

func (svc *QuizService) reapExpiredSessions() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			svc.mu.Lock()
			for id, session := range svc.sessions {
				if session.expired(now) {
					delete(svc.sessions, id)
					metricQuizSessionsActive.Dec()
				}
			}
			svc.mu.Unlock()

		case <-svc.closed:
			return
		}
	}
}

// ==================== STATS ====================

func (svc *QuizService) GetQuizStats(userID string) (*dto.QuizStatsResponse, error) {
	if _, err := svc.sqlSvc.GetUser(userID); err != nil {
		return nil, err
	}

	attempts, err := svc.sqlSvc.GetQuizAttempts(userID)
	if err != nil {
		return nil, err
	}

	stats := &dto.QuizStatsResponse{Rating: ratingForAverage(0)}
	if len(attempts) == 0 {
		return stats, nil
	}

	var sum float64
	for _, a := range attempts {
		if a.Total == 0 {
			continue
		}
		pct := float64(a.Score) / float64(a.Total) * 100
		sum += pct
		if pct > stats.BestPercent {
			stats.BestPercent = pct
		}
		if a.Score == a.Total {
			stats.PerfectScores++
		}
		stats.TotalAttempts++
	}

	if stats.TotalAttempts > 0 {
		stats.AveragePercent = sum / float64(stats.TotalAttempts)
	}
	stats.Rating = ratingForAverage(stats.AveragePercent)

	return stats, nil
}

func ratingForAverage(avg float64) string {
	switch {
	case avg >= 90:
		return "Cybersecurity Expert"
	case avg >= 80:
		return "Security Specialist"
	case avg >= 70:
		return "Good Student"
	case avg >= 60:
		return "Learning in Progress"
	default:
		return "Keep Studying"
	}
}
