// services/progress.go
package services

import (
	"context"
	"fmt"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/Jaywinner/academy_api/dto"
	"github.com/Jaywinner/academy_api/model"
	"github.com/Jaywinner/academy_api/shared"
)

// XP thresholds for a grant. The same bounds apply to lesson rewards and
// admin grants.
const (
	MinXPGrant = 1
	MaxXPGrant = 10000

	xpPerLevel = 1000
)

type ProgressService struct {
	appContext.DefaultService

	sqlSvc         *SqliteService
	contentSvc     *ContentService
	achievementSvc *AchievementService
	redisSvc       *RedisService
}

const PROGRESS_SVC = "progress_svc"

func (svc ProgressService) Id() string {
	return PROGRESS_SVC
}

func (svc *ProgressService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProgressService) Start() error {
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	svc.contentSvc = svc.Service(CONTENT_SVC).(*ContentService)
	svc.achievementSvc = svc.Service(ACHIEVEMENT_SVC).(*AchievementService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// ==================== REGISTRATION ====================

// Register creates the learner if unseen. Re-registering refreshes the
// username and keeps all accumulated XP and progress.
func (svc *ProgressService) Register(userID, username string) (*model.User, error) {
	user, err := svc.sqlSvc.EnsureUser(userID, username)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"user_id": userID, "username": username}).Info("User registered")
	return user, nil
}

// ==================== XP ====================

// GrantXP atomically adds XP, recomputes the level and hands out the
// synthetic level badges for every level crossed.
func (svc *ProgressService) GrantXP(userID string, amount int) (*dto.XPGrantResponse, error) {
	if amount < MinXPGrant || amount > MaxXPGrant {
		return nil, shared.NewBadRequestError(
			fmt.Errorf("xp amount %d out of range", amount),
			fmt.Sprintf("XP amount must be between %d and %d", MinXPGrant, MaxXPGrant))
	}

	user, err := svc.sqlSvc.AddXP(userID, amount)
	if err != nil {
		return nil, err
	}

	// The update is a single arithmetic statement, so the pre-grant level
	// is recoverable from the refreshed row.
	oldLevel := ((user.XP - amount) / xpPerLevel) + 1

	grant := &dto.XPGrantResponse{
		User:     user,
		Amount:   amount,
		OldLevel: oldLevel,
		NewLevel: user.Level,
	}

	if user.Level > oldLevel {
		grant.LeveledUp = true
		levelBadges, err := svc.achievementSvc.GrantLevelUp(userID, oldLevel, user.Level)
		if err != nil {
			return nil, err
		}
		grant.NewAchievements = levelBadges
	}

	metricXPGranted.Add(float64(amount))
	svc.invalidateLeaderboard()

	return grant, nil
}

// ==================== LESSON COMPLETION ====================

// CompleteLesson marks the lesson done, pays out its XP reward, advances
// the user's position pointer and re-evaluates the badge table. The pointer
// always moves to lesson+1; resolving that coordinate against the catalog
// is the reader's job.
func (svc *ProgressService) CompleteLesson(userID, username string, courseID, moduleID, lessonID int) (*dto.LessonResultResponse, error) {
	lesson, err := svc.contentSvc.GetLesson(courseID, moduleID, lessonID)
	if err != nil {
		return nil, err
	}

	if _, err := svc.sqlSvc.EnsureUser(userID, username); err != nil {
		return nil, err
	}

	if err := svc.sqlSvc.AdvanceProgress(userID, courseID, moduleID, lessonID); err != nil {
		return nil, err
	}
	metricLessonsCompleted.Inc()

	grant, err := svc.GrantXP(userID, lesson.XPReward)
	if err != nil {
		return nil, err
	}

	newBadges, err := svc.achievementSvc.Evaluate(userID, "")
	if err != nil {
		return nil, err
	}

	result := &dto.LessonResultResponse{
		User:            grant.User,
		Lesson:          lesson,
		XPEarned:        lesson.XPReward,
		LeveledUp:       grant.LeveledUp,
		NewLevel:        grant.NewLevel,
		NewAchievements: append(grant.NewAchievements, newBadges...),
		NextLesson:      svc.contentSvc.ResolveNextLesson(courseID, moduleID, lessonID),
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"course":  courseID,
		"module":  moduleID,
		"lesson":  lessonID,
		"xp":      lesson.XPReward,
	}).Info("Lesson completed")

	return result, nil
}

// ==================== PROGRESS ====================

func (svc *ProgressService) GetProgress(userID string) (*dto.UserProgressResponse, error) {
	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, err
	}

	completed, err := svc.sqlSvc.CountCompletedLessons(userID)
	if err != nil {
		return nil, err
	}

	courses := svc.contentSvc.ListCourses()
	courseProgress := make([]dto.CourseProgress, 0, len(courses))
	for _, course := range courses {
		total, err := svc.contentSvc.CourseLessonCount(course.ID)
		if err != nil {
			return nil, err
		}
		done, err := svc.sqlSvc.CountCompletedLessonsInCourse(userID, course.ID)
		if err != nil {
			return nil, err
		}
		courseProgress = append(courseProgress, dto.CourseProgress{
			CourseID:  course.ID,
			Title:     course.Title,
			Completed: done,
			Total:     total,
		})
	}

	return &dto.UserProgressResponse{
		User:             user,
		CompletedLessons: completed,
		XPToNextLevel:    user.Level*xpPerLevel - user.XP,
		Courses:          courseProgress,
	}, nil
}

// ==================== LEADERBOARD ====================

// GetLeaderboard serves the top users by XP, cache first.
func (svc *ProgressService) GetLeaderboard(limit int) ([]dto.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	ctx := context.Background()

	users, err := svc.redisSvc.GetCachedLeaderboard(ctx, limit)
	if err != nil {
		log.WithError(err).Warn("Leaderboard cache read failed")
	}

	if users == nil {
		users, err = svc.sqlSvc.GetLeaderboard(limit)
		if err != nil {
			return nil, err
		}
		if err := svc.redisSvc.CacheLeaderboard(ctx, limit, users); err != nil {
			log.WithError(err).Warn("Leaderboard cache write failed")
		}
	}

	entries := make([]dto.LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = dto.LeaderboardEntry{
			Rank:     i + 1,
			UserID:   u.ID,
			Username: u.Username,
			XP:       u.XP,
			Level:    u.Level,
		}
	}
	return entries, nil
}

func (svc *ProgressService) invalidateLeaderboard() {
	if err := svc.redisSvc.InvalidateLeaderboard(context.Background()); err != nil {
		log.WithError(err).Warn("Leaderboard cache invalidation failed")
	}
}

// ==================== ADMIN ====================

// ResetUser wipes the user's XP, badges, completions and attempts.
func (svc *ProgressService) ResetUser(userID string) error {
	if err := svc.sqlSvc.ResetUser(userID); err != nil {
		return err
	}
	svc.invalidateLeaderboard()

	log.WithField("user_id", userID).Warn("User progress reset")
	return nil
}
