package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Jaywinner/academy_api/dto"
	"github.com/Jaywinner/academy_api/model"
	"github.com/Jaywinner/academy_api/shared"
)

// ==================== USERS ====================

// EnsureUser registers the user if unseen and refreshes the username if it
// changed. Existing XP, level and position are never touched.
func (ds *SqliteService) EnsureUser(userID, username string) (*model.User, error) {
	user := model.User{
		ID:            userID,
		Username:      username,
		Level:         1,
		CurrentCourse: 1,
		CurrentModule: 1,
		CurrentLesson: 1,
		JoinedAt:      time.Now(),
	}

	err := ds.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"username": username}),
	}).Create(&user).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}

	return ds.GetUser(userID)
}

func (ds *SqliteService) GetUser(userID string) (*model.User, error) {
	var user model.User
	if err := ds.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &user, nil
}

// AddXP applies the XP delta as a single arithmetic UPDATE so concurrent
// grants never lose each other, then returns the refreshed row. The level
// column is recomputed in the same statement.
func (ds *SqliteService) AddXP(userID string, amount int) (*model.User, error) {
	return ds.addXPTx(ds.db, userID, amount)
}

func (ds *SqliteService) addXPTx(tx *gorm.DB, userID string, amount int) (*model.User, error) {
	res := tx.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"xp":         gorm.Expr("xp + ?", amount),
		"level":      gorm.Expr("((xp + ?) / 1000) + 1", amount),
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return nil, ds.HandleError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, shared.NewNotFoundError(gorm.ErrRecordNotFound, "User not found")
	}

	var user model.User
	if err := tx.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &user, nil
}

// AdvanceProgress records the lesson completion and moves the user's
// position pointer to lesson+1 in one transaction. A failure on either
// write leaves neither behind.
func (ds *SqliteService) AdvanceProgress(userID string, courseID, moduleID, lessonID int) error {
	err := ds.db.Transaction(func(tx *gorm.DB) error {
		if err := ds.upsertCompletionTx(tx, userID, courseID, moduleID, lessonID); err != nil {
			return err
		}

		res := tx.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"current_course": courseID,
			"current_module": moduleID,
			"current_lesson": lessonID + 1,
			"updated_at":     time.Now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.NewNotFoundError(err, "User not found")
		}
		return ds.HandleError(err)
	}
	return nil
}

// GetLeaderboard returns the top users by XP.
func (ds *SqliteService) GetLeaderboard(limit int) ([]model.User, error) {
	var users []model.User
	err := ds.db.Order("xp DESC").Limit(limit).Find(&users).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return users, nil
}

// ResetUser wipes the user's completions, grants and attempts and zeroes
// their stats in one transaction.
func (ds *SqliteService) ResetUser(userID string) error {
	err := ds.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.LessonCompletion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.AchievementGrant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.QuizAttempt{}).Error; err != nil {
			return err
		}

		res := tx.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"xp":             0,
			"level":          1,
			"current_course": 1,
			"current_module": 1,
			"current_lesson": 1,
			"updated_at":     time.Now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.NewNotFoundError(err, "User not found")
		}
		return ds.HandleError(err)
	}
	return nil
}

// ==================== COMPLETIONS ====================

// UpsertCompletion marks a lesson done. Re-completing refreshes the
// timestamp on the existing row.
func (ds *SqliteService) UpsertCompletion(userID string, courseID, moduleID, lessonID int) error {
	if err := ds.upsertCompletionTx(ds.db, userID, courseID, moduleID, lessonID); err != nil {
		return ds.HandleError(err)
	}
	return nil
}

func (ds *SqliteService) upsertCompletionTx(tx *gorm.DB, userID string, courseID, moduleID, lessonID int) error {
	completion := model.LessonCompletion{
		ID:          uuid.Must(uuid.NewV7()).String(),
		UserID:      userID,
		CourseID:    courseID,
		ModuleID:    moduleID,
		LessonID:    lessonID,
		Completed:   true,
		CompletedAt: time.Now(),
	}

	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}, {Name: "module_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"completed": true, "completed_at": completion.CompletedAt}),
	}).Create(&completion).Error
}

func (ds *SqliteService) CountCompletedLessons(userID string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.LessonCompletion{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error
	if err != nil {
		return 0, ds.HandleError(err)
	}
	return count, nil
}

func (ds *SqliteService) CountCompletedLessonsInCourse(userID string, courseID int) (int64, error) {
	var count int64
	err := ds.db.Model(&model.LessonCompletion{}).
		Where("user_id = ? AND course_id = ? AND completed = ?", userID, courseID, true).
		Count(&count).Error
	if err != nil {
		return 0, ds.HandleError(err)
	}
	return count, nil
}

func (ds *SqliteService) GetCompletions(userID string) ([]model.LessonCompletion, error) {
	var completions []model.LessonCompletion
	err := ds.db.Where("user_id = ?", userID).
		Order("completed_at ASC").
		Find(&completions).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return completions, nil
}

// ==================== ACHIEVEMENTS ====================

// GrantAchievement inserts the grant and applies its bonus XP in one
// transaction. Returns false with no error when the user already holds the
// achievement; the unique index on (user_id, key) is the arbiter. When a
// bonus was paid, the refreshed user row is returned so the caller can see
// any level the bonus crossed.
func (ds *SqliteService) GrantAchievement(userID, key, name, category string, bonusXP int) (bool, *model.User, error) {
	granted := false
	var user *model.User
	err := ds.db.Transaction(func(tx *gorm.DB) error {
		grant := model.AchievementGrant{
			ID:        uuid.Must(uuid.NewV7()).String(),
			UserID:    userID,
			Key:       key,
			Name:      name,
			Category:  category,
			AwardedAt: time.Now(),
		}
		if err := tx.Create(&grant).Error; err != nil {
			if IsDuplicateKey(err) {
				return nil
			}
			return err
		}
		granted = true

		if bonusXP > 0 {
			u, err := ds.addXPTx(tx, userID, bonusXP)
			if err != nil {
				return err
			}
			user = u
		}
		return nil
	})
	if err != nil {
		return false, nil, ds.HandleError(err)
	}

	if granted && bonusXP > 0 {
		metricXPGranted.Add(float64(bonusXP))
	}
	return granted, user, nil
}

func (ds *SqliteService) GetGrants(userID string) ([]model.AchievementGrant, error) {
	var grants []model.AchievementGrant
	err := ds.db.Where("user_id = ?", userID).
		Order("awarded_at ASC").
		Find(&grants).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return grants, nil
}

func (ds *SqliteService) GrantKeys(userID string) (map[string]bool, error) {
	grants, err := ds.GetGrants(userID)
	if err != nil {
		return nil, err
	}

	keys := make(map[string]bool, len(grants))
	for _, g := range grants {
		keys[g.Key] = true
	}
	return keys, nil
}

// ==================== QUIZ ATTEMPTS ====================

func (ds *SqliteService) RecordQuizAttempt(attempt *model.QuizAttempt) error {
	if attempt.ID == "" {
		attempt.ID = uuid.Must(uuid.NewV7()).String()
	}
	if attempt.AttemptedAt.IsZero() {
		attempt.AttemptedAt = time.Now()
	}
	if attempt.Kind == "" {
		attempt.Kind = shared.QuizKindLesson
	}

	if err := ds.db.Create(attempt).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

func (ds *SqliteService) GetQuizAttempts(userID string) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := ds.db.Where("user_id = ?", userID).
		Order("attempted_at ASC").
		Find(&attempts).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return attempts, nil
}

func (ds *SqliteService) CountPerfectQuizzes(userID string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND total > 0 AND score = total", userID).
		Count(&count).Error
	if err != nil {
		return 0, ds.HandleError(err)
	}
	return count, nil
}

// ==================== ADMIN ====================

func (ds *SqliteService) GetPlatformStats() (*dto.PlatformStats, error) {
	var stats dto.PlatformStats

	if err := ds.db.Model(&model.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, ds.HandleError(err)
	}

	var totalXP struct{ Total int64 }
	if err := ds.db.Model(&model.User{}).Select("COALESCE(SUM(xp), 0) AS total").Scan(&totalXP).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	stats.TotalXP = totalXP.Total

	if err := ds.db.Model(&model.LessonCompletion{}).Where("completed = ?", true).Count(&stats.TotalCompletions).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	if err := ds.db.Model(&model.AchievementGrant{}).Count(&stats.TotalAchievements).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	if err := ds.db.Model(&model.QuizAttempt{}).Count(&stats.TotalQuizAttempts).Error; err != nil {
		return nil, ds.HandleError(err)
	}

	return &stats, nil
}

// ==================== EXPORT ====================

func (ds *SqliteService) AllUsers() ([]model.User, error) {
	var users []model.User
	if err := ds.db.Order("xp DESC").Find(&users).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return users, nil
}

func (ds *SqliteService) AllCompletions() ([]model.LessonCompletion, error) {
	var completions []model.LessonCompletion
	if err := ds.db.Order("completed_at ASC").Find(&completions).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return completions, nil
}

func (ds *SqliteService) AllGrants() ([]model.AchievementGrant, error) {
	var grants []model.AchievementGrant
	if err := ds.db.Order("awarded_at ASC").Find(&grants).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return grants, nil
}

func (ds *SqliteService) AllQuizAttempts() ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	if err := ds.db.Order("attempted_at ASC").Find(&attempts).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return attempts, nil
}
