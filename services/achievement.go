// services/achievement.go
package services

import (
	"fmt"
	"strings"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/Jaywinner/academy_api/dto"
	"github.com/Jaywinner/academy_api/model"
	"github.com/Jaywinner/academy_api/shared"
)

// achievementTable is the declarative badge table. Key is the stable
// identifier grants are recorded under; Name is display-only and may change
// without re-awarding anything. The table is ordered; evaluation walks it
// top to bottom and newly earned badges are reported in this order.
var achievementTable = []dto.Achievement{
	{Key: "first_steps", Name: "First Steps", Description: "Complete your first lesson", Category: shared.CategoryLessonCompletion, Requirement: 1, BonusXP: 50},
	{Key: "knowledge_seeker", Name: "Knowledge Seeker", Description: "Complete 5 lessons", Category: shared.CategoryLessonCompletion, Requirement: 5, BonusXP: 100},
	{Key: "cyber_student", Name: "Cyber Student", Description: "Complete 10 lessons", Category: shared.CategoryLessonCompletion, Requirement: 10, BonusXP: 200},
	{Key: "security_scholar", Name: "Security Scholar", Description: "Complete 25 lessons", Category: shared.CategoryLessonCompletion, Requirement: 25, BonusXP: 500},

	{Key: "xp_novice", Name: "XP Novice", Description: "Earn 500 XP", Category: shared.CategoryXPMilestone, Requirement: 500, BonusXP: 100},
	{Key: "xp_apprentice", Name: "XP Apprentice", Description: "Earn 1,500 XP", Category: shared.CategoryXPMilestone, Requirement: 1500, BonusXP: 200},
	{Key: "xp_expert", Name: "XP Expert", Description: "Earn 5,000 XP", Category: shared.CategoryXPMilestone, Requirement: 5000, BonusXP: 500},
	{Key: "xp_master", Name: "XP Master", Description: "Earn 10,000 XP", Category: shared.CategoryXPMilestone, Requirement: 10000, BonusXP: 1000},

	{Key: "fundamentals_graduate", Name: "Fundamentals Graduate", Description: "Complete Cybersecurity Fundamentals course", Category: shared.CategoryCourseCompletion, Requirement: 1, BonusXP: 300},
	{Key: "password_master", Name: "Password Master", Description: "Complete Password Security Mastery course", Category: shared.CategoryCourseCompletion, Requirement: 2, BonusXP: 300},
	{Key: "phishing_defender", Name: "Phishing Defender", Description: "Complete Phishing Defense Academy course", Category: shared.CategoryCourseCompletion, Requirement: 3, BonusXP: 300},
	{Key: "network_guardian", Name: "Network Guardian", Description: "Complete Network Security Basics course", Category: shared.CategoryCourseCompletion, Requirement: 4, BonusXP: 400},

	{Key: "quiz_ace", Name: "Quiz Ace", Description: "Score 100% on 5 quizzes", Category: shared.CategoryPerfectQuiz, Requirement: 5, BonusXP: 250},
	{Key: "quiz_champion", Name: "Quiz Champion", Description: "Score 100% on 15 quizzes", Category: shared.CategoryPerfectQuiz, Requirement: 15, BonusXP: 500},

	{Key: "daily_learner", Name: "Daily Learner", Description: "Complete lessons 3 days in a row", Category: shared.CategoryDailyStreak, Requirement: 3, BonusXP: 150},
	{Key: "dedicated_student", Name: "Dedicated Student", Description: "Complete lessons 7 days in a row", Category: shared.CategoryDailyStreak, Requirement: 7, BonusXP: 350},

	{Key: "early_adopter", Name: "Early Adopter", Description: "One of the first 100 users", Category: shared.CategorySpecial, Requirement: 100, BonusXP: 200},
	{Key: "community_helper", Name: "Community Helper", Description: "Help other learners in the community", Category: shared.CategorySpecial, Requirement: 1, BonusXP: 300},
}

type AchievementService struct {
	context.DefaultService

	sqlSvc     *SqliteService
	contentSvc *ContentService
}

const ACHIEVEMENT_SVC = "achievement_svc"

func (svc AchievementService) Id() string {
	return ACHIEVEMENT_SVC
}

func (svc *AchievementService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AchievementService) Start() error {
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	svc.contentSvc = svc.Service(CONTENT_SVC).(*ContentService)
	return nil
}

// Definitions returns the full badge table.
func (svc *AchievementService) Definitions() []dto.Achievement {
	return achievementTable
}

// ==================== EVALUATION ====================

// Evaluate walks the badge table and awards anything the user now
// qualifies for. An empty category restricts nothing. Streak and special
// badges have no automatic predicate and are only granted by admins.
//
// User stats are read once at the top, so a bonus from one badge never
// cascades into an XP milestone inside the same pass; the milestone lands
// on the next evaluation instead.
func (svc *AchievementService) Evaluate(userID string, category string) ([]dto.Achievement, error) {
	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, err
	}

	held, err := svc.sqlSvc.GrantKeys(userID)
	if err != nil {
		return nil, err
	}

	var awarded []dto.Achievement
	for _, def := range achievementTable {
		if held[def.Key] {
			continue
		}
		if category != "" && def.Category != category {
			continue
		}

		earned, err := svc.qualifies(user, def)
		if err != nil {
			return nil, err
		}
		if !earned {
			continue
		}

		granted, levelBadges, err := svc.award(userID, def)
		if err != nil {
			return nil, err
		}
		if !granted {
			// Lost the race to a concurrent evaluation; not newly awarded.
			continue
		}

		log.WithFields(log.Fields{
			"user_id":     userID,
			"achievement": def.Key,
			"bonus_xp":    def.BonusXP,
		}).Info("Achievement awarded")

		awarded = append(awarded, def)
		awarded = append(awarded, levelBadges...)
	}

	return awarded, nil
}

// award records the grant and, when its bonus XP pushes the user over a
// level boundary, hands out the crossed level badges as well. Bonus XP goes
// through the same store path as any other grant, so the level badge side
// effect must not be skipped here.
func (svc *AchievementService) award(userID string, def dto.Achievement) (bool, []dto.Achievement, error) {
	granted, user, err := svc.sqlSvc.GrantAchievement(userID, def.Key, def.Name, def.Category, def.BonusXP)
	if err != nil || !granted {
		return false, nil, err
	}

	metricAchievementsAwarded.WithLabelValues(def.Category).Inc()

	var levelBadges []dto.Achievement
	if user != nil {
		oldLevel := ((user.XP - def.BonusXP) / xpPerLevel) + 1
		if user.Level > oldLevel {
			levelBadges, err = svc.GrantLevelUp(userID, oldLevel, user.Level)
			if err != nil {
				return true, nil, err
			}
		}
	}
	return true, levelBadges, nil
}

func (svc *AchievementService) qualifies(user *model.User, def dto.Achievement) (bool, error) {
	switch def.Category {
	case shared.CategoryXPMilestone:
		return user.XP >= def.Requirement, nil

	case shared.CategoryLessonCompletion:
		completed, err := svc.sqlSvc.CountCompletedLessons(user.ID)
		if err != nil {
			return false, err
		}
		return completed >= int64(def.Requirement), nil

	case shared.CategoryCourseCompletion:
		total, err := svc.contentSvc.CourseLessonCount(def.Requirement)
		if err != nil {
			// Badge points at a course the catalog no longer has.
			return false, nil
		}
		completed, err := svc.sqlSvc.CountCompletedLessonsInCourse(user.ID, def.Requirement)
		if err != nil {
			return false, err
		}
		return completed >= int64(total), nil

	case shared.CategoryPerfectQuiz:
		perfect, err := svc.sqlSvc.CountPerfectQuizzes(user.ID)
		if err != nil {
			return false, err
		}
		return perfect >= int64(def.Requirement), nil

	default:
		return false, nil
	}
}

// GrantLevelUp awards the synthetic "Level N Reached" badge for every level
// crossed by an XP grant. These are generated, not table entries, and carry
// no bonus XP so they cannot recurse.
func (svc *AchievementService) GrantLevelUp(userID string, oldLevel, newLevel int) ([]dto.Achievement, error) {
	var awarded []dto.Achievement
	for lvl := oldLevel + 1; lvl <= newLevel; lvl++ {
		def := dto.Achievement{
			Key:      fmt.Sprintf("level_%d_reached", lvl),
			Name:     fmt.Sprintf("Level %d Reached", lvl),
			Category: shared.CategoryLevelUp,
		}

		granted, _, err := svc.sqlSvc.GrantAchievement(userID, def.Key, def.Name, def.Category, 0)
		if err != nil {
			return nil, err
		}
		if granted {
			metricAchievementsAwarded.WithLabelValues(def.Category).Inc()
			awarded = append(awarded, def)
		}
	}
	return awarded, nil
}

// AdminAward hands out a named special badge with a fixed 300 XP bonus. The
// grant key is the slugged name; re-awarding the same title is reported as
// already granted, with nothing paid twice.
func (svc *AchievementService) AdminAward(userID, name string) (*dto.AdminAwardResponse, error) {
	key := slugify(name)
	if key == "" {
		return nil, shared.NewBadRequestError(fmt.Errorf("empty achievement name"), "Achievement name required")
	}

	def := dto.Achievement{
		Key:      key,
		Name:     name,
		Category: shared.CategorySpecial,
		BonusXP:  300,
	}

	granted, levelBadges, err := svc.award(userID, def)
	if err != nil {
		return nil, err
	}

	return &dto.AdminAwardResponse{
		Achievement:     def,
		AlreadyGranted:  !granted,
		NewAchievements: levelBadges,
	}, nil
}

func slugify(name string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// ==================== SUMMARY ====================

func (svc *AchievementService) GetSummary(userID string) (*dto.AchievementSummaryResponse, error) {
	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, err
	}

	grants, err := svc.sqlSvc.GetGrants(userID)
	if err != nil {
		return nil, err
	}

	completed, err := svc.sqlSvc.CountCompletedLessons(userID)
	if err != nil {
		return nil, err
	}

	perfect, err := svc.sqlSvc.CountPerfectQuizzes(userID)
	if err != nil {
		return nil, err
	}

	byCategory := map[string][]model.AchievementGrant{
		shared.CategoryXPMilestone:      {},
		shared.CategoryLessonCompletion: {},
		shared.CategoryCourseCompletion: {},
		shared.CategoryPerfectQuiz:      {},
		shared.CategoryDailyStreak:      {},
		shared.CategorySpecial:          {},
		shared.CategoryLevelUp:          {},
	}
	for _, g := range grants {
		byCategory[g.Category] = append(byCategory[g.Category], g)
	}

	return &dto.AchievementSummaryResponse{
		Username:          user.Username,
		XP:                user.XP,
		Level:             user.Level,
		TotalAchievements: len(grants),
		CompletedLessons:  completed,
		PerfectQuizzes:    perfect,
		ByCategory:        byCategory,
	}, nil
}
