package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Jaywinner/academy_api/model"
)

// newTestStore opens a fresh in-memory database per test. A single
// connection keeps sqlite from returning lock errors under the concurrency
// tests while still exercising the atomic UPDATE paths.
func newTestStore(t *testing.T) *SqliteService {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.LessonCompletion{},
		&model.AchievementGrant{},
		&model.QuizAttempt{},
	))

	return &SqliteService{db: db}
}

// newTestServices wires the service graph by hand, bypassing the container.
// The redis service carries no client, so cache reads miss and writes are
// dropped with a warning.
func newTestServices(t *testing.T) (*SqliteService, *ContentService, *AchievementService, *ProgressService, *QuizService) {
	t.Helper()

	ds := newTestStore(t)
	cs := &ContentService{courses: defaultCatalog()}
	as := &AchievementService{sqlSvc: ds, contentSvc: cs}
	ps := &ProgressService{sqlSvc: ds, contentSvc: cs, achievementSvc: as, redisSvc: &RedisService{}}
	qs := &QuizService{
		sqlSvc:         ds,
		contentSvc:     cs,
		achievementSvc: as,
		progressSvc:    ps,
		sessions:       make(map[string]*QuizSession),
	}

	return ds, cs, as, ps, qs
}
