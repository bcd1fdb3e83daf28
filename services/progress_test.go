package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaywinner/academy_api/model"
	"github.com/Jaywinner/academy_api/shared"
)

func TestGrantXPBounds(t *testing.T) {
	ds, _, _, ps, _ := newTestServices(t)

	_, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)

	for _, amount := range []int{0, -5, 10001} {
		_, err := ps.GrantXP("u1", amount)
		require.Error(t, err)
		appErr, ok := shared.GetAppError(err)
		require.True(t, ok)
		assert.Equal(t, 400, appErr.StatusCode)
	}

	grant, err := ps.GrantXP("u1", 10000)
	require.NoError(t, err)
	assert.Equal(t, 10000, grant.User.XP)
}

func TestGrantXPLevelUp(t *testing.T) {
	ds, _, _, ps, _ := newTestServices(t)

	_, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)

	grant, err := ps.GrantXP("u1", 950)
	require.NoError(t, err)
	assert.False(t, grant.LeveledUp)
	assert.Equal(t, 1, grant.NewLevel)

	grant, err = ps.GrantXP("u1", 100)
	require.NoError(t, err)
	assert.True(t, grant.LeveledUp)
	assert.Equal(t, 1, grant.OldLevel)
	assert.Equal(t, 2, grant.NewLevel)
	require.Len(t, grant.NewAchievements, 1)
	assert.Equal(t, "level_2_reached", grant.NewAchievements[0].Key)
	assert.Equal(t, shared.CategoryLevelUp, grant.NewAchievements[0].Category)
}

func TestGrantXPConcurrentLevelBadgeOnce(t *testing.T) {
	ds, _, _, ps, _ := newTestServices(t)

	_, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ps.GrantXP("u1", 200)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	user, err := ds.GetUser("u1")
	require.NoError(t, err)
	assert.Equal(t, 2000, user.XP)
	assert.Equal(t, 3, user.Level)

	grants, err := ds.GetGrants("u1")
	require.NoError(t, err)
	seen := map[string]int{}
	for _, g := range grants {
		seen[g.Key]++
	}
	assert.Equal(t, 1, seen["level_2_reached"])
	assert.Equal(t, 1, seen["level_3_reached"])
}

func TestCompleteLesson(t *testing.T) {
	ds, _, _, ps, _ := newTestServices(t)

	result, err := ps.CompleteLesson("u1", "alice", 1, 1, 1)
	require.NoError(t, err)

	// 100 XP for the lesson plus the 50 XP first-lesson badge bonus.
	assert.Equal(t, 100, result.XPEarned)
	user, err := ds.GetUser("u1")
	require.NoError(t, err)
	assert.Equal(t, 150, user.XP)

	// Pointer moved to the raw successor coordinate.
	assert.Equal(t, 1, user.CurrentCourse)
	assert.Equal(t, 1, user.CurrentModule)
	assert.Equal(t, 2, user.CurrentLesson)

	require.NotNil(t, result.NextLesson)
	assert.Equal(t, model.Coordinate{Course: 1, Module: 1, Lesson: 2}, *result.NextLesson)

	keys := make([]string, 0, len(result.NewAchievements))
	for _, a := range result.NewAchievements {
		keys = append(keys, a.Key)
	}
	assert.Contains(t, keys, "first_steps")
}

func TestCompleteLessonUnknownCoordinate(t *testing.T) {
	_, _, _, ps, _ := newTestServices(t)

	_, err := ps.CompleteLesson("u1", "alice", 1, 1, 99)
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}

func TestCompleteLessonRepeatPaysAgain(t *testing.T) {
	ds, _, _, ps, _ := newTestServices(t)

	_, err := ps.CompleteLesson("u1", "alice", 1, 1, 1)
	require.NoError(t, err)
	_, err = ps.CompleteLesson("u1", "alice", 1, 1, 1)
	require.NoError(t, err)

	// XP accrues per completion call, the completion row stays unique.
	user, err := ds.GetUser("u1")
	require.NoError(t, err)
	assert.Equal(t, 250, user.XP)

	count, err := ds.CountCompletedLessons("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCompleteCourseAwardsGraduate(t *testing.T) {
	ds, _, _, ps, _ := newTestServices(t)

	for lesson := 1; lesson <= 3; lesson++ {
		_, err := ps.CompleteLesson("u1", "alice", 1, 1, lesson)
		require.NoError(t, err)
	}

	grants, err := ds.GetGrants("u1")
	require.NoError(t, err)

	keys := map[string]bool{}
	for _, g := range grants {
		keys[g.Key] = true
	}
	assert.True(t, keys["fundamentals_graduate"])
}

func TestGetProgress(t *testing.T) {
	_, _, _, ps, _ := newTestServices(t)

	_, err := ps.CompleteLesson("u1", "alice", 1, 1, 1)
	require.NoError(t, err)

	progress, err := ps.GetProgress("u1")
	require.NoError(t, err)

	assert.Equal(t, int64(1), progress.CompletedLessons)
	assert.Equal(t, progress.User.Level*1000-progress.User.XP, progress.XPToNextLevel)
	require.Len(t, progress.Courses, 4)
	assert.Equal(t, int64(1), progress.Courses[0].Completed)
	assert.Equal(t, 3, progress.Courses[0].Total)
}

func TestGetProgressUnknownUser(t *testing.T) {
	_, _, _, ps, _ := newTestServices(t)

	_, err := ps.GetProgress("ghost")
	require.Error(t, err)
}

func TestGetLeaderboardRanks(t *testing.T) {
	ds, _, _, ps, _ := newTestServices(t)

	for _, u := range []struct {
		id string
		xp int
	}{{"u1", 300}, {"u2", 700}, {"u3", 100}} {
		_, err := ds.EnsureUser(u.id, u.id)
		require.NoError(t, err)
		_, err = ds.AddXP(u.id, u.xp)
		require.NoError(t, err)
	}

	entries, err := ps.GetLeaderboard(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "u2", entries[0].UserID)
	assert.Equal(t, "u3", entries[2].UserID)
}

func TestRegisterKeepsExistingXP(t *testing.T) {
	_, _, _, ps, _ := newTestServices(t)

	_, err := ps.Register("u1", "alice")
	require.NoError(t, err)

	_, err = ps.GrantXP("u1", 500)
	require.NoError(t, err)

	user, err := ps.Register("u1", "alice2")
	require.NoError(t, err)
	assert.Equal(t, "alice2", user.Username)
	assert.Equal(t, 500, user.XP)
}
