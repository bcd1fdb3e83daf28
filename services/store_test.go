package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaywinner/academy_api/shared"
)

func TestEnsureUserKeepsProgress(t *testing.T) {
	ds := newTestStore(t)

	user, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, user.XP)
	assert.Equal(t, 1, user.Level)

	_, err = ds.AddXP("u1", 2500)
	require.NoError(t, err)

	// Re-registering refreshes the username but never the stats.
	user, err = ds.EnsureUser("u1", "alice_renamed")
	require.NoError(t, err)
	assert.Equal(t, "alice_renamed", user.Username)
	assert.Equal(t, 2500, user.XP)
	assert.Equal(t, 3, user.Level)
}

func TestAddXPComputesLevel(t *testing.T) {
	ds := newTestStore(t)

	_, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)

	user, err := ds.AddXP("u1", 999)
	require.NoError(t, err)
	assert.Equal(t, 999, user.XP)
	assert.Equal(t, 1, user.Level)

	user, err = ds.AddXP("u1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1000, user.XP)
	assert.Equal(t, 2, user.Level)
}

func TestAddXPUnknownUser(t *testing.T) {
	ds := newTestStore(t)

	_, err := ds.AddXP("ghost", 100)
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}

func TestAddXPConcurrent(t *testing.T) {
	ds := newTestStore(t)

	_, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)

	const workers = 20
	const amount = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ds.AddXP("u1", amount)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	user, err := ds.GetUser("u1")
	require.NoError(t, err)
	assert.Equal(t, workers*amount, user.XP)
	assert.Equal(t, 2, user.Level)
}

func TestUpsertCompletionIdempotent(t *testing.T) {
	ds := newTestStore(t)

	_, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)

	require.NoError(t, ds.UpsertCompletion("u1", 1, 1, 1))
	require.NoError(t, ds.UpsertCompletion("u1", 1, 1, 1))

	count, err := ds.CountCompletedLessons("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAdvanceProgressMovesPointer(t *testing.T) {
	ds := newTestStore(t)

	_, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)

	require.NoError(t, ds.AdvanceProgress("u1", 1, 1, 1))

	user, err := ds.GetUser("u1")
	require.NoError(t, err)
	assert.Equal(t, 1, user.CurrentCourse)
	assert.Equal(t, 1, user.CurrentModule)
	assert.Equal(t, 2, user.CurrentLesson)

	count, err := ds.CountCompletedLessons("u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAdvanceProgressRollsBackForUnknownUser(t *testing.T) {
	ds := newTestStore(t)

	err := ds.AdvanceProgress("ghost", 1, 1, 1)
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)

	// The completion write rolled back with the failed pointer move.
	completions, err := ds.GetCompletions("ghost")
	require.NoError(t, err)
	assert.Empty(t, completions)
}

func TestGrantAchievementDuplicate(t *testing.T) {
	ds := newTestStore(t)

	_, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)

	granted, user, err := ds.GrantAchievement("u1", "first_steps", "First Steps", shared.CategoryLessonCompletion, 50)
	require.NoError(t, err)
	assert.True(t, granted)
	require.NotNil(t, user)
	assert.Equal(t, 50, user.XP)

	// Second grant under the same key is benign and pays nothing.
	granted, _, err = ds.GrantAchievement("u1", "first_steps", "First Steps", shared.CategoryLessonCompletion, 50)
	require.NoError(t, err)
	assert.False(t, granted)

	user, err = ds.GetUser("u1")
	require.NoError(t, err)
	assert.Equal(t, 50, user.XP)
}

func TestGrantAchievementConcurrent(t *testing.T) {
	ds := newTestStore(t)

	_, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)

	const workers = 10

	var wg sync.WaitGroup
	grantedCount := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			granted, _, err := ds.GrantAchievement("u1", "quiz_ace", "Quiz Ace", shared.CategoryPerfectQuiz, 250)
			assert.NoError(t, err)
			grantedCount <- granted
		}()
	}
	wg.Wait()
	close(grantedCount)

	wins := 0
	for granted := range grantedCount {
		if granted {
			wins++
		}
	}
	assert.Equal(t, 1, wins)

	// The bonus landed exactly once.
	user, err := ds.GetUser("u1")
	require.NoError(t, err)
	assert.Equal(t, 250, user.XP)
}

func TestResetUser(t *testing.T) {
	ds := newTestStore(t)

	_, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)
	_, err = ds.AddXP("u1", 3000)
	require.NoError(t, err)
	require.NoError(t, ds.UpsertCompletion("u1", 1, 1, 1))
	_, _, err = ds.GrantAchievement("u1", "first_steps", "First Steps", shared.CategoryLessonCompletion, 0)
	require.NoError(t, err)

	require.NoError(t, ds.ResetUser("u1"))

	user, err := ds.GetUser("u1")
	require.NoError(t, err)
	assert.Equal(t, 0, user.XP)
	assert.Equal(t, 1, user.Level)
	assert.Equal(t, 1, user.CurrentCourse)

	count, err := ds.CountCompletedLessons("u1")
	require.NoError(t, err)
	assert.Zero(t, count)

	grants, err := ds.GetGrants("u1")
	require.NoError(t, err)
	assert.Empty(t, grants)
}

func TestResetUnknownUser(t *testing.T) {
	ds := newTestStore(t)

	err := ds.ResetUser("ghost")
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}

func TestLeaderboardOrder(t *testing.T) {
	ds := newTestStore(t)

	for _, u := range []struct {
		id string
		xp int
	}{{"u1", 100}, {"u2", 900}, {"u3", 400}} {
		_, err := ds.EnsureUser(u.id, u.id)
		require.NoError(t, err)
		_, err = ds.AddXP(u.id, u.xp)
		require.NoError(t, err)
	}

	users, err := ds.GetLeaderboard(2)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u2", users[0].ID)
	assert.Equal(t, "u3", users[1].ID)
}

func TestPlatformStats(t *testing.T) {
	ds := newTestStore(t)

	_, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)
	_, err = ds.EnsureUser("u2", "bob")
	require.NoError(t, err)
	_, err = ds.AddXP("u1", 300)
	require.NoError(t, err)
	require.NoError(t, ds.UpsertCompletion("u1", 1, 1, 1))

	stats, err := ds.GetPlatformStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(300), stats.TotalXP)
	assert.Equal(t, int64(1), stats.TotalCompletions)
}
