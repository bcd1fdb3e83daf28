package services

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaywinner/academy_api/shared"
)

func TestEvaluateLessonMilestones(t *testing.T) {
	ds, _, as, _, _ := newTestServices(t)

	_, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)
	require.NoError(t, ds.UpsertCompletion("u1", 1, 1, 1))

	awarded, err := as.Evaluate("u1", "")
	require.NoError(t, err)
	require.Len(t, awarded, 1)
	assert.Equal(t, "first_steps", awarded[0].Key)

	// The 50 XP bonus landed with the grant.
	user, err := ds.GetUser("u1")
	require.NoError(t, err)
	assert.Equal(t, 50, user.XP)

	// Re-evaluating awards nothing new.
	awarded, err = as.Evaluate("u1", "")
	require.NoError(t, err)
	assert.Empty(t, awarded)
}

func TestEvaluateXPMilestone(t *testing.T) {
	ds, _, as, _, _ := newTestServices(t)

	_, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)
	_, err = ds.AddXP("u1", 600)
	require.NoError(t, err)

	awarded, err := as.Evaluate("u1", shared.CategoryXPMilestone)
	require.NoError(t, err)
	require.Len(t, awarded, 1)
	assert.Equal(t, "xp_novice", awarded[0].Key)

	user, err := ds.GetUser("u1")
	require.NoError(t, err)
	assert.Equal(t, 700, user.XP)
}

func TestEvaluateCategoryFilter(t *testing.T) {
	ds, _, as, _, _ := newTestServices(t)

	_, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)
	require.NoError(t, ds.UpsertCompletion("u1", 1, 1, 1))
	_, err = ds.AddXP("u1", 600)
	require.NoError(t, err)

	// Only the perfect-quiz table rows are considered; nothing matches.
	awarded, err := as.Evaluate("u1", shared.CategoryPerfectQuiz)
	require.NoError(t, err)
	assert.Empty(t, awarded)
}

func TestEvaluateCourseCompletion(t *testing.T) {
	ds, _, as, _, _ := newTestServices(t)

	_, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)

	// Two of three lessons done: not yet.
	require.NoError(t, ds.UpsertCompletion("u1", 1, 1, 1))
	require.NoError(t, ds.UpsertCompletion("u1", 1, 1, 2))

	awarded, err := as.Evaluate("u1", shared.CategoryCourseCompletion)
	require.NoError(t, err)
	assert.Empty(t, awarded)

	require.NoError(t, ds.UpsertCompletion("u1", 1, 1, 3))

	awarded, err = as.Evaluate("u1", shared.CategoryCourseCompletion)
	require.NoError(t, err)
	require.Len(t, awarded, 1)
	assert.Equal(t, "fundamentals_graduate", awarded[0].Key)
}

func TestBonusCrossingLevelGrantsLevelBadge(t *testing.T) {
	ds, _, as, ps, _ := newTestServices(t)

	_, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)
	_, err = ds.AddXP("u1", 980)
	require.NoError(t, err)
	require.NoError(t, ds.UpsertCompletion("u1", 1, 1, 1))

	// first_steps pays 50 XP, pushing 980 over the level boundary; the
	// level badge lands with it. xp_novice follows without a crossing.
	awarded, err := as.Evaluate("u1", "")
	require.NoError(t, err)

	keys := make([]string, 0, len(awarded))
	for _, a := range awarded {
		keys = append(keys, a.Key)
	}
	assert.Equal(t, []string{"first_steps", "level_2_reached", "xp_novice"}, keys)

	user, err := ds.GetUser("u1")
	require.NoError(t, err)
	assert.Equal(t, 1130, user.XP)
	assert.Equal(t, 2, user.Level)

	// A later grant sees the level already badged and awards nothing new.
	grant, err := ps.GrantXP("u1", 100)
	require.NoError(t, err)
	assert.False(t, grant.LeveledUp)
	assert.Empty(t, grant.NewAchievements)

	grants, err := ds.GetGrants("u1")
	require.NoError(t, err)
	badges := 0
	for _, g := range grants {
		if g.Key == "level_2_reached" {
			badges++
		}
	}
	assert.Equal(t, 1, badges)
}

func TestBonusXPCountsInXPMetric(t *testing.T) {
	ds, _, as, _, _ := newTestServices(t)

	_, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)
	require.NoError(t, ds.UpsertCompletion("u1", 1, 1, 1))

	before := testutil.ToFloat64(metricXPGranted)

	awarded, err := as.Evaluate("u1", shared.CategoryLessonCompletion)
	require.NoError(t, err)
	require.Len(t, awarded, 1)

	assert.InDelta(t, 50, testutil.ToFloat64(metricXPGranted)-before, 0.001)
}

func TestStreakAndSpecialNeverAutoAwarded(t *testing.T) {
	ds, _, as, _, _ := newTestServices(t)

	_, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)
	_, err = ds.AddXP("u1", 9999)
	require.NoError(t, err)

	awarded, err := as.Evaluate("u1", "")
	require.NoError(t, err)
	for _, a := range awarded {
		assert.NotEqual(t, shared.CategoryDailyStreak, a.Category)
		assert.NotEqual(t, shared.CategorySpecial, a.Category)
	}
}

func TestEvaluateConcurrent(t *testing.T) {
	ds, _, as, _, _ := newTestServices(t)

	_, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)
	require.NoError(t, ds.UpsertCompletion("u1", 1, 1, 1))

	var wg sync.WaitGroup
	results := make(chan int, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			awarded, err := as.Evaluate("u1", shared.CategoryLessonCompletion)
			assert.NoError(t, err)
			results <- len(awarded)
		}()
	}
	wg.Wait()
	close(results)

	// Every racer may run, but only one reports the badge as new.
	total := 0
	for n := range results {
		total += n
	}
	assert.Equal(t, 1, total)

	grants, err := ds.GetGrants("u1")
	require.NoError(t, err)
	require.Len(t, grants, 1)
}

func TestAdminAward(t *testing.T) {
	ds, _, as, _, _ := newTestServices(t)

	_, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)

	award, err := as.AdminAward("u1", "Community Hero 2026")
	require.NoError(t, err)
	assert.False(t, award.AlreadyGranted)
	assert.Equal(t, "community_hero_2026", award.Achievement.Key)
	assert.Equal(t, shared.CategorySpecial, award.Achievement.Category)
	assert.Equal(t, 300, award.Achievement.BonusXP)

	user, err := ds.GetUser("u1")
	require.NoError(t, err)
	assert.Equal(t, 300, user.XP)

	// Same title again is benign: flagged, nothing paid twice.
	again, err := as.AdminAward("u1", "Community Hero 2026")
	require.NoError(t, err)
	assert.True(t, again.AlreadyGranted)

	user, err = ds.GetUser("u1")
	require.NoError(t, err)
	assert.Equal(t, 300, user.XP)
}

func TestAdminAwardBonusCrossesLevel(t *testing.T) {
	ds, _, as, _, _ := newTestServices(t)

	_, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)
	_, err = ds.AddXP("u1", 900)
	require.NoError(t, err)

	award, err := as.AdminAward("u1", "Community Hero 2026")
	require.NoError(t, err)
	require.Len(t, award.NewAchievements, 1)
	assert.Equal(t, "level_2_reached", award.NewAchievements[0].Key)

	user, err := ds.GetUser("u1")
	require.NoError(t, err)
	assert.Equal(t, 1200, user.XP)
	assert.Equal(t, 2, user.Level)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "community_helper", slugify("Community Helper"))
	assert.Equal(t, "top_10_finisher", slugify("  Top 10% Finisher!  "))
	assert.Equal(t, "", slugify("!!!"))
}

func TestGrantLevelUpCrossesMultipleLevels(t *testing.T) {
	ds, _, as, _, _ := newTestServices(t)

	_, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)

	awarded, err := as.GrantLevelUp("u1", 1, 4)
	require.NoError(t, err)
	require.Len(t, awarded, 3)
	assert.Equal(t, "level_2_reached", awarded[0].Key)
	assert.Equal(t, "level_4_reached", awarded[2].Key)

	// Level badges never carry bonus XP.
	user, err := ds.GetUser("u1")
	require.NoError(t, err)
	assert.Zero(t, user.XP)
}

func TestGetSummary(t *testing.T) {
	ds, _, as, _, _ := newTestServices(t)

	_, err := ds.EnsureUser("u1", "alice")
	require.NoError(t, err)
	require.NoError(t, ds.UpsertCompletion("u1", 1, 1, 1))

	_, err = as.Evaluate("u1", "")
	require.NoError(t, err)

	summary, err := as.GetSummary("u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", summary.Username)
	assert.Equal(t, 1, summary.TotalAchievements)
	assert.Equal(t, int64(1), summary.CompletedLessons)
	assert.Len(t, summary.ByCategory[shared.CategoryLessonCompletion], 1)
}
