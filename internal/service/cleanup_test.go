package service

import (
	"context"
	"testing"

	"church-community-service/pkg/dates"
	"church-community-service/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupExpiredEvents(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	db := svc.GetDB()

	now := svc.Now()
	today := dates.Midnight(now)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)

	require.NoError(t, db.Create(&models.Event{Title: "Passado ISO", Date: dates.ISO(yesterday)}).Error)
	require.NoError(t, db.Create(&models.Event{Title: "Hoje ISO", Date: dates.ISO(today)}).Error)
	require.NoError(t, db.Create(&models.Event{Title: "Passado Legado", DateAt: &yesterday}).Error)
	require.NoError(t, db.Create(&models.Event{Title: "Futuro Legado", DateAt: &tomorrow}).Error)

	isoDeleted, legacyDeleted := svc.CleanupExpiredEvents(ctx, now)
	assert.EqualValues(t, 1, isoDeleted)
	assert.EqualValues(t, 1, legacyDeleted)

	var remaining []models.Event
	require.NoError(t, db.Order("title").Find(&remaining).Error)
	require.Len(t, remaining, 2)
	assert.Equal(t, "Futuro Legado", remaining[0].Title)
	assert.Equal(t, "Hoje ISO", remaining[1].Title)
}

func TestCleanupKeepsTodayEvents(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	db := svc.GetDB()

	now := svc.Now()
	today := dates.Midnight(now)
	require.NoError(t, db.Create(&models.Event{Title: "Culto", Date: dates.ISO(today)}).Error)
	require.NoError(t, db.Create(&models.Event{Title: "Reunião", DateAt: &today}).Error)

	isoDeleted, legacyDeleted := svc.CleanupExpiredEvents(ctx, now)
	assert.Zero(t, isoDeleted)
	assert.Zero(t, legacyDeleted)

	var count int64
	require.NoError(t, db.Model(&models.Event{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestCleanupSweepsBothRepresentations(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	db := svc.GetDB()

	now := svc.Now()
	old := dates.Midnight(now).AddDate(0, 0, -30)

	// The same stale day stored both ways: both passes must fire.
	require.NoError(t, db.Create(&models.Event{Title: "A", Date: dates.ISO(old)}).Error)
	require.NoError(t, db.Create(&models.Event{Title: "B", DateAt: &old}).Error)

	isoDeleted, legacyDeleted := svc.CleanupExpiredEvents(ctx, now)
	assert.EqualValues(t, 1, isoDeleted)
	assert.EqualValues(t, 1, legacyDeleted)
}

func TestRunEventCleanupAuditsRun(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	old := dates.Midnight(svc.Now()).AddDate(0, 0, -2)
	require.NoError(t, svc.GetDB().Create(&models.Event{Title: "Velho", Date: dates.ISO(old)}).Error)

	require.NoError(t, svc.RunEventCleanup(ctx))

	runs, err := svc.ListJobRuns(ctx, 10, 0, models.JobEventCleanup)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, models.JobStatusSuccess, runs[0].Status)
	assert.Contains(t, string(runs[0].Details), "iso_deleted")
}

func TestDeleteEventBatchIsBounded(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	db := svc.GetDB()

	now := svc.Now()
	old := dates.ISO(dates.Midnight(now).AddDate(0, 0, -1))

	events := make([]models.Event, cleanupBatchSize+25)
	for i := range events {
		events[i] = models.Event{Title: "Lote", Date: old}
	}
	require.NoError(t, db.CreateInBatches(events, 200).Error)

	isoDeleted, _ := svc.CleanupExpiredEvents(ctx, now)
	assert.EqualValues(t, cleanupBatchSize, isoDeleted)

	// Next run picks up the remainder.
	isoDeleted, _ = svc.CleanupExpiredEvents(ctx, now)
	assert.EqualValues(t, 25, isoDeleted)
}
