package service

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"church-community-service/internal/fcm"
	"church-community-service/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEventNormalizesDateAndBroadcasts(t *testing.T) {
	push := &fakePush{}
	svc := newTestService(t, push)
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, &models.EventRequest{
		Title: "Culto de Celebração",
		Date:  "2027-05-01T19:30:00-03:00",
		Time:  "19:30",
	})
	require.NoError(t, err)
	assert.Equal(t, "2027-05-01", event.Date)
	assert.Nil(t, event.DateAt)

	sends := push.callsByOp("send")
	require.Len(t, sends, 1)
	assert.Equal(t, fcm.TopicEvents, sends[0].Topic)
}

func TestCreateEventPushFailureIsSwallowed(t *testing.T) {
	push := &fakePush{failSend: true}
	svc := newTestService(t, push)
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, &models.EventRequest{Title: "Vigília", Date: "2027-06-01"})
	require.NoError(t, err)
	require.NotNil(t, event)

	// The failure lands in the audit trail instead.
	runs, err := svc.ListJobRuns(ctx, 10, 0, models.JobPushBroadcast)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, models.JobStatusError, runs[0].Status)
}

func TestCreateEventRejectsBadInput(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.CreateEvent(ctx, &models.EventRequest{Title: "", Date: "2027-06-01"})
	assert.Error(t, err)

	_, err = svc.CreateEvent(ctx, &models.EventRequest{Title: "Sem Data", Date: "amanhã"})
	assert.Error(t, err)
}

func TestCreateDevotionalBroadcastsToDevotionalsTopic(t *testing.T) {
	push := &fakePush{}
	svc := newTestService(t, push)
	ctx := context.Background()

	devotional, err := svc.CreateDevotional(ctx, &models.DevotionalRequest{
		Title:   "Salmo do dia",
		Passage: "Salmos 23",
		Content: "O Senhor é o meu pastor.",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, devotional.Date) // defaults to today

	sends := push.callsByOp("send")
	require.Len(t, sends, 1)
	assert.Equal(t, fcm.TopicDevotionals, sends[0].Topic)
}

func TestTruncateBodyKeepsRunesIntact(t *testing.T) {
	long := strings.Repeat("ação", 50) // 200 runes, multi-byte throughout

	got := truncateBody(long, 120)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Equal(t, 121, utf8.RuneCountInString(got)) // 120 kept + ellipsis

	short := "Oração da manhã"
	assert.Equal(t, short, truncateBody(short, 120))
}

func TestDeleteEvent(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, &models.EventRequest{Title: "Ensaio", Date: "2027-06-01"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEvent(ctx, event.ID))
	assert.Error(t, svc.DeleteEvent(ctx, event.ID))
}
