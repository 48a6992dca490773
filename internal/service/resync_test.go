package service

import (
	"context"
	"fmt"
	"testing"

	"church-community-service/internal/fcm"
	"church-community-service/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMembersWithTokens(t *testing.T, svc *CommunityService, n int) {
	t.Helper()
	members := make([]models.Member, n)
	for i := range members {
		token := fmt.Sprintf("token-%04d", i)
		members[i] = models.Member{
			Name:     fmt.Sprintf("Membro %d", i),
			Email:    fmt.Sprintf("m%d@example.com", i),
			FCMToken: &token,
		}
	}
	require.NoError(t, svc.GetDB().CreateInBatches(members, 500).Error)
}

func TestRunTopicResyncChunksTokens(t *testing.T) {
	push := &fakePush{}
	svc := newTestService(t, push)
	ctx := context.Background()

	seedMembersWithTokens(t, svc, 2500)
	// Tokenless members are excluded from the scan.
	require.NoError(t, svc.GetDB().Create(&models.Member{Name: "Sem Token", Email: "st@example.com"}).Error)

	require.NoError(t, svc.RunTopicResync(ctx))

	topics := fcm.BroadcastTopics()
	subs := push.callsByOp("subscribe")
	// 2500 tokens chunk into 3 calls of 1000/1000/500, per topic.
	require.Len(t, subs, 3*len(topics))

	perTopic := make(map[string]int)
	total := 0
	for _, call := range subs {
		assert.LessOrEqual(t, call.Tokens, fcm.SubscribeBatchSize)
		perTopic[call.Topic] += call.Tokens
		total += call.Tokens
	}
	for _, topic := range topics {
		assert.Equal(t, 2500, perTopic[topic])
	}
	assert.Equal(t, 2500*len(topics), total)

	runs, err := svc.ListJobRuns(ctx, 10, 0, models.JobTopicResync)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, models.JobStatusSuccess, runs[0].Status)
}

func TestRunTopicResyncWithoutPush(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.RunTopicResync(ctx))

	runs, err := svc.ListJobRuns(ctx, 10, 0, models.JobTopicResync)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, models.JobStatusSuccess, runs[0].Status)
}

func TestRunTopicResyncSurvivesChunkFailures(t *testing.T) {
	push := &fakePush{failSubscribe: true}
	svc := newTestService(t, push)
	ctx := context.Background()

	seedMembersWithTokens(t, svc, 10)

	require.NoError(t, svc.RunTopicResync(ctx))

	// Every chunk was still attempted despite the failures.
	subs := push.callsByOp("subscribe")
	assert.Len(t, subs, len(fcm.BroadcastTopics()))
}
