package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"church-community-service/internal/config"
	"church-community-service/internal/email"
	"church-community-service/internal/whatsapp"
	"church-community-service/pkg/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Member{},
		&models.Event{},
		&models.Devotional{},
		&models.WhatsAppMessage{},
		&models.JobRunLog{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Timezone:     "America/Sao_Paulo",
		DigestHour:   8,
		DigestMinute: 0,
	}
}

func newTestService(t *testing.T, push PushClient) *CommunityService {
	t.Helper()
	cfg := testConfig()
	db := openTestDB(t)
	return NewCommunityService(cfg, db, email.NewSender(cfg), whatsapp.NewSender(db, ""), push, nil)
}

// pushCall records one push API invocation for assertions.
type pushCall struct {
	Op     string // "send", "subscribe", "unsubscribe"
	Topic  string
	Tokens int
}

// fakePush implements PushClient, counting calls and optionally failing.
type fakePush struct {
	mu             sync.Mutex
	calls          []pushCall
	failSend       bool
	failSubscribe  bool
	failUnsubsribe bool
}

func (f *fakePush) SendToTopic(ctx context.Context, topic, title, body string, data map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, pushCall{Op: "send", Topic: topic})
	if f.failSend {
		return fmt.Errorf("send to %s failed", topic)
	}
	return nil
}

func (f *fakePush) SubscribeToTopic(ctx context.Context, tokens []string, topic string) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, pushCall{Op: "subscribe", Topic: topic, Tokens: len(tokens)})
	if f.failSubscribe {
		return 0, len(tokens), fmt.Errorf("subscribe to %s failed", topic)
	}
	return len(tokens), 0, nil
}

func (f *fakePush) UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, pushCall{Op: "unsubscribe", Topic: topic, Tokens: len(tokens)})
	if f.failUnsubsribe {
		return 0, len(tokens), fmt.Errorf("unsubscribe from %s failed", topic)
	}
	return len(tokens), 0, nil
}

func (f *fakePush) callsByOp(op string) []pushCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []pushCall
	for _, c := range f.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}
