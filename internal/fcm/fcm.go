// internal/fcm/fcm.go
package fcm

import (
	"context"
	"fmt"
	"log"
	"strconv"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// Broadcast topics every member token is kept subscribed to.
const (
	TopicEvents      = "events"
	TopicDevotionals = "devotionals"
)

// BroadcastTopics returns the full topic set in a stable order.
func BroadcastTopics() []string {
	return []string{TopicEvents, TopicDevotionals}
}

// SubscribeBatchSize is FCM's per-call cap for topic management.
const SubscribeBatchSize = 1000

type FCMClient struct {
	client *messaging.Client
}

func NewFCMClient(ctx context.Context, credentialsJSON []byte) (*FCMClient, error) {
	conf := &firebase.Config{}
	app, err := firebase.NewApp(ctx, conf, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("firebase init failed: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("messaging client init failed: %w", err)
	}

	return &FCMClient{client: messagingClient}, nil
}

// convertDataToStringMap safely converts map[string]interface{} → map[string]string
func convertDataToStringMap(data map[string]interface{}) map[string]string {
	result := make(map[string]string)
	for k, v := range data {
		switch val := v.(type) {
		case string:
			result[k] = val
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			result[k] = fmt.Sprintf("%d", val)
		case float32, float64:
			result[k] = fmt.Sprintf("%f", val)
		case bool:
			result[k] = strconv.FormatBool(val)
		default:
			result[k] = fmt.Sprintf("%v", val) // fallback to string representation
		}
	}
	return result
}

func intPtr(i int) *int {
	return &i
}

// SendToTopic broadcasts a notification to every token subscribed to topic.
func (f *FCMClient) SendToTopic(ctx context.Context, topic, title, body string, data map[string]interface{}) error {
	stringData := convertDataToStringMap(data)
	badge := intPtr(1)

	message := &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: stringData,
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
					Badge: badge,
				},
			},
		},
		Android: &messaging.AndroidConfig{
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
			Priority: "high",
		},
	}

	resp, err := f.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("FCM topic send failed: %w", err)
	}
	log.Printf("✅ FCM sent to topic %q → msg ID: %s", topic, resp)
	return nil
}

// SubscribeToTopic subscribes one batch of tokens (≤ SubscribeBatchSize)
// to topic in a single API call, returning the per-token success and
// failure counts. Callers chunk larger token sets with ChunkTokens.
func (f *FCMClient) SubscribeToTopic(ctx context.Context, tokens []string, topic string) (ok, failed int, err error) {
	resp, err := f.client.SubscribeToTopic(ctx, tokens, topic)
	if err != nil {
		return 0, len(tokens), fmt.Errorf("FCM subscribe to %q failed: %w", topic, err)
	}
	for _, e := range resp.Errors {
		log.Printf("⚠️ FCM subscribe to %q: token idx %d failed: %s", topic, e.Index, e.Reason)
	}
	return resp.SuccessCount, resp.FailureCount, nil
}

// UnsubscribeFromTopic removes one batch of tokens from topic with the
// same semantics as SubscribeToTopic.
func (f *FCMClient) UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) (ok, failed int, err error) {
	resp, err := f.client.UnsubscribeFromTopic(ctx, tokens, topic)
	if err != nil {
		return 0, len(tokens), fmt.Errorf("FCM unsubscribe from %q failed: %w", topic, err)
	}
	for _, e := range resp.Errors {
		log.Printf("⚠️ FCM unsubscribe from %q: token idx %d failed: %s", topic, e.Index, e.Reason)
	}
	return resp.SuccessCount, resp.FailureCount, nil
}

// ChunkTokens splits tokens into slices of at most size elements.
func ChunkTokens(tokens []string, size int) [][]string {
	if len(tokens) == 0 {
		return nil
	}
	var chunks [][]string
	for i := 0; i < len(tokens); i += size {
		end := i + size
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, tokens[i:end])
	}
	return chunks
}

// MaskToken hides all but last 6 chars for logging safety
func MaskToken(token string) string {
	if len(token) <= 6 {
		return token
	}
	return "..." + token[len(token)-6:]
}
