package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) { goleak.VerifyTestMain(m) }

func TestMemoryDropsWhenFull(t *testing.T) {
	m := NewInMemory(1)
	require.NoError(t, m.Publish(context.Background(), Submission{ID: "a"}))
	require.NoError(t, m.Publish(context.Background(), Submission{ID: "b"}))
	got := <-m.Subscribe()
	assert.Equal(t, "a", got.ID)
	assert.Empty(t, m.Subscribe())
}

func TestSinkLogsUntilCancelled(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewInMemory(4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		(&Sink{Source: m, Log: zap.New(core)}).Run(ctx)
		close(done)
	}()

	require.NoError(t, m.Publish(ctx, Submission{ID: "s1", Kind: "vendor", Reference: "a@b.co"}))
	require.Eventually(t, func() bool { return logs.Len() == 1 }, time.Second, 5*time.Millisecond)
	entry := logs.All()[0]
	assert.Equal(t, "submission accepted", entry.Message)
	assert.Equal(t, "vendor", entry.ContextMap()["kind"])

	cancel()
	<-done
}

func TestAMQPMessage(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	evt := Submission{ID: "id-1", Kind: "tenant", Reference: "x@y.z", At: at}
	msg, err := message(evt)
	require.NoError(t, err)
	assert.Equal(t, "submission.tenant", msg.Type)
	assert.Equal(t, "id-1", msg.MessageId)
	assert.Equal(t, at, msg.Timestamp)

	var back Submission
	require.NoError(t, json.Unmarshal(msg.Body, &back))
	assert.Equal(t, evt, back)
}

func TestNewAMQPRequiresURL(t *testing.T) {
	_, err := NewAMQP(AMQPConfig{})
	assert.Error(t, err)
}
