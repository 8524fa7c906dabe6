package consumer_test

import (
	"context"
	"errors"
	"testing"

	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeReader replays messages and cancels the context once drained.
type fakeReader struct {
	msgs      []kafkago.Message
	cancel    context.CancelFunc
	committed []string
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, string(m.Key))
	}
	return nil
}

type fakeInvalidator struct {
	calls int
	err   error
}

func (f *fakeInvalidator) Invalidate(ctx context.Context) error {
	f.calls++
	return f.err
}

func message(key, value string) kafkago.Message {
	return kafkago.Message{Key: []byte(key), Value: []byte(value)}
}

func TestConsumeLeaveLifecycle(t *testing.T) {
	t.Run("invalidates on lifecycle events", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		reader := &fakeReader{cancel: cancel, msgs: []kafkago.Message{
			message("a", `{"event_type":"`+events.LeaveRequestCreated+`","leave_request_id":"r1"}`),
			message("b", `{"event_type":"`+events.LeaveRequestDecided+`","leave_request_id":"r1"}`),
			message("c", `{"event_type":"something_else"}`),
			message("d", `not json`),
		}}
		reports := &fakeInvalidator{}

		consumer.ConsumeLeaveLifecycle(ctx, reader, reports, zap.NewNop())

		assert.Equal(t, 2, reports.calls)
		assert.Equal(t, []string{"a", "b", "c", "d"}, reader.committed)
	})

	t.Run("leaves message uncommitted when invalidation fails", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		reader := &fakeReader{cancel: cancel, msgs: []kafkago.Message{
			message("a", `{"event_type":"`+events.LeaveRequestDecided+`"}`),
		}}
		reports := &fakeInvalidator{err: errors.New("redis down")}

		consumer.ConsumeLeaveLifecycle(ctx, reader, reports, zap.NewNop())

		assert.Equal(t, 1, reports.calls)
		assert.Empty(t, reader.committed)
	})
}

func TestConsumeWorkflowAnomaly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reader := &fakeReader{cancel: cancel, msgs: []kafkago.Message{
		message("a", `{"event_type":"`+events.WorkflowAnomaly+`","approval_id":"x","reason":"leave request missing"}`),
		message("b", `{`),
	}}

	consumer.ConsumeWorkflowAnomaly(ctx, reader, zap.NewNop())

	assert.Equal(t, []string{"a", "b"}, reader.committed)
}
