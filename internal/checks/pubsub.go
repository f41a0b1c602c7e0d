package checks

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"

	"github.com/pulsegate/pulsegate/internal/health"
)

// PubSub reports readiness of a Pub/Sub topic the host publishes to. The
// probe asks the topic admin API for the topic, so a missing topic or broken
// credentials both surface as DOWN.
type PubSub struct {
	client  *pubsub.Client
	project string
	topic   string
}

// NewPubSub creates a check over an existing client. The check does not own
// the client and never closes it.
func NewPubSub(client *pubsub.Client, project, topic string) *PubSub {
	return &PubSub{
		client:  client,
		project: project,
		topic:   topic,
	}
}

func (c *PubSub) ID() string { return "pubsub" }

func (c *PubSub) Liveness() bool { return false }

func (c *PubSub) Readiness() bool { return true }

func (c *PubSub) Call(ctx context.Context) health.Result {
	name := fmt.Sprintf("projects/%s/topics/%s", c.project, c.topic)
	details := map[string]any{"topic": c.topic}

	_, err := c.client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: name})
	if err != nil {
		return health.Result{
			ID:      c.ID(),
			State:   health.StateDown,
			Err:     fmt.Errorf("get topic %s: %w", c.topic, err),
			Details: details,
		}
	}

	return health.Result{
		ID:      c.ID(),
		State:   health.StateUp,
		Details: details,
	}
}
