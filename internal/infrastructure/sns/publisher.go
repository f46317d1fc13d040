package sns

import (
	"context"
	"encoding/json"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/signal-verifier/internal/config"
	"github.com/signal-verifier/internal/domain"
)

// OutcomePublisher pushes verification outcomes onto an SNS topic. The chat
// bot process subscribes to the topic and owns all user-facing rendering and
// role assignment.
type OutcomePublisher struct {
	client   *sns.Client
	topicARN string
}

func NewOutcomePublisher(cfg *config.Config) (*OutcomePublisher, error) {
	if cfg.SNSTopicARN == "" {
		return nil, fmt.Errorf("SNS_TOPIC_ARN not configured")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &OutcomePublisher{client: sns.NewFromConfig(awsCfg), topicARN: cfg.SNSTopicARN}, nil
}

func (p *OutcomePublisher) Emit(ctx context.Context, o *domain.Outcome) error {
	body, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}
	msg := string(body)
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: &p.topicARN,
		Message:  &msg,
	})
	return err
}
