package sns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/careerhub-api/internal/config"
)

// Publisher pushes real-time events to a per-subject channel. Delivery is
// fire-and-forget: no queueing, no retry, and a subject without subscribers
// simply drops the message.
type Publisher interface {
	Publish(ctx context.Context, subjectID, event string, payload interface{}) error
}

type publisher struct {
	client   *sns.Client
	topicARN string
}

// NewPublisher creates an SNS-backed Publisher. Subscribers filter on the
// subject_id message attribute to receive only their own channel.
func NewPublisher(cfg *config.Config) (Publisher, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, err
	}
	client := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if cfg.AWSEndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		}
	})
	return &publisher{client: client, topicARN: cfg.SNSTopicARN}, nil
}

func (p *publisher) Publish(ctx context.Context, subjectID, event string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"subject_id": {DataType: aws.String("String"), StringValue: aws.String(subjectID)},
			"event":      {DataType: aws.String("String"), StringValue: aws.String(event)},
		},
	})
	return err
}
