// internal/common/events/publisher.go
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	awsclient "proposal-engine/internal/common/aws"
	"proposal-engine/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

const EventPartnerSelected = "partner.selected"

// Publisher announces engine decisions to downstream systems.
type Publisher interface {
	PartnerSelected(ctx context.Context, selection models.SubcontractorSelection) error
}

// Envelope is the JSON body of every published event.
type Envelope struct {
	Event      string      `json:"event"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

type SNSPublisher struct {
	client   awsclient.SNSAPI
	topicARN string
}

func NewSNSPublisher(client awsclient.SNSAPI, topicARN string) *SNSPublisher {
	return &SNSPublisher{client: client, topicARN: topicARN}
}

func (p *SNSPublisher) PartnerSelected(ctx context.Context, selection models.SubcontractorSelection) error {
	body, err := json.Marshal(Envelope{
		Event:      EventPartnerSelected,
		OccurredAt: selection.LastUpdated,
		Payload:    selection,
	})
	if err != nil {
		return fmt.Errorf("encode %s event: %w", EventPartnerSelected, err)
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event":    {DataType: aws.String("String"), StringValue: aws.String(EventPartnerSelected)},
			"rfpId":    {DataType: aws.String("String"), StringValue: aws.String(selection.RFPID)},
			"category": {DataType: aws.String("String"), StringValue: aws.String(selection.Category)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", EventPartnerSelected, p.topicARN, err)
	}
	return nil
}

// NoopPublisher is used when no event topic is configured.
type NoopPublisher struct{}

func (NoopPublisher) PartnerSelected(context.Context, models.SubcontractorSelection) error {
	return nil
}
