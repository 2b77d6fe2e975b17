// internal/common/events/publisher_test.go
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"proposal-engine/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	calls       []*sns.PublishInput
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.calls = append(m.calls, params)
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, params, optFns...)
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-1")}, nil
}

func testSelection() models.SubcontractorSelection {
	return models.SubcontractorSelection{
		ID:                  "sel-1",
		RFPID:               "rfp-42",
		Category:            "electrical",
		SelectedCandidateID: "sub-001",
		Criteria:            models.SelectionCriteria{Price: 30, Quality: 40, Schedule: 20, Experience: 10},
		Status:              models.SelectionSelected,
		LastUpdated:         time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSNSPublisher_PartnerSelected(t *testing.T) {
	mock := &MockSNSService{}
	pub := NewSNSPublisher(mock, "arn:aws:sns:us-east-1:123456789012:proposal-events")

	require.NoError(t, pub.PartnerSelected(context.Background(), testSelection()))
	require.Len(t, mock.calls, 1)

	in := mock.calls[0]
	assert.Equal(t, "arn:aws:sns:us-east-1:123456789012:proposal-events", aws.ToString(in.TopicArn))
	assert.Equal(t, EventPartnerSelected, aws.ToString(in.MessageAttributes["event"].StringValue))
	assert.Equal(t, "rfp-42", aws.ToString(in.MessageAttributes["rfpId"].StringValue))

	var env struct {
		Event   string                        `json:"event"`
		Payload models.SubcontractorSelection `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(in.Message)), &env))
	assert.Equal(t, EventPartnerSelected, env.Event)
	assert.Equal(t, "sub-001", env.Payload.SelectedCandidateID)
}

func TestSNSPublisher_PublishError(t *testing.T) {
	mock := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return nil, fmt.Errorf("throttled")
		},
	}
	err := NewSNSPublisher(mock, "arn:topic").PartnerSelected(context.Background(), testSelection())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.PartnerSelected(context.Background(), testSelection()))
}
