package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// sessionRecord is the DynamoDB item layout. The table's TTL attribute is
// expiresAt; State is stored as a JSON document.
type sessionRecord struct {
	ConversationID string `dynamodbav:"conversationId"`
	State          string `dynamodbav:"state"`
	UpdatedAt      string `dynamodbav:"updatedAt"`
	ExpiresAt      int64  `dynamodbav:"expiresAt"`
}

// DynamoSessionStore persists sessions to a DynamoDB table keyed by
// conversationId.
type DynamoSessionStore struct {
	client    dynamoAPI
	tableName string
	ttl       time.Duration
	now       func() time.Time
}

func NewDynamoSessionStore(client dynamoAPI, tableName string, ttl time.Duration) *DynamoSessionStore {
	if client == nil {
		panic("conversation: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("conversation: table name cannot be empty")
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &DynamoSessionStore{client: client, tableName: tableName, ttl: ttl, now: time.Now}
}

func (s *DynamoSessionStore) Save(ctx context.Context, state *State) error {
	if state == nil || state.ID == "" {
		return errors.New("conversation: session id required")
	}
	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("conversation: failed to marshal session: %w", err)
	}
	now := s.now().UTC()
	item, err := attributevalue.MarshalMap(sessionRecord{
		ConversationID: state.ID,
		State:          string(doc),
		UpdatedAt:      now.Format(time.RFC3339Nano),
		ExpiresAt:      now.Add(s.ttl).Unix(),
	})
	if err != nil {
		return fmt.Errorf("conversation: failed to marshal session item: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("conversation: failed to persist session: %w", err)
	}
	return nil
}

// Load treats items past expiresAt as missing, since DynamoDB deletes
// expired items lazily.
func (s *DynamoSessionStore) Load(ctx context.Context, id string) (*State, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            map[string]types.AttributeValue{"conversationId": &types.AttributeValueMemberS{Value: id}},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("conversation: failed to load session: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return nil, ErrSessionNotFound
	}

	var record sessionRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("conversation: failed to decode session item: %w", err)
	}
	if record.ExpiresAt > 0 && record.ExpiresAt <= s.now().Unix() {
		return nil, ErrSessionNotFound
	}

	var state State
	if err := json.Unmarshal([]byte(record.State), &state); err != nil {
		return nil, fmt.Errorf("conversation: failed to decode session: %w", err)
	}
	return &state, nil
}
