package history

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"room-chat-backend/internal/database"
	"room-chat-backend/internal/env"
	"room-chat-backend/internal/model"
)

type Repository interface {
	SaveMessage(ctx context.Context, message model.MessageItem) error
	ListRecent(ctx context.Context, room string, limit int) ([]model.MessageItem, error)
}

type DynamoRepository struct {
	db    *database.Database
	table string
}

func NewDynamoRepository(db *database.Database) Repository {
	return &DynamoRepository{
		db:    db,
		table: env.GetOrDefault(env.HistoryTable, model.MessagesTable),
	}
}

func (r *DynamoRepository) SaveMessage(ctx context.Context, message model.MessageItem) error {
	return r.db.Client.PutItem(ctx, r.table, message)
}

// ListRecent queries the room partition newest-first and returns up to limit
// items, still newest-first; the service flips them back to chronological.
func (r *DynamoRepository) ListRecent(ctx context.Context, room string, limit int) ([]model.MessageItem, error) {
	forward := false
	queryLimit := int32(limit)

	items, err := r.db.Client.QueryItems(
		ctx,
		r.table,
		"room = :room",
		map[string]types.AttributeValue{
			":room": &types.AttributeValueMemberS{Value: room},
		},
		nil,
		&forward,
		&queryLimit,
	)
	if err != nil {
		return nil, err
	}

	messages := make([]model.MessageItem, 0, len(items))
	for _, item := range items {
		var message model.MessageItem
		if err := attributevalue.UnmarshalMap(item, &message); err != nil {
			return nil, fmt.Errorf("unmarshal message: %w", err)
		}
		messages = append(messages, message)
	}
	return messages, nil
}
