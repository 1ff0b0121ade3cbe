package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"snaptales/application/ports"
	"snaptales/domain/entities"
	"snaptales/domain/valueobjects"
	pkgerrors "snaptales/pkg/errors"
)

// MemoryRepository implements the MemoryRepository port using DynamoDB.
// Memories live under their couple's partition; the sort key encodes the
// event date, creation time and id so a reverse range query yields the
// timeline ordering directly.
type MemoryRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewMemoryRepository creates a new MemoryRepository
func NewMemoryRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.MemoryRepository {
	return &MemoryRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// memoryItem represents the DynamoDB item structure for a memory
type memoryItem struct {
	PK               string   `dynamodbav:"PK"`
	SK               string   `dynamodbav:"SK"`
	EntityType       string   `dynamodbav:"EntityType"`
	MemoryID         string   `dynamodbav:"MemoryID"`
	CoupleID         string   `dynamodbav:"CoupleID"`
	Title            string   `dynamodbav:"Title"`
	Story            string   `dynamodbav:"Story"`
	MemoryDate       string   `dynamodbav:"MemoryDate"`
	Place            string   `dynamodbav:"Place"`
	CoverImage       string   `dynamodbav:"CoverImage"`
	AdditionalImages []string `dynamodbav:"AdditionalImages"`
	CreatedBy        string   `dynamodbav:"CreatedBy"`
	CreatedAt        string   `dynamodbav:"CreatedAt"`
}

const memorySKPrefix = "MEMORY#"

// memorySK orders memories chronologically within the partition. The date
// and timestamps are fixed-width RFC 3339, so lexicographic key order is
// chronological order.
func memorySK(memory *entities.Memory) string {
	return fmt.Sprintf("%s%s#%s#%s",
		memorySKPrefix,
		memory.MemoryDate().Format("2006-01-02"),
		memory.CreatedAt().UTC().Format(time.RFC3339),
		memory.ID(),
	)
}

// Save persists a memory under its couple's partition
func (r *MemoryRepository) Save(ctx context.Context, memory *entities.Memory) error {
	item := memoryItem{
		PK:         couplePK(memory.CoupleID()),
		SK:         memorySK(memory),
		EntityType: "MEMORY",
		MemoryID:   memory.ID(),
		CoupleID:   memory.CoupleID().String(),
		Title:      memory.Title(),
		Story:      memory.Story(),
		MemoryDate: memory.MemoryDate().Format("2006-01-02"),
		Place:      memory.Place(),
		CreatedBy:  memory.CreatedBy(),
		CreatedAt:  memory.CreatedAt().Format(time.RFC3339),
	}
	if !memory.CoverImage().IsZero() {
		item.CoverImage = memory.CoverImage().String()
	}
	for _, ref := range memory.AdditionalImages() {
		item.AdditionalImages = append(item.AdditionalImages, ref.String())
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal memory", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		r.logger.Error("failed to save memory",
			zap.Error(err),
			zap.String("memoryID", memory.ID()),
			zap.String("coupleID", memory.CoupleID().String()),
		)
		return pkgerrors.NewDatabaseError("put memory", err)
	}
	return nil
}

// FindByCoupleID returns a couple's memories, most recent event first
func (r *MemoryRepository) FindByCoupleID(ctx context.Context, coupleID valueobjects.CoupleID) ([]*entities.Memory, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(couplePK(coupleID))).
		And(expression.Key("SK").BeginsWith(memorySKPrefix))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("build memory query", err)
	}

	memories := []*entities.Memory{}
	var lastEvaluatedKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ScanIndexForward:          aws.Bool(false),
			ExclusiveStartKey:         lastEvaluatedKey,
		})
		if err != nil {
			r.logger.Error("failed to query memories",
				zap.Error(err),
				zap.String("coupleID", coupleID.String()),
			)
			return nil, pkgerrors.NewDatabaseError("query memories", err)
		}

		for _, raw := range out.Items {
			var item memoryItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, pkgerrors.NewDatabaseError("unmarshal memory", err)
			}
			memory, err := memoryFromItem(item)
			if err != nil {
				return nil, err
			}
			memories = append(memories, memory)
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		lastEvaluatedKey = out.LastEvaluatedKey
	}
	return memories, nil
}

func memoryFromItem(item memoryItem) (*entities.Memory, error) {
	coupleID, err := valueobjects.NewCoupleIDFromString(item.CoupleID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("decode couple id", err)
	}

	memoryDate, err := time.Parse("2006-01-02", item.MemoryDate)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("decode memory date", err)
	}
	createdAt, err := time.Parse(time.RFC3339, item.CreatedAt)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("decode memory timestamps", err)
	}

	var coverImage valueobjects.BlobRef
	if item.CoverImage != "" {
		ref, err := valueobjects.NewBlobRef(item.CoverImage)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("decode cover image ref", err)
		}
		coverImage = ref
	}
	additional := make([]valueobjects.BlobRef, 0, len(item.AdditionalImages))
	for _, raw := range item.AdditionalImages {
		ref, err := valueobjects.NewBlobRef(raw)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("decode image ref", err)
		}
		additional = append(additional, ref)
	}

	return entities.ReconstructMemory(
		item.MemoryID,
		coupleID,
		item.Title,
		item.Story,
		memoryDate,
		item.Place,
		coverImage,
		additional,
		item.CreatedBy,
		createdAt,
	)
}
