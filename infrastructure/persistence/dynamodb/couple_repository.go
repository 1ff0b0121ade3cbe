package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"snaptales/application/ports"
	"snaptales/domain/entities"
	"snaptales/domain/valueobjects"
	pkgerrors "snaptales/pkg/errors"
)

// CoupleRepository implements the CoupleRepository port using DynamoDB
type CoupleRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewCoupleRepository creates a new CoupleRepository
func NewCoupleRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.CoupleRepository {
	return &CoupleRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// coupleItem represents the DynamoDB item structure for a couple
type coupleItem struct {
	PK             string `dynamodbav:"PK"`
	SK             string `dynamodbav:"SK"`
	EntityType     string `dynamodbav:"EntityType"`
	CoupleID       string `dynamodbav:"CoupleID"`
	MemberAID      string `dynamodbav:"MemberAID"`
	MemberAName    string `dynamodbav:"MemberAName"`
	MemberAEmail   string `dynamodbav:"MemberAEmail"`
	MemberBID      string `dynamodbav:"MemberBID"`
	MemberBName    string `dynamodbav:"MemberBName"`
	MemberBEmail   string `dynamodbav:"MemberBEmail"`
	DisplayName    string `dynamodbav:"DisplayName"`
	Active         bool   `dynamodbav:"active"`
	CreatedBy      string `dynamodbav:"CreatedBy"`
	CreatedAt      string `dynamodbav:"CreatedAt"`
	DisconnectedAt string `dynamodbav:"DisconnectedAt,omitempty"`
	DisconnectedBy string `dynamodbav:"DisconnectedBy,omitempty"`
}

func couplePK(id valueobjects.CoupleID) string { return fmt.Sprintf("COUPLE#%s", id.String()) }

const coupleSK = "METADATA"

// itemKey builds a PK/SK key map for GetItem and transaction entries
func itemKey(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}

// FindByID loads a couple by its deterministic identity
func (r *CoupleRepository) FindByID(ctx context.Context, id valueobjects.CoupleID) (*entities.Couple, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       itemKey(couplePK(id), coupleSK),
	})
	if err != nil {
		r.logger.Error("failed to load couple",
			zap.Error(err),
			zap.String("coupleID", id.String()),
		)
		return nil, pkgerrors.NewDatabaseError("get couple", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("couple")
	}

	var item coupleItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal couple", err)
	}
	return coupleFromItem(item)
}

// Save writes the full couple record
func (r *CoupleRepository) Save(ctx context.Context, couple *entities.Couple) error {
	av, err := attributevalue.MarshalMap(coupleToItem(couple))
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal couple", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		r.logger.Error("failed to save couple",
			zap.Error(err),
			zap.String("coupleID", couple.ID().String()),
		)
		return pkgerrors.NewDatabaseError("put couple", err)
	}
	return nil
}

func coupleToItem(couple *entities.Couple) coupleItem {
	item := coupleItem{
		PK:           couplePK(couple.ID()),
		SK:           coupleSK,
		EntityType:   "COUPLE",
		CoupleID:     couple.ID().String(),
		MemberAID:    couple.MemberA().AccountID,
		MemberAName:  couple.MemberA().Name,
		MemberAEmail: couple.MemberA().Email,
		MemberBID:    couple.MemberB().AccountID,
		MemberBName:  couple.MemberB().Name,
		MemberBEmail: couple.MemberB().Email,
		DisplayName:  couple.DisplayName(),
		Active:       couple.Active(),
		CreatedBy:    couple.CreatedBy(),
		CreatedAt:    couple.CreatedAt().Format(time.RFC3339),
	}
	if couple.DisconnectedAt() != nil {
		item.DisconnectedAt = couple.DisconnectedAt().Format(time.RFC3339)
		item.DisconnectedBy = couple.DisconnectedBy()
	}
	return item
}

func coupleFromItem(item coupleItem) (*entities.Couple, error) {
	id, err := valueobjects.NewCoupleIDFromString(item.CoupleID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("decode couple id", err)
	}

	createdAt, err := time.Parse(time.RFC3339, item.CreatedAt)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("decode couple timestamps", err)
	}
	var disconnectedAt *time.Time
	if item.DisconnectedAt != "" {
		t, err := time.Parse(time.RFC3339, item.DisconnectedAt)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("decode couple timestamps", err)
		}
		disconnectedAt = &t
	}

	return entities.ReconstructCouple(
		id,
		entities.Member{AccountID: item.MemberAID, Name: item.MemberAName, Email: item.MemberAEmail},
		entities.Member{AccountID: item.MemberBID, Name: item.MemberBName, Email: item.MemberBEmail},
		item.DisplayName,
		item.Active,
		item.CreatedBy,
		createdAt,
		disconnectedAt,
		item.DisconnectedBy,
	)
}
