package dynamodb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"snaptales/application/ports"
	"snaptales/domain/entities"
	pkgerrors "snaptales/pkg/errors"
	"snaptales/pkg/utils"
)

// PairingStore implements the PairingStore port with a single
// TransactWriteItems call per operation, so the couple record and both
// pairing pointers change atomically. No half-linked state is ever
// observable, even under racing initiators.
type PairingStore struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewPairingStore creates a new PairingStore
func NewPairingStore(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.PairingStore {
	return &PairingStore{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Link writes the couple record and both members' pairing pointers in one
// transaction. The couple Put tolerates an inactive record under the same
// identity, which is how re-pairing the same two accounts reactivates their
// shared history. Each profile update is conditioned on the pointer still
// being empty, so a concurrent pairing of either member cancels the whole
// transaction.
func (s *PairingStore) Link(ctx context.Context, couple *entities.Couple) error {
	coupleAV, err := attributevalue.MarshalMap(coupleToItem(couple))
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal couple", err)
	}

	coupleID := couple.ID().String()
	items := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(s.tableName),
				Item:                coupleAV,
				ConditionExpression: aws.String("attribute_not_exists(PK) OR active = :inactive"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":inactive": &types.AttributeValueMemberBOOL{Value: false},
				},
			},
		},
		linkProfileUpdate(s.tableName, couple.MemberA().AccountID, coupleID),
		linkProfileUpdate(s.tableName, couple.MemberB().AccountID, coupleID),
	}

	if _, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	}); err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			s.logger.Warn("pairing transaction canceled",
				zap.String("coupleID", coupleID),
				zap.Error(err),
			)
			if hasConditionalCheckFailure(canceled) {
				return pkgerrors.NewAlreadyPairedError(couple.CreatedBy())
			}
			return pkgerrors.NewUnavailableError("pairing store")
		}
		s.logger.Error("pairing transaction failed",
			zap.Error(err),
			zap.String("coupleID", coupleID),
		)
		return pkgerrors.NewDatabaseError("link couple", err)
	}
	return nil
}

// Unlink writes the deactivated couple record and clears both members'
// pairing pointers in one transaction. Each profile update is conditioned on
// the pointer still referencing this couple; the cleared pointer is retained
// as the previous couple so former members keep read access to the timeline.
func (s *PairingStore) Unlink(ctx context.Context, couple *entities.Couple) error {
	coupleAV, err := attributevalue.MarshalMap(coupleToItem(couple))
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal couple", err)
	}

	coupleID := couple.ID().String()
	items := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName: aws.String(s.tableName),
				Item:      coupleAV,
			},
		},
		unlinkProfileUpdate(s.tableName, couple.MemberA().AccountID, coupleID),
		unlinkProfileUpdate(s.tableName, couple.MemberB().AccountID, coupleID),
	}

	if _, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	}); err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			s.logger.Warn("unpairing transaction canceled",
				zap.String("coupleID", coupleID),
				zap.Error(err),
			)
			if hasConditionalCheckFailure(canceled) {
				return pkgerrors.NewConsistencyError("pairing pointers changed while disconnecting")
			}
			return pkgerrors.NewUnavailableError("pairing store")
		}
		s.logger.Error("unpairing transaction failed",
			zap.Error(err),
			zap.String("coupleID", coupleID),
		)
		return pkgerrors.NewDatabaseError("unlink couple", err)
	}
	return nil
}

// hasConditionalCheckFailure reports whether a canceled transaction was
// rejected by one of its condition expressions. Cancellations without a
// failed condition (conflicts, throttling) are transient and retryable.
func hasConditionalCheckFailure(canceled *types.TransactionCanceledException) bool {
	for _, reason := range canceled.CancellationReasons {
		if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
			return true
		}
	}
	return false
}

func linkProfileUpdate(tableName, accountID, coupleID string) types.TransactWriteItem {
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName:           aws.String(tableName),
			Key:                 itemKey(profilePK(accountID), profileSK),
			UpdateExpression:    aws.String("SET coupleId = :cid, UpdatedAt = :now"),
			ConditionExpression: aws.String("attribute_exists(PK) AND (attribute_not_exists(coupleId) OR coupleId = :empty)"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":cid":   &types.AttributeValueMemberS{Value: coupleID},
				":empty": &types.AttributeValueMemberS{Value: ""},
				":now":   &types.AttributeValueMemberS{Value: utils.NowRFC3339()},
			},
		},
	}
}

func unlinkProfileUpdate(tableName, accountID, coupleID string) types.TransactWriteItem {
	return types.TransactWriteItem{
		Update: &types.Update{
			TableName:           aws.String(tableName),
			Key:                 itemKey(profilePK(accountID), profileSK),
			UpdateExpression:    aws.String("SET coupleId = :empty, previousCoupleId = :cid, UpdatedAt = :now"),
			ConditionExpression: aws.String("attribute_exists(PK) AND coupleId = :cid"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":cid":   &types.AttributeValueMemberS{Value: coupleID},
				":empty": &types.AttributeValueMemberS{Value: ""},
				":now":   &types.AttributeValueMemberS{Value: utils.NowRFC3339()},
			},
		},
	}
}
