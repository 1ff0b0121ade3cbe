package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"snaptales/application/ports"
	"snaptales/domain/entities"
	"snaptales/domain/valueobjects"
	pkgerrors "snaptales/pkg/errors"
)

// ProfileRepository implements the ProfileRepository port using DynamoDB
type ProfileRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.ProfileRepository {
	return &ProfileRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// profileItem represents the DynamoDB item structure for a profile
type profileItem struct {
	PK                string `dynamodbav:"PK"`
	SK                string `dynamodbav:"SK"`
	EntityType        string `dynamodbav:"EntityType"`
	AccountID         string `dynamodbav:"AccountID"`
	Email             string `dynamodbav:"Email"`
	DisplayName       string `dynamodbav:"DisplayName"`
	Bio               string `dynamodbav:"Bio"`
	PartnerName       string `dynamodbav:"PartnerName"`
	RelationshipStart string `dynamodbav:"RelationshipStart"`
	Anniversary       string `dynamodbav:"Anniversary"`
	Location          string `dynamodbav:"Location"`
	AvatarRef         string `dynamodbav:"AvatarRef"`
	CoupleID          string `dynamodbav:"coupleId"`
	PreviousCoupleID  string `dynamodbav:"previousCoupleId"`
	Status            string `dynamodbav:"Status"`
	CreatedAt         string `dynamodbav:"CreatedAt"`
	UpdatedAt         string `dynamodbav:"UpdatedAt"`
}

func profilePK(accountID string) string { return fmt.Sprintf("ACCOUNT#%s", accountID) }

const profileSK = "PROFILE"

// FindByAccountID loads a profile by its owning account id
func (r *ProfileRepository) FindByAccountID(ctx context.Context, accountID string) (*entities.Profile, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       itemKey(profilePK(accountID), profileSK),
	})
	if err != nil {
		r.logger.Error("failed to load profile",
			zap.Error(err),
			zap.String("accountID", accountID),
		)
		return nil, pkgerrors.NewDatabaseError("get profile", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("profile")
	}

	var item profileItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal profile", err)
	}
	return profileFromItem(item)
}

// Save writes the full profile record
func (r *ProfileRepository) Save(ctx context.Context, profile *entities.Profile) error {
	av, err := attributevalue.MarshalMap(profileToItem(profile))
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal profile", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		r.logger.Error("failed to save profile",
			zap.Error(err),
			zap.String("accountID", profile.AccountID()),
		)
		return pkgerrors.NewDatabaseError("put profile", err)
	}
	return nil
}

func profileToItem(profile *entities.Profile) profileItem {
	return profileItem{
		PK:                profilePK(profile.AccountID()),
		SK:                profileSK,
		EntityType:        "PROFILE",
		AccountID:         profile.AccountID(),
		Email:             profile.Email(),
		DisplayName:       profile.DisplayName(),
		Bio:               profile.Bio(),
		PartnerName:       profile.PartnerName(),
		RelationshipStart: profile.RelationshipStart(),
		Anniversary:       profile.Anniversary(),
		Location:          profile.Location(),
		AvatarRef:         profile.AvatarRef().String(),
		CoupleID:          profile.CoupleID().String(),
		PreviousCoupleID:  profile.PreviousCoupleID().String(),
		Status:            string(profile.Status()),
		CreatedAt:         profile.CreatedAt().Format(time.RFC3339),
		UpdatedAt:         profile.UpdatedAt().Format(time.RFC3339),
	}
}

func profileFromItem(item profileItem) (*entities.Profile, error) {
	var avatarRef valueobjects.BlobRef
	if item.AvatarRef != "" {
		ref, err := valueobjects.NewBlobRef(item.AvatarRef)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("decode avatar ref", err)
		}
		avatarRef = ref
	}

	coupleID := valueobjects.CoupleID{}
	if item.CoupleID != "" {
		id, err := valueobjects.NewCoupleIDFromString(item.CoupleID)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("decode couple id", err)
		}
		coupleID = id
	}
	previousCoupleID := valueobjects.CoupleID{}
	if item.PreviousCoupleID != "" {
		id, err := valueobjects.NewCoupleIDFromString(item.PreviousCoupleID)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("decode previous couple id", err)
		}
		previousCoupleID = id
	}

	createdAt, err := time.Parse(time.RFC3339, item.CreatedAt)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("decode profile timestamps", err)
	}
	updatedAt, err := time.Parse(time.RFC3339, item.UpdatedAt)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("decode profile timestamps", err)
	}

	return entities.ReconstructProfile(
		item.AccountID,
		item.Email,
		item.DisplayName,
		item.Bio,
		item.PartnerName,
		item.RelationshipStart,
		item.Anniversary,
		item.Location,
		avatarRef,
		coupleID,
		previousCoupleID,
		entities.ProfileStatus(item.Status),
		createdAt,
		updatedAt,
	)
}
