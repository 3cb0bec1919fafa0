package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"universe-backend/application/ports"
	"universe-backend/domain/core/entities"
	pkgerrors "universe-backend/pkg/errors"
	"universe-backend/pkg/utils"
)

// AccountRepository implements ports.AccountRepository using DynamoDB
type AccountRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.AccountRepository {
	return &AccountRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// accountItem represents the DynamoDB item structure for an account
type accountItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK"` // username lookup
	GSI1SK     string `dynamodbav:"GSI1SK"`
	EntityType string `dynamodbav:"EntityType"`
	AccountID  string `dynamodbav:"AccountID"`
	Username   string `dynamodbav:"Username"`
	Coins      int64  `dynamodbav:"Coins"`
	Level      int    `dynamodbav:"Level"`
	Bio        string `dynamodbav:"Bio,omitempty"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
	UpdatedAt  string `dynamodbav:"UpdatedAt"`
}

func accountPK(id string) string { return fmt.Sprintf("ACCOUNT#%s", id) }

func usernamePK(username string) string { return fmt.Sprintf("USERNAME#%s", username) }

const (
	accountMetadataSK     = "METADATA"
	usernameReservationSK = "RESERVATION"
)

// Save persists an account together with a username reservation item. The
// reservation carries a condition tying the name to this account ID, so the
// uniqueness check commits atomically with the write and two racing saves can
// never both claim the same name.
func (r *AccountRepository) Save(ctx context.Context, account *entities.Account) error {
	item := accountItem{
		PK:         accountPK(account.ID()),
		SK:         accountMetadataSK,
		GSI1PK:     usernamePK(account.Username()),
		GSI1SK:     "ACCOUNT",
		EntityType: "ACCOUNT",
		AccountID:  account.ID(),
		Username:   account.Username(),
		Coins:      account.Coins(),
		Level:      account.Level(),
		Bio:        account.Bio(),
		CreatedAt:  utils.FormatTimestamp(account.CreatedAt()),
		UpdatedAt:  utils.FormatTimestamp(account.UpdatedAt()),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName: aws.String(r.tableName),
					Item:      av,
				},
			},
			{
				Put: &types.Put{
					TableName: aws.String(r.tableName),
					Item: map[string]types.AttributeValue{
						"PK":         &types.AttributeValueMemberS{Value: usernamePK(account.Username())},
						"SK":         &types.AttributeValueMemberS{Value: usernameReservationSK},
						"EntityType": &types.AttributeValueMemberS{Value: "USERNAME"},
						"AccountID":  &types.AttributeValueMemberS{Value: account.ID()},
					},
					ConditionExpression: aws.String("attribute_not_exists(PK) OR AccountID = :accountId"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":accountId": &types.AttributeValueMemberS{Value: account.ID()},
					},
				},
			},
		},
	}

	if _, err := r.client.TransactWriteItems(ctx, input); err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			for _, reason := range canceled.CancellationReasons {
				if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
					return pkgerrors.NewConflictError("username already taken: " + account.Username())
				}
			}
		}
		r.logger.Error("failed to save account",
			zap.Error(err),
			zap.String("accountID", account.ID()),
		)
		return pkgerrors.NewStorageError("save account", err)
	}

	return nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entities.Account, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: accountPK(id)},
			"SK": &types.AttributeValueMemberS{Value: accountMetadataSK},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewStorageError("get account", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("account")
	}

	return unmarshalAccount(result.Item)
}

// GetByUsername retrieves an account by its unique username via GSI1
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*entities.Account, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("GSI1"),
		KeyConditionExpression: aws.String("GSI1PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: usernamePK(username)},
		},
		Limit: aws.Int32(1),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewStorageError("get account by username", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("account")
	}

	return unmarshalAccount(result.Items[0])
}

// Exists reports whether an account with the given ID is present
func (r *AccountRepository) Exists(ctx context.Context, id string) (bool, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: accountPK(id)},
			"SK": &types.AttributeValueMemberS{Value: accountMetadataSK},
		},
		ProjectionExpression: aws.String("PK"),
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return false, pkgerrors.NewStorageError("check account", err)
	}
	return result.Item != nil, nil
}

func unmarshalAccount(av map[string]types.AttributeValue) (*entities.Account, error) {
	var item accountItem
	if err := attributevalue.UnmarshalMap(av, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	createdAt, err := utils.ParseTimestamp(item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid account created timestamp: %w", err)
	}
	updatedAt, err := utils.ParseTimestamp(item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid account updated timestamp: %w", err)
	}

	return entities.ReconstructAccount(
		item.AccountID,
		item.Username,
		item.Coins,
		item.Level,
		item.Bio,
		createdAt,
		updatedAt,
	)
}
