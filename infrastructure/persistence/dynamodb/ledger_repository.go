package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"universe-backend/application/ports"
	"universe-backend/domain/core/entities"
	"universe-backend/domain/core/valueobjects"
	pkgerrors "universe-backend/pkg/errors"
	"universe-backend/pkg/utils"
)

// LedgerRepository implements ports.LedgerRepository using DynamoDB.
// ApplyTransfer relies on TransactWriteItems: the sender debit carries a
// balance condition, so the debit, the credit and the record item commit
// together or the whole transaction is canceled.
type LedgerRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.LedgerRepository {
	return &LedgerRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// transactionItem represents the DynamoDB item structure for a ledger record
type transactionItem struct {
	PK            string `dynamodbav:"PK"`
	SK            string `dynamodbav:"SK"`
	GSI1PK        string `dynamodbav:"GSI1PK"` // LEDGER#<senderID>
	GSI1SK        string `dynamodbav:"GSI1SK"` // TS#<ts>#<id>
	GSI2PK        string `dynamodbav:"GSI2PK"` // LEDGER#<recipientID>
	GSI2SK        string `dynamodbav:"GSI2SK"` // TS#<ts>#<id>
	EntityType    string `dynamodbav:"EntityType"`
	TransactionID string `dynamodbav:"TransactionID"`
	SenderID      string `dynamodbav:"SenderID"`
	RecipientID   string `dynamodbav:"RecipientID"`
	Amount        int64  `dynamodbav:"Amount"`
	Kind          string `dynamodbav:"Kind"`
	Timestamp     string `dynamodbav:"Timestamp"`
}

func transactionPK(id string) string { return fmt.Sprintf("TX#%s", id) }

const transactionMetadataSK = "METADATA"

// ApplyTransfer atomically debits the sender, credits the recipient and
// appends the ledger record
func (r *LedgerRepository) ApplyTransfer(ctx context.Context, tx *entities.Transaction) error {
	item := transactionItem{
		PK:            transactionPK(tx.ID()),
		SK:            transactionMetadataSK,
		GSI1PK:        fmt.Sprintf("LEDGER#%s", tx.SenderID()),
		GSI1SK:        fmt.Sprintf("TS#%s#%s", utils.FormatTimestamp(tx.Timestamp()), tx.ID()),
		GSI2PK:        fmt.Sprintf("LEDGER#%s", tx.RecipientID()),
		GSI2SK:        fmt.Sprintf("TS#%s#%s", utils.FormatTimestamp(tx.Timestamp()), tx.ID()),
		EntityType:    "TRANSACTION",
		TransactionID: tx.ID(),
		SenderID:      tx.SenderID(),
		RecipientID:   tx.RecipientID(),
		Amount:        tx.Amount().Coins(),
		Kind:          string(tx.Kind()),
		Timestamp:     utils.FormatTimestamp(tx.Timestamp()),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	amount := &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", tx.Amount().Coins())}
	now := &types.AttributeValueMemberS{Value: utils.FormatTimestamp(time.Now())}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Debit, conditional on the live balance covering the amount
				Update: &types.Update{
					TableName: aws.String(r.tableName),
					Key: map[string]types.AttributeValue{
						"PK": &types.AttributeValueMemberS{Value: accountPK(tx.SenderID())},
						"SK": &types.AttributeValueMemberS{Value: accountMetadataSK},
					},
					UpdateExpression:    aws.String("SET Coins = Coins - :amount, UpdatedAt = :now"),
					ConditionExpression: aws.String("attribute_exists(PK) AND Coins >= :amount"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount": amount,
						":now":    now,
					},
				},
			},
			{
				Update: &types.Update{
					TableName: aws.String(r.tableName),
					Key: map[string]types.AttributeValue{
						"PK": &types.AttributeValueMemberS{Value: accountPK(tx.RecipientID())},
						"SK": &types.AttributeValueMemberS{Value: accountMetadataSK},
					},
					UpdateExpression:    aws.String("SET Coins = Coins + :amount, UpdatedAt = :now"),
					ConditionExpression: aws.String("attribute_exists(PK)"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount": amount,
						":now":    now,
					},
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(r.tableName),
					Item:                av,
					ConditionExpression: aws.String("attribute_not_exists(PK)"),
				},
			},
		},
	}

	if _, err := r.client.TransactWriteItems(ctx, input); err != nil {
		return r.mapTransferError(ctx, tx, err)
	}

	r.logger.Info("transfer committed",
		zap.String("transactionID", tx.ID()),
		zap.String("senderID", tx.SenderID()),
		zap.String("recipientID", tx.RecipientID()),
		zap.Int64("amount", tx.Amount().Coins()),
	)

	return nil
}

// mapTransferError turns a canceled transaction into a domain error. The
// cancellation reasons line up with the TransactItems order: sender debit,
// recipient credit, record put.
func (r *LedgerRepository) mapTransferError(ctx context.Context, tx *entities.Transaction, err error) error {
	var canceled *types.TransactionCanceledException
	if !errors.As(err, &canceled) {
		return pkgerrors.NewStorageError("apply transfer", err)
	}

	reasons := canceled.CancellationReasons
	conditionFailed := func(i int) bool {
		return i < len(reasons) && reasons[i].Code != nil && *reasons[i].Code == "ConditionalCheckFailed"
	}

	switch {
	case conditionFailed(0):
		balance := r.senderBalance(ctx, tx.SenderID())
		if balance < 0 {
			return pkgerrors.NewNotFoundError("account")
		}
		return pkgerrors.NewInsufficientFundsError(balance, tx.Amount().Coins())
	case conditionFailed(1):
		return pkgerrors.NewNotFoundError("account")
	case conditionFailed(2):
		return pkgerrors.NewConflictError("transaction already recorded: " + tx.ID())
	default:
		return pkgerrors.NewStorageError("apply transfer", err)
	}
}

// senderBalance reads the sender's live balance for error details. Returns
// -1 when the account item is missing.
func (r *LedgerRepository) senderBalance(ctx context.Context, senderID string) int64 {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: accountPK(senderID)},
			"SK": &types.AttributeValueMemberS{Value: accountMetadataSK},
		},
		ProjectionExpression: aws.String("Coins"),
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil || result.Item == nil {
		return -1
	}

	var row struct {
		Coins int64 `dynamodbav:"Coins"`
	}
	if err := attributevalue.UnmarshalMap(result.Item, &row); err != nil {
		return -1
	}
	return row.Coins
}

// GetByAccount retrieves every movement touching the account, newest first.
// Sent and received movements live on separate indexes and are merged.
func (r *LedgerRepository) GetByAccount(ctx context.Context, accountID string) ([]*entities.Transaction, error) {
	sent, err := r.queryLedgerIndex(ctx, "GSI1", "GSI1PK", accountID)
	if err != nil {
		return nil, err
	}
	received, err := r.queryLedgerIndex(ctx, "GSI2", "GSI2PK", accountID)
	if err != nil {
		return nil, err
	}

	merged := append(sent, received...)
	sortTransactionsNewestFirst(merged)
	return merged, nil
}

// GetByID retrieves a single transaction record
func (r *LedgerRepository) GetByID(ctx context.Context, id string) (*entities.Transaction, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: transactionPK(id)},
			"SK": &types.AttributeValueMemberS{Value: transactionMetadataSK},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewStorageError("get transaction", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("transaction")
	}

	return unmarshalTransaction(result.Item)
}

func (r *LedgerRepository) queryLedgerIndex(ctx context.Context, index, pkAttr, accountID string) ([]*entities.Transaction, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String(fmt.Sprintf("%s = :pk", pkAttr)),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: fmt.Sprintf("LEDGER#%s", accountID)},
		},
		ScanIndexForward: aws.Bool(false),
	}

	txs := []*entities.Transaction{}
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pkgerrors.NewStorageError("list transactions", err)
		}
		for _, item := range page.Items {
			tx, err := unmarshalTransaction(item)
			if err != nil {
				r.logger.Warn("skipping malformed transaction item", zap.Error(err))
				continue
			}
			txs = append(txs, tx)
		}
	}

	return txs, nil
}

func sortTransactionsNewestFirst(txs []*entities.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Timestamp().After(txs[j].Timestamp())
	})
}

func unmarshalTransaction(av map[string]types.AttributeValue) (*entities.Transaction, error) {
	var item transactionItem
	if err := attributevalue.UnmarshalMap(av, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
	}

	amount, err := valueobjects.NewAmount(item.Amount)
	if err != nil {
		return nil, err
	}

	timestamp, err := utils.ParseTimestamp(item.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction timestamp: %w", err)
	}

	return entities.ReconstructTransaction(
		item.TransactionID,
		item.SenderID,
		item.RecipientID,
		amount,
		entities.TransactionKind(item.Kind),
		timestamp,
	)
}
