package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"universe-backend/application/ports"
	"universe-backend/domain/core/entities"
	"universe-backend/domain/core/valueobjects"
	pkgerrors "universe-backend/pkg/errors"
	"universe-backend/pkg/utils"
)

// NodeRepository implements ports.NodeRepository using DynamoDB.
//
// Access patterns:
//   - GetByID:     PK = NODE#<id>
//   - GetChildren: GSI1, GSI1PK = PARENT#<id>, sorted by creation ascending
//   - GetFeed:     GSI2, GSI2PK = FEED, sorted by creation descending
//   - GetByCreator: GSI2 with a filter on CreatorID
type NodeRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewNodeRepository creates a new NodeRepository
func NewNodeRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.NodeRepository {
	return &NodeRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// nodeItem represents the DynamoDB item structure for a node
type nodeItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK"` // PARENT#<id> or PARENT#ROOT
	GSI1SK     string `dynamodbav:"GSI1SK"` // CREATED#<ts>#<id>
	GSI2PK     string `dynamodbav:"GSI2PK"` // FEED
	GSI2SK     string `dynamodbav:"GSI2SK"` // CREATED#<ts>#<id>
	EntityType string `dynamodbav:"EntityType"`
	NodeID     string `dynamodbav:"NodeID"`
	CreatorID  string `dynamodbav:"CreatorID"`
	Title      string `dynamodbav:"Title"`
	Body       string `dynamodbav:"Body,omitempty"`
	ParentID   string `dynamodbav:"ParentID,omitempty"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
}

func nodePK(id string) string { return fmt.Sprintf("NODE#%s", id) }

const (
	nodeMetadataSK = "METADATA"
	feedPartition  = "FEED"
	rootParentKey  = "PARENT#ROOT"
)

// Save persists a node to DynamoDB
func (r *NodeRepository) Save(ctx context.Context, node *entities.Node) error {
	parentKey := rootParentKey
	parentID := ""
	if !node.IsRoot() {
		parentKey = fmt.Sprintf("PARENT#%s", node.ParentID().String())
		parentID = node.ParentID().String()
	}

	createdSK := fmt.Sprintf("CREATED#%s#%s", utils.FormatTimestamp(node.CreatedAt()), node.ID().String())

	item := nodeItem{
		PK:         nodePK(node.ID().String()),
		SK:         nodeMetadataSK,
		GSI1PK:     parentKey,
		GSI1SK:     createdSK,
		GSI2PK:     feedPartition,
		GSI2SK:     createdSK,
		EntityType: "NODE",
		NodeID:     node.ID().String(),
		CreatorID:  node.CreatorID(),
		Title:      node.Content().Title(),
		Body:       node.Content().Body(),
		ParentID:   parentID,
		CreatedAt:  utils.FormatTimestamp(node.CreatedAt()),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal node: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("failed to save node",
			zap.Error(err),
			zap.String("nodeID", node.ID().String()),
		)
		return pkgerrors.NewStorageError("save node", err)
	}

	return nil
}

// GetByID retrieves a node by ID
func (r *NodeRepository) GetByID(ctx context.Context, id valueobjects.NodeID) (*entities.Node, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: nodePK(id.String())},
			"SK": &types.AttributeValueMemberS{Value: nodeMetadataSK},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewStorageError("get node", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("node")
	}

	return unmarshalNode(result.Item)
}

// GetChildren retrieves direct children in creation order
func (r *NodeRepository) GetChildren(ctx context.Context, parentID valueobjects.NodeID) ([]*entities.Node, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("GSI1PK").Equal(expression.Value(fmt.Sprintf("PARENT#%s", parentID.String())))).
		Build()
	if err != nil {
		return nil, pkgerrors.NewStorageError("build children query", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("GSI1"),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(true),
	}

	return r.queryNodes(ctx, input, "get children")
}

// GetFeed retrieves the newest nodes first
func (r *NodeRepository) GetFeed(ctx context.Context, limit int) ([]*entities.Node, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("GSI2PK").Equal(expression.Value(feedPartition))).
		Build()
	if err != nil {
		return nil, pkgerrors.NewStorageError("build feed query", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("GSI2"),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	return r.queryNodes(ctx, input, "get feed")
}

// GetByCreator retrieves an account's nodes, newest first
func (r *NodeRepository) GetByCreator(ctx context.Context, creatorID string) ([]*entities.Node, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("GSI2PK").Equal(expression.Value(feedPartition))).
		WithFilter(expression.Name("CreatorID").Equal(expression.Value(creatorID))).
		Build()
	if err != nil {
		return nil, pkgerrors.NewStorageError("build creator query", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("GSI2"),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
	}

	return r.queryNodes(ctx, input, "get nodes by creator")
}

// DeleteBatch removes the given nodes using BatchWriteItem chunks
func (r *NodeRepository) DeleteBatch(ctx context.Context, nodeIDs []valueobjects.NodeID) error {
	const batchSize = 25 // DynamoDB BatchWriteItem limit

	for start := 0; start < len(nodeIDs); start += batchSize {
		end := start + batchSize
		if end > len(nodeIDs) {
			end = len(nodeIDs)
		}

		requests := make([]types.WriteRequest, 0, end-start)
		for _, id := range nodeIDs[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: map[string]types.AttributeValue{
						"PK": &types.AttributeValueMemberS{Value: nodePK(id.String())},
						"SK": &types.AttributeValueMemberS{Value: nodeMetadataSK},
					},
				},
			})
		}

		input := &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				r.tableName: requests,
			},
		}

		output, err := r.client.BatchWriteItem(ctx, input)
		if err != nil {
			return pkgerrors.NewStorageError("delete nodes", err)
		}

		// Retry unprocessed keys once; DynamoDB throttling can defer a few
		if unprocessed := output.UnprocessedItems[r.tableName]; len(unprocessed) > 0 {
			retry := &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{r.tableName: unprocessed},
			}
			if _, err := r.client.BatchWriteItem(ctx, retry); err != nil {
				return pkgerrors.NewStorageError("delete nodes retry", err)
			}
		}
	}

	return nil
}

func (r *NodeRepository) queryNodes(ctx context.Context, input *dynamodb.QueryInput, operation string) ([]*entities.Node, error) {
	nodes := []*entities.Node{}

	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pkgerrors.NewStorageError(operation, err)
		}
		for _, item := range page.Items {
			node, err := unmarshalNode(item)
			if err != nil {
				r.logger.Warn("skipping malformed node item", zap.Error(err))
				continue
			}
			nodes = append(nodes, node)
		}
		if input.Limit != nil && len(nodes) >= int(*input.Limit) {
			nodes = nodes[:*input.Limit]
			break
		}
	}

	return nodes, nil
}

func unmarshalNode(av map[string]types.AttributeValue) (*entities.Node, error) {
	var item nodeItem
	if err := attributevalue.UnmarshalMap(av, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal node: %w", err)
	}

	nodeID, err := valueobjects.NewNodeIDFromString(item.NodeID)
	if err != nil {
		return nil, err
	}

	content, err := valueobjects.NewNodeContent(item.Title, item.Body)
	if err != nil {
		return nil, err
	}

	var parentID valueobjects.NodeID
	if item.ParentID != "" {
		parentID, err = valueobjects.NewNodeIDFromString(item.ParentID)
		if err != nil {
			return nil, err
		}
	}

	createdAt, err := utils.ParseTimestamp(item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid node created timestamp: %w", err)
	}

	return entities.ReconstructNode(nodeID, item.CreatorID, content, parentID, createdAt)
}
