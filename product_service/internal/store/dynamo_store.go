package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	perrors "github.com/inventario/inventario/product_service/internal/errors"
)

// batchGetLimit is the maximum number of keys accepted by one BatchGetItem call.
const batchGetLimit = 100

const maxUnprocessedRetries = 5

// DynamoAPI is the subset of the DynamoDB client used by DynamoStore.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// DynamoStore implements ProductStore on a DynamoDB table keyed by the numeric attribute "id".
type DynamoStore struct {
	client    DynamoAPI
	tableName string
	now       func() time.Time
}

// NewDynamoStore creates a ProductStore backed by the given DynamoDB table.
func NewDynamoStore(client DynamoAPI, tableName string) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateTable creates the products table when it does not exist yet and waits until it is active.
func (d *DynamoStore) CreateTable(ctx context.Context, waitTimeout time.Duration) error {
	_, err := d.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(d.tableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeN},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return nil
		}
		return fmt.Errorf("failed to create table %s: %w", d.tableName, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(d.client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(d.tableName)}, waitTimeout); err != nil {
		return fmt.Errorf("failed waiting for table %s: %w", d.tableName, err)
	}
	return nil
}

func (d *DynamoStore) FindAll(ctx context.Context) ([]Product, error) {
	expr, err := expression.NewBuilder().
		WithFilter(expression.AttributeNotExists(expression.Name("deleted_at"))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build scan expression: %w", err)
	}

	paginator := dynamodb.NewScanPaginator(d.client, &dynamodb.ScanInput{
		TableName:                 aws.String(d.tableName),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ConsistentRead:            aws.Bool(true),
	})

	products := make([]Product, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan products: %w", err)
		}
		var items []Product
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal products: %w", err)
		}
		products = append(products, items...)
	}
	sortByID(products)
	return products, nil
}

func (d *DynamoStore) FindByID(ctx context.Context, id int64) (*Product, error) {
	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.tableName),
		Key:            productKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if result.Item == nil {
		return nil, perrors.ErrProductNotFound
	}

	var product Product
	if err := attributevalue.UnmarshalMap(result.Item, &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}
	if product.DeletedAt != nil {
		return nil, perrors.ErrProductNotFound
	}
	return &product, nil
}

// FindAllByID reads the ids in batches and retries keys DynamoDB left unprocessed.
func (d *DynamoStore) FindAllByID(ctx context.Context, ids []int64) ([]Product, error) {
	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, productKey(id))
	}

	products := make([]Product, 0, len(keys))
	for start := 0; start < len(keys); start += batchGetLimit {
		end := min(start+batchGetLimit, len(keys))
		items, err := d.batchGet(ctx, keys[start:end])
		if err != nil {
			return nil, err
		}
		for _, p := range items {
			if p.DeletedAt == nil {
				products = append(products, p)
			}
		}
	}
	sortByID(products)
	return products, nil
}

func (d *DynamoStore) batchGet(ctx context.Context, keys []map[string]types.AttributeValue) ([]Product, error) {
	request := map[string]types.KeysAndAttributes{
		d.tableName: {Keys: keys, ConsistentRead: aws.Bool(true)},
	}
	var products []Product
	for attempt := 0; len(request) > 0; attempt++ {
		if attempt > maxUnprocessedRetries {
			return nil, fmt.Errorf("failed to read products: unprocessed keys left after %d retries", maxUnprocessedRetries)
		}
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt*50) * time.Millisecond):
			}
		}
		out, err := d.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{RequestItems: request})
		if err != nil {
			return nil, fmt.Errorf("failed to batch get products: %w", err)
		}
		var items []Product
		if err := attributevalue.UnmarshalListOfMaps(out.Responses[d.tableName], &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal products: %w", err)
		}
		products = append(products, items...)
		request = out.UnprocessedKeys
	}
	return products, nil
}

func (d *DynamoStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	expr, err := expression.NewBuilder().
		WithProjection(expression.NamesList(expression.Name("id"), expression.Name("deleted_at"))).
		Build()
	if err != nil {
		return false, fmt.Errorf("failed to build projection: %w", err)
	}
	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:                aws.String(d.tableName),
		Key:                      productKey(id),
		ProjectionExpression:     expr.Projection(),
		ExpressionAttributeNames: expr.Names(),
		ConsistentRead:           aws.Bool(true),
	})
	if err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	if result.Item == nil {
		return false, nil
	}
	_, deleted := result.Item["deleted_at"]
	return !deleted, nil
}

// Save puts the product unless a live item holds the id. A tombstoned item is overwritten.
func (d *DynamoStore) Save(ctx context.Context, product Product) (*Product, error) {
	now := d.now()
	product.CreatedAt = now
	product.UpdatedAt = now
	product.DeletedAt = nil

	av, err := attributevalue.MarshalMap(product)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal product: %w", err)
	}
	cond := expression.AttributeNotExists(expression.Name("id")).
		Or(expression.AttributeExists(expression.Name("deleted_at")))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build condition: %w", err)
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(d.tableName),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, perrors.ErrProductExists
		}
		return nil, fmt.Errorf("failed to put item: %w", err)
	}
	return &product, nil
}

func (d *DynamoStore) Update(ctx context.Context, id int64, product Product) (*Product, error) {
	update := expression.Set(expression.Name("active"), expression.Value(product.Active)).
		Set(expression.Name("name"), expression.Value(product.Name)).
		Set(expression.Name("price"), expression.Value(product.Price)).
		Set(expression.Name("stock"), expression.Value(product.Stock)).
		Set(expression.Name("brand"), expression.Value(product.Brand)).
		Set(expression.Name("updated_at"), expression.Value(d.now()))

	var updated Product
	found, err := d.conditionalUpdate(ctx, id, update, &updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if !found {
		return nil, perrors.ErrProductNotFound
	}
	return &updated, nil
}

// DeleteByID marks the item with deleted_at instead of removing it.
func (d *DynamoStore) DeleteByID(ctx context.Context, id int64) error {
	now := d.now()
	update := expression.Set(expression.Name("deleted_at"), expression.Value(now)).
		Set(expression.Name("updated_at"), expression.Value(now))

	found, err := d.conditionalUpdate(ctx, id, update, nil)
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	if !found {
		return perrors.ErrProductNotFound
	}
	return nil
}

func (d *DynamoStore) Ping(ctx context.Context) error {
	_, err := d.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(d.tableName)})
	return err
}

// conditionalUpdate applies update to a live item. It reports false when no live item matched.
func (d *DynamoStore) conditionalUpdate(ctx context.Context, id int64, update expression.UpdateBuilder, out *Product) (bool, error) {
	cond := expression.AttributeExists(expression.Name("id")).
		And(expression.AttributeNotExists(expression.Name("deleted_at")))
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return false, err
	}

	result, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(d.tableName),
		Key:                       productKey(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return false, nil
		}
		return false, err
	}
	if out != nil {
		if err := attributevalue.UnmarshalMap(result.Attributes, out); err != nil {
			return false, err
		}
	}
	return true, nil
}

func productKey(id int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberN{Value: strconv.FormatInt(id, 10)},
	}
}
