package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/quill/internal/objectid"
)

// batchDeleteSize is the DynamoDB BatchWriteItem limit.
const batchDeleteSize = 25

// DynamoStore implements Store on DynamoDB. Each collection maps to one
// table named TablePrefix + collection, keyed by the "id" attribute.
type DynamoStore struct {
	client *dynamodb.Client
	config Config
}

// NewDynamo creates a DynamoDB-backed store.
func NewDynamo(client *dynamodb.Client, config Config) *DynamoStore {
	config.validate()
	return &DynamoStore{client: client, config: config}
}

// table returns the table name backing a collection.
func (s *DynamoStore) table(collection string) string {
	return s.config.TablePrefix + collection
}

// Insert persists rec under a fresh id.
func (s *DynamoStore) Insert(ctx context.Context, collection string, rec Record) (string, error) {
	stored := Clone(rec)
	stored["id"] = objectid.New()

	item, err := attributevalue.MarshalMap(stored)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table(collection)),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", collection, err)
	}
	return stored["id"], nil
}

// FindByID retrieves a record by id, returning ErrNotFound if missing.
func (s *DynamoStore) FindByID(ctx context.Context, collection, id string) (Record, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table(collection)),
		Key:       idKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", collection, err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}
	return unmarshalRecord(result.Item)
}

// FindAll scans the full collection and sorts client-side; DynamoDB scans
// have no server-side ordering.
func (s *DynamoStore) FindAll(ctx context.Context, collection, sortField string) ([]Record, error) {
	var records []Record
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.table(collection)),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		for _, raw := range page.Items {
			rec, err := unmarshalRecord(raw)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
	}

	sortRecords(records, sortField)
	return records, nil
}

// FindWhere scans for records whose field equals value.
func (s *DynamoStore) FindWhere(ctx context.Context, collection, field, value string, projection []string) ([]Record, error) {
	exprNames := map[string]string{"#f": field}
	input := &dynamodb.ScanInput{
		TableName:        aws.String(s.table(collection)),
		FilterExpression: aws.String("#f = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
	}

	if len(projection) > 0 {
		var parts []string
		for i, p := range projection {
			nameKey := fmt.Sprintf("#p%d", i)
			exprNames[nameKey] = p
			parts = append(parts, nameKey)
		}
		input.ProjectionExpression = aws.String(strings.Join(parts, ", "))
	}
	input.ExpressionAttributeNames = exprNames

	var records []Record
	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s where %s: %w", collection, field, err)
		}
		for _, raw := range page.Items {
			rec, err := unmarshalRecord(raw)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

// UpdateByID replaces the record's non-id fields, returning the record
// after the write, or ErrNotFound if the id is absent.
func (s *DynamoStore) UpdateByID(ctx context.Context, collection, id string, rec Record) (Record, error) {
	var setClauses []string
	exprNames := map[string]string{}
	exprValues := map[string]types.AttributeValue{}

	i := 0
	for k, v := range rec {
		if k == "id" {
			continue
		}
		nameKey := fmt.Sprintf("#attr%d", i)
		valueKey := fmt.Sprintf(":val%d", i)
		exprNames[nameKey] = k
		exprValues[valueKey] = &types.AttributeValueMemberS{Value: v}
		setClauses = append(setClauses, fmt.Sprintf("%s = %s", nameKey, valueKey))
		i++
	}
	if len(setClauses) == 0 {
		return s.FindByID(ctx, collection, id)
	}

	result, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table(collection)),
		Key:                       idKey(id),
		UpdateExpression:          aws.String("SET " + strings.Join(setClauses, ", ")),
		ConditionExpression:       aws.String("attribute_exists(id)"),
		ExpressionAttributeNames:  exprNames,
		ExpressionAttributeValues: exprValues,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update %s: %w", collection, err)
	}
	return unmarshalRecord(result.Attributes)
}

// DeleteByID removes a record, returning it as stored, or ErrNotFound.
func (s *DynamoStore) DeleteByID(ctx context.Context, collection, id string) (Record, error) {
	result, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.table(collection)),
		Key:                 idKey(id),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ReturnValues:        types.ReturnValueAllOld,
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete %s: %w", collection, err)
	}
	return unmarshalRecord(result.Attributes)
}

// Count returns the number of records in the collection.
func (s *DynamoStore) Count(ctx context.Context, collection string) (int64, error) {
	var total int64
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.table(collection)),
		Select:    types.SelectCount,
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("count %s: %w", collection, err)
		}
		total += int64(page.Count)
	}
	return total, nil
}

// DeleteAll removes every record in the collection via batched deletes.
func (s *DynamoStore) DeleteAll(ctx context.Context, collection string) (int64, error) {
	ids, err := s.scanIDs(ctx, collection)
	if err != nil {
		return 0, err
	}

	table := s.table(collection)
	var removed int64
	for start := 0; start < len(ids); start += batchDeleteSize {
		end := start + batchDeleteSize
		if end > len(ids) {
			end = len(ids)
		}

		requests := make([]types.WriteRequest, 0, end-start)
		for _, id := range ids[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: idKey(id)},
			})
		}

		pending := map[string][]types.WriteRequest{table: requests}
		for len(pending[table]) > 0 {
			out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: pending,
			})
			if err != nil {
				return removed, fmt.Errorf("batch delete %s: %w", collection, err)
			}
			removed += int64(len(pending[table]) - len(out.UnprocessedItems[table]))
			pending = out.UnprocessedItems
		}
	}
	return removed, nil
}

// scanIDs collects every record id in the collection.
func (s *DynamoStore) scanIDs(ctx context.Context, collection string) ([]string, error) {
	var ids []string
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:                aws.String(s.table(collection)),
		ProjectionExpression:     aws.String("#id"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s ids: %w", collection, err)
		}
		for _, raw := range page.Items {
			if v, ok := raw["id"].(*types.AttributeValueMemberS); ok {
				ids = append(ids, v.Value)
			}
		}
	}
	return ids, nil
}

// idKey builds the primary key for a record id.
func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

// unmarshalRecord converts a DynamoDB item to a Record.
func unmarshalRecord(item map[string]types.AttributeValue) (Record, error) {
	var rec Record
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return rec, nil
}

// sortRecords orders records ascending by field, breaking ties by id so
// the order is stable.
func sortRecords(records []Record, field string) {
	sort.Slice(records, func(i, j int) bool {
		if records[i][field] != records[j][field] {
			return records[i][field] < records[j][field]
		}
		return records[i]["id"] < records[j]["id"]
	})
}
