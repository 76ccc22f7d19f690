package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/careerhub-api/internal/domain"
)

// ApplicationRepo provides typed DynamoDB operations for the applications
// table. The table is keyed (user_id, job_id) so the primary key itself
// enforces the one-application-per-user-per-job invariant.
type ApplicationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewApplicationRepo(client *dynamodb.Client, tableName string) *ApplicationRepo {
	return &ApplicationRepo{client: client, tableName: tableName}
}

// Create inserts the application only if no item exists for (user_id, job_id).
// A concurrent duplicate loses the conditional write and gets ErrConflict.
func (r *ApplicationRepo) Create(ctx context.Context, a *domain.Application) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal application: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(user_id)"),
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("application for this job already exists: %w", domain.ErrConflict)
	}
	return err
}

func (r *ApplicationRepo) GetByUserJob(ctx context.Context, userID, jobID string) (*domain.Application, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("user_id", userID, "job_id", jobID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("application not found: %w", domain.ErrNotFound)
	}
	var a domain.Application
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID queries the application_id GSI.
func (r *ApplicationRepo) GetByID(ctx context.Context, applicationID string) (*domain.Application, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("application_id-index"),
		KeyConditionExpression: aws.String("application_id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: applicationID},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("application not found: %w", domain.ErrNotFound)
	}
	var a domain.Application
	if err := attributevalue.UnmarshalMap(out.Items[0], &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ApplicationRepo) UpdateStatus(ctx context.Context, userID, jobID, status string) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       compositeKey("user_id", userID, "job_id", jobID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ConditionExpression:       aws.String("attribute_exists(user_id)"),
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("application not found: %w", domain.ErrNotFound)
	}
	return err
}

func (r *ApplicationRepo) Delete(ctx context.Context, userID, jobID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("user_id", userID, "job_id", jobID),
	})
	return err
}

// ListByUser queries the table's hash key directly, newest first.
func (r *ApplicationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Application, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	var apps []domain.Application
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// ListByCompany queries the company_id-created_at GSI, newest first.
func (r *ApplicationRepo) ListByCompany(ctx context.Context, companyID string) ([]domain.Application, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("company_id-created_at-index"),
		KeyConditionExpression: aws.String("company_id = :cid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cid": &types.AttributeValueMemberS{Value: companyID},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	var apps []domain.Application
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}
