package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/careerhub-api/internal/domain"
)

// RegistrationRepo provides typed DynamoDB operations for the
// event_registrations table, keyed (user_id, event_id).
type RegistrationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewRegistrationRepo(client *dynamodb.Client, tableName string) *RegistrationRepo {
	return &RegistrationRepo{client: client, tableName: tableName}
}

// Create inserts the registration only if no item exists for
// (user_id, event_id). The workflow deletes an unverified predecessor first;
// if a concurrent writer recreates one in between, the conditional write
// rejects this one with ErrConflict.
func (r *RegistrationRepo) Create(ctx context.Context, reg *domain.EventRegistration) error {
	item, err := attributevalue.MarshalMap(reg)
	if err != nil {
		return fmt.Errorf("marshal registration: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(user_id)"),
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("registration for this event already exists: %w", domain.ErrConflict)
	}
	return err
}

func (r *RegistrationRepo) GetByUserEvent(ctx context.Context, userID, eventID string) (*domain.EventRegistration, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("user_id", userID, "event_id", eventID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("registration not found: %w", domain.ErrNotFound)
	}
	var reg domain.EventRegistration
	if err := attributevalue.UnmarshalMap(out.Item, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// GetByID queries the registration_id GSI.
func (r *RegistrationRepo) GetByID(ctx context.Context, registrationID string) (*domain.EventRegistration, error) {
	return r.queryGSI(ctx, "registration_id-index", "registration_id", registrationID)
}

// GetByToken queries the verification_token GSI. A cleared token never
// matches: the attribute is removed on verification.
func (r *RegistrationRepo) GetByToken(ctx context.Context, token string) (*domain.EventRegistration, error) {
	return r.queryGSI(ctx, "verification_token-index", "verification_token", token)
}

// MarkVerified applies the single-use verify-and-clear transition as one
// conditional update: confirmed status, verified flag and timestamp are set
// and both token attributes removed, but only while the item is still
// unverified. A concurrent second verifier gets ErrAlreadyVerified; a row
// deleted in between (cancel or resubmission) gets ErrNotFound.
func (r *RegistrationRepo) MarkVerified(ctx context.Context, userID, eventID string, verifiedAt time.Time) error {
	verified, err := attributevalue.Marshal(verifiedAt)
	if err != nil {
		return fmt.Errorf("marshal verified_at: %w", err)
	}
	updated, err := attributevalue.Marshal(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("marshal updated_at: %w", err)
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("user_id", userID, "event_id", eventID),
		UpdateExpression: aws.String(
			"SET is_email_verified = :t, #s = :confirmed, verified_at = :va, updated_at = :ua " +
				"REMOVE verification_token, verification_token_expiry"),
		ConditionExpression:      aws.String("attribute_exists(user_id) AND is_email_verified = :f"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t":         &types.AttributeValueMemberBOOL{Value: true},
			":f":         &types.AttributeValueMemberBOOL{Value: false},
			":confirmed": &types.AttributeValueMemberS{Value: domain.RegistrationConfirmed},
			":va":        verified,
			":ua":        updated,
		},
		// Make the rejected item travel back with the exception so the
		// missing-row case is distinguishable without a second read.
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		return classifyVerifyRejection(err)
	}
	return nil
}

// classifyVerifyRejection maps a failed verify-and-clear update to its
// sentinel. A conditional rejection carrying no item means the row was
// deleted between lookup and update; one carrying an item means it was
// already verified. Anything else passes through unchanged.
func classifyVerifyRejection(err error) error {
	var ccf *types.ConditionalCheckFailedException
	if !errors.As(err, &ccf) {
		return err
	}
	if len(ccf.Item) == 0 {
		return fmt.Errorf("registration not found: %w", domain.ErrNotFound)
	}
	return fmt.Errorf("registration already confirmed: %w", domain.ErrAlreadyVerified)
}

func (r *RegistrationRepo) Delete(ctx context.Context, userID, eventID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("user_id", userID, "event_id", eventID),
	})
	return err
}

// ListByUser queries the table's hash key directly.
func (r *RegistrationRepo) ListByUser(ctx context.Context, userID string) ([]domain.EventRegistration, error) {
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
	var regs []domain.EventRegistration
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *RegistrationRepo) queryGSI(ctx context.Context, index, attr, value string) (*domain.EventRegistration, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#a = :v"),
		ExpressionAttributeNames: map[string]string{"#a": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("registration not found: %w", domain.ErrNotFound)
	}
	var reg domain.EventRegistration
	if err := attributevalue.UnmarshalMap(out.Items[0], &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}
