package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"courtside_server/models"
)

// DynamoStore implements Store on DynamoDB. All tables are keyed by an "id"
// partition key; Registrations and Teams carry an EventIndex GSI on eventId,
// Notifications a UserIndex GSI on userId+createdAt. Commits are realized as
// a single TransactWriteItems in which every write is conditioned on the
// version observed during the commit-phase read.
type DynamoStore struct {
	Dynamo *DynamoService
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func (s *DynamoStore) getInto(ctx context.Context, tableName, id string, out interface{}) error {
	item, err := s.Dynamo.GetItem(ctx, tableName, idKey(id), true)
	if err != nil {
		return err
	}
	if err := attributevalue.UnmarshalMap(item, out); err != nil {
		return fmt.Errorf("failed to unmarshal item from table '%s': %w", tableName, err)
	}
	return nil
}

func (s *DynamoStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var ev models.Event
	if err := s.getInto(ctx, models.Event{}.TableName(), id, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *DynamoStore) GetRegistration(ctx context.Context, id string) (*models.Registration, error) {
	var reg models.Registration
	if err := s.getInto(ctx, models.Registration{}.TableName(), id, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (s *DynamoStore) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	var team models.Team
	if err := s.getInto(ctx, models.Team{}.TableName(), id, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *DynamoStore) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	if err := s.getInto(ctx, models.Notification{}.TableName(), id, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// ListEvents returns all events. The admin/list surface is small enough
// that a scan is acceptable here.
func (s *DynamoStore) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := s.Dynamo.ScanWithFilter(ctx, models.Event{}.TableName(), nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *DynamoStore) queryEventIndex(ctx context.Context, tableName, eventID string) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.QueryInput{
		TableName:              &tableName,
		IndexName:              aws.String("EventIndex"),
		KeyConditionExpression: aws.String("eventId = :eventId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":eventId": &types.AttributeValueMemberS{Value: eventID},
		},
	}
	return s.Dynamo.QueryItemsWithQueryInput(ctx, input)
}

func (s *DynamoStore) RegistrationsByEvent(ctx context.Context, eventID string) ([]models.Registration, error) {
	items, err := s.queryEventIndex(ctx, models.Registration{}.TableName(), eventID)
	if err != nil {
		return nil, err
	}
	var regs []models.Registration
	err = attributevalue.UnmarshalListOfMaps(items, &regs)
	return regs, err
}

func (s *DynamoStore) TeamsByEvent(ctx context.Context, eventID string) ([]models.Team, error) {
	items, err := s.queryEventIndex(ctx, models.Team{}.TableName(), eventID)
	if err != nil {
		return nil, err
	}
	var teams []models.Team
	err = attributevalue.UnmarshalListOfMaps(items, &teams)
	return teams, err
}

func (s *DynamoStore) NotificationsByUser(ctx context.Context, userID string, limit int32) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	tableName := models.Notification{}.TableName()
	scanIndexForward := false // latest first
	input := &dynamodb.QueryInput{
		TableName:              &tableName,
		IndexName:              aws.String("UserIndex"),
		KeyConditionExpression: aws.String("userId = :userId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userId": &types.AttributeValueMemberS{Value: userID},
		},
		Limit:            &limit,
		ScanIndexForward: &scanIndexForward,
	}
	items, err := s.Dynamo.QueryItemsWithQueryInput(ctx, input)
	if err != nil {
		return nil, err
	}
	var notifications []models.Notification
	err = attributevalue.UnmarshalListOfMaps(items, &notifications)
	return notifications, err
}

// Commit applies the transaction. Creates require the id to be absent;
// updates and deletes pin the version read during the commit phase.
func (s *DynamoStore) Commit(ctx context.Context, tx *Tx) error {
	if tx.Empty() {
		return nil
	}

	items := make([]types.TransactWriteItem, 0, len(tx.Writes))
	for _, w := range tx.Writes {
		tableName := w.Record.TableName()
		expect := strconv.FormatInt(w.Expect, 10)

		if w.Delete {
			items = append(items, types.TransactWriteItem{
				Delete: &types.Delete{
					TableName:                &tableName,
					Key:                      idKey(w.Record.RecordID()),
					ConditionExpression:      aws.String("#v = :expect"),
					ExpressionAttributeNames: map[string]string{"#v": "version"},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":expect": &types.AttributeValueMemberN{Value: expect},
					},
				},
			})
			continue
		}

		w.Record.SetRecordVersion(w.Expect + 1)
		item, err := attributevalue.MarshalMap(w.Record)
		if err != nil {
			return fmt.Errorf("failed to marshal item for table '%s': %w", tableName, err)
		}
		put := &types.Put{TableName: &tableName, Item: item}
		if w.Expect == 0 {
			put.ConditionExpression = aws.String("attribute_not_exists(id)")
		} else {
			put.ConditionExpression = aws.String("#v = :expect")
			put.ExpressionAttributeNames = map[string]string{"#v": "version"}
			put.ExpressionAttributeValues = map[string]types.AttributeValue{
				":expect": &types.AttributeValueMemberN{Value: expect},
			}
		}
		items = append(items, types.TransactWriteItem{Put: put})
	}

	return s.Dynamo.TransactWriteItems(ctx, items)
}
