package kafka_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Desmondwr/payrovaHR-backend-sub001/internal/messaging/kafka"
)

func validEvent() kafka.OutboxEvent {
	return kafka.OutboxEvent{
		ID:            uuid.NewString(),
		AggregateType: "salary",
		AggregateID:   uuid.NewString(),
		EventType:     "salary.validated",
		Topic:         "payroll.salary.validated.v1",
		Payload:       []byte(`{"event_type":"salary.validated"}`),
		Status:        kafka.OutboxStatusPending,
	}
}

func TestOutboxCreateWithinTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO outbox_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	repo := kafka.NewOutboxRepository(db).WithTx(tx)
	require.NoError(t, repo.Create(context.Background(), validEvent()))
	require.NoError(t, tx.Commit())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxCreateRejectsUnpublishableEvents(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := kafka.NewOutboxRepository(db)

	noTopic := validEvent()
	noTopic.Topic = ""
	assert.Error(t, repo.Create(context.Background(), noTopic))

	noPayload := validEvent()
	noPayload.Payload = nil
	assert.Error(t, repo.Create(context.Background(), noPayload))

	badStatus := validEvent()
	badStatus.Status = "queued"
	assert.Error(t, repo.Create(context.Background(), badStatus))

	// Nothing reached the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateOutboxEvent(t *testing.T) {
	assert.NoError(t, kafka.ValidateOutboxEvent(validEvent()))

	noID := validEvent()
	noID.ID = ""
	assert.Error(t, kafka.ValidateOutboxEvent(noID))
}
