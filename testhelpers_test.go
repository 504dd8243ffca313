//go:build integration

package main_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/CleanNest/service-cleaning/internal/application"
	"github.com/CleanNest/service-cleaning/internal/events"
	"github.com/CleanNest/service-cleaning/internal/hub"
	"github.com/CleanNest/service-cleaning/internal/repository"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// cleaningStack holds wired-up service components.
type cleaningStack struct {
	Service         *application.BookingService
	Hub             *hub.Hub
	Relay           *events.StatusRelayConsumer
	Source          string
	CleanupProducer func()
}

// setupContainers starts PostgreSQL and Kafka testcontainers and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_cleaning",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_cleaning sslmode=disable", pgHost, pgPort.Port())

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(&repository.UserModel{}, &repository.ServiceModel{}, &repository.BookingModel{}))

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	// Pre-create required topics.
	createTopics(t, kafkaBrokers, events.TopicBookingEvents)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupCleaningStack wires up the full service stack against real infra.
func setupCleaningStack(t *testing.T, db *gorm.DB, brokers []string) *cleaningStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	statusHub := hub.NewHub(logger)
	source := fmt.Sprintf("service-cleaning/test-%s", uuid.New().String()[:8])

	bookingRepo := repository.NewGormBookingRepository(db)
	userRepo := repository.NewGormUserRepository(db)
	serviceRepo := repository.NewGormServiceRepository(db)
	producer := events.NewProducer(brokers, logger)

	bookingSvc := application.NewBookingService(
		bookingRepo, userRepo, serviceRepo, statusHub, producer, source, logger,
	)

	groupID := fmt.Sprintf("test-relay-%s", uuid.New().String()[:8])
	relay := events.NewStatusRelayConsumer(brokers, groupID, source, statusHub, logger)

	return &cleaningStack{
		Service:         bookingSvc,
		Hub:             statusHub,
		Relay:           relay,
		Source:          source,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// seedUser inserts a user row directly.
func seedUser(t *testing.T, db *gorm.DB, id uuid.UUID, role string, available bool) {
	t.Helper()
	var profile json.RawMessage
	if role == "CLEANER" {
		profile, _ = json.Marshal(map[string]interface{}{
			"bio":              "integration test cleaner",
			"experience_years": 2,
			"rating":           4.8,
			"is_available":     available,
		})
	}
	now := time.Now().UTC()
	model := repository.UserModel{
		ID:             id,
		Email:          fmt.Sprintf("%s@example.com", id),
		Name:           "Test User",
		PasswordHash:   "not-a-real-hash",
		Role:           role,
		CleanerProfile: profile,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, db.Create(&model).Error, "failed to seed user")
}

// seedService inserts an active catalog service row directly.
func seedService(t *testing.T, db *gorm.DB, id uuid.UUID, priceCents int64) {
	t.Helper()
	model := repository.ServiceModel{
		ID:          id,
		Name:        "Standard Clean",
		Category:    "residential",
		PriceCents:  priceCents,
		DurationMin: 120,
		Active:      true,
	}
	require.NoError(t, db.Create(&model).Error, "failed to seed service")
}

// seedConfirmedBooking inserts a booking in CONFIRMED state with a cleaner assigned.
func seedConfirmedBooking(t *testing.T, db *gorm.DB, bookingID, customerID, cleanerID, serviceID uuid.UUID) {
	t.Helper()
	now := time.Now().UTC()
	model := repository.BookingModel{
		ID:              bookingID,
		BookingNumber:   fmt.Sprintf("CL-INT%s", uuid.New().String()[:3]),
		CustomerID:      customerID,
		CleanerID:       &cleanerID,
		ServiceID:       serviceID,
		Status:          "CONFIRMED",
		Date:            now.Add(48 * time.Hour),
		TimeSlot:        "09:00-12:00",
		Address:         "12 Elm Street",
		City:            "Rotterdam",
		Notes:           "integration test",
		TotalPriceCents: 9900,
		Version:         2,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, db.Create(&model).Error, "failed to seed booking")
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, source, eventType, key string, data interface{}) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	producer := events.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	ce, err := events.NewCloudEvent(source, eventType, data)
	require.NoError(t, err, "failed to create cloud event")

	err = producer.PublishEvent(context.Background(), topic, key, ce)
	require.NoError(t, err, "failed to publish event")
}

// waitForBookingStatus polls the bookings table until the status matches.
func waitForBookingStatus(t *testing.T, db *gorm.DB, bookingID uuid.UUID, expectedStatus string, timeout time.Duration) repository.BookingModel {
	t.Helper()
	var result repository.BookingModel
	require.Eventually(t, func() bool {
		var model repository.BookingModel
		err := db.Where("id = ?", bookingID).First(&model).Error
		if err != nil {
			return false
		}
		if model.Status == expectedStatus {
			result = model
			return true
		}
		return false
	}, timeout, 200*time.Millisecond, "booking did not reach %s", expectedStatus)
	return result
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) events.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := events.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
