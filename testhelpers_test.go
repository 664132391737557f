//go:build integration

package main_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rise-rentals/service-booking/internal/application"
	"github.com/rise-rentals/service-booking/internal/common/database"
	"github.com/rise-rentals/service-booking/internal/common/kafka"
	boatDomain "github.com/rise-rentals/service-booking/internal/domain/boat"
	priceDomain "github.com/rise-rentals/service-booking/internal/domain/price"
	userDomain "github.com/rise-rentals/service-booking/internal/domain/user"
	bookingEvents "github.com/rise-rentals/service-booking/internal/events"
	"github.com/rise-rentals/service-booking/internal/notification"
	"github.com/rise-rentals/service-booking/internal/repository"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// bookingStack holds wired-up booking service components.
type bookingStack struct {
	Repos           application.Repositories
	Service         *application.BookingService
	TimeSlots       *application.TimeSlotService
	Consumer        *bookingEvents.NotificationConsumer
	Mailbox         *mailbox
	CleanupProducer func()
}

// mailbox is a fake transactional email API that records every request.
type mailbox struct {
	mu       sync.Mutex
	subjects []string
	server   *httptest.Server
}

func newMailbox(t *testing.T) *mailbox {
	t.Helper()
	mb := &mailbox{}
	mb.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Subject string `json:"subject"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		mb.mu.Lock()
		mb.subjects = append(mb.subjects, body.Subject)
		mb.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(mb.server.Close)
	return mb
}

func (m *mailbox) count(subject string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.subjects {
		if s == subject {
			n++
		}
	}
	return n
}

// setupContainers starts PostgreSQL and Kafka testcontainers, applies the SQL
// migrations and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_booking",
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

	cfg := database.PostgresConfig{
		Host:     pgHost,
		Port:     pgPort.Port(),
		User:     "test",
		Password: "test",
		DBName:   "test_booking",
		SSLMode:  "disable",
	}
	log := zap.NewNop()

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = database.Connect(cfg, log)
		return err == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, database.RunMigrations(cfg.DatabaseURL(), "migrations", log))

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	// Pre-create required topics.
	createTopics(t, kafkaBrokers, notification.TopicBookingEvents)

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

// setupBookingStack wires up the booking services with Kafka notifications and
// a notification consumer delivering to a fake mail API.
func setupBookingStack(t *testing.T, db *gorm.DB, brokers []string, serializable bool) *bookingStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	repos := repository.NewRepositories(db)
	uow := repository.NewGormUnitOfWork(db, serializable)
	producer := kafka.NewProducer(brokers, logger)
	notifier := notification.NewKafkaNotifier(producer, logger)

	mb := newMailbox(t)
	mailer := notification.NewMailer(notification.MailerConfig{APIKey: "test", APIURL: mb.server.URL}, mb.server.Client(), logger)

	groupID := fmt.Sprintf("test-booking-%s", uuid.New().String()[:8])
	consumer := bookingEvents.NewNotificationConsumer(brokers, groupID, mailer, logger)

	return &bookingStack{
		Repos:           repos,
		Service:         application.NewBookingService(repos, uow, notifier, logger),
		TimeSlots:       application.NewTimeSlotService(repos, uow, notifier, logger),
		Consumer:        consumer,
		Mailbox:         mb,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// seedInventory inserts users, boats and a price and returns their IDs.
func seedInventory(t *testing.T, repos application.Repositories, users, boats int) (userIDs, boatIDs []int64, priceID int64) {
	t.Helper()
	ctx := context.Background()
	suffix := uuid.New().String()[:6]

	for i := 0; i < users; i++ {
		u, err := userDomain.NewUser(fmt.Sprintf("renter%d-%s@rise.test", i, suffix), "Renter"+strconv.Itoa(i), "Test", "", "user")
		require.NoError(t, err)
		require.NoError(t, repos.Users.Save(ctx, u))
		userIDs = append(userIDs, u.ID())
	}
	for i := 0; i < boats; i++ {
		b, err := boatDomain.NewBoat(fmt.Sprintf("Boat %d %s", i, suffix))
		require.NoError(t, err)
		require.NoError(t, repos.Boats.Save(ctx, b))
		boatIDs = append(boatIDs, b.ID())
	}
	p, err := priceDomain.NewPrice(4500, "EUR")
	require.NoError(t, err)
	require.NoError(t, repos.Prices.Save(ctx, p))
	return userIDs, boatIDs, p.ID()
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
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
		ce, err := kafka.ParseCloudEvent(msg.Value)
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
