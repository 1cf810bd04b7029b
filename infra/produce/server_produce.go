package produce

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ServerExchange = "server.exchange"

	ServerInstallQueue      = "server.install"
	ServerInstallRoutingKey = "server.install"

	ServerSuspensionQueue      = "server.suspension"
	ServerSuspensionRoutingKey = "server.suspension"
)

// Publisher is the part of *amqp.Channel the producers use.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type ServerService struct {
	channel Publisher
}

type InstallCompletedMessage struct {
	ServerID   uint  `json:"server_id" validate:"required"`
	Successful bool  `json:"successful"`
	Timestamp  int64 `json:"timestamp" validate:"required"`
}

type SuspensionChangedMessage struct {
	ServerID  uint  `json:"server_id" validate:"required"`
	Suspended bool  `json:"suspended"`
	Timestamp int64 `json:"timestamp" validate:"required"`
}

func InitServerService(channel *amqp.Channel) *ServerService {
	err := channel.ExchangeDeclare(
		ServerExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Server exchange: " + err.Error())
	}

	for queue, routingKey := range map[string]string{
		ServerInstallQueue:    ServerInstallRoutingKey,
		ServerSuspensionQueue: ServerSuspensionRoutingKey,
	} {
		_, err = channel.QueueDeclare(
			queue,
			true,  // durable
			false, // auto-delete
			false, // exclusive
			false, // no-wait
			nil,
		)
		if err != nil {
			panic("Failed to declare Server queue " + queue + ": " + err.Error())
		}

		err = channel.QueueBind(queue, routingKey, ServerExchange, false, nil)
		if err != nil {
			panic("Failed to bind Server queue " + queue + ": " + err.Error())
		}
	}

	return NewServerService(channel)
}

func NewServerService(channel Publisher) *ServerService {
	return &ServerService{channel: channel}
}

func (s *ServerService) PublishInstallCompleted(ctx context.Context, serverID uint, successful bool) error {
	return s.publish(ctx, ServerInstallRoutingKey, InstallCompletedMessage{
		ServerID:   serverID,
		Successful: successful,
		Timestamp:  time.Now().Unix(),
	})
}

func (s *ServerService) PublishSuspensionChanged(ctx context.Context, serverID uint, suspended bool) error {
	return s.publish(ctx, ServerSuspensionRoutingKey, SuspensionChangedMessage{
		ServerID:  serverID,
		Suspended: suspended,
		Timestamp: time.Now().Unix(),
	})
}

func (s *ServerService) publish(ctx context.Context, routingKey string, message any) error {
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	return s.channel.PublishWithContext(
		ctx,
		ServerExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
}
