package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tnqbao/gau-game-panel/apperror"
	"github.com/tnqbao/gau-game-panel/entity"
	"github.com/tnqbao/gau-game-panel/infra"
	"github.com/tnqbao/gau-game-panel/infra/produce"
)

const maxRetries = 3

// DeliverySource is the part of *amqp.Channel used to receive jobs.
type DeliverySource interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type ServerStateStore interface {
	SetInstalled(ctx context.Context, id uint, state entity.InstallState) error
}

type KeyRevoker interface {
	Revoke(ctx context.Context, serverID uint) (int, error)
}

type ServerConsumer struct {
	channel  DeliverySource
	servers  ServerStateStore
	keys     KeyRevoker
	logger   *infra.LoggerClient
	validate *validator.Validate

	// backoff before retry attempt n+1
	backoff func(attempt int) time.Duration
}

func NewServerConsumer(channel DeliverySource, servers ServerStateStore, keys KeyRevoker, logger *infra.LoggerClient) *ServerConsumer {
	return &ServerConsumer{
		channel:  channel,
		servers:  servers,
		keys:     keys,
		logger:   logger,
		validate: validator.New(),
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * 2 * time.Second
		},
	}
}

func (c *ServerConsumer) Start(ctx context.Context) error {
	if err := c.startQueue(ctx, produce.ServerInstallQueue, "Install", c.handleInstall); err != nil {
		return fmt.Errorf("failed to start server install consumer: %w", err)
	}

	if err := c.startQueue(ctx, produce.ServerSuspensionQueue, "Suspension", c.handleSuspension); err != nil {
		return fmt.Errorf("failed to start server suspension consumer: %w", err)
	}

	return nil
}

func (c *ServerConsumer) startQueue(ctx context.Context, queue, name string, handle func(context.Context, amqp.Delivery)) error {
	msgs, err := c.channel.Consume(
		queue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer on %s: %w", queue, err)
	}

	c.logger.InfoWithContextf(ctx, "[Server Consumer] Started listening for %s jobs on queue: %s", name, queue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.logger.InfoWithContextf(ctx, "[Server Consumer - %s] Shutting down...", name)
				return
			case msg, ok := <-msgs:
				if !ok {
					c.logger.WarningWithContextf(ctx, "[Server Consumer - %s] Channel closed", name)
					return
				}
				handle(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *ServerConsumer) handleInstall(ctx context.Context, msg amqp.Delivery) {
	var payload produce.InstallCompletedMessage
	if !c.decode(ctx, "Install", msg, &payload) {
		return
	}

	state := entity.InstallDone
	if !payload.Successful {
		state = entity.InstallFailed
	}

	c.withRetries(ctx, "Install", msg, func() error {
		return c.servers.SetInstalled(ctx, payload.ServerID, state)
	})
}

func (c *ServerConsumer) handleSuspension(ctx context.Context, msg amqp.Delivery) {
	var payload produce.SuspensionChangedMessage
	if !c.decode(ctx, "Suspension", msg, &payload) {
		return
	}

	if !payload.Suspended {
		c.logger.InfoWithContextf(ctx, "[Server Consumer - Suspension] Server %d unsuspended, nothing to revoke", payload.ServerID)
		_ = msg.Ack(false)
		return
	}

	c.withRetries(ctx, "Suspension", msg, func() error {
		removed, err := c.keys.Revoke(ctx, payload.ServerID)
		if err != nil {
			return err
		}
		c.logger.InfoWithContextf(ctx, "[Server Consumer - Suspension] Revoked %d cached credentials of server %d", removed, payload.ServerID)
		return nil
	})
}

// decode nacks without requeue when the payload can never be processed.
func (c *ServerConsumer) decode(ctx context.Context, name string, msg amqp.Delivery, dest any) bool {
	if err := json.Unmarshal(msg.Body, dest); err != nil {
		c.logger.ErrorWithContextf(ctx, err, "[Server Consumer - %s] Failed to unmarshal message: %v", name, err)
		_ = msg.Nack(false, false)
		return false
	}

	if err := c.validate.Struct(dest); err != nil {
		c.logger.ErrorWithContextf(ctx, err, "[Server Consumer - %s] Invalid message: %v", name, err)
		_ = msg.Nack(false, false)
		return false
	}

	return true
}

func (c *ServerConsumer) withRetries(ctx context.Context, name string, msg amqp.Delivery, work func() error) {
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = work(); err == nil {
			_ = msg.Ack(false)
			return
		}

		if isPermanent(err) {
			c.logger.ErrorWithContextf(ctx, err, "[Server Consumer - %s] Dropping message, error will not go away on retry: %v", name, err)
			_ = msg.Nack(false, false)
			return
		}

		c.logger.ErrorWithContextf(ctx, err, "[Server Consumer - %s] Attempt %d/%d failed: %v", name, attempt, maxRetries, err)

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				_ = msg.Nack(false, true)
				return
			case <-time.After(c.backoff(attempt)):
			}
		}
	}

	c.logger.ErrorWithContextf(ctx, err, "[Server Consumer - %s] Failed after %d attempts, requeueing message", name, maxRetries)
	_ = msg.Nack(false, true)
}

// isPermanent reports errors that no amount of retrying can fix, such as a
// server deleted after its event was published.
func isPermanent(err error) bool {
	return apperror.IsCode(err, apperror.CodeNotFound) || apperror.IsCode(err, apperror.CodeValidation)
}
