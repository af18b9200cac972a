package rabbitmq

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"github.com/factorysim/mfg-telemetry-g/model"
)

type RabbitMQConfig struct {
	ConnectionString string `yaml:"ConnectionString"`
	QueueName        string `yaml:"QueueName"`
}

type RabbitMQ struct {
	ConnectionString string
	QueueName        string
	msgs             chan []byte
	logger           zerolog.Logger
	conn             *amqp.Connection
	ch               *amqp.Channel
}

func NewRabbitMQ(config RabbitMQConfig) *RabbitMQ {
	return &RabbitMQ{
		msgs:             make(chan []byte),
		ConnectionString: config.ConnectionString,
		QueueName:        config.QueueName,
		logger:           zerolog.New(os.Stdout).Level(zerolog.Level(zerolog.DebugLevel)).With().Timestamp().Logger(),
	}
}

func (r *RabbitMQ) SendEvents(events model.Events) error {
	var (
		msg []byte
		err error
	)

	msg, err = json.Marshal(events)
	if err != nil {
		return err
	}
	r.msgs <- msg
	return nil
}

// connect establishes a new connection and channel
func (r *RabbitMQ) connect() error {
	var (
		err error
	)
	r.conn, err = amqp.Dial(r.ConnectionString)
	if err != nil {
		return err
	}

	r.ch, err = r.conn.Channel()
	if err != nil {
		return err
	}

	_, err = r.ch.QueueDeclare(
		r.QueueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return err
	}

	return nil
}

// reconnect handles reconnection logic
func (r *RabbitMQ) reconnect() {
	for {
		r.logger.Info().Msg("Attempting to reconnect to RabbitMQ...")
		err := r.connect()
		if err == nil {
			r.logger.Info().Msg("Successfully reconnected to RabbitMQ...")
			break
		}
		r.logger.Error().Err(err).Msg("Reconnect failed")
		time.Sleep(5 * time.Second)
	}
}

// Start connects and launches the publisher loop.
func (r *RabbitMQ) Start(ctx context.Context, wg *sync.WaitGroup) {
	var err error

	err = r.connect()
	if err != nil {
		r.logger.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
	}
	go r.consume(ctx, wg)
}

// Close gracefully shuts down the connection and channel
func (r *RabbitMQ) Close() error {
	var err error

	err = r.conn.Close()
	if err != nil {
		return err
	}

	return nil
}

func (r *RabbitMQ) consume(ctx context.Context, wg *sync.WaitGroup) {
	var (
		err error
	)
	wg.Add(1)

	go func() {
		for msg := range r.msgs {
			err = r.ch.Publish(
				"",          // Exchange
				r.QueueName, // Routing key (queue name)
				false,       // Mandatory
				false,       // Immediate
				amqp.Publishing{
					ContentType: "application/json",
					Body:        msg,
				},
			)
			if err != nil {
				r.logger.Error().Err(err).Msg("Failed to publish a message")
				r.reconnect()
			}
		}
	}()

	r.logger.Info().Msg("Waiting")
	<-ctx.Done()
	// disconnect gracefully and leave
	r.Close()
	r.logger.Info().Msg("Received interrupt signal, closing connection")
	wg.Done()
}
