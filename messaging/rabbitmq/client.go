package rabbitmq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Client holds one connection and one channel to the broker.
type Client struct {
	conn *amqp.Connection
	chn  *amqp.Channel
}

func NewClient(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	chn, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	return &Client{conn: conn, chn: chn}, nil
}

func (c *Client) Close() error {
	if err := c.chn.Close(); err != nil {
		return err
	}
	return c.conn.Close()
}

// DeclareQueue makes sure a durable queue exists.
func (c *Client) DeclareQueue(name string) error {
	_, err := c.chn.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	return err
}

// Publish sends a persistent JSON message to queue through the default exchange.
func (c *Client) Publish(ctx context.Context, queue string, body []byte) error {
	return c.chn.PublishWithContext(
		ctx,
		"",    // exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
