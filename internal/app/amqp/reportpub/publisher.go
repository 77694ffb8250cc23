package reportpub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"luogu-auto-checkin/config"
	core "luogu-auto-checkin/internal/checkin"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	EventName         = "checkin/report.completed"
	DefaultExchange   = "events"
	DefaultRoutingKey = "checkin.report.completed.v1"
)

// ReportCompletedEnvelope is the message body published after every sweep.
type ReportCompletedEnvelope struct {
	EventName string      `json:"event_name"`
	EventID   string      `json:"event_id"`
	TS        time.Time   `json:"ts"`
	Data      core.Report `json:"data"`
}

type publishFunc func(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error

type Publisher struct {
	cfg     *config.Config
	channel *amqp.Channel
	logger  *zap.SugaredLogger
	now     func() time.Time

	publish publishFunc
}

type NewPublisherParams struct {
	fx.In

	Cfg     *config.Config
	Channel *amqp.Channel `optional:"true"`
	Logger  *zap.SugaredLogger
}

func NewPublisher(p NewPublisherParams) *Publisher {
	var fn publishFunc
	if p.Channel != nil {
		fn = p.Channel.PublishWithContext
	}

	return &Publisher{
		cfg:     p.Cfg,
		channel: p.Channel,
		logger:  p.Logger,
		now:     time.Now,
		publish: fn,
	}
}

// PublishReport is a no-op while RabbitMQ is disabled.
func (p *Publisher) PublishReport(ctx context.Context, report core.Report) error {
	if p.publish == nil {
		p.logger.Debugw("rabbitmq_disabled_skip_publish", "run_id", report.RunID)
		return nil
	}

	ex := p.cfg.RabbitMQ.Exchange
	if ex == "" {
		ex = DefaultExchange
	}
	routingKey := p.cfg.RabbitMQ.RoutingKey
	if routingKey == "" {
		routingKey = DefaultRoutingKey
	}

	now := p.now().UTC()
	body, err := json.Marshal(ReportCompletedEnvelope{
		EventName: EventName,
		EventID:   report.RunID,
		TS:        now,
		Data:      report,
	})
	if err != nil {
		return fmt.Errorf("marshal report envelope: %w", err)
	}

	if p.channel != nil && p.cfg.RabbitMQ.DeclareTopology {
		if err := p.channel.ExchangeDeclare(ex, "topic", true, false, false, false, nil); err != nil {
			return fmt.Errorf("rabbitmq exchange declare %q: %w", ex, err)
		}
	}

	if err := p.publish(ctx, ex, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    now,
		MessageId:    report.RunID,
		Body:         body,
	}); err != nil {
		return fmt.Errorf("rabbitmq publish exchange=%q key=%q: %w", ex, routingKey, err)
	}

	p.logger.Infow("checkin_report_published",
		"exchange", ex,
		"routing_key", routingKey,
		"run_id", report.RunID,
	)
	return nil
}
