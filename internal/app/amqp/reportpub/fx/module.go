package fx

import (
	"luogu-auto-checkin/internal/app/amqp/reportpub"
	"luogu-auto-checkin/internal/app/checkin"
	"luogu-auto-checkin/internal/pkg/amqpclient"

	"go.uber.org/fx"
)

var Module = fx.Module(
	"amqp-reportpub",
	fx.Provide(
		amqpclient.NewAMQP,
		fx.Annotate(reportpub.NewPublisher, fx.As(new(checkin.ReportPublisher))),
	),
)
