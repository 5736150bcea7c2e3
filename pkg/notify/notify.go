package notify

import (
	"fmt"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/tmstore/pkg/models"
	"go.uber.org/zap"
)

// OrderCreated is the message sent to the confirmation actor after an order
// persists.
type OrderCreated struct {
	OrderNumber   string
	CustomerName  string
	CustomerPhone string
	Total         int64
	Items         []models.OrderItem
}

// confirmationActor turns order events into customer-facing confirmations.
// Delivery is fire-and-forget: a failed confirmation never fails checkout.
type confirmationActor struct {
	logger *zap.Logger
}

func (a *confirmationActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *OrderCreated:
		a.logger.Info("Order confirmation",
			zap.String("order_number", msg.OrderNumber),
			zap.String("recipient", msg.CustomerPhone),
			zap.Int("item_count", len(msg.Items)),
			zap.Int64("total", msg.Total))

	case *actor.Started:
		a.logger.Info("Confirmation actor started")

	case *actor.Stopping:
		a.logger.Info("Confirmation actor stopping")
	}
}

// ActorNotifier satisfies order.Notifier by forwarding events to an
// in-process actor.
type ActorNotifier struct {
	system *actor.ActorSystem
	pid    *actor.PID
}

func NewActorNotifier(logger *zap.Logger) (*ActorNotifier, error) {
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return &confirmationActor{logger: logger.Named("confirmation-actor")}
	})
	pid, err := system.Root.SpawnNamed(props, "confirmation-actor")
	if err != nil {
		return nil, fmt.Errorf("failed to spawn confirmation actor: %w", err)
	}
	return &ActorNotifier{system: system, pid: pid}, nil
}

func (n *ActorNotifier) OrderCreated(order *models.Order, items []models.OrderItem) {
	n.system.Root.Send(n.pid, &OrderCreated{
		OrderNumber:   order.OrderNumber,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		Total:         order.Total,
		Items:         items,
	})
}

func (n *ActorNotifier) Shutdown() {
	n.system.Root.Stop(n.pid)
	n.system.Shutdown()
}
