// Package events publica altas y bajas de ventas en Kafka para sistemas externos
// (reportería, stock). La publicación es posterior al commit y no bloquea la venta.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/jhoicas/ventas-admin/internal/application/dto"
	"github.com/jhoicas/ventas-admin/internal/application/usecase"
	"github.com/jhoicas/ventas-admin/internal/domain/entity"
	"github.com/jhoicas/ventas-admin/pkg/config"
	"github.com/jhoicas/ventas-admin/pkg/logger"
)

// Tipos de evento.
const (
	TypeSaleCreated = "sale.created"
	TypeSaleDeleted = "sale.deleted"
)

// SaleEvent cuerpo JSON de cada mensaje. Sale solo viene en sale.created.
type SaleEvent struct {
	Type       string            `json:"type"`
	InvoiceID  string            `json:"invoice_id"`
	OccurredAt time.Time         `json:"occurred_at"`
	Sale       *dto.SaleResponse `json:"sale,omitempty"`
}

// producer es la parte de *kgo.Client que usamos.
type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

var (
	_ usecase.SaleEventPublisher = (*KafkaPublisher)(nil)
	_ usecase.SaleEventPublisher = NopPublisher{}
)

// KafkaPublisher publica eventos de ventas con franz-go. La clave del mensaje es el
// número de factura, así los eventos de una misma venta quedan en la misma partición.
type KafkaPublisher struct {
	client producer
	topic  string
	log    *logger.Logger
	now    func() time.Time
}

// NewKafkaPublisher crea el cliente de Kafka. La conexión se prueba en el primer envío.
func NewKafkaPublisher(cfg config.EventsConfig, log *logger.Logger) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.SalesTopic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("crear productor kafka: %w", err)
	}
	return newKafkaPublisher(client, cfg.SalesTopic, log), nil
}

func newKafkaPublisher(client producer, topic string, log *logger.Logger) *KafkaPublisher {
	if log == nil {
		log = logger.Nop()
	}
	l := log.Named("events")
	l.Info().Str("topic", topic).Msg("publicador de eventos de ventas listo")
	return &KafkaPublisher{client: client, topic: topic, log: l, now: time.Now}
}

// PublishSaleCreated publica sale.created con la venta completa.
func (p *KafkaPublisher) PublishSaleCreated(ctx context.Context, sale *entity.Sale) error {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for _, it := range sale.Items {
		items = append(items, dto.SaleItemResponse{
			ProductCode: it.ProductCode,
			Qty:         it.Qty,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal(),
		})
	}
	return p.publish(ctx, SaleEvent{
		Type:      TypeSaleCreated,
		InvoiceID: sale.InvoiceID,
		Sale: &dto.SaleResponse{
			InvoiceID:  sale.InvoiceID,
			Date:       sale.Date.Format("2006-01-02"),
			CustomerID: sale.CustomerID,
			Subtotal:   sale.Subtotal,
			Items:      items,
			CreatedAt:  sale.CreatedAt,
		},
	})
}

// PublishSaleDeleted publica sale.deleted.
func (p *KafkaPublisher) PublishSaleDeleted(ctx context.Context, invoiceID string) error {
	return p.publish(ctx, SaleEvent{Type: TypeSaleDeleted, InvoiceID: invoiceID})
}

func (p *KafkaPublisher) publish(ctx context.Context, ev SaleEvent) error {
	ev.OccurredAt = p.now().UTC()
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("serializar evento %s: %w", ev.Type, err)
	}
	rec := &kgo.Record{
		Topic:     p.topic,
		Key:       []byte(ev.InvoiceID),
		Value:     payload,
		Timestamp: ev.OccurredAt,
		Headers:   []kgo.RecordHeader{{Key: "type", Value: []byte(ev.Type)}},
	}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("publicar en %s: %w", p.topic, err)
	}
	p.log.Debug().Str("type", ev.Type).Str("invoice_id", ev.InvoiceID).Msg("evento publicado")
	return nil
}

// Close cierra el cliente de Kafka (vacía lo pendiente).
func (p *KafkaPublisher) Close() {
	p.log.Info().Str("topic", p.topic).Msg("cerrando publicador de eventos")
	p.client.Close()
}

// NopPublisher descarta los eventos; se usa cuando no hay brokers configurados.
type NopPublisher struct{}

func (NopPublisher) PublishSaleCreated(context.Context, *entity.Sale) error { return nil }
func (NopPublisher) PublishSaleDeleted(context.Context, string) error       { return nil }
