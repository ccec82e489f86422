package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/jhoicas/ventas-admin/internal/domain/entity"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
	closed  bool
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	out := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		f.records = append(f.records, r)
		out = append(out, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return out
}

func (f *fakeProducer) Close() { f.closed = true }

var fixedNow = time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)

func newTestPublisher(fp *fakeProducer) *KafkaPublisher {
	p := newKafkaPublisher(fp, "sales.events", nil)
	p.now = func() time.Time { return fixedNow }
	return p
}

func TestPublishSaleCreated(t *testing.T) {
	fp := &fakeProducer{}
	p := newTestPublisher(fp)

	err := p.PublishSaleCreated(context.Background(), &entity.Sale{
		InvoiceID:  "INV-20261018-00007",
		Date:       time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
		CustomerID: 3,
		Subtotal:   decimal.NewFromInt(35),
		Items:      []entity.SaleItem{{ProductCode: "P1", Qty: 2, UnitPrice: decimal.NewFromInt(10)}, {ProductCode: "P2", Qty: 3, UnitPrice: decimal.NewFromInt(5)}},
	})
	require.NoError(t, err)
	require.Len(t, fp.records, 1)

	rec := fp.records[0]
	assert.Equal(t, "sales.events", rec.Topic)
	assert.Equal(t, []byte("INV-20261018-00007"), rec.Key)
	assert.Equal(t, fixedNow, rec.Timestamp)

	var ev SaleEvent
	require.NoError(t, json.Unmarshal(rec.Value, &ev))
	assert.Equal(t, TypeSaleCreated, ev.Type)
	require.NotNil(t, ev.Sale)
	assert.Equal(t, "2026-10-18", ev.Sale.Date)
	assert.Len(t, ev.Sale.Items, 2)
	assert.True(t, decimal.NewFromInt(15).Equal(ev.Sale.Items[1].LineTotal))
}

func TestPublishSaleDeleted_Error(t *testing.T) {
	fp := &fakeProducer{err: errors.New("sin líder")}
	p := newTestPublisher(fp)

	err := p.PublishSaleDeleted(context.Background(), "INV-1")
	assert.ErrorContains(t, err, "sin líder")

	var ev SaleEvent
	require.NoError(t, json.Unmarshal(fp.records[0].Value, &ev))
	assert.Equal(t, TypeSaleDeleted, ev.Type)
	assert.Nil(t, ev.Sale)
}

func TestClose(t *testing.T) {
	fp := &fakeProducer{}
	newTestPublisher(fp).Close()
	assert.True(t, fp.closed)
}
