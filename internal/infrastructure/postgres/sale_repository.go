package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ventas-admin/internal/domain"
	"github.com/jhoicas/ventas-admin/internal/domain/entity"
	"github.com/jhoicas/ventas-admin/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// nextInvoiceID genera INV-YYYYMMDD-NNNNN con la fecha de la venta y la secuencia invoice_seq.
const nextInvoiceID = "'INV-' || to_char($1::date, 'YYYYMMDD') || '-' || lpad(nextval('invoice_seq')::text, 5, '0')"

// SaleRepo implementación de SaleRepository (usable con pool o tx).
// Create inserta cabecera y líneas; conviene llamarlo dentro de TxRunner.RunSale.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la venta y sus líneas; asigna InvoiceID y los IDs de línea.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (invoice_id, date, customer_id, subtotal, created_at, updated_at)
		VALUES (` + nextInvoiceID + `, $1, $2, $3, $4, $5)
		RETURNING invoice_id`
	err := r.q.QueryRow(ctx, query,
		sale.Date, sale.CustomerID, sale.Subtotal, sale.CreatedAt, sale.UpdatedAt,
	).Scan(&sale.InvoiceID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: cliente inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert sale: %w", err)
	}

	const itemQuery = `
		INSERT INTO sale_items (invoice_id, product_code, qty, unit_price, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	for i := range sale.Items {
		it := &sale.Items[i]
		it.InvoiceID = sale.InvoiceID
		err := r.q.QueryRow(ctx, itemQuery,
			it.InvoiceID, it.ProductCode, it.Qty, it.UnitPrice, it.CreatedAt,
		).Scan(&it.ID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: producto %s inexistente", domain.ErrInvalidInput, it.ProductCode)
			}
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una venta con sus líneas; nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, invoiceID string) (*entity.Sale, error) {
	query := `
		SELECT invoice_id, date, customer_id, subtotal, created_at, updated_at
		FROM sales WHERE invoice_id = $1`
	s, err := scanSale(r.q.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Sale{s}); err != nil {
		return nil, err
	}
	return s, nil
}

// List lista ventas, más recientes primero; search busca en número de factura y nombre del cliente.
func (r *SaleRepo) List(ctx context.Context, filter repository.ListFilter) ([]*entity.Sale, int, error) {
	sql, args, err := saleListQuery(filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build sale list: %w", err)
	}
	countQ := psql.Select("COUNT(*)").From("sales s").LeftJoin("customers c ON c.id = s.customer_id")
	total, err := count(ctx, r.q, withSearch(countQ, filter.Search, saleSearchColumns...))
	if err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	list := make([]*entity.Sale, 0, filter.Limit)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

var saleSearchColumns = []string{"s.invoice_id", "c.name"}

func saleListQuery(filter repository.ListFilter) squirrel.SelectBuilder {
	b := psql.Select("s.invoice_id", "s.date", "s.customer_id", "s.subtotal", "s.created_at", "s.updated_at").
		From("sales s").
		LeftJoin("customers c ON c.id = s.customer_id").
		OrderBy("s.date DESC", "s.invoice_id DESC")
	b = withSearch(b, filter.Search, saleSearchColumns...)
	return paginate(b, filter.Limit, filter.Offset)
}

// loadItems carga las líneas de todas las ventas en una sola consulta.
func (r *SaleRepo) loadItems(ctx context.Context, sales []*entity.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Sale, len(sales))
	ids := make([]string, 0, len(sales))
	for _, s := range sales {
		byID[s.InvoiceID] = s
		ids = append(ids, s.InvoiceID)
	}
	sql, args, err := psql.Select("id", "invoice_id", "product_code", "qty", "unit_price", "created_at").
		From("sale_items").
		Where(squirrel.Eq{"invoice_id": ids}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build sale items query: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductCode, &it.Qty, &it.UnitPrice, &it.CreatedAt); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		if s, ok := byID[it.InvoiceID]; ok {
			s.Items = append(s.Items, it)
		}
	}
	return rows.Err()
}

// Delete elimina la venta; las líneas caen por ON DELETE CASCADE.
func (r *SaleRepo) Delete(ctx context.Context, invoiceID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sales WHERE invoice_id = $1`, invoiceID)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	if err := row.Scan(&s.InvoiceID, &s.Date, &s.CustomerID, &s.Subtotal, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
