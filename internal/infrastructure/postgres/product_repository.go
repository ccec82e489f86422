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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = "code, name, category, price, color, created_at, updated_at"

// nextProductCode genera PRD-00001, PRD-00002... desde la secuencia product_code_seq.
const nextProductCode = "'PRD-' || lpad(nextval('product_code_seq')::text, 5, '0')"

// ProductRepo implementación de ProductRepository (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto. Si product.Code viene vacío lo asigna la secuencia.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	sql, args, err := productInsert(product).ToSql()
	if err != nil {
		return fmt.Errorf("build product insert: %w", err)
	}
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&product.Code); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func productInsert(product *entity.Product) squirrel.InsertBuilder {
	var code any = product.Code
	if product.Code == "" {
		code = squirrel.Expr(nextProductCode)
	}
	return psql.Insert("products").
		SetMap(map[string]any{
			"code":       code,
			"name":       product.Name,
			"category":   string(product.Category),
			"price":      product.Price,
			"color":      product.Color,
			"created_at": product.CreatedAt,
			"updated_at": product.UpdatedAt,
		}).
		Suffix("RETURNING code")
}

// GetByCode obtiene un producto por código; nil si no existe.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE code = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByCodes resuelve varios códigos en una sola consulta.
func (r *ProductRepo) GetByCodes(ctx context.Context, codes []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(codes))
	if len(codes) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products WHERE code = ANY($1)`, codes)
	if err != nil {
		return nil, fmt.Errorf("get products by code: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out[p.Code] = p
	}
	return out, rows.Err()
}

// List lista productos por nombre; search busca en código, nombre y categoría.
func (r *ProductRepo) List(ctx context.Context, filter repository.ListFilter) ([]*entity.Product, int, error) {
	sql, args, err := productListQuery(filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build product list: %w", err)
	}
	total, err := count(ctx, r.q, withSearch(psql.Select("COUNT(*)").From("products"), filter.Search, productSearchColumns...))
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0, filter.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

var productSearchColumns = []string{"code", "name", "category"}

func productListQuery(filter repository.ListFilter) squirrel.SelectBuilder {
	b := psql.Select(productColumns).From("products").OrderBy("name", "code")
	b = withSearch(b, filter.Search, productSearchColumns...)
	return paginate(b, filter.Limit, filter.Offset)
}

// Update actualiza los datos editables del producto.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	sql, args, err := psql.Update("products").
		SetMap(map[string]any{
			"name":       product.Name,
			"category":   string(product.Category),
			"price":      product.Price,
			"color":      product.Color,
			"updated_at": product.UpdatedAt,
		}).
		Where(squirrel.Eq{"code": product.Code}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build product update: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un producto. Si figura en alguna venta devuelve domain.ErrConflict.
func (r *ProductRepo) Delete(ctx context.Context, code string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE code = $1`, code)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el producto figura en ventas", domain.ErrConflict)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var category string
	if err := row.Scan(&p.Code, &p.Name, &category, &p.Price, &p.Color, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Category = entity.Category(category)
	return &p, nil
}
