// AngelaMos | 2026
// repository.go

package product

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/catalog-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, fields *ProductFields, userID int64) (*Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetBySKU(ctx context.Context, sku string) (*Product, error)
	List(ctx context.Context, params ListParams) ([]Product, int, error)
	Update(
		ctx context.Context,
		id int64,
		fields *ProductFields,
		userID int64,
	) (*Product, error)
	Delete(ctx context.Context, id int64) error
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]Product, error)
	Stats(ctx context.Context) (*CatalogStats, error)
}

type CatalogStats struct {
	Total      int `db:"total"        json:"total"`
	Active     int `db:"active"       json:"active"`
	Inactive   int `db:"inactive"     json:"inactive"`
	OutOfStock int `db:"out_of_stock" json:"outOfStock"`
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

type productRow struct {
	ID              int64           `db:"id"`
	Name            string          `db:"name"`
	Description     sql.NullString  `db:"description"`
	Price           float64         `db:"price"`
	SKU             string          `db:"sku"`
	Category        string          `db:"category"`
	Stock           int             `db:"stock"`
	IsActive        bool            `db:"is_active"`
	Weight          sql.NullFloat64 `db:"weight"`
	Dimensions      sql.NullString  `db:"dimensions"`
	Tags            string          `db:"tags"`
	CreatedBy       int64           `db:"created_by"`
	UpdatedBy       sql.NullInt64   `db:"updated_by"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
	CreatorUsername sql.NullString  `db:"creator_username"`
	CreatorEmail    sql.NullString  `db:"creator_email"`
	UpdaterUsername sql.NullString  `db:"updater_username"`
	UpdaterEmail    sql.NullString  `db:"updater_email"`
}

// selectFrom reads products, with creator and updater joined, from source.
// source is either the products table or a CTE producing product rows.
func selectFrom(source string) string {
	return `
		SELECT p.id, p.name, p.description, p.price::float8 AS price, p.sku,
		       p.category, p.stock, p.is_active, p.weight::float8 AS weight,
		       p.dimensions::text AS dimensions, p.tags::text AS tags,
		       p.created_by, p.updated_by, p.created_at, p.updated_at,
		       c.username AS creator_username, c.email AS creator_email,
		       u.username AS updater_username, u.email AS updater_email
		FROM ` + source + ` p
		LEFT JOIN users c ON c.id = p.created_by
		LEFT JOIN users u ON u.id = p.updated_by`
}

var selectProducts = selectFrom("products")

func (r *repository) Create(
	ctx context.Context,
	fields *ProductFields,
	userID int64,
) (*Product, error) {
	dims, err := encodeDimensions(fields.Dimensions.Value)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	tags := []string{}
	if fields.Tags != nil {
		tags = *fields.Tags
	}

	stock := 0
	if fields.Stock != nil {
		stock = *fields.Stock
	}

	isActive := true
	if fields.IsActive != nil {
		isActive = *fields.IsActive
	}

	query := `
		WITH inserted AS (
			INSERT INTO products (
				name, description, price, sku, category, stock, is_active,
				weight, dimensions, tags, created_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10::jsonb, $11)
			RETURNING *
		)` + selectFrom("inserted")

	var row productRow
	err = r.db.GetContext(ctx, &row, query,
		deref(fields.Name),
		fields.Description.Value,
		deref(fields.Price),
		deref(fields.SKU),
		deref(fields.Category),
		stock,
		isActive,
		fields.Weight.Value,
		dims,
		encodeTags(tags),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", translateError(err))
	}

	return row.toProduct()
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	var row productRow
	err := r.db.GetContext(ctx, &row, selectProducts+` WHERE p.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return row.toProduct()
}

func (r *repository) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	var row productRow
	err := r.db.GetContext(ctx, &row, selectProducts+` WHERE p.sku = $1`, sku)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product by sku: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product by sku: %w", err)
	}

	return row.toProduct()
}

// List reads the count and the page from one snapshot so total always
// agrees with the rows returned. Inside a caller's transaction it reuses it.
func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Product, int, error) {
	beginner, ok := r.db.(core.TxBeginner)
	if !ok {
		return listPage(ctx, r.db, params)
	}

	var (
		products []Product
		total    int
	)
	err := core.InTxWith(ctx, beginner, core.SnapshotTx, func(tx *sqlx.Tx) error {
		var err error
		products, total, err = listPage(ctx, tx, params)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func listPage(
	ctx context.Context,
	db core.DBTX,
	params ListParams,
) ([]Product, int, error) {
	q := NewQueryBuilder(Postgres).List(params)

	var total int
	countQuery := `SELECT COUNT(*) FROM products p` + q.Where
	if err := db.GetContext(ctx, &total, countQuery, q.CountArgs...); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	products, err := selectProductRows(ctx, db, q)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

func (r *repository) ListByCategory(
	ctx context.Context,
	category string,
) ([]Product, error) {
	products, err := r.selectProducts(ctx, NewQueryBuilder(Postgres).ByCategory(category))
	if err != nil {
		return nil, fmt.Errorf("list products by category: %w", err)
	}
	return products, nil
}

func (r *repository) ListLowStock(
	ctx context.Context,
	threshold int,
) ([]Product, error) {
	products, err := r.selectProducts(ctx, NewQueryBuilder(Postgres).LowStock(threshold))
	if err != nil {
		return nil, fmt.Errorf("list low stock products: %w", err)
	}
	return products, nil
}

func (r *repository) selectProducts(ctx context.Context, q Clauses) ([]Product, error) {
	return selectProductRows(ctx, r.db, q)
}

func selectProductRows(ctx context.Context, db core.DBTX, q Clauses) ([]Product, error) {
	var rows []productRow
	query := selectProducts + q.Where + q.OrderBy + q.Limit
	if err := db.SelectContext(ctx, &rows, query, q.Args...); err != nil {
		return nil, err
	}

	products := make([]Product, 0, len(rows))
	for i := range rows {
		p, err := rows[i].toProduct()
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}

	return products, nil
}

// Update writes the supplied fields and stamps updated_by. The join back to
// users happens in the same statement, so the returned row is the one that
// was written.
func (r *repository) Update(
	ctx context.Context,
	id int64,
	fields *ProductFields,
	userID int64,
) (*Product, error) {
	sets := []string{"updated_by = $2", "updated_at = NOW()"}
	args := []any{id, userID}

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if fields.Name != nil {
		set("name", *fields.Name)
	}
	if fields.Description.Set {
		set("description", fields.Description.Value)
	}
	if fields.Price != nil {
		set("price", *fields.Price)
	}
	if fields.SKU != nil {
		set("sku", *fields.SKU)
	}
	if fields.Category != nil {
		set("category", *fields.Category)
	}
	if fields.Stock != nil {
		set("stock", *fields.Stock)
	}
	if fields.IsActive != nil {
		set("is_active", *fields.IsActive)
	}
	if fields.Weight.Set {
		set("weight", fields.Weight.Value)
	}
	if fields.Dimensions.Set {
		dims, err := encodeDimensions(fields.Dimensions.Value)
		if err != nil {
			return nil, fmt.Errorf("update product: %w", err)
		}
		args = append(args, dims)
		sets = append(sets, "dimensions = $"+strconv.Itoa(len(args))+"::jsonb")
	}
	if fields.Tags != nil {
		args = append(args, encodeTags(*fields.Tags))
		sets = append(sets, "tags = $"+strconv.Itoa(len(args))+"::jsonb")
	}

	query := `
		WITH updated AS (
			UPDATE products
			SET ` + strings.Join(sets, ", ") + `
			WHERE id = $1
			RETURNING *
		)` + selectFrom("updated")

	var row productRow
	err := r.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", translateError(err))
	}

	return row.toProduct()
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete product: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Stats(ctx context.Context) (*CatalogStats, error) {
	query := `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE is_active) AS active,
		       COUNT(*) FILTER (WHERE NOT is_active) AS inactive,
		       COUNT(*) FILTER (WHERE is_active AND stock = 0) AS out_of_stock
		FROM products`

	var stats CatalogStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("product stats: %w", err)
	}
	return &stats, nil
}

func translateError(err error) error {
	switch {
	case core.IsDuplicateKeyError(err):
		return core.ErrDuplicateKey
	case core.IsConstraintViolation(err):
		return fmt.Errorf("%w: %w", core.ErrInvalidInput, err)
	case core.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %w", core.ErrUnauthorized, err)
	default:
		return err
	}
}

func (row *productRow) toProduct() (*Product, error) {
	dims, err := decodeDimensions(row.Dimensions)
	if err != nil {
		return nil, err
	}

	tags, err := decodeTags(row.Tags)
	if err != nil {
		return nil, err
	}

	p := &Product{
		ID:         row.ID,
		Name:       row.Name,
		Price:      row.Price,
		SKU:        row.SKU,
		Category:   row.Category,
		Stock:      row.Stock,
		IsActive:   row.IsActive,
		Dimensions: dims,
		Tags:       tags,
		CreatedBy:  row.CreatedBy,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}

	if row.Description.Valid {
		p.Description = &row.Description.String
	}
	if row.Weight.Valid {
		p.Weight = &row.Weight.Float64
	}
	if row.CreatorUsername.Valid {
		p.Creator = &UserRef{
			ID:       row.CreatedBy,
			Username: row.CreatorUsername.String,
			Email:    nullStringPtr(row.CreatorEmail),
		}
	}
	if row.UpdatedBy.Valid {
		p.UpdatedBy = &row.UpdatedBy.Int64
		if row.UpdaterUsername.Valid {
			p.Updater = &UserRef{
				ID:       row.UpdatedBy.Int64,
				Username: row.UpdaterUsername.String,
				Email:    nullStringPtr(row.UpdaterEmail),
			}
		}
	}

	return p, nil
}

func encodeDimensions(d *Dimensions) (*string, error) {
	if d == nil {
		return nil, nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode dimensions: %w", err)
	}
	s := string(data)
	return &s, nil
}

func decodeDimensions(raw sql.NullString) (*Dimensions, error) {
	if !raw.Valid || raw.String == "" || raw.String == "null" {
		return nil, nil
	}
	var d Dimensions
	if err := json.Unmarshal([]byte(raw.String), &d); err != nil {
		return nil, fmt.Errorf("decode dimensions: %w", err)
	}
	return &d, nil
}

func encodeTags(tags []string) string {
	if tags == nil {
		return "[]"
	}
	//nolint:errchkjson // []string always marshals
	data, _ := json.Marshal(tags)
	return string(data)
}

func decodeTags(raw string) ([]string, error) {
	tags := []string{}
	if raw == "" || raw == "null" {
		return tags, nil
	}
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return tags, nil
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
