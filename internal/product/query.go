// AngelaMos | 2026
// query.go

package product

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage              = 1
	DefaultLimit             = 10
	MaxLimit                 = 100
	DefaultLowStockThreshold = 10
	DefaultSortBy            = "createdAt"

	// MaxPage keeps the row offset within a signed 32-bit range.
	MaxPage = math.MaxInt32 / MaxLimit
)

// Dialect supplies the store-specific pieces of a listing query.
type Dialect interface {
	Placeholder(n int) string
	// ContainsFold renders a case-insensitive match of column against a
	// LIKE pattern escaped with '!'.
	ContainsFold(column, placeholder string) string
}

type postgresDialect struct{}

func (postgresDialect) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func (postgresDialect) ContainsFold(column, placeholder string) string {
	return column + ` ILIKE ` + placeholder + ` ESCAPE '!'`
}

// genericDialect targets stores without ILIKE and with positional "?"
// parameters (SQLite, MySQL).
type genericDialect struct{}

func (genericDialect) Placeholder(int) string {
	return "?"
}

func (genericDialect) ContainsFold(column, placeholder string) string {
	return `LOWER(` + column + `) LIKE LOWER(` + placeholder + `) ESCAPE '!'`
}

var (
	Postgres Dialect = postgresDialect{}
	Generic  Dialect = genericDialect{}
)

var sortColumns = map[string]string{
	"id":        "p.id",
	"name":      "p.name",
	"price":     "p.price",
	"sku":       "p.sku",
	"category":  "p.category",
	"stock":     "p.stock",
	"isActive":  "p.is_active",
	"createdAt": "p.created_at",
	"updatedAt": "p.updated_at",
}

type ListParams struct {
	Page      int
	Limit     int
	Search    string
	Category  string
	IsActive  *bool
	SortBy    string
	SortOrder string
	MinPrice  *float64
	MaxPrice  *float64
}

// Normalize applies defaults and bounds. It is idempotent.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if _, ok := sortColumns[p.SortBy]; !ok {
		p.SortBy = DefaultSortBy
	}
	if strings.EqualFold(p.SortOrder, "ASC") {
		p.SortOrder = "ASC"
	} else {
		p.SortOrder = "DESC"
	}
	return p
}

func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParseListParams reads listing parameters from a query string. Malformed
// page or limit values fall back to defaults; malformed filters are
// reported, since silently dropping a filter would widen the result.
func ParseListParams(q url.Values) (ListParams, []string) {
	var violations []string

	p := ListParams{
		Page:      atoiOr(q.Get("page"), DefaultPage),
		Limit:     atoiOr(q.Get("limit"), DefaultLimit),
		Search:    strings.TrimSpace(q.Get("search")),
		Category:  strings.TrimSpace(q.Get("category")),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}

	if q.Has("isActive") {
		v, err := strconv.ParseBool(q.Get("isActive"))
		if err != nil {
			violations = append(violations, "isActive must be true or false")
		} else {
			p.IsActive = &v
		}
	}

	for _, bound := range []struct {
		key string
		dst **float64
	}{
		{"minPrice", &p.MinPrice},
		{"maxPrice", &p.MaxPrice},
	} {
		raw := strings.TrimSpace(q.Get(bound.key))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			violations = append(violations, bound.key+" must be a number")
			continue
		}
		*bound.dst = &v
	}

	return p.Normalize(), violations
}

// ParseThreshold falls back to the default for missing, malformed or
// negative values.
func ParseThreshold(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 0 {
		return DefaultLowStockThreshold
	}
	return v
}

func atoiOr(raw string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return v
}

// Clauses are the generated fragments of a product query. Where and
// OrderBy carry their keywords and a leading space, or are empty.
type Clauses struct {
	Where   string
	OrderBy string
	Limit   string
	// Args binds Where and Limit; CountArgs binds Where only.
	Args      []any
	CountArgs []any
}

type QueryBuilder struct {
	dialect Dialect
	conds   []string
	args    []any
}

func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

func (b *QueryBuilder) bind(v any) string {
	b.args = append(b.args, v)
	return b.dialect.Placeholder(len(b.args))
}

func (b *QueryBuilder) where(cond string) {
	b.conds = append(b.conds, cond)
}

func (b *QueryBuilder) contains(column, term string) string {
	return b.dialect.ContainsFold(column, b.bind(likePattern(term)))
}

func (b *QueryBuilder) build(orderBy string, limit, offset int) Clauses {
	c := Clauses{OrderBy: " ORDER BY " + orderBy}

	if len(b.conds) > 0 {
		c.Where = " WHERE " + strings.Join(b.conds, " AND ")
	}

	c.CountArgs = append([]any(nil), b.args...)

	if limit > 0 {
		c.Limit = " LIMIT " + b.bind(limit) + " OFFSET " + b.bind(offset)
	}
	c.Args = b.args

	return c
}

// List translates listing parameters into clauses. Sorting always ends with
// p.id ASC so pages are stable when sort keys tie.
func (b *QueryBuilder) List(params ListParams) Clauses {
	p := params.Normalize()

	if p.Search != "" {
		b.where("(" + strings.Join([]string{
			b.contains("p.name", p.Search),
			b.contains("p.description", p.Search),
			b.contains("p.sku", p.Search),
		}, " OR ") + ")")
	}

	if p.Category != "" {
		b.where(b.contains("p.category", p.Category))
	}

	if p.IsActive != nil {
		b.where("p.is_active = " + b.bind(*p.IsActive))
	}

	if p.MinPrice != nil {
		b.where("p.price >= " + b.bind(*p.MinPrice))
	}

	if p.MaxPrice != nil {
		b.where("p.price <= " + b.bind(*p.MaxPrice))
	}

	orderBy := sortColumns[p.SortBy] + " " + p.SortOrder
	if p.SortBy != "id" {
		orderBy += ", p.id ASC"
	}

	return b.build(orderBy, p.Limit, p.Offset())
}

// ByCategory lists active products whose category contains category.
func (b *QueryBuilder) ByCategory(category string) Clauses {
	b.where(b.contains("p.category", category))
	b.where("p.is_active = " + b.bind(true))
	return b.build("p.name ASC, p.id ASC", 0, 0)
}

// LowStock lists active products with stock at or below threshold.
func (b *QueryBuilder) LowStock(threshold int) Clauses {
	b.where("p.stock <= " + b.bind(threshold))
	b.where("p.is_active = " + b.bind(true))
	return b.build("p.stock ASC, p.id ASC", 0, 0)
}

// '!' is the LIKE escape character on every dialect.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
