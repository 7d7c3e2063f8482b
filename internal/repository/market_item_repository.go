package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/yardline/yardline-api/internal/model"
)

// MarketItemFilter narrows the public search query.
type MarketItemFilter struct {
	Query    string
	Category string
	MinPrice *float64
	MaxPrice *float64
	Status   string
	Offset   int
	Limit    int
}

type MarketItemRepo struct{ DB *sql.DB }

func NewMarketItemRepo(db *sql.DB) *MarketItemRepo { return &MarketItemRepo{DB: db} }

const itemColumns = `id, owner_id, name, COALESCE(description,''), price,
	COALESCE(` + "`condition`" + `,''), COALESCE(quantity,1),
	COALESCE(category,''), is_free, accepts_best_offer, allow_messages,
	photos, COALESCE(featured_image,''), is_public, status,
	created_at, updated_at`

func scanItem(scan func(...any) error) (*model.MarketItem, error) {
	var (
		it    model.MarketItem
		rawPh []byte
	)
	err := scan(&it.ID, &it.OwnerID, &it.Name, &it.Description, &it.Price,
		&it.Condition, &it.Quantity, &it.Category, &it.IsFree,
		&it.AcceptsBestOffer, &it.AllowMessages, &rawPh, &it.FeaturedImage,
		&it.IsPublic, &it.Status, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	it.Photos = unmarshalList(rawPh)
	return &it, nil
}

// Create inserts a market item and fills in the generated id and
// timestamps. Free items are stored with a zero price.
func (r *MarketItemRepo) Create(ctx context.Context, it *model.MarketItem) error {
	it.ID = uuid.NewString()
	if it.Status == "" {
		it.Status = model.ItemActive
	}
	if it.Quantity <= 0 {
		it.Quantity = 1
	}
	if it.IsFree {
		it.Price = 0
	}
	photos, err := marshalList(it.Photos)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO items (id, owner_id, name, description, price, `condition`,"+
			" quantity, category, is_free, accepts_best_offer, allow_messages,"+
			" photos, featured_image, is_public, status)"+
			" VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)",
		it.ID, it.OwnerID, it.Name, it.Description, it.Price, it.Condition,
		it.Quantity, it.Category, it.IsFree, it.AcceptsBestOffer,
		it.AllowMessages, photos, it.FeaturedImage, it.IsPublic, it.Status)
	if err != nil {
		return err
	}
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM items WHERE id=?", it.ID).
		Scan(&it.CreatedAt, &it.UpdatedAt)
}

// GetByID fetches an item regardless of visibility; the handler decides
// whether the caller may see a private one.
func (r *MarketItemRepo) GetByID(ctx context.Context, id string) (*model.MarketItem, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM items WHERE id=?", id)
	return scanItem(row.Scan)
}

// Search returns public items matching the filter, newest first.
func (r *MarketItemRepo) Search(ctx context.Context, f MarketItemFilter) ([]*model.MarketItem, error) {
	q := "SELECT " + itemColumns + " FROM items WHERE is_public=1"
	var args []any
	if f.Query != "" {
		q += " AND (name LIKE ? OR description LIKE ?)"
		pat := "%" + f.Query + "%"
		args = append(args, pat, pat)
	}
	if f.Category != "" {
		q += " AND category=?"
		args = append(args, f.Category)
	}
	if f.MinPrice != nil {
		q += " AND price >= ?"
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q += " AND price <= ?"
		args = append(args, *f.MaxPrice)
	}
	if f.Status != "" {
		q += " AND status=?"
		args = append(args, f.Status)
	}
	q += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	if f.Limit <= 0 {
		f.Limit = 100
	}
	args = append(args, f.Limit, f.Offset)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.MarketItem
	for rows.Next() {
		it, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ListByOwner returns every item of one owner, including private ones.
func (r *MarketItemRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.MarketItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM items WHERE owner_id=? ORDER BY created_at DESC",
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.MarketItem
	for rows.Next() {
		it, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Update persists every mutable field of it.
func (r *MarketItemRepo) Update(ctx context.Context, it *model.MarketItem) error {
	if it.IsFree {
		it.Price = 0
	}
	photos, err := marshalList(it.Photos)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE items SET name=?, description=?, price=?, `condition`=?,"+
			" quantity=?, category=?, is_free=?, accepts_best_offer=?,"+
			" allow_messages=?, photos=?, featured_image=?, is_public=?,"+
			" status=?, updated_at=NOW() WHERE id=?",
		it.Name, it.Description, it.Price, it.Condition, it.Quantity,
		it.Category, it.IsFree, it.AcceptsBestOffer, it.AllowMessages,
		photos, it.FeaturedImage, it.IsPublic, it.Status, it.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus updates only the status column.
func (r *MarketItemRepo) SetStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE items SET status=?, updated_at=NOW() WHERE id=?", status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an item. Comments, conversations and messages cascade via
// foreign keys.
func (r *MarketItemRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM items WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of items, for the admin stats endpoint.
func (r *MarketItemRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&n)
	return n, err
}
