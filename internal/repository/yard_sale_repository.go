package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/yardline/yardline-api/internal/model"
)

// YardSaleFilter narrows the public listing query. Zero values mean "no
// filter".
type YardSaleFilter struct {
	City       string
	State      string
	ZipCode    string
	Category   string
	PriceRange string
	Status     string
	Offset     int
	Limit      int
}

type YardSaleRepo struct{ DB *sql.DB }

func NewYardSaleRepo(db *sql.DB) *YardSaleRepo { return &YardSaleRepo{DB: db} }

const yardSaleColumns = `id, owner_id, title, COALESCE(description,''),
	DATE_FORMAT(start_date,'%Y-%m-%d'), COALESCE(DATE_FORMAT(end_date,'%Y-%m-%d'),''),
	TIME_FORMAT(start_time,'%H:%i'), TIME_FORMAT(end_time,'%H:%i'),
	address, city, state, zip_code,
	contact_name, COALESCE(contact_phone,''), COALESCE(contact_email,''),
	COALESCE(venmo_url,''), COALESCE(facebook_url,''), allow_messages,
	categories, COALESCE(price_range,''), photos, COALESCE(featured_image,''),
	is_public, status, created_at, updated_at`

func scanYardSale(scan func(...any) error) (*model.YardSale, error) {
	var (
		ys             model.YardSale
		rawCats, rawPh []byte
	)
	err := scan(&ys.ID, &ys.OwnerID, &ys.Title, &ys.Description,
		&ys.StartDate, &ys.EndDate, &ys.StartTime, &ys.EndTime,
		&ys.Address, &ys.City, &ys.State, &ys.ZipCode,
		&ys.ContactName, &ys.ContactPhone, &ys.ContactEmail,
		&ys.VenmoURL, &ys.FacebookURL, &ys.AllowMessages,
		&rawCats, &ys.PriceRange, &rawPh, &ys.FeaturedImage,
		&ys.IsPublic, &ys.Status, &ys.CreatedAt, &ys.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	ys.Categories = unmarshalList(rawCats)
	ys.Photos = unmarshalList(rawPh)
	return &ys, nil
}

// Create inserts a yard sale owned by ys.OwnerID and fills in the generated
// id and timestamps. State abbreviations are stored uppercase.
func (r *YardSaleRepo) Create(ctx context.Context, ys *model.YardSale) error {
	ys.ID = uuid.NewString()
	ys.State = strings.ToUpper(strings.TrimSpace(ys.State))
	if ys.Status == "" {
		ys.Status = model.YardSaleActive
	}
	cats, err := marshalList(ys.Categories)
	if err != nil {
		return err
	}
	photos, err := marshalList(ys.Photos)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO yard_sales
		 (id, owner_id, title, description, start_date, end_date, start_time,
		  end_time, address, city, state, zip_code, contact_name, contact_phone,
		  contact_email, venmo_url, facebook_url, allow_messages, categories,
		  price_range, photos, featured_image, is_public, status)
		 VALUES (?,?,?,?,?,NULLIF(?,''),?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		ys.ID, ys.OwnerID, ys.Title, ys.Description, ys.StartDate, ys.EndDate,
		ys.StartTime, ys.EndTime, ys.Address, ys.City, ys.State, ys.ZipCode,
		ys.ContactName, ys.ContactPhone, ys.ContactEmail, ys.VenmoURL,
		ys.FacebookURL, ys.AllowMessages, cats, ys.PriceRange, photos,
		ys.FeaturedImage, ys.IsPublic, ys.Status)
	if err != nil {
		return err
	}
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM yard_sales WHERE id=?", ys.ID).
		Scan(&ys.CreatedAt, &ys.UpdatedAt)
}

// GetByID fetches a yard sale regardless of visibility; the handler decides
// whether the caller may see a private one.
func (r *YardSaleRepo) GetByID(ctx context.Context, id string) (*model.YardSale, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+yardSaleColumns+" FROM yard_sales WHERE id=?", id)
	return scanYardSale(row.Scan)
}

// List returns public yard sales matching the filter, soonest start date
// first.
func (r *YardSaleRepo) List(ctx context.Context, f YardSaleFilter) ([]*model.YardSale, error) {
	q := "SELECT " + yardSaleColumns + " FROM yard_sales WHERE is_public=1"
	var args []any
	if f.City != "" {
		q += " AND city LIKE ?"
		args = append(args, "%"+f.City+"%")
	}
	if f.State != "" {
		q += " AND state=?"
		args = append(args, strings.ToUpper(f.State))
	}
	if f.ZipCode != "" {
		q += " AND zip_code=?"
		args = append(args, f.ZipCode)
	}
	if f.Category != "" {
		q += " AND JSON_CONTAINS(categories, JSON_QUOTE(?))"
		args = append(args, f.Category)
	}
	if f.PriceRange != "" {
		q += " AND price_range=?"
		args = append(args, f.PriceRange)
	}
	if f.Status != "" {
		q += " AND status=?"
		args = append(args, f.Status)
	}
	q += " ORDER BY start_date ASC LIMIT ? OFFSET ?"
	if f.Limit <= 0 {
		f.Limit = 100
	}
	args = append(args, f.Limit, f.Offset)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.YardSale
	for rows.Next() {
		ys, err := scanYardSale(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, ys)
	}
	return out, rows.Err()
}

// ListByOwner returns every yard sale of one owner, including private ones.
func (r *YardSaleRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.YardSale, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+yardSaleColumns+" FROM yard_sales WHERE owner_id=? ORDER BY start_date ASC",
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.YardSale
	for rows.Next() {
		ys, err := scanYardSale(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, ys)
	}
	return out, rows.Err()
}

// Update persists every mutable field of ys. Ownership is checked by the
// handler via auth.CanModify before calling.
func (r *YardSaleRepo) Update(ctx context.Context, ys *model.YardSale) error {
	ys.State = strings.ToUpper(strings.TrimSpace(ys.State))
	cats, err := marshalList(ys.Categories)
	if err != nil {
		return err
	}
	photos, err := marshalList(ys.Photos)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE yard_sales SET title=?, description=?, start_date=?,
		 end_date=NULLIF(?,''), start_time=?, end_time=?, address=?, city=?,
		 state=?, zip_code=?, contact_name=?, contact_phone=?, contact_email=?,
		 venmo_url=?, facebook_url=?, allow_messages=?, categories=?,
		 price_range=?, photos=?, featured_image=?, is_public=?, status=?,
		 updated_at=NOW()
		 WHERE id=?`,
		ys.Title, ys.Description, ys.StartDate, ys.EndDate, ys.StartTime,
		ys.EndTime, ys.Address, ys.City, ys.State, ys.ZipCode, ys.ContactName,
		ys.ContactPhone, ys.ContactEmail, ys.VenmoURL, ys.FacebookURL,
		ys.AllowMessages, cats, ys.PriceRange, photos, ys.FeaturedImage,
		ys.IsPublic, ys.Status, ys.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus updates only the status column.
func (r *YardSaleRepo) SetStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE yard_sales SET status=?, updated_at=NOW() WHERE id=?", status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a yard sale. Comments, conversations and messages cascade
// via foreign keys.
func (r *YardSaleRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM yard_sales WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of yard sales, for the admin stats endpoint.
func (r *YardSaleRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM yard_sales").Scan(&n)
	return n, err
}
