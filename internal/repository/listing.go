package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/yardline/yardline-api/internal/model"
)

// ListingDirectory resolves a model.ListingRef against whichever table
// backs it.
type ListingDirectory struct{ DB *sql.DB }

func NewListingDirectory(db *sql.DB) *ListingDirectory { return &ListingDirectory{DB: db} }

// Lookup returns listing info for either variant, or ErrNotFound.
func (d *ListingDirectory) Lookup(ctx context.Context, ref model.ListingRef) (model.ListingInfo, error) {
	var (
		info model.ListingInfo
		err  error
	)
	switch ref.Type {
	case model.ListingYardSale:
		err = d.DB.QueryRowContext(ctx,
			"SELECT owner_id, allow_messages, is_public FROM yard_sales WHERE id=?",
			ref.ID).Scan(&info.OwnerID, &info.AllowMessages, &info.IsPublic)
	case model.ListingMarketItem:
		err = d.DB.QueryRowContext(ctx,
			"SELECT owner_id, allow_messages, is_public FROM items WHERE id=?",
			ref.ID).Scan(&info.OwnerID, &info.AllowMessages, &info.IsPublic)
	default:
		return model.ListingInfo{}, ErrNotFound
	}
	if errors.Is(err, sql.ErrNoRows) {
		return model.ListingInfo{}, ErrNotFound
	}
	return info, err
}

// marshalList stores a string slice as a JSON column; nil stays NULL.
func marshalList(v []string) (any, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// unmarshalList reads a nullable JSON column back into a slice.
func unmarshalList(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
