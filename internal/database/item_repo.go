package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dquiroga/segundavida/internal/models"
)

var (
	ErrItemNotFound = errors.New("item not found")
)

const itemColumns = `id, name, description, price, dimensions, condition, category,
	images, main_image_index, sold, reserved, notes, created_at, updated_at`

func scanItem(row pgx.Row) (*models.Item, error) {
	item := &models.Item{}
	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &item.Price,
		&item.Dimensions, &item.Condition, &item.Category,
		&item.Images, &item.MainImageIndex, &item.Sold, &item.Reserved,
		&item.Notes, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if item.Images == nil {
		item.Images = []string{}
	}
	return item, nil
}

// CreateItem inserts a new item and returns it with the server-assigned
// id and timestamps. Sold and reserved always start false.
func (db *DB) CreateItem(ctx context.Context, req *models.CreateItemRequest) (*models.Item, error) {
	row := db.Pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO items (name, description, price, dimensions, condition, category,
			images, main_image_index, sold, reserved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, FALSE, NOW(), NOW())
		RETURNING %s
	`, itemColumns),
		req.Name, req.Description, req.Price, req.Dimensions, req.Condition,
		req.Category, req.Images, req.MainImageIndex,
	)

	item, err := scanItem(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return item, nil
}

// ListItems returns items ordered by creation time descending. This is the
// server-side filter stage: sold items are excluded unless params.IncludeSold,
// and a non-empty params.Category narrows by equality. The reserved toggle is
// applied in memory by the caller (models.FilterVisible). Always returns a
// non-nil slice.
func (db *DB) ListItems(ctx context.Context, params models.ListParams) ([]*models.Item, error) {
	var whereClauses []string
	var args []interface{}
	argIndex := 1

	if !params.IncludeSold {
		whereClauses = append(whereClauses, "sold = FALSE")
	}
	if params.Category != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, params.Category)
		argIndex++
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM items
		%s
		ORDER BY created_at DESC
	`, itemColumns, whereClause)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []*models.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}

	return items, nil
}

// GetItemByID retrieves a single item by its id
func (db *DB) GetItemByID(ctx context.Context, id string) (*models.Item, error) {
	row := db.Pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM items WHERE id = $1
	`, itemColumns), id)

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// SetItemSold updates the sold flag
func (db *DB) SetItemSold(ctx context.Context, id string, sold bool) error {
	return db.updateItemField(ctx, id, "sold = $2", sold)
}

// SetItemReserved updates the reserved flag
func (db *DB) SetItemReserved(ctx context.Context, id string, reserved bool) error {
	return db.updateItemField(ctx, id, "reserved = $2", reserved)
}

// SetItemMainImage updates the preferred display image index. The index is
// bounds-checked against the stored image list; read sites still re-validate.
func (db *DB) SetItemMainImage(ctx context.Context, id string, index int) error {
	item, err := db.GetItemByID(ctx, id)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(item.Images) {
		index = 0
	}
	return db.updateItemField(ctx, id, "main_image_index = $2", index)
}

// SetItemNotes updates the admin-authored notes text
func (db *DB) SetItemNotes(ctx context.Context, id string, notes string) error {
	return db.updateItemField(ctx, id, "notes = $2", notes)
}

// updateItemField applies a single-column partial update, touching updated_at.
func (db *DB) updateItemField(ctx context.Context, id string, setClause string, value interface{}) error {
	result, err := db.Pool.Exec(ctx, fmt.Sprintf(`
		UPDATE items SET %s, updated_at = NOW() WHERE id = $1
	`, setClause), id, value)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// DeleteItem removes an item. Deleting an id that does not exist returns
// ErrItemNotFound. Stored image objects are NOT removed here; the startup
// reconciliation sweep owns orphan cleanup.
func (db *DB) DeleteItem(ctx context.Context, id string) error {
	result, err := db.Pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// GetCatalogStats returns aggregate counts for the admin dashboard
func (db *DB) GetCatalogStats(ctx context.Context) (*models.CatalogStats, error) {
	stats := &models.CatalogStats{}
	err := db.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*) as total_items,
			COUNT(*) FILTER (WHERE sold = TRUE) as sold_items,
			COUNT(*) FILTER (WHERE reserved = TRUE AND sold = FALSE) as reserved_items,
			COUNT(*) FILTER (WHERE category = $1) as ropa_items
		FROM items
	`, models.CategoryRopa).Scan(
		&stats.TotalItems, &stats.SoldItems, &stats.ReservedItems, &stats.RopaItems,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog stats: %w", err)
	}
	return stats, nil
}

// ListAllImageURLs returns every image URL referenced by any item. Used by
// the storage reconciliation sweep to decide which objects are orphaned.
func (db *DB) ListAllImageURLs(ctx context.Context) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `SELECT unnest(images) FROM items`)
	if err != nil {
		return nil, fmt.Errorf("failed to list image urls: %w", err)
	}
	defer rows.Close()

	urls := []string{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan image url: %w", err)
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read image urls: %w", err)
	}

	return urls, nil
}
