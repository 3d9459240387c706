package db

import (
	"context"
	"strings"
)

const upsertProduct = `
insert into product (id, sku, name) values (?, ?, ?)
on conflict (id) do update set
    sku = case when excluded.sku != '' then excluded.sku else product.sku end,
    name = case when excluded.name != '' then excluded.name else product.name end
`

type UpsertProductParams struct {
	ID   int64
	Sku  string
	Name string
}

func (q *Queries) UpsertProduct(ctx context.Context, arg UpsertProductParams) error {
	_, err := q.db.ExecContext(ctx, upsertProduct, arg.ID, arg.Sku, arg.Name)
	return err
}

const deleteSnapshotsIn = `
delete from stock_snapshot
where time >= ? and time < ? and product_id in (/*SLICE:products*/?)
`

type DeleteSnapshotsInParams struct {
	After    int64
	Before   int64
	Products []int64
}

func (q *Queries) DeleteSnapshotsIn(ctx context.Context, arg DeleteSnapshotsInParams) error {
	if len(arg.Products) == 0 {
		return nil
	}
	query := deleteSnapshotsIn
	args := []interface{}{arg.After, arg.Before}
	placeholders := make([]string, len(arg.Products))
	for i, id := range arg.Products {
		placeholders[i] = "?"
		args = append(args, id)
	}
	query = strings.Replace(query, "/*SLICE:products*/?", strings.Join(placeholders, ","), 1)
	_, err := q.db.ExecContext(ctx, query, args...)
	return err
}

const createSnapshot = `
insert into stock_snapshot (product_id, time, level) values (?, ?, ?)
`

type CreateSnapshotParams struct {
	ProductID int64
	Time      int64
	Level     int64
}

func (q *Queries) CreateSnapshot(ctx context.Context, arg CreateSnapshotParams) error {
	_, err := q.db.ExecContext(ctx, createSnapshot, arg.ProductID, arg.Time, arg.Level)
	return err
}

const getSnapshots = `
select time, level from stock_snapshot
where product_id = ?
order by time asc
`

type GetSnapshotsRow struct {
	Time  int64
	Level int64
}

func (q *Queries) GetSnapshots(ctx context.Context, productID int64) ([]GetSnapshotsRow, error) {
	rows, err := q.db.QueryContext(ctx, getSnapshots, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetSnapshotsRow
	for rows.Next() {
		var i GetSnapshotsRow
		if err := rows.Scan(&i.Time, &i.Level); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getProduct = `
select id, sku, name from product where id = ?
`

type Product struct {
	ID   int64
	Sku  string
	Name string
}

func (q *Queries) GetProduct(ctx context.Context, id int64) (Product, error) {
	row := q.db.QueryRowContext(ctx, getProduct, id)
	var i Product
	err := row.Scan(&i.ID, &i.Sku, &i.Name)
	return i, err
}
