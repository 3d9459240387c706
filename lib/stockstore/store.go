package stockstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	devenv "ccapi/dev/env"
	"ccapi/lib/stockstore/db"
	"ccapi/lib/timezone"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	_ "modernc.org/sqlite"
)

var tracer = otel.Tracer("ccapi/lib/stockstore")

// Store keeps daily snapshots of product stock levels so that stock history
// survives the back office only ever reporting the current level.
type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

func driverFor(dsn string) string {
	if strings.HasPrefix(dsn, "libsql://") ||
		strings.HasPrefix(dsn, "http://") ||
		strings.HasPrefix(dsn, "https://") {
		return "libsql"
	}
	return "sqlite"
}

// Open connects to a libsql server if dsn is a libsql:// or http(s):// url,
// otherwise dsn is a sqlite file path (or :memory:). The schema is created
// if it doesn't exist yet.
func Open(dsn string) (Store, error) {
	driver := driverFor(dsn)
	if driver == "sqlite" && dsn != ":memory:" {
		var err error
		dsn, err = devenv.ResolvePath(dsn)
		if err != nil {
			return Store{}, err
		}
	}

	database, err := sql.Open(driver, dsn)
	if err != nil {
		return Store{}, err
	}
	if driver == "sqlite" {
		// every connection to :memory: is a separate database
		database.SetMaxOpenConns(1)
	}
	_, err = database.Exec(db.Schema)
	if err != nil {
		database.Close()
		return Store{}, err
	}
	return NewStore(database), nil
}

func (s Store) Close() error {
	return s.db.Close()
}

type StockLevel struct {
	ProductID int
	SKU       string
	Name      string
	Level     int
}

type PushRequest struct {
	Time   time.Time
	Levels []StockLevel
}

// Push records req.Levels, replacing any snapshot already taken on the same
// day (UK time) for those products.
func (s Store) Push(ctx context.Context, req PushRequest) error {
	ctx, span := tracer.Start(ctx, "Push")
	defer span.End()
	span.SetAttributes(attribute.Int("levels", len(req.Levels)))

	if len(req.Levels) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to begin transaction")
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	startOfToday := timezone.StartOfDay(req.Time)
	startOfTomorrow := startOfToday.AddDate(0, 0, 1)

	products := make([]int64, len(req.Levels))
	for i, l := range req.Levels {
		products[i] = int64(l.ProductID)
	}
	err = txqry.DeleteSnapshotsIn(ctx, db.DeleteSnapshotsInParams{
		After:    startOfToday.Unix(),
		Before:   startOfTomorrow.Unix(),
		Products: products,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete existing snapshots")
		return err
	}

	for _, level := range req.Levels {
		err = txqry.UpsertProduct(ctx, db.UpsertProductParams{
			ID:   int64(level.ProductID),
			Sku:  level.SKU,
			Name: level.Name,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to save product")
			return err
		}
		err = txqry.CreateSnapshot(ctx, db.CreateSnapshotParams{
			ProductID: int64(level.ProductID),
			Time:      req.Time.Unix(),
			Level:     int64(level.Level),
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to save snapshot")
			return err
		}
	}
	return tx.Commit()
}

type Snapshot struct {
	Time  time.Time
	Level int
}

// History returns every snapshot of a product, oldest first.
func (s Store) History(ctx context.Context, productID int) ([]Snapshot, error) {
	ctx, span := tracer.Start(ctx, "History")
	defer span.End()

	rows, err := s.qry.GetSnapshots(ctx, int64(productID))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query snapshots")
		return nil, err
	}

	snapshots := make([]Snapshot, len(rows))
	for i, r := range rows {
		snapshots[i] = Snapshot{
			Time:  time.Unix(r.Time, 0).In(timezone.Location),
			Level: int(r.Level),
		}
	}
	return snapshots, nil
}

type Product struct {
	ID   int
	SKU  string
	Name string
}

// Product returns what was last recorded about a product, ok is false if
// it has never been snapshotted.
func (s Store) Product(ctx context.Context, productID int) (product Product, ok bool, err error) {
	row, err := s.qry.GetProduct(ctx, int64(productID))
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, err
	}
	return Product{ID: int(row.ID), SKU: row.Sku, Name: row.Name}, true, nil
}
