package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/h5nav/pkg/debug"
	"github.com/vanderheijden86/h5nav/pkg/model"
)

// SQLiteReader presents a SQLite database as a hierarchy: each table is a
// group, each column a one-dimensional dataset with one element per row,
// and each index a soft link to the column it starts with.
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite database for reading
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	return &SQLiteReader{db: db, path: source.Path}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Tables lists user tables in name order.
func (r *SQLiteReader) Tables(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("listing tables: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// LoadEntities inspects every table, up to concurrency at a time, and
// returns one group per table in name order.
func (r *SQLiteReader) LoadEntities(ctx context.Context, concurrency int) ([]*model.Entity, error) {
	tables, err := r.Tables(ctx)
	if err != nil {
		return nil, err
	}

	groups := make([]*model.Entity, len(tables))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for i, table := range tables {
		g.Go(func() error {
			e, err := r.tableEntity(ctx, table)
			if err != nil {
				return fmt.Errorf("table %s: %w", table, err)
			}
			groups[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	debug.Log("sqlite: %s has %d tables", r.path, len(tables))
	return groups, nil
}

type column struct {
	name     string
	declType string
	notNull  bool
	pk       int
	dflt     sql.NullString
}

func (r *SQLiteReader) tableEntity(ctx context.Context, table string) (*model.Entity, error) {
	var count uint64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(table)).Scan(&count); err != nil {
		return nil, fmt.Errorf("counting rows: %w", err)
	}

	cols, err := r.columns(ctx, table)
	if err != nil {
		return nil, err
	}
	links, err := r.indexes(ctx, table)
	if err != nil {
		return nil, err
	}

	children := make([]*model.Entity, 0, len(cols)+len(links))
	var pk []string
	for _, c := range cols {
		dtype := c.declType
		if dtype == "" {
			dtype = "ANY"
		}
		attrs := []model.Attribute{{Name: "not_null", Value: strconv.FormatBool(c.notNull)}}
		if c.dflt.Valid {
			attrs = append(attrs, model.Attribute{Name: "default", Value: c.dflt.String})
		}
		if c.pk > 0 {
			pk = append(pk, c.name)
		}
		children = append(children, model.NewDataset(c.name, model.Metadata{
			Shape:      []uint64{count},
			DType:      dtype,
			Layout:     model.LayoutContiguous,
			Link:       model.LinkHard,
			Attributes: attrs,
		}))
	}
	children = append(children, links...)

	group := model.NewGroup(table, children...)
	group.Meta.Attributes = []model.Attribute{{Name: "rows", Value: strconv.FormatUint(count, 10)}}
	if len(pk) > 0 {
		group.Meta.Attributes = append(group.Meta.Attributes,
			model.Attribute{Name: "primary_key", Value: strings.Join(pk, ", ")})
	}
	return group, nil
}

func (r *SQLiteReader) columns(ctx context.Context, table string) ([]column, error) {
	rows, err := r.db.QueryContext(ctx, "PRAGMA table_info("+quoteIdent(table)+")")
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}
	defer rows.Close()

	var cols []column
	for rows.Next() {
		var (
			cid     int
			c       column
			notNull int
		)
		if err := rows.Scan(&cid, &c.name, &c.declType, &notNull, &c.dflt, &c.pk); err != nil {
			return nil, fmt.Errorf("reading columns: %w", err)
		}
		c.notNull = notNull != 0
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (r *SQLiteReader) indexes(ctx context.Context, table string) ([]*model.Entity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = ? AND sql IS NOT NULL ORDER BY name`, table)
	if err != nil {
		return nil, fmt.Errorf("reading indexes: %w", err)
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("reading indexes: %w", err)
		}
		names = append(names, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading indexes: %w", err)
	}

	links := make([]*model.Entity, 0, len(names))
	for _, name := range names {
		var first string
		err := r.db.QueryRowContext(ctx,
			"SELECT name FROM pragma_index_info(?) ORDER BY seqno LIMIT 1", name).Scan(&first)
		if err != nil && err != sql.ErrNoRows {
			return nil, fmt.Errorf("reading index %s: %w", name, err)
		}
		links = append(links, model.NewDataset(name, model.Metadata{
			Link:       model.LinkSoft,
			LinkTarget: "/" + table + "/" + first,
		}))
	}
	return links, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
