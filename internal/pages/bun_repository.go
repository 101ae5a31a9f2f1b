package pages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
)

const pageNamespace = "page"

// BunPageRepository implements PageRepository on bun. Lookups by id and slug
// go through the generic repository (optionally cached); path lookups, slug
// probes, sibling queries and tree fetches always hit the database.
type BunPageRepository struct {
	root         *bun.DB
	db           bun.IDB
	repo         repository.Repository[*Page]
	cacheService cache.CacheService
	cachePrefix  string
}

func NewBunPageRepository(db *bun.DB) *BunPageRepository {
	return NewBunPageRepositoryWithCache(db, nil, nil)
}

// NewBunPageRepositoryWithCache constructs a PageRepository backed by bun with optional caching.
func NewBunPageRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunPageRepository {
	base := NewPageRepository(db)
	var svc cache.CacheService
	prefix := ""
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
		svc = cacheService
		prefix = pageNamespace + cache.KeySeparator
	}
	return &BunPageRepository{
		root:         db,
		db:           db,
		repo:         base,
		cacheService: svc,
		cachePrefix:  prefix,
	}
}

func (r *BunPageRepository) inTx() bool {
	return r.root == nil
}

func (r *BunPageRepository) Create(ctx context.Context, record *Page) (*Page, error) {
	if !r.inTx() {
		created, err := r.repo.Create(ctx, record)
		if err != nil {
			return nil, mapWriteError(err, record.Slug)
		}
		return created, nil
	}
	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, mapWriteError(err, record.Slug)
	}
	return record, nil
}

func (r *BunPageRepository) GetByID(ctx context.Context, id uuid.UUID) (*Page, error) {
	if !r.inTx() {
		result, err := r.repo.GetByID(ctx, id.String())
		if err != nil {
			return nil, mapRepositoryError(err, id.String())
		}
		return r.attachTags(ctx, result)
	}
	return r.findOne(ctx, id.String(), func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.id = ?", id)
	})
}

func (r *BunPageRepository) GetBySlug(ctx context.Context, slug string) (*Page, error) {
	if !r.inTx() {
		result, err := r.repo.GetByIdentifier(ctx, slug)
		if err != nil {
			return nil, mapRepositoryError(err, slug)
		}
		return r.attachTags(ctx, result)
	}
	return r.findOne(ctx, slug, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.slug = ?", slug)
	})
}

func (r *BunPageRepository) GetByPath(ctx context.Context, path string) (*Page, error) {
	return r.findOne(ctx, path, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.path = ?", path)
	})
}

func (r *BunPageRepository) List(ctx context.Context) ([]*Page, error) {
	order := func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.path ASC")
	}
	var (
		records []*Page
		err     error
	)
	if !r.inTx() {
		records, _, err = r.repo.List(ctx, repository.SelectRawProcessor(order))
	} else {
		err = order(r.db.NewSelect().Model(&records)).Scan(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("page repository: list: %w", err)
	}
	return r.attachTagsMany(ctx, records)
}

func (r *BunPageRepository) ListChildren(ctx context.Context, parentID *uuid.UUID) ([]*Page, error) {
	records := []*Page{}
	err := r.db.NewSelect().
		Model(&records).
		Apply(parentFilter(parentID)).
		OrderExpr("?TableAlias.order_index ASC").
		OrderExpr("?TableAlias.slug ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("page repository: list children: %w", err)
	}
	return records, nil
}

func (r *BunPageRepository) ListByPathPrefix(ctx context.Context, prefix string) ([]*Page, error) {
	records := []*Page{}
	needle := strings.TrimRight(prefix, "/") + "/"
	err := r.db.NewSelect().
		Model(&records).
		Where("substr(?TableAlias.path, 1, ?) = ?", len(needle), needle).
		OrderExpr("?TableAlias.path ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("page repository: list by path prefix: %w", err)
	}
	return records, nil
}

func (r *BunPageRepository) CountChildren(ctx context.Context, id uuid.UUID) (int, error) {
	count, err := r.db.NewSelect().
		Model((*Page)(nil)).
		Where("?TableAlias.parent_id = ?", id).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("page repository: count children: %w", err)
	}
	return count, nil
}

func (r *BunPageRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*Page)(nil)).
		Where("?TableAlias.slug = ?", slug).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("page repository: slug probe: %w", err)
	}
	return exists, nil
}

func (r *BunPageRepository) MaxSiblingOrder(ctx context.Context, parentID *uuid.UUID) (*int, error) {
	var highest sql.NullInt64
	err := r.db.NewSelect().
		Model((*Page)(nil)).
		ColumnExpr("MAX(?TableAlias.order_index)").
		Apply(parentFilter(parentID)).
		Scan(ctx, &highest)
	if err != nil {
		return nil, fmt.Errorf("page repository: max sibling order: %w", err)
	}
	if !highest.Valid {
		return nil, nil
	}
	value := int(highest.Int64)
	return &value, nil
}

func (r *BunPageRepository) Update(ctx context.Context, record *Page) (*Page, error) {
	if !r.inTx() {
		updated, err := r.repo.Update(ctx, record,
			repository.UpdateByID(record.ID.String()),
			repository.UpdateColumns(pageColumns...),
		)
		if err != nil {
			return nil, mapWriteError(err, record.Slug)
		}
		return updated, nil
	}
	result, err := r.db.NewUpdate().
		Model(record).
		Column(pageColumns...).
		Where("?TableAlias.id = ?", record.ID).
		Exec(ctx)
	if err != nil {
		return nil, mapWriteError(err, record.Slug)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, &PageNotFoundError{Key: record.ID.String()}
	}
	return record, nil
}

func (r *BunPageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.within(ctx, func(ctx context.Context, db bun.IDB) error {
		if _, err := db.NewDelete().
			Model((*PageTag)(nil)).
			Where("?TableAlias.page_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete page tags: %w", err)
		}

		result, err := db.NewDelete().
			Model((*Page)(nil)).
			Where("?TableAlias.id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete page: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("page delete rows affected: %w", err)
		}
		if affected == 0 {
			return &PageNotFoundError{Key: id.String()}
		}
		return nil
	})
}

func (r *BunPageRepository) ReplaceTags(ctx context.Context, pageID uuid.UUID, tags []string) error {
	return r.within(ctx, func(ctx context.Context, db bun.IDB) error {
		if _, err := db.NewDelete().
			Model((*PageTag)(nil)).
			Where("?TableAlias.page_id = ?", pageID).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete page tags: %w", err)
		}
		if len(tags) == 0 {
			return nil
		}
		rows := make([]*PageTag, 0, len(tags))
		for _, tag := range tags {
			rows = append(rows, &PageTag{PageID: pageID, Tag: tag})
		}
		if _, err := db.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert page tags: %w", err)
		}
		return nil
	})
}

func (r *BunPageRepository) ListTags(ctx context.Context, pageID uuid.UUID) ([]string, error) {
	tags := []string{}
	err := r.db.NewSelect().
		Model((*PageTag)(nil)).
		Column("tag").
		Where("?TableAlias.page_id = ?", pageID).
		OrderExpr("?TableAlias.tag ASC").
		Scan(ctx, &tags)
	if err != nil {
		return nil, fmt.Errorf("page repository: list tags: %w", err)
	}
	return tags, nil
}

// Atomic runs fn inside a database transaction. Calls made on a repository
// already bound to a transaction join it.
func (r *BunPageRepository) Atomic(ctx context.Context, fn func(ctx context.Context, tx PageRepository) error) error {
	if r.inTx() {
		return fn(ctx, r)
	}
	var fnErr error
	err := r.root.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		fnErr = fn(ctx, &BunPageRepository{db: tx})
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageTransactionFailed, err)
	}
	return r.InvalidateCache(ctx)
}

// InvalidateCache drops cached page lookups.
func (r *BunPageRepository) InvalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func (r *BunPageRepository) within(ctx context.Context, fn func(ctx context.Context, db bun.IDB) error) error {
	if r.inTx() {
		return fn(ctx, r.db)
	}
	return r.root.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}

func (r *BunPageRepository) findOne(ctx context.Context, key string, apply func(q *bun.SelectQuery) *bun.SelectQuery) (*Page, error) {
	record := new(Page)
	if err := apply(r.db.NewSelect().Model(record)).Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &PageNotFoundError{Key: key}
		}
		return nil, fmt.Errorf("page repository: %w", err)
	}
	return r.attachTags(ctx, record)
}

func (r *BunPageRepository) attachTags(ctx context.Context, record *Page) (*Page, error) {
	if record == nil {
		return nil, nil
	}
	tags, err := r.ListTags(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	record.Tags = nil
	if len(tags) > 0 {
		record.Tags = tags
	}
	return record, nil
}

func (r *BunPageRepository) attachTagsMany(ctx context.Context, records []*Page) ([]*Page, error) {
	if len(records) == 0 {
		return records, nil
	}
	ids := make([]uuid.UUID, 0, len(records))
	byID := make(map[uuid.UUID]*Page, len(records))
	for _, record := range records {
		record.Tags = nil
		ids = append(ids, record.ID)
		byID[record.ID] = record
	}
	rows := []*PageTag{}
	err := r.db.NewSelect().
		Model(&rows).
		Where("?TableAlias.page_id IN (?)", bun.In(ids)).
		OrderExpr("?TableAlias.tag ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("page repository: list tags: %w", err)
	}
	for _, row := range rows {
		if record, ok := byID[row.PageID]; ok {
			record.Tags = append(record.Tags, row.Tag)
		}
	}
	return records, nil
}

func parentFilter(parentID *uuid.UUID) func(q *bun.SelectQuery) *bun.SelectQuery {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if parentID == nil {
			return q.Where("?TableAlias.parent_id IS NULL")
		}
		return q.Where("?TableAlias.parent_id = ?", *parentID)
	}
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) || errors.Is(err, sql.ErrNoRows) {
		return &PageNotFoundError{Key: key}
	}
	return fmt.Errorf("page repository error: %w", err)
}

func mapWriteError(err error, slug string) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %q", ErrSlugExists, slug)
	}
	return fmt.Errorf("page repository write: %w", err)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint") || strings.Contains(message, "duplicate key")
}
