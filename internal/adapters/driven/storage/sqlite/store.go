package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/recsync/recsync-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/recsync/recsync-cli/internal/core/domain"
	"github.com/recsync/recsync-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.recsync/data/recsync.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".recsync", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "recsync.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// FeedStore returns a FeedStore interface backed by this store.
func (s *Store) FeedStore() driven.FeedStore {
	return &feedStore{store: s}
}

// EntityStore returns an EntityStore interface backed by this store.
func (s *Store) EntityStore() driven.EntityStore {
	return &entityStore{store: s}
}

// SyncStore returns a SyncStore interface backed by this store.
func (s *Store) SyncStore() driven.SyncStore {
	return &syncStore{store: s}
}

// SchedulerStore returns a SchedulerStore interface backed by this store.
func (s *Store) SchedulerStore() driven.SchedulerStore {
	return &schedulerStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Feed Store ====================

// feedStore implements driven.FeedStore.
type feedStore struct {
	store *Store
}

var _ driven.FeedStore = (*feedStore)(nil)

// Save stores or updates a feed descriptor.
func (s *feedStore) Save(ctx context.Context, feed *domain.FeedDescriptor) error {
	now := time.Now().UTC()
	if feed.CreatedAt.IsZero() {
		feed.CreatedAt = now
	}
	feed.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO feeds (id, name, type, url, detail_feed_id, active, last_sync, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			url = excluded.url,
			detail_feed_id = excluded.detail_feed_id,
			active = excluded.active,
			last_sync = excluded.last_sync,
			updated_at = excluded.updated_at
	`, feed.ID, feed.Name, feed.Type.String(), feed.URL,
		nullString(feed.DetailFeedID), boolToInt(feed.Active),
		formatNullableTime(feed.LastSync), feed.CreatedAt, feed.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving feed: %w", err)
	}
	return nil
}

// Get retrieves a feed by ID.
func (s *feedStore) Get(ctx context.Context, id string) (*domain.FeedDescriptor, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, type, url, detail_feed_id, active, last_sync, created_at, updated_at
		FROM feeds WHERE id = ?
	`, id)
	return scanFeed(row)
}

// Delete removes a feed.
func (s *feedStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM feeds WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting feed: %w", err)
	}
	return nil
}

// List returns all configured feeds in creation order.
func (s *feedStore) List(ctx context.Context) ([]domain.FeedDescriptor, error) {
	return s.queryFeeds(ctx, `
		SELECT id, name, type, url, detail_feed_id, active, last_sync, created_at, updated_at
		FROM feeds ORDER BY created_at, id
	`)
}

// ListActiveByType returns the active feeds of one type in creation order.
func (s *feedStore) ListActiveByType(ctx context.Context, t domain.FeedType) ([]domain.FeedDescriptor, error) {
	return s.queryFeeds(ctx, `
		SELECT id, name, type, url, detail_feed_id, active, last_sync, created_at, updated_at
		FROM feeds WHERE type = ? AND active = 1 ORDER BY created_at, id
	`, t.String())
}

func (s *feedStore) queryFeeds(ctx context.Context, query string, args ...any) ([]domain.FeedDescriptor, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying feeds: %w", err)
	}
	defer rows.Close()

	var feeds []domain.FeedDescriptor //nolint:prealloc // size unknown from query
	for rows.Next() {
		feed, err := scanFeedRows(rows)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, *feed)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feeds: %w", err)
	}

	return feeds, nil
}

// ==================== Entity Store ====================

// entityStore implements driven.EntityStore.
type entityStore struct {
	store *Store
}

var _ driven.EntityStore = (*entityStore)(nil)

// Get retrieves an entity by type and external ID.
func (s *entityStore) Get(ctx context.Context, t domain.EntityType, externalID string) (*domain.Entity, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, type, external_id, fields, detail, raw, created_at, updated_at
		FROM entities WHERE type = ? AND external_id = ?
	`, t.String(), externalID)
	return scanEntity(row)
}

// Save stores or updates an entity, keyed by (type, external_id).
func (s *entityStore) Save(ctx context.Context, entity *domain.Entity) error {
	fieldsJSON, err := json.Marshal(entity.Fields)
	if err != nil {
		return fmt.Errorf("marshalling fields: %w", err)
	}
	var detailJSON any
	if entity.Detail != nil {
		data, err := json.Marshal(entity.Detail)
		if err != nil {
			return fmt.Errorf("marshalling detail: %w", err)
		}
		detailJSON = string(data)
	}

	now := time.Now().UTC()
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = now
	}
	entity.UpdatedAt = now

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO entities (id, type, external_id, fields, detail, raw, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(type, external_id) DO UPDATE SET
			fields = excluded.fields,
			detail = excluded.detail,
			raw = excluded.raw,
			updated_at = excluded.updated_at
	`, entity.ID, entity.Type.String(), entity.ExternalID, string(fieldsJSON),
		detailJSON, entity.Raw, entity.CreatedAt, entity.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving entity: %w", err)
	}
	return nil
}

// ListByType returns up to limit entities of one type in external id order.
func (s *entityStore) ListByType(ctx context.Context, t domain.EntityType, limit int) ([]domain.Entity, error) {
	query := `
		SELECT id, type, external_id, fields, detail, raw, created_at, updated_at
		FROM entities WHERE type = ? ORDER BY external_id
	`
	args := []any{t.String()}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	var entities []domain.Entity //nolint:prealloc // size unknown from query
	for rows.Next() {
		entity, err := scanEntityRows(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, *entity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entities: %w", err)
	}

	return entities, nil
}

// CountByType returns the number of entities of one type.
func (s *entityStore) CountByType(ctx context.Context, t domain.EntityType) (int, error) {
	var count int
	row := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entities WHERE type = ?", t.String())
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting entities: %w", err)
	}
	return count, nil
}

// RegisterDetailFields records newly observed detail field names.
func (s *entityStore) RegisterDetailFields(ctx context.Context, names []string) error {
	for _, name := range names {
		_, err := s.store.db.ExecContext(ctx, `
			INSERT INTO detail_fields (name) VALUES (?)
			ON CONFLICT(name) DO NOTHING
		`, name)
		if err != nil {
			return fmt.Errorf("registering detail field: %w", err)
		}
	}
	return nil
}

// DetailFields returns the discovery set in lexical order.
func (s *entityStore) DetailFields(ctx context.Context) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT name FROM detail_fields ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying detail fields: %w", err)
	}
	defer rows.Close()

	var names []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning detail field: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating detail fields: %w", err)
	}

	return names, nil
}

// ==================== Sync Store ====================

// syncStore implements driven.SyncStore.
type syncStore struct {
	store *Store
}

var _ driven.SyncStore = (*syncStore)(nil)

// CreateRun inserts a new run row.
func (s *syncStore) CreateRun(ctx context.Context, run *domain.SyncRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_runs (
			id, type, status, trigger_type, cancelled, started_at, completed_at,
			records_processed, records_created, records_updated, records_unchanged,
			records_failed, error_message, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Type.String(), run.Status.String(), string(run.Trigger),
		boolToInt(run.Cancelled), formatNullableTime(run.StartedAt),
		formatNullableTime(run.CompletedAt), run.RecordsProcessed,
		run.RecordsCreated, run.RecordsUpdated, run.RecordsUnchanged,
		run.RecordsFailed, nullString(run.ErrorMessage), run.CreatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("creating sync run: %w", err)
	}
	return nil
}

// UpdateRun persists run state. Terminal rows are immutable.
func (s *syncStore) UpdateRun(ctx context.Context, run *domain.SyncRun) error {
	result, err := s.store.db.ExecContext(ctx, `
		UPDATE sync_runs SET
			status = ?, cancelled = ?, started_at = ?, completed_at = ?,
			records_processed = ?, records_created = ?, records_updated = ?,
			records_unchanged = ?, records_failed = ?, error_message = ?
		WHERE id = ? AND status IN ('PENDING', 'RUNNING')
	`, run.Status.String(), boolToInt(run.Cancelled),
		formatNullableTime(run.StartedAt), formatNullableTime(run.CompletedAt),
		run.RecordsProcessed, run.RecordsCreated, run.RecordsUpdated,
		run.RecordsUnchanged, run.RecordsFailed, nullString(run.ErrorMessage),
		run.ID)
	if err != nil {
		return fmt.Errorf("updating sync run: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		// Either the row is missing or it is already terminal.
		if _, err := s.GetRun(ctx, run.ID); err != nil {
			return err
		}
		return domain.ErrRunImmutable
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *syncStore) GetRun(ctx context.Context, id string) (*domain.SyncRun, error) {
	row := s.store.db.QueryRowContext(ctx, syncRunSelect+" WHERE id = ?", id)
	return scanSyncRun(row)
}

// FindActive returns the PENDING or RUNNING run for a feed type.
func (s *syncStore) FindActive(ctx context.Context, t domain.FeedType) (*domain.SyncRun, error) {
	row := s.store.db.QueryRowContext(ctx,
		syncRunSelect+" WHERE type = ? AND status IN ('PENDING', 'RUNNING') LIMIT 1",
		t.String())
	return scanSyncRun(row)
}

// ListActive returns every PENDING or RUNNING run.
func (s *syncStore) ListActive(ctx context.Context) ([]domain.SyncRun, error) {
	return s.queryRuns(ctx,
		syncRunSelect+" WHERE status IN ('PENDING', 'RUNNING') ORDER BY created_at")
}

// ListRuns returns history rows matching the filter, newest first.
func (s *syncStore) ListRuns(ctx context.Context, filter domain.SyncRunFilter) ([]domain.SyncRun, error) {
	query := syncRunSelect
	var (
		conds []string
		args  []any
	)
	if filter.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, filter.Type.String())
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status.String())
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	return s.queryRuns(ctx, query, args...)
}

// LastCompleted returns the most recent COMPLETED run for a type.
func (s *syncStore) LastCompleted(ctx context.Context, t domain.FeedType) (*domain.SyncRun, error) {
	row := s.store.db.QueryRowContext(ctx,
		syncRunSelect+" WHERE type = ? AND status = 'COMPLETED' ORDER BY completed_at DESC LIMIT 1",
		t.String())
	return scanSyncRun(row)
}

// AppendChanges writes change records for a run.
func (s *syncStore) AppendChanges(ctx context.Context, runID string, changes []domain.ChangeRecord) error {
	if len(changes) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	for _, change := range changes {
		changesJSON, err := json.Marshal(change.Changes)
		if err != nil {
			return fmt.Errorf("marshalling field changes: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO change_records (run_id, entity_type, entity_id, external_id, change_type, changes)
			VALUES (?, ?, ?, ?, ?, ?)
		`, runID, change.EntityType.String(), change.EntityID,
			change.ExternalID, string(change.Type), string(changesJSON))
		if err != nil {
			return fmt.Errorf("inserting change record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing changes: %w", err)
	}
	return nil
}

// GetChanges returns a run's change records grouped by entity, in write order.
func (s *syncStore) GetChanges(ctx context.Context, runID string) ([]domain.EntityChanges, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT run_id, entity_type, entity_id, external_id, change_type, changes
		FROM change_records WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying change records: %w", err)
	}
	defer rows.Close()

	type groupKey struct {
		t  domain.EntityType
		id string
	}
	var (
		order  []groupKey
		groups = make(map[groupKey][]domain.ChangeRecord)
	)
	for rows.Next() {
		var (
			change      domain.ChangeRecord
			entityType  string
			changeType  string
			changesJSON string
		)
		if err := rows.Scan(&change.SyncRunID, &entityType, &change.EntityID,
			&change.ExternalID, &changeType, &changesJSON); err != nil {
			return nil, fmt.Errorf("scanning change record: %w", err)
		}
		change.EntityType = domain.EntityType(entityType)
		change.Type = domain.ChangeType(changeType)
		if err := json.Unmarshal([]byte(changesJSON), &change.Changes); err != nil {
			return nil, fmt.Errorf("unmarshaling field changes: %w", err)
		}

		key := groupKey{change.EntityType, change.ExternalID}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], change)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating change records: %w", err)
	}

	result := make([]domain.EntityChanges, 0, len(order))
	for _, key := range order {
		result = append(result, domain.EntityChanges{
			EntityType: key.t,
			ExternalID: key.id,
			Records:    groups[key],
		})
	}
	return result, nil
}

// ClearHistory deletes all runs and change records atomically.
func (s *syncStore) ClearHistory(ctx context.Context) (int, int, error) {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	changesResult, err := tx.ExecContext(ctx, "DELETE FROM change_records")
	if err != nil {
		return 0, 0, fmt.Errorf("deleting change records: %w", err)
	}
	runsResult, err := tx.ExecContext(ctx, "DELETE FROM sync_runs")
	if err != nil {
		return 0, 0, fmt.Errorf("deleting sync runs: %w", err)
	}

	changes, err := changesResult.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("counting deleted changes: %w", err)
	}
	runs, err := runsResult.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("counting deleted runs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("committing clear: %w", err)
	}
	return int(runs), int(changes), nil
}

func (s *syncStore) queryRuns(ctx context.Context, query string, args ...any) ([]domain.SyncRun, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sync runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.SyncRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanSyncRunRows(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync runs: %w", err)
	}

	return runs, nil
}

// syncRunSelect is the shared column list for sync run queries.
const syncRunSelect = `
	SELECT id, type, status, trigger_type, cancelled, started_at, completed_at,
		records_processed, records_created, records_updated, records_unchanged,
		records_failed, error_message, created_at
	FROM sync_runs`

// ==================== Row Scanners ====================

// scanFeed scans a single feed row.
func scanFeed(row *sql.Row) (*domain.FeedDescriptor, error) {
	var feed domain.FeedDescriptor
	var feedType string
	var detailFeedID, lastSync sql.NullString
	var active int
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&feed.ID, &feed.Name, &feedType, &feed.URL,
		&detailFeedID, &active, &lastSync, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning feed: %w", err)
	}

	feed.Type = domain.FeedType(feedType)
	feed.DetailFeedID = detailFeedID.String
	feed.Active = active == 1
	feed.LastSync = parseNullableTime(lastSync)
	if createdAt.Valid {
		feed.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		feed.UpdatedAt = updatedAt.Time
	}

	return &feed, nil
}

// scanFeedRows scans a feed from *sql.Rows.
func scanFeedRows(rows *sql.Rows) (*domain.FeedDescriptor, error) {
	var feed domain.FeedDescriptor
	var feedType string
	var detailFeedID, lastSync sql.NullString
	var active int
	var createdAt, updatedAt sql.NullTime

	if err := rows.Scan(&feed.ID, &feed.Name, &feedType, &feed.URL,
		&detailFeedID, &active, &lastSync, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning feed: %w", err)
	}

	feed.Type = domain.FeedType(feedType)
	feed.DetailFeedID = detailFeedID.String
	feed.Active = active == 1
	feed.LastSync = parseNullableTime(lastSync)
	if createdAt.Valid {
		feed.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		feed.UpdatedAt = updatedAt.Time
	}

	return &feed, nil
}

// scanEntity scans a single entity row.
func scanEntity(row *sql.Row) (*domain.Entity, error) {
	var entity domain.Entity
	var entityType, fieldsJSON string
	var detailJSON sql.NullString
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&entity.ID, &entityType, &entity.ExternalID,
		&fieldsJSON, &detailJSON, &entity.Raw, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning entity: %w", err)
	}

	return finishEntity(&entity, entityType, fieldsJSON, detailJSON, createdAt, updatedAt)
}

// scanEntityRows scans an entity from *sql.Rows.
func scanEntityRows(rows *sql.Rows) (*domain.Entity, error) {
	var entity domain.Entity
	var entityType, fieldsJSON string
	var detailJSON sql.NullString
	var createdAt, updatedAt sql.NullTime

	if err := rows.Scan(&entity.ID, &entityType, &entity.ExternalID,
		&fieldsJSON, &detailJSON, &entity.Raw, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning entity: %w", err)
	}

	return finishEntity(&entity, entityType, fieldsJSON, detailJSON, createdAt, updatedAt)
}

func finishEntity(entity *domain.Entity, entityType, fieldsJSON string, detailJSON sql.NullString, createdAt, updatedAt sql.NullTime) (*domain.Entity, error) {
	entity.Type = domain.EntityType(entityType)
	if err := json.Unmarshal([]byte(fieldsJSON), &entity.Fields); err != nil {
		return nil, fmt.Errorf("unmarshaling fields: %w", err)
	}
	if detailJSON.Valid && detailJSON.String != "" {
		if err := json.Unmarshal([]byte(detailJSON.String), &entity.Detail); err != nil {
			return nil, fmt.Errorf("unmarshaling detail: %w", err)
		}
	}
	if createdAt.Valid {
		entity.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		entity.UpdatedAt = updatedAt.Time
	}
	return entity, nil
}

// scanSyncRun scans a single sync run row.
func scanSyncRun(row *sql.Row) (*domain.SyncRun, error) {
	var run domain.SyncRun
	var feedType, status, trigger string
	var cancelled int
	var startedAt, completedAt, errMsg sql.NullString
	var createdAt sql.NullTime

	if err := row.Scan(&run.ID, &feedType, &status, &trigger, &cancelled,
		&startedAt, &completedAt, &run.RecordsProcessed, &run.RecordsCreated,
		&run.RecordsUpdated, &run.RecordsUnchanged, &run.RecordsFailed,
		&errMsg, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning sync run: %w", err)
	}

	finishSyncRun(&run, feedType, status, trigger, cancelled, startedAt, completedAt, errMsg, createdAt)
	return &run, nil
}

// scanSyncRunRows scans a sync run from *sql.Rows.
func scanSyncRunRows(rows *sql.Rows) (*domain.SyncRun, error) {
	var run domain.SyncRun
	var feedType, status, trigger string
	var cancelled int
	var startedAt, completedAt, errMsg sql.NullString
	var createdAt sql.NullTime

	if err := rows.Scan(&run.ID, &feedType, &status, &trigger, &cancelled,
		&startedAt, &completedAt, &run.RecordsProcessed, &run.RecordsCreated,
		&run.RecordsUpdated, &run.RecordsUnchanged, &run.RecordsFailed,
		&errMsg, &createdAt); err != nil {
		return nil, fmt.Errorf("scanning sync run: %w", err)
	}

	finishSyncRun(&run, feedType, status, trigger, cancelled, startedAt, completedAt, errMsg, createdAt)
	return &run, nil
}

func finishSyncRun(run *domain.SyncRun, feedType, status, trigger string, cancelled int, startedAt, completedAt, errMsg sql.NullString, createdAt sql.NullTime) {
	run.Type = domain.FeedType(feedType)
	run.Status = domain.SyncStatus(status)
	run.Trigger = domain.SyncTrigger(trigger)
	run.Cancelled = cancelled == 1
	run.StartedAt = parseNullableTime(startedAt)
	run.CompletedAt = parseNullableTime(completedAt)
	if errMsg.Valid {
		run.ErrorMessage = errMsg.String
	}
	if createdAt.Valid {
		run.CreatedAt = createdAt.Time
	}
}
