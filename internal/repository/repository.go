// Package repository persists TechPack records in SQLite.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fjacquet/techpack-csv/internal/logging"
	"fjacquet/techpack-csv/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no record matches.
var ErrNotFound = errors.New("tech pack not found")

// MaxListLimit caps List page sizes.
const MaxListLimit = 500

// timeLayout is fixed-width so created_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Repository stores and retrieves tech packs.
type Repository interface {
	Save(ctx context.Context, tp models.TechPack) (models.TechPack, error)
	Get(ctx context.Context, id string) (models.TechPack, error)
	FindByStyleID(ctx context.Context, styleID string) (models.TechPack, error)
	List(ctx context.Context, limit, offset int) ([]models.TechPack, error)
	Close() error
}

// SQLiteRepository implements Repository on modernc.org/sqlite.
type SQLiteRepository struct {
	db     *sql.DB
	logger logging.Logger
}

var pragmas = []string{
	"PRAGMA foreign_keys=ON",
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=10000",
	"PRAGMA synchronous=NORMAL",
}

const schema = `
CREATE TABLE IF NOT EXISTS tech_packs (
	id                TEXT PRIMARY KEY,
	style_id          TEXT NOT NULL,
	name              TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	article_type      TEXT NOT NULL DEFAULT '',
	colour            TEXT NOT NULL DEFAULT '',
	gender            TEXT NOT NULL DEFAULT '',
	fit               TEXT NOT NULL DEFAULT '',
	print_technique   TEXT NOT NULL DEFAULT '',
	fabric            TEXT NOT NULL DEFAULT '',
	fabric_weight_gsm TEXT NOT NULL DEFAULT '0',
	brand             TEXT NOT NULL DEFAULT '',
	designer          TEXT NOT NULL DEFAULT '',
	collection        TEXT NOT NULL DEFAULT '',
	care_instructions TEXT NOT NULL DEFAULT '',
	status            TEXT NOT NULL DEFAULT 'draft',
	total_pages       INTEGER NOT NULL DEFAULT 1,
	file_name         TEXT NOT NULL DEFAULT '',
	extracted_text    TEXT NOT NULL DEFAULT '',
	created_at        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tech_packs_style_id ON tech_packs(style_id);
CREATE INDEX IF NOT EXISTS idx_tech_packs_created_at ON tech_packs(created_at);
`

const columns = `id, style_id, name, description, article_type, colour, gender, fit,
	print_technique, fabric, fabric_weight_gsm, brand, designer, collection,
	care_instructions, status, total_pages, file_name, extracted_text, created_at`

// Open opens (creating if needed) the database at path and bootstraps the
// schema. Use ":memory:" for a throwaway database.
func Open(path string, logger logging.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// An in-memory database is private to its connection.
	db.SetMaxOpenConns(1)

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.WithField(logging.FieldFile, path).Debug("Opened tech pack store")
	return &SQLiteRepository{db: db, logger: logger}, nil
}

// Save inserts tp, or replaces the record with the same id. A missing id is
// filled with a UUID and a zero CreatedAt with the current time.
func (r *SQLiteRepository) Save(ctx context.Context, tp models.TechPack) (models.TechPack, error) {
	if strings.TrimSpace(tp.StyleID) == "" || strings.TrimSpace(tp.Name) == "" {
		return models.TechPack{}, errors.New("style id and name are required")
	}
	if tp.ID == "" {
		tp.ID = uuid.New().String()
	}
	if tp.CreatedAt.IsZero() {
		tp.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO tech_packs (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			style_id = excluded.style_id,
			name = excluded.name,
			description = excluded.description,
			article_type = excluded.article_type,
			colour = excluded.colour,
			gender = excluded.gender,
			fit = excluded.fit,
			print_technique = excluded.print_technique,
			fabric = excluded.fabric,
			fabric_weight_gsm = excluded.fabric_weight_gsm,
			brand = excluded.brand,
			designer = excluded.designer,
			collection = excluded.collection,
			care_instructions = excluded.care_instructions,
			status = excluded.status,
			total_pages = excluded.total_pages,
			file_name = excluded.file_name,
			extracted_text = excluded.extracted_text`,
		tp.ID, tp.StyleID, tp.Name, tp.Description, tp.ArticleType, tp.Colour, tp.Gender, tp.Fit,
		tp.PrintTechnique, tp.Fabric, tp.FabricWeightGSM.String(), tp.Brand, tp.Designer, tp.Collection,
		tp.CareInstructions, tp.Status, tp.TotalPages, tp.FileName, tp.ExtractedText,
		tp.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return models.TechPack{}, fmt.Errorf("failed to save tech pack %s: %w", tp.StyleID, err)
	}

	r.logger.WithFields(
		logging.Field{Key: logging.FieldRecordID, Value: tp.ID},
		logging.Field{Key: logging.FieldStyleID, Value: tp.StyleID},
	).Debug("Saved tech pack")
	return tp, nil
}

// Get returns the record with id.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (models.TechPack, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM tech_packs WHERE id = ?`, id)
	return scanOne(row)
}

// FindByStyleID returns the most recently created record with styleID.
func (r *SQLiteRepository) FindByStyleID(ctx context.Context, styleID string) (models.TechPack, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM tech_packs
		WHERE style_id = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`, styleID)
	return scanOne(row)
}

// List returns records newest first. limit is clamped to 1..MaxListLimit and
// a negative offset is treated as 0.
func (r *SQLiteRepository) List(ctx context.Context, limit, offset int) ([]models.TechPack, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM tech_packs
		ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list tech packs: %w", err)
	}
	defer rows.Close()

	out := []models.TechPack{}
	for rows.Next() {
		tp, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tp)
	}
	return out, rows.Err()
}

// Close closes the database.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanOne(row *sql.Row) (models.TechPack, error) {
	tp, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TechPack{}, ErrNotFound
	}
	return tp, err
}

func scan(s scanner) (models.TechPack, error) {
	var (
		tp        models.TechPack
		weight    string
		createdAt string
	)
	err := s.Scan(&tp.ID, &tp.StyleID, &tp.Name, &tp.Description, &tp.ArticleType, &tp.Colour, &tp.Gender, &tp.Fit,
		&tp.PrintTechnique, &tp.Fabric, &weight, &tp.Brand, &tp.Designer, &tp.Collection,
		&tp.CareInstructions, &tp.Status, &tp.TotalPages, &tp.FileName, &tp.ExtractedText, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tp, err
		}
		return tp, fmt.Errorf("failed to read tech pack: %w", err)
	}

	if tp.FabricWeightGSM, err = decimal.NewFromString(weight); err != nil {
		return tp, fmt.Errorf("invalid fabric weight %q for %s: %w", weight, tp.ID, err)
	}
	if tp.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return tp, fmt.Errorf("invalid created_at %q for %s: %w", createdAt, tp.ID, err)
	}
	return tp, nil
}
