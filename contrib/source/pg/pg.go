// Package pg provides an evidence source backed by PostgreSQL with the
// pgvector extension. Evidence is embedded at ingestion time and searched by
// cosine distance.
package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"github.com/sweetpotato0/sleuth/embedding"
	"github.com/sweetpotato0/sleuth/evidence"
)

// Config holds pgvector connection configuration.
type Config struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	SSLMode   string
	Dimension int    // Embedding dimension (default: 1536 for OpenAI)
	TableName string // Table name (default: evidence)
	TopK      int    // Records returned per search (default: 3)
}

// DefaultConfig returns default pgvector configuration.
func DefaultConfig() *Config {
	return &Config{
		Host:      "127.0.0.1",
		Port:      5432,
		User:      "postgres",
		Password:  "",
		DBName:    "sleuth",
		SSLMode:   "disable",
		Dimension: 1536,
		TableName: "evidence",
		TopK:      3,
	}
}

// Store implements evidence.Source over a pgvector table.
type Store struct {
	db        *sql.DB
	embedder  embedding.Embedder
	dimension int
	tableName string
	topK      int
}

// New connects to PostgreSQL, ensures the pgvector schema exists and returns
// the store.
func New(config *Config, embedder embedding.Embedder) (*Store, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	topK := config.TopK
	if topK <= 0 {
		topK = 3
	}
	store := &Store{
		db:        db,
		embedder:  embedder,
		dimension: config.Dimension,
		tableName: config.TableName,
		topK:      topK,
	}

	if err := store.setup(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to setup pgvector: %w", err)
	}
	return store, nil
}

func (s *Store) setup(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	createTableSQL := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		id VARCHAR(255) PRIMARY KEY,
		text TEXT NOT NULL,
		metadata JSONB NOT NULL DEFAULT '{}',
		embedding vector(%d) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`, s.tableName, s.dimension)

	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Add embeds and stores one piece of evidence text under the given id.
func (s *Store) Add(ctx context.Context, id, text string, metadata map[string]string) error {
	if id == "" {
		return fmt.Errorf("evidence id cannot be empty")
	}
	if text == "" {
		return fmt.Errorf("evidence text cannot be empty")
	}

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed evidence: %w", err)
	}
	if len(vec) != s.dimension {
		return fmt.Errorf("embedding dimension mismatch: expected %d, got %d", s.dimension, len(vec))
	}

	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	query := fmt.Sprintf(`
	INSERT INTO %s (id, text, metadata, embedding)
	VALUES ($1, $2, $3, $4::vector)
	ON CONFLICT (id) DO UPDATE SET
		text = EXCLUDED.text,
		metadata = EXCLUDED.metadata,
		embedding = EXCLUDED.embedding,
		created_at = CURRENT_TIMESTAMP
	`, s.tableName)

	if _, err := s.db.ExecContext(ctx, query, id, text, metaJSON, vectorToString(vec)); err != nil {
		return fmt.Errorf("failed to add evidence: %w", err)
	}
	return nil
}

// Search implements evidence.Source by nearest-neighbour lookup on the
// embedding column.
func (s *Store) Search(ctx context.Context, query string) ([]evidence.Record, error) {
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(queryVec) != s.dimension {
		return nil, fmt.Errorf("query vector dimension mismatch: expected %d, got %d", s.dimension, len(queryVec))
	}

	searchSQL := fmt.Sprintf(`
	SELECT id, text, metadata
	FROM %s
	ORDER BY embedding <-> $1::vector
	LIMIT $2
	`, s.tableName)

	rows, err := s.db.QueryContext(ctx, searchSQL, vectorToString(queryVec), s.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search evidence: %w", err)
	}
	defer rows.Close()

	records := make([]evidence.Record, 0, s.topK)
	for rows.Next() {
		var id, text string
		var metaJSON []byte
		if err := rows.Scan(&id, &text, &metaJSON); err != nil {
			return nil, fmt.Errorf("failed to scan evidence row: %w", err)
		}

		var metadata map[string]string
		if len(metaJSON) > 0 {
			if err := json.Unmarshal(metaJSON, &metadata); err != nil {
				return nil, fmt.Errorf("failed to parse metadata for %s: %w", id, err)
			}
		}
		records = append(records, evidence.Record{
			ID:       id,
			Text:     text,
			Metadata: metadata,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating evidence rows: %w", err)
	}
	return records, nil
}

// Close releases the database connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// vectorToString converts a vector to pgvector's literal format: [1,2,3]
func vectorToString(vec []float32) string {
	parts := make([]string, len(vec))
	for i, v := range vec {
		parts[i] = strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
