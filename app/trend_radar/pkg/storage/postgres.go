package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/config"
	"github.com/iWorld-y/trend_radar/app/trend_radar/pkg/model"
)

// Storage 检索结果的 Postgres 持久化。持久化属于调用方职责，
// 核心流水线不依赖它。
type Storage struct {
	db *sql.DB
}

func NewStorage(cfg config.DBConfig) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS search_runs (
			id SERIAL PRIMARY KEY,
			topic TEXT NOT NULL,
			from_date TEXT,
			to_date TEXT,
			depth TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS web_items (
			id SERIAL PRIMARY KEY,
			run_id INTEGER REFERENCES search_runs(id),
			item_id TEXT,
			title TEXT,
			url TEXT,
			source_domain TEXT,
			snippet TEXT,
			pub_date TEXT,
			date_confidence TEXT,
			relevance DOUBLE PRECISION
		)`,
		`CREATE TABLE IF NOT EXISTS reddit_items (
			id SERIAL PRIMARY KEY,
			run_id INTEGER REFERENCES search_runs(id),
			item_id TEXT,
			title TEXT,
			url TEXT,
			subreddit TEXT,
			snippet TEXT,
			pub_date TEXT,
			relevance DOUBLE PRECISION
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}

	return nil
}

// SaveRun 保存一次检索的全部条目，失败时整体回滚
func (s *Storage) SaveRun(topic, fromDate, toDate, depth string, web []model.WebItem, reddit []model.RedditItem) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var runID int
	err = tx.QueryRow(`
		INSERT INTO search_runs (topic, from_date, to_date, depth)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		topic, fromDate, toDate, depth).Scan(&runID)
	if err != nil {
		return fmt.Errorf("failed to insert search run: %w", err)
	}

	for _, item := range web {
		_, err = tx.Exec(`
			INSERT INTO web_items (run_id, item_id, title, url, source_domain, snippet, pub_date, date_confidence, relevance)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			runID, item.ID, item.Title, item.URL, item.SourceDomain, item.Snippet, item.Date, item.DateConfidence, item.Relevance)
		if err != nil {
			return fmt.Errorf("failed to insert web item: %w", err)
		}
	}

	for _, item := range reddit {
		_, err = tx.Exec(`
			INSERT INTO reddit_items (run_id, item_id, title, url, subreddit, snippet, pub_date, relevance)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			runID, item.ID, item.Title, item.URL, item.Subreddit, item.Snippet, item.Date, item.Relevance)
		if err != nil {
			return fmt.Errorf("failed to insert reddit item: %w", err)
		}
	}

	return tx.Commit()
}
