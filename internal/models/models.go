package models

import "time"

// QueryResult holds the outcome of one query execution
type QueryResult struct {
	Columns      []string
	Rows         [][]string
	RowsAffected int64
	Duration     time.Duration
	Error        error
}

// Snippet is a named, reusable query saved by the user
type Snippet struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Query     string    `yaml:"query"`
	CreatedAt time.Time `yaml:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// FocusTarget identifies which pane receives key input
type FocusTarget int

const (
	FocusEditor FocusTarget = iota
	FocusResults
)
