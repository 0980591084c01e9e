package store

import "database/sql"

// Store provides access to all storage repositories.
type Store struct {
	db       *sql.DB
	runs     *RunStore
	outcomes *OutcomeStore
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:       db,
		runs:     NewRunStore(db),
		outcomes: NewOutcomeStore(db),
	}
}

func (s *Store) Runs() *RunStore {
	return s.runs
}

func (s *Store) Outcomes() *OutcomeStore {
	return s.outcomes
}

func (s *Store) Close() error {
	return s.db.Close()
}
