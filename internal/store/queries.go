package store

// Run queries
const (
	queryInsertRun = `
		INSERT INTO runs (id, vcenter, started_at)
		VALUES (?, ?, ?)`

	queryFinishRun = `
		UPDATE runs SET finished_at = ?, error = ?
		WHERE id = ?`

	queryGetRun = `
		SELECT id, vcenter, started_at, finished_at, error
		FROM runs WHERE id = ?`

	queryListRuns = `
		SELECT id, vcenter, started_at, finished_at, error
		FROM runs ORDER BY started_at DESC LIMIT ?`
)

// Outcome queries
const (
	queryInsertOutcome = `
		INSERT INTO outcomes (run_id, seq, vm_name, desired, observed, action, outcome, detail, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryNextOutcomeSeq = `
		SELECT COALESCE(MAX(seq), 0) + 1 FROM outcomes WHERE run_id = ?`

	queryListOutcomes = `
		SELECT vm_name, desired, observed, action, outcome, detail, duration_ms
		FROM outcomes WHERE run_id = ? ORDER BY seq`
)
