package store

// LogView records one chapter-open event for a manhwa. The raw log is
// folded into the manhwa's view counter by the periodic rollup job, so a
// burst of readers costs one cheap insert per view instead of contended
// counter updates.
func (s *Store) LogView(manhwaPublicID string, userID int64) error {
	rowID, err := s.manhwaRowID(manhwaPublicID)
	if err != nil {
		return err
	}
	_, err = s.db.Exec("INSERT INTO view_log (manhwa_id, user_id) VALUES (?, ?)", rowID, nullableID(userID))
	return err
}

// RollupViews folds unprocessed view events into the per-manhwa view
// counters and marks them processed. Returns the number of events folded.
func (s *Store) RollupViews() (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE manhwas SET views = views + (
			SELECT COUNT(*) FROM view_log v WHERE v.manhwa_id = manhwas.id AND v.rolled_up = 0
		)
		WHERE EXISTS (SELECT 1 FROM view_log v WHERE v.manhwa_id = manhwas.id AND v.rolled_up = 0)`)
	if err != nil {
		return 0, err
	}

	res, err := tx.Exec("UPDATE view_log SET rolled_up = 1 WHERE rolled_up = 0")
	if err != nil {
		return 0, err
	}
	folded, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return folded, nil
}

// PendingViewCount returns the number of view events not yet rolled up.
func (s *Store) PendingViewCount() (int64, error) {
	var count int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM view_log WHERE rolled_up = 0").Scan(&count)
	return count, err
}
