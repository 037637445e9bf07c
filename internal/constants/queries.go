package constants

const (
	// ListImportLogs reads one audit page, newest first, with the actor's
	// display name joined in. Placeholders are sqlx "?" style so the query
	// can be rebound for Postgres or the sqlite test driver.
	ListImportLogs = `
	SELECT il.id, il.imported_at, il.record_count, il.source, il.file_name,
	       il.imported_by, il.status, il.errors,
	       COALESCE(u.username, il.imported_by) AS imported_by_name
	FROM import_logs il
	LEFT JOIN users u ON u.id = il.imported_by
	ORDER BY il.imported_at DESC, il.id DESC
	LIMIT ? OFFSET ?
	`

	CountImportLogs = `
	SELECT COUNT(*) FROM import_logs
	`
)
