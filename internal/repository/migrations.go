package repository

type migration struct {
	version  int
	postgres []string
	sqlite   []string
}

func (m migration) statements(d Dialect) []string {
	if d == DialectPostgres {
		return m.postgres
	}
	return m.sqlite
}

// migrations must stay ordered by version.
var migrations = []migration{
	{
		version: 1,
		postgres: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id            TEXT PRIMARY KEY,
				name          TEXT NOT NULL,
				email         TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL DEFAULT '',
				role          TEXT NOT NULL CHECK (role IN ('admin', 'employee')),
				department    TEXT,
				active        BOOLEAN NOT NULL DEFAULT TRUE,
				created_at    TIMESTAMPTZ NOT NULL,
				updated_at    TIMESTAMPTZ NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS documents (
				id                TEXT PRIMARY KEY,
				title             TEXT NOT NULL,
				category          TEXT NOT NULL,
				description       TEXT,
				priority          TEXT NOT NULL DEFAULT 'medium',
				deadline          TIMESTAMPTZ,
				status            TEXT NOT NULL DEFAULT 'pending',
				uploaded_by       TEXT REFERENCES users(id) ON DELETE SET NULL,
				file_reference    TEXT NOT NULL,
				file_name         TEXT NOT NULL DEFAULT '',
				file_type         TEXT NOT NULL DEFAULT '',
				file_size         BIGINT NOT NULL DEFAULT 0,
				extracted_text    TEXT,
				summary           TEXT,
				translation       TEXT,
				enrichment_status TEXT NOT NULL DEFAULT 'pending',
				enrichment_error  TEXT,
				review_notes      TEXT,
				created_at        TIMESTAMPTZ NOT NULL,
				updated_at        TIMESTAMPTZ NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS document_assignments (
				document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
				user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				assigned_at TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (document_id, user_id)
			)`,
			`CREATE TABLE IF NOT EXISTS notifications (
				id           TEXT PRIMARY KEY,
				recipient_id TEXT NOT NULL,
				title        TEXT NOT NULL,
				message      TEXT NOT NULL,
				category     TEXT NOT NULL,
				priority     TEXT NOT NULL DEFAULT 'medium',
				is_read      BOOLEAN NOT NULL DEFAULT FALSE,
				created_at   TIMESTAMPTZ NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_documents_status_created ON documents(status, created_at DESC)`,
			`CREATE INDEX IF NOT EXISTS idx_documents_enrichment ON documents(enrichment_status)`,
			`CREATE INDEX IF NOT EXISTS idx_assignments_user ON document_assignments(user_id)`,
			`CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id, created_at DESC)`,
		},
		sqlite: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id            TEXT PRIMARY KEY,
				name          TEXT NOT NULL,
				email         TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL DEFAULT '',
				role          TEXT NOT NULL CHECK (role IN ('admin', 'employee')),
				department    TEXT,
				active        BOOLEAN NOT NULL DEFAULT 1,
				created_at    DATETIME NOT NULL,
				updated_at    DATETIME NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS documents (
				id                TEXT PRIMARY KEY,
				title             TEXT NOT NULL,
				category          TEXT NOT NULL,
				description       TEXT,
				priority          TEXT NOT NULL DEFAULT 'medium',
				deadline          DATETIME,
				status            TEXT NOT NULL DEFAULT 'pending',
				uploaded_by       TEXT REFERENCES users(id) ON DELETE SET NULL,
				file_reference    TEXT NOT NULL,
				file_name         TEXT NOT NULL DEFAULT '',
				file_type         TEXT NOT NULL DEFAULT '',
				file_size         INTEGER NOT NULL DEFAULT 0,
				extracted_text    TEXT,
				summary           TEXT,
				translation       TEXT,
				enrichment_status TEXT NOT NULL DEFAULT 'pending',
				enrichment_error  TEXT,
				review_notes      TEXT,
				created_at        DATETIME NOT NULL,
				updated_at        DATETIME NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS document_assignments (
				document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
				user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				assigned_at DATETIME NOT NULL,
				PRIMARY KEY (document_id, user_id)
			)`,
			`CREATE TABLE IF NOT EXISTS notifications (
				id           TEXT PRIMARY KEY,
				recipient_id TEXT NOT NULL,
				title        TEXT NOT NULL,
				message      TEXT NOT NULL,
				category     TEXT NOT NULL,
				priority     TEXT NOT NULL DEFAULT 'medium',
				is_read      BOOLEAN NOT NULL DEFAULT 0,
				created_at   DATETIME NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_documents_status_created ON documents(status, created_at DESC)`,
			`CREATE INDEX IF NOT EXISTS idx_documents_enrichment ON documents(enrichment_status)`,
			`CREATE INDEX IF NOT EXISTS idx_assignments_user ON document_assignments(user_id)`,
			`CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id, created_at DESC)`,
		},
	},
}
