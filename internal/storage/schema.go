package storage

// Schema is the SQL schema for the case database.
const Schema = `
CREATE TABLE IF NOT EXISTS cases (
    id          TEXT PRIMARY KEY,
    title       TEXT NOT NULL UNIQUE,
    content     TEXT DEFAULT '',
    status      TEXT NOT NULL DEFAULT 'active'
                CHECK(status IN ('active', 'archived')),
    created_at  TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS events (
    id               TEXT PRIMARY KEY,
    case_id          TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
    position         INTEGER NOT NULL,
    kind             TEXT NOT NULL,
    text             TEXT DEFAULT '',
    timestamp        TEXT NULL,
    sequence_number  INTEGER NULL,
    duration_minutes INTEGER NULL,
    stakeholders     TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS agents (
    id              TEXT PRIMARY KEY,
    case_id         TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
    name            TEXT NOT NULL,
    role            TEXT DEFAULT '',
    capabilities    TEXT NOT NULL DEFAULT '[]',
    authority_level REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS analyses (
    id          TEXT PRIMARY KEY,
    case_id     TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
    profile     TEXT NOT NULL,
    warnings    TEXT NOT NULL DEFAULT '[]',
    created_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE VIRTUAL TABLE IF NOT EXISTS cases_fts USING fts5(
    title,
    content,
    content='cases',
    content_rowid='rowid'
);

CREATE INDEX IF NOT EXISTS idx_cases_status ON cases(status);
CREATE INDEX IF NOT EXISTS idx_events_case ON events(case_id, position);
CREATE INDEX IF NOT EXISTS idx_agents_case ON agents(case_id);
CREATE INDEX IF NOT EXISTS idx_analyses_case ON analyses(case_id, created_at);
`

// Triggers keeps the FTS index in sync with the cases table.
const Triggers = `
CREATE TRIGGER IF NOT EXISTS cases_ai AFTER INSERT ON cases BEGIN
    INSERT INTO cases_fts(rowid, title, content) VALUES (new.rowid, new.title, new.content);
END;
CREATE TRIGGER IF NOT EXISTS cases_ad AFTER DELETE ON cases BEGIN
    INSERT INTO cases_fts(cases_fts, rowid, title, content) VALUES('delete', old.rowid, old.title, old.content);
END;
CREATE TRIGGER IF NOT EXISTS cases_au AFTER UPDATE ON cases BEGIN
    INSERT INTO cases_fts(cases_fts, rowid, title, content) VALUES('delete', old.rowid, old.title, old.content);
    INSERT INTO cases_fts(rowid, title, content) VALUES (new.rowid, new.title, new.content);
END;
`
