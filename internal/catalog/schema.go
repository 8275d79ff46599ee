package catalog

const schema = `
CREATE TABLE IF NOT EXISTS archives (
    name TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL,
    files INTEGER NOT NULL,
    size_bytes INTEGER NOT NULL,
    source TEXT NOT NULL,
    present BOOLEAN NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_archives_created ON archives(created_at);
CREATE INDEX IF NOT EXISTS idx_archives_source ON archives(source);
`
