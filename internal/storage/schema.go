package storage

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS plays (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	sentence_no INTEGER NOT NULL,
	mode        TEXT NOT NULL,
	played_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_plays_played_at ON plays (played_at);
`
