package store

const schema = `
CREATE TABLE IF NOT EXISTS posts (
    username     TEXT NOT NULL,
    id           TEXT NOT NULL,
    title        TEXT NOT NULL DEFAULT '',
    published_at DATETIME NOT NULL,
    plays        INTEGER NOT NULL DEFAULT 0,
    likes        INTEGER NOT NULL DEFAULT 0,
    saves        INTEGER NOT NULL DEFAULT 0,
    plays_7d     REAL NOT NULL DEFAULT 0,
    likes_7d     REAL NOT NULL DEFAULT 0,
    saves_7d     REAL NOT NULL DEFAULT 0,
    price        REAL NOT NULL DEFAULT 0,
    sales_count  INTEGER NOT NULL DEFAULT 0,
    position     INTEGER NOT NULL DEFAULT 0,
    fetched_at   DATETIME NOT NULL,
    PRIMARY KEY(username, id)
);

CREATE INDEX IF NOT EXISTS idx_posts_username ON posts(username);
CREATE INDEX IF NOT EXISTS idx_posts_published_at ON posts(published_at);

CREATE TABLE IF NOT EXISTS fetches (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    username   TEXT NOT NULL,
    source     TEXT NOT NULL,
    post_count INTEGER NOT NULL,
    fetched_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fetches_username ON fetches(username);
`
