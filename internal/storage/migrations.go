package storage

const schema = `
CREATE TABLE IF NOT EXISTS lists (
    id            TEXT PRIMARY KEY,
    title         TEXT NOT NULL,
    description   TEXT NOT NULL DEFAULT '',
    items         TEXT NOT NULL DEFAULT '[]',
    tags          TEXT NOT NULL DEFAULT '[]',
    creator_id    TEXT NOT NULL DEFAULT '',
    creator_name  TEXT NOT NULL DEFAULT '',
    creator_image TEXT NOT NULL DEFAULT '',
    created_at    INTEGER NOT NULL,
    updated_at    INTEGER NOT NULL,
    views         INTEGER NOT NULL DEFAULT 0,
    bookmarks     INTEGER NOT NULL DEFAULT 0,
    shares        INTEGER NOT NULL DEFAULT 0,
    ai_score      REAL
);

CREATE INDEX IF NOT EXISTS idx_lists_created_at ON lists(created_at);

CREATE TABLE IF NOT EXISTS list_likes (
    list_id    TEXT NOT NULL REFERENCES lists(id),
    user_id    TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (list_id, user_id)
);

CREATE TABLE IF NOT EXISTS comments (
    id         TEXT PRIMARY KEY,
    list_id    TEXT NOT NULL REFERENCES lists(id),
    author_id  TEXT NOT NULL DEFAULT '',
    body       TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_comments_list ON comments(list_id);

CREATE TABLE IF NOT EXISTS debates (
    id           TEXT PRIMARY KEY,
    title        TEXT NOT NULL,
    created_at   INTEGER NOT NULL,
    views        INTEGER NOT NULL DEFAULT 0,
    comments     INTEGER NOT NULL DEFAULT 0,
    participants INTEGER NOT NULL DEFAULT 0,
    shares       INTEGER NOT NULL DEFAULT 0,
    score        REAL NOT NULL DEFAULT 0,
    quality      REAL NOT NULL DEFAULT 0,
    controversy  REAL NOT NULL DEFAULT 0,
    trend        REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS debate_arguments (
    id        TEXT PRIMARY KEY,
    debate_id TEXT NOT NULL REFERENCES debates(id),
    position  INTEGER NOT NULL,
    body      TEXT NOT NULL DEFAULT '',
    quality   REAL NOT NULL DEFAULT 0,
    author_id TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_arguments_debate ON debate_arguments(debate_id);

CREATE TABLE IF NOT EXISTS vote_groups (
    id            TEXT PRIMARY KEY,
    title         TEXT NOT NULL,
    single_choice BOOLEAN NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS candidates (
    id       TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES vote_groups(id),
    list_id  TEXT NOT NULL,
    position INTEGER NOT NULL,
    votes    TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_candidates_group ON candidates(group_id);
`
