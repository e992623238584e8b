// ABOUTME: SQLite database schema for policy and conversation storage
// ABOUTME: Creates all tables and indexes for the durable stores
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Policies table (the durable corpus; only approved rows are served)
CREATE TABLE IF NOT EXISTS policies (
    id TEXT PRIMARY KEY,
    country TEXT NOT NULL,
    policy_area TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT,
    implementation_year INTEGER,
    status TEXT NOT NULL DEFAULT 'pending',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Conversation threads (denormalized per-conversation metadata)
CREATE TABLE IF NOT EXISTS conversation_threads (
    conversation_id TEXT PRIMARY KEY,
    user_id TEXT,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,
    message_count INTEGER NOT NULL DEFAULT 0
);

-- Conversation messages (append-only log)
CREATE TABLE IF NOT EXISTS conversation_messages (
    id TEXT PRIMARY KEY,
    conversation_id TEXT NOT NULL REFERENCES conversation_threads(conversation_id) ON DELETE CASCADE,
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    metadata TEXT,
    created_at DATETIME NOT NULL
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_policies_status ON policies(status);
CREATE INDEX IF NOT EXISTS idx_policies_country ON policies(country);
CREATE INDEX IF NOT EXISTS idx_policies_area ON policies(policy_area);
CREATE INDEX IF NOT EXISTS idx_messages_conversation ON conversation_messages(conversation_id, created_at);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
