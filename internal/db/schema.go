package db

// schema is the full DDL, applied idempotently at startup.
//
// Cascade rules are deliberately asymmetric: deleting a user takes
// their token and settings with it, but mappings and activity_log rows
// stay — activity is an audit trail, and mappings keep webhook routing
// alive across a disconnect/reconnect cycle.
//
// Note there is NO unique index on notion_tokens.cliq_user_id. The
// at-most-one-token-per-user rule lives in the token store's upsert.
const schema = `
CREATE TABLE IF NOT EXISTS cliq_users (
	id                 uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	cliq_user_id       varchar NOT NULL UNIQUE,
	cliq_display_name  varchar,
	cliq_email         varchar,
	connected_at       timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS notion_tokens (
	id              uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	cliq_user_id    uuid NOT NULL REFERENCES cliq_users(id) ON DELETE CASCADE,
	access_token    text NOT NULL,
	bot_id          varchar,
	workspace_id    varchar,
	workspace_name  varchar,
	workspace_icon  varchar,
	expires_at      timestamptz,
	created_at      timestamptz NOT NULL DEFAULT now(),
	updated_at      timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_notion_tokens_user ON notion_tokens (cliq_user_id);

CREATE TABLE IF NOT EXISTS mappings (
	id               uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	cliq_message_id  varchar,
	cliq_channel_id  varchar,
	notion_page_id   varchar NOT NULL,
	notion_page_url  text,
	cliq_user_id     uuid NOT NULL REFERENCES cliq_users(id),
	created_at       timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_mappings_page ON mappings (notion_page_id);
CREATE INDEX IF NOT EXISTS idx_mappings_user ON mappings (cliq_user_id);

CREATE TABLE IF NOT EXISTS notification_settings (
	id                       uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	cliq_user_id             uuid NOT NULL UNIQUE REFERENCES cliq_users(id) ON DELETE CASCADE,
	reminders_enabled        boolean NOT NULL DEFAULT true,
	reminder_hours_before    integer NOT NULL DEFAULT 24,
	notify_on_task_assigned  boolean NOT NULL DEFAULT true,
	notify_on_task_updated   boolean NOT NULL DEFAULT true,
	updated_at               timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS activity_log (
	id                 uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	cliq_user_id       uuid NOT NULL REFERENCES cliq_users(id),
	activity_type      varchar NOT NULL,
	description        text NOT NULL,
	notion_page_id     varchar,
	notion_page_title  text,
	notion_page_url    text,
	metadata           jsonb,
	created_at         timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_activity_user_created ON activity_log (cliq_user_id, created_at DESC);
`
