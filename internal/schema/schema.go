// Package schema owns the recruiting database layout: table and index DDL,
// and the shared updated_at trigger. Everything here is idempotent and safe
// to re-run against an already-initialized database.
package schema

// Table carries the guarded CREATE statement for one table. Tables are
// applied in slice order, so a referenced table must appear before any
// table referencing it.
type Table struct {
	Name string
	DDL  string
}

// Tables lists every table in dependency order:
// users -> user_settings/recruits -> schedules/emails/email_queue/
// extraction_feedback -> teams -> team_aliases -> scraper_configurations ->
// scraping_logs. extraction_patterns and gpt_cache have no foreign keys.
var Tables = []Table{
	{"users", usersDDL},
	{"user_settings", userSettingsDDL},
	{"recruits", recruitsDDL},
	{"schedules", schedulesDDL},
	{"emails", emailsDDL},
	{"email_queue", emailQueueDDL},
	{"extraction_feedback", extractionFeedbackDDL},
	{"extraction_patterns", extractionPatternsDDL},
	{"teams", teamsDDL},
	{"team_aliases", teamAliasesDDL},
	{"scraper_configurations", scraperConfigurationsDDL},
	{"scraping_logs", scrapingLogsDDL},
	{"gpt_cache", gptCacheDDL},
}

const usersDDL = `
CREATE TABLE IF NOT EXISTS users (
	id VARCHAR(36) PRIMARY KEY,
	email VARCHAR(255) NOT NULL UNIQUE,
	hashed_password VARCHAR(255),
	provider VARCHAR(50),
	oauth_access_token TEXT,
	oauth_refresh_token TEXT,
	token_expires_at TIMESTAMPTZ,
	is_new_user INTEGER NOT NULL DEFAULT 1,
	is_admin BOOLEAN NOT NULL DEFAULT FALSE,
	has_consented BOOLEAN NOT NULL DEFAULT FALSE,
	has_completed_setup BOOLEAN NOT NULL DEFAULT FALSE,
	name VARCHAR(255),
	organization VARCHAR(255),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const userSettingsDDL = `
CREATE TABLE IF NOT EXISTS user_settings (
	user_id VARCHAR(36) PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
	selected_folders TEXT,
	fetch_frequency VARCHAR(20) NOT NULL DEFAULT 'manual',
	batch_process_enabled BOOLEAN NOT NULL DEFAULT FALSE
)`

// grad_year, gpa and rating stay bounded text on purpose: the fields are
// displayed verbatim and must round-trip the string forms callers submit.
const recruitsDDL = `
CREATE TABLE IF NOT EXISTS recruits (
	id BIGSERIAL PRIMARY KEY,
	user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	first_name VARCHAR(100),
	last_name VARCHAR(100),
	email_address VARCHAR(255) UNIQUE,
	phone VARCHAR(50),
	grad_year VARCHAR(10),
	state VARCHAR(50),
	gpa VARCHAR(10),
	majors TEXT,
	positions TEXT,
	clubs TEXT,
	coach_name VARCHAR(255),
	coach_phone VARCHAR(50),
	coach_email VARCHAR(255),
	rating VARCHAR(20),
	evaluation TEXT,
	last_evaluation_date TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// date/time are bounded text because imported calendars arrive in several
// formats that must survive a round trip unaltered.
const schedulesDDL = `
CREATE TABLE IF NOT EXISTS schedules (
	id BIGSERIAL PRIMARY KEY,
	user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	recruit_id BIGINT REFERENCES recruits(id) ON DELETE CASCADE,
	recruit_email VARCHAR(255),
	home_team VARCHAR(255),
	away_team VARCHAR(255),
	home_participants TEXT,
	away_participants TEXT,
	event_name VARCHAR(255),
	is_master BOOLEAN NOT NULL DEFAULT FALSE,
	source VARCHAR(50) NOT NULL DEFAULT 'manual',
	date VARCHAR(50) NOT NULL,
	time VARCHAR(20),
	location VARCHAR(255),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const emailsDDL = `
CREATE TABLE IF NOT EXISTS emails (
	id BIGSERIAL PRIMARY KEY,
	user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	recruit_email VARCHAR(255),
	email_id VARCHAR(255) NOT NULL UNIQUE,
	date VARCHAR(50),
	subject TEXT,
	summary TEXT,
	highlights TEXT,
	profile TEXT,
	schedule TEXT,
	folder_id VARCHAR(255),
	sender VARCHAR(255),
	received_date TIMESTAMPTZ,
	is_read INTEGER NOT NULL DEFAULT 0,
	has_attachments INTEGER NOT NULL DEFAULT 0,
	body TEXT,
	import_date TIMESTAMPTZ,
	processed INTEGER NOT NULL DEFAULT 0,
	processed_date TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// email_id references the provider's message identifier, not emails.id, so
// queue entries can exist before the message row is ingested.
const emailQueueDDL = `
CREATE TABLE IF NOT EXISTS email_queue (
	id BIGSERIAL PRIMARY KEY,
	user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	email_id VARCHAR(255) NOT NULL,
	provider VARCHAR(50) NOT NULL,
	folder_id VARCHAR(255) NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'QUEUED',
	priority INTEGER NOT NULL DEFAULT 0,
	processed_at TIMESTAMPTZ,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const extractionFeedbackDDL = `
CREATE TABLE IF NOT EXISTS extraction_feedback (
	id BIGSERIAL PRIMARY KEY,
	user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	email_id VARCHAR(255) NOT NULL,
	recruit_id BIGINT NOT NULL REFERENCES recruits(id) ON DELETE CASCADE,
	original_text TEXT,
	original_extraction JSONB NOT NULL DEFAULT '{}'::jsonb,
	corrected_values JSONB NOT NULL DEFAULT '{}'::jsonb,
	notes TEXT,
	used_cache BOOLEAN NOT NULL DEFAULT FALSE,
	model_used VARCHAR(100),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const extractionPatternsDDL = `
CREATE TABLE IF NOT EXISTS extraction_patterns (
	id BIGSERIAL PRIMARY KEY,
	field_name VARCHAR(100) NOT NULL,
	pattern TEXT NOT NULL,
	description TEXT,
	priority INTEGER NOT NULL DEFAULT 0,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const teamsDDL = `
CREATE TABLE IF NOT EXISTS teams (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(255) NOT NULL UNIQUE,
	normalized_name VARCHAR(255) NOT NULL,
	birth_year VARCHAR(10),
	gender VARCHAR(20),
	age_group VARCHAR(20),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const teamAliasesDDL = `
CREATE TABLE IF NOT EXISTS team_aliases (
	id BIGSERIAL PRIMARY KEY,
	team_id BIGINT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
	alias VARCHAR(255) NOT NULL UNIQUE,
	source VARCHAR(100),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const scraperConfigurationsDDL = `
CREATE TABLE IF NOT EXISTS scraper_configurations (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	source VARCHAR(255) NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	parameters JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const scrapingLogsDDL = `
CREATE TABLE IF NOT EXISTS scraping_logs (
	id BIGSERIAL PRIMARY KEY,
	config_id BIGINT NOT NULL REFERENCES scraper_configurations(id) ON DELETE CASCADE,
	start_time TIMESTAMPTZ NOT NULL,
	end_time TIMESTAMPTZ,
	duration_seconds INTEGER,
	total_matches INTEGER NOT NULL DEFAULT 0,
	new_matches INTEGER NOT NULL DEFAULT 0,
	results JSONB,
	error TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const gptCacheDDL = `
CREATE TABLE IF NOT EXISTS gpt_cache (
	id BIGSERIAL PRIMARY KEY,
	content_hash VARCHAR(64) NOT NULL UNIQUE,
	email VARCHAR(255),
	result_json JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Indexes back the service layer's filtered lookups: by owner, by status or
// processed flag, by date, by normalized name, by alias source. Natural-key
// uniqueness already creates its own index and is not repeated here.
var Indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_recruits_user_id ON recruits (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_recruits_grad_year ON recruits (user_id, grad_year)`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_user_id ON schedules (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_recruit_id ON schedules (recruit_id)`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_date ON schedules (date)`,
	`CREATE INDEX IF NOT EXISTS idx_emails_user_id ON emails (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_emails_processed ON emails (processed)`,
	`CREATE INDEX IF NOT EXISTS idx_emails_received_date ON emails (received_date)`,
	`CREATE INDEX IF NOT EXISTS idx_email_queue_user_id ON email_queue (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_email_queue_status ON email_queue (status, priority DESC, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_extraction_feedback_user_id ON extraction_feedback (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_extraction_feedback_email_id ON extraction_feedback (email_id)`,
	`CREATE INDEX IF NOT EXISTS idx_extraction_feedback_recruit_id ON extraction_feedback (recruit_id)`,
	`CREATE INDEX IF NOT EXISTS idx_extraction_patterns_field_name ON extraction_patterns (field_name)`,
	`CREATE INDEX IF NOT EXISTS idx_teams_normalized_name ON teams (normalized_name)`,
	`CREATE INDEX IF NOT EXISTS idx_team_aliases_team_id ON team_aliases (team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_scraper_configurations_source ON scraper_configurations (source)`,
	`CREATE INDEX IF NOT EXISTS idx_scraping_logs_config_id ON scraping_logs (config_id)`,
	`CREATE INDEX IF NOT EXISTS idx_scraping_logs_start_time ON scraping_logs (start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_gpt_cache_email ON gpt_cache (email)`,
}
