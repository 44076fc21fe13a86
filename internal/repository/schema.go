package repository

// Schema creates the tables the stores expect. Applied by cmd/seed and the
// integration tests; production migrations run the same statements.
const Schema = `
CREATE TABLE IF NOT EXISTS trend_candidates (
	id UUID PRIMARY KEY,
	topic TEXT NOT NULL,
	stage TEXT NOT NULL,
	relevance_score DOUBLE PRECISION NOT NULL,
	viral_coefficient DOUBLE PRECISION NOT NULL,
	source_quality DOUBLE PRECISION NOT NULL,
	estimated_reach BIGINT NOT NULL DEFAULT 0,
	stage_entered_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS keywords (
	id UUID PRIMARY KEY,
	phrase TEXT NOT NULL,
	search_volume BIGINT NOT NULL DEFAULT 0,
	difficulty DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS workflow_executions (
	id UUID PRIMARY KEY,
	workflow_type TEXT NOT NULL,
	status TEXT NOT NULL,
	states JSONB NOT NULL DEFAULT '[]',
	report JSONB,
	error TEXT NOT NULL DEFAULT '',
	started_at TIMESTAMPTZ NOT NULL,
	ended_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS campaign_memories (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	objective TEXT NOT NULL,
	campaign_type TEXT NOT NULL,
	parameters JSONB,
	reach BIGINT NOT NULL DEFAULT 0,
	engagement BIGINT NOT NULL DEFAULT 0,
	conversions BIGINT NOT NULL DEFAULT 0,
	revenue DOUBLE PRECISION NOT NULL DEFAULT 0,
	spend DOUBLE PRECISION NOT NULL DEFAULT 0,
	roi DOUBLE PRECISION NOT NULL DEFAULT 0,
	what_worked TEXT[] NOT NULL DEFAULT '{}',
	what_didnt TEXT[] NOT NULL DEFAULT '{}',
	patterns TEXT[] NOT NULL DEFAULT '{}',
	recommendations TEXT[] NOT NULL DEFAULT '{}',
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`
