package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/talentradar/internal/domain/model"
	"github.com/okian/talentradar/pkg/metrics"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS persons (
	id                  uuid PRIMARY KEY,
	seq                 bigserial,
	email               text,
	orcid_id            text,
	github_username     text,
	qiita_id            text,
	full_name           text NOT NULL,
	current_affiliation text,
	linkedin_url        text,
	personal_blog_url   text,
	is_researcher       boolean NOT NULL DEFAULT false,
	is_engineer         boolean NOT NULL DEFAULT false,
	experience_summary  text NOT NULL DEFAULT '',
	data_sources        text[] NOT NULL DEFAULT '{}',
	raw_github_data     jsonb,
	raw_qiita_data      jsonb,
	raw_openalex_data   jsonb,
	raw_kaken_data      jsonb,
	match_score         double precision,
	last_updated_at     timestamptz NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS persons_email_key ON persons (email) WHERE email IS NOT NULL;
CREATE UNIQUE INDEX IF NOT EXISTS persons_orcid_id_key ON persons (orcid_id) WHERE orcid_id IS NOT NULL;
CREATE UNIQUE INDEX IF NOT EXISTS persons_github_username_key ON persons (github_username) WHERE github_username IS NOT NULL;
CREATE INDEX IF NOT EXISTS persons_name_affiliation_idx ON persons (full_name, current_affiliation);
`

const personColumns = `id::text, COALESCE(email, ''), COALESCE(orcid_id, ''), COALESCE(github_username, ''),
	COALESCE(qiita_id, ''), full_name, COALESCE(current_affiliation, ''), COALESCE(linkedin_url, ''),
	COALESCE(personal_blog_url, ''), is_researcher, is_engineer, experience_summary, data_sources,
	raw_github_data, raw_qiita_data, raw_openalex_data, raw_kaken_data, match_score, last_updated_at`

// PostgresStore is a Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	cfg  settings
}

// NewPostgresStore connects to dsn.
func NewPostgresStore(ctx context.Context, dsn string, opts ...Option) (*PostgresStore, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresStore{pool: pool, cfg: newSettings(opts)}, nil
}

// EnsureSchema creates the persons table and its indexes.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// classify maps driver errors onto the package sentinels.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	metrics.RecordRepositoryError(op)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s: %w: %s", op, ErrDuplicate, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func scanPerson(row pgx.Row) (model.Person, error) {
	var p model.Person
	err := row.Scan(&p.ID, &p.Email, &p.OrcidID, &p.GitHubUsername, &p.QiitaID, &p.FullName,
		&p.CurrentAffiliation, &p.LinkedInURL, &p.PersonalBlogURL, &p.IsResearcher, &p.IsEngineer,
		&p.ExperienceSummary, &p.DataSources, &p.RawGitHub, &p.RawQiita, &p.RawOpenAlex, &p.RawKaken,
		&p.MatchScore, &p.LastUpdatedAt)
	if p.DataSources == nil {
		p.DataSources = []string{}
	}
	return p, err
}

func (s *PostgresStore) queryPersons(ctx context.Context, op, sql string, args ...any) ([]model.Person, error) {
	defer observe(op)()
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	out := make([]model.Person, 0)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, classify(op, fmt.Errorf("scan person: %w", err))
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, fmt.Errorf("iterate persons: %w", err))
	}
	return out, nil
}

func (s *PostgresStore) queryPerson(ctx context.Context, op, sql string, args ...any) (model.Person, error) {
	defer observe(op)()
	p, err := scanPerson(s.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return model.Person{}, classify(op, err)
	}
	return p, nil
}

// FindByEmail implements Store.
func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (model.Person, error) {
	if email == "" {
		return model.Person{}, ErrNotFound
	}
	return s.queryPerson(ctx, "find", `SELECT `+personColumns+` FROM persons WHERE email = $1`, email)
}

// FindByOrcidID implements Store.
func (s *PostgresStore) FindByOrcidID(ctx context.Context, orcidID string) (model.Person, error) {
	if orcidID == "" {
		return model.Person{}, ErrNotFound
	}
	return s.queryPerson(ctx, "find", `SELECT `+personColumns+` FROM persons WHERE orcid_id = $1`, orcidID)
}

// FindByGitHubUsername implements Store.
func (s *PostgresStore) FindByGitHubUsername(ctx context.Context, username string) (model.Person, error) {
	if username == "" {
		return model.Person{}, ErrNotFound
	}
	return s.queryPerson(ctx, "find", `SELECT `+personColumns+` FROM persons WHERE github_username = $1`, username)
}

// FindByNameAndAffiliation implements Store.
func (s *PostgresStore) FindByNameAndAffiliation(ctx context.Context, fullName, affiliation string) (model.Person, error) {
	return s.queryPerson(ctx, "find", `SELECT `+personColumns+` FROM persons
		WHERE full_name = $1 AND COALESCE(current_affiliation, '') = $2 ORDER BY seq LIMIT 1`, fullName, affiliation)
}

// FindByIdentifiers implements Store.
func (s *PostgresStore) FindByIdentifiers(ctx context.Context, ids model.Identifiers) (model.Person, error) {
	return findByIdentifiers(ctx, s, ids)
}

// FindByID implements Store.
func (s *PostgresStore) FindByID(ctx context.Context, id string) (model.Person, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Person{}, ErrNotFound
	}
	return s.queryPerson(ctx, "find_by_id", `SELECT `+personColumns+` FROM persons WHERE id = $1`, id)
}

func jsonParam(m map[string]any) (any, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode raw payload: %w", err)
	}
	return b, nil
}

// personArgs returns $2..$17, the columns shared by insert and update.
func personArgs(p *model.Person) ([]any, error) {
	raws := make([]any, 0, 4)
	for _, m := range []map[string]any{p.RawGitHub, p.RawQiita, p.RawOpenAlex, p.RawKaken} {
		v, err := jsonParam(m)
		if err != nil {
			return nil, err
		}
		raws = append(raws, v)
	}
	ds := p.DataSources
	if ds == nil {
		ds = []string{}
	}
	args := []any{
		p.Email, p.OrcidID, p.GitHubUsername, p.QiitaID, p.FullName, p.CurrentAffiliation,
		p.LinkedInURL, p.PersonalBlogURL, p.IsResearcher, p.IsEngineer, p.ExperienceSummary, ds,
	}
	return append(args, raws...), nil
}

// Create implements Store.
func (s *PostgresStore) Create(ctx context.Context, p model.Person) (model.Person, error) {
	p.ID = s.cfg.newID()
	if p.LastUpdatedAt.IsZero() {
		p.LastUpdatedAt = s.cfg.now()
	}
	args, err := personArgs(&p)
	if err != nil {
		return model.Person{}, err
	}
	created, err := s.queryPerson(ctx, "create", `INSERT INTO persons (id, email, orcid_id, github_username,
		qiita_id, full_name, current_affiliation, linkedin_url, personal_blog_url, is_researcher, is_engineer,
		experience_summary, data_sources, raw_github_data, raw_qiita_data, raw_openalex_data, raw_kaken_data,
		match_score, last_updated_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, NULLIF($7, ''),
		NULLIF($8, ''), NULLIF($9, ''), $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING `+personColumns, append(append([]any{p.ID}, args...), p.MatchScore, p.LastUpdatedAt)...)
	if err != nil {
		return model.Person{}, err
	}
	metrics.UpdatePersonsTotal(s.countOrZero(ctx))
	return created, nil
}

// Update implements Store. match_score is left untouched.
func (s *PostgresStore) Update(ctx context.Context, p model.Person) (model.Person, error) {
	if p.ID == "" {
		return model.Person{}, ErrMissingID
	}
	if _, err := uuid.Parse(p.ID); err != nil {
		return model.Person{}, ErrNotFound
	}
	args, err := personArgs(&p)
	if err != nil {
		return model.Person{}, err
	}
	return s.queryPerson(ctx, "update", `UPDATE persons SET email = NULLIF($2, ''), orcid_id = NULLIF($3, ''),
		github_username = NULLIF($4, ''), qiita_id = NULLIF($5, ''), full_name = $6,
		current_affiliation = NULLIF($7, ''), linkedin_url = NULLIF($8, ''), personal_blog_url = NULLIF($9, ''),
		is_researcher = $10, is_engineer = $11, experience_summary = $12, data_sources = $13,
		raw_github_data = $14, raw_qiita_data = $15, raw_openalex_data = $16, raw_kaken_data = $17,
		last_updated_at = $18
		WHERE id = $1
		RETURNING `+personColumns, append(append([]any{p.ID}, args...), p.LastUpdatedAt)...)
}

// Delete implements Store.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	defer observe("delete")()
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM persons WHERE id = $1`, id)
	if err != nil {
		return classify("delete", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	metrics.UpdatePersonsTotal(s.countOrZero(ctx))
	return nil
}

// List implements Store.
func (s *PostgresStore) List(ctx context.Context, skip, limit int) ([]model.Person, error) {
	if skip < 0 || limit <= 0 {
		return nil, fmt.Errorf("%w: skip=%d limit=%d", ErrInvalidPage, skip, limit)
	}
	return s.queryPersons(ctx, "list", `SELECT `+personColumns+` FROM persons ORDER BY seq OFFSET $1 LIMIT $2`, skip, limit)
}

// ListAll implements Store.
func (s *PostgresStore) ListAll(ctx context.Context) ([]model.Person, error) {
	return s.queryPersons(ctx, "list", `SELECT `+personColumns+` FROM persons ORDER BY seq`)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search implements Store.
func (s *PostgresStore) Search(ctx context.Context, keyword string) ([]model.Person, error) {
	pattern := "%" + likeEscaper.Replace(keyword) + "%"
	return s.queryPersons(ctx, "search", `SELECT `+personColumns+` FROM persons
		WHERE full_name ILIKE $1 OR current_affiliation ILIKE $1 OR experience_summary ILIKE $1
		ORDER BY seq`, pattern)
}

// UpdateMatchScores implements Store in one statement.
func (s *PostgresStore) UpdateMatchScores(ctx context.Context, scores map[string]float64) (int, error) {
	defer observe("update_scores")()
	ids := make([]string, 0, len(scores))
	vals := make([]float64, 0, len(scores))
	for id, v := range scores {
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		ids = append(ids, id)
		vals = append(vals, v)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := s.pool.Exec(ctx, `UPDATE persons p SET match_score = s.score, last_updated_at = now()
		FROM unnest($1::text[], $2::float8[]) AS s(id, score)
		WHERE p.id = s.id::uuid`, ids, vals)
	if err != nil {
		return 0, classify("update_scores", err)
	}
	return int(tag.RowsAffected()), nil
}

// DeleteAll implements Store.
func (s *PostgresStore) DeleteAll(ctx context.Context) (int, error) {
	defer observe("delete_all")()
	tag, err := s.pool.Exec(ctx, `DELETE FROM persons`)
	if err != nil {
		return 0, classify("delete_all", err)
	}
	metrics.UpdatePersonsTotal(0)
	return int(tag.RowsAffected()), nil
}

// Count implements Store.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM persons`).Scan(&n); err != nil {
		return 0, classify("count", err)
	}
	return n, nil
}

func (s *PostgresStore) countOrZero(ctx context.Context) int {
	n, err := s.Count(ctx)
	if err != nil {
		return 0
	}
	return n
}
