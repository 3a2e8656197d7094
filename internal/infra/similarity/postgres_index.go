package similarity

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/yanqian/faq-admin/internal/domain/enhancer"
)

// PostgresIndex implements enhancer.SimilarityIndex using pgvector.
type PostgresIndex struct {
	pool *pgxpool.Pool
}

// NewPostgresIndex constructs the index. Run RunMigrations first.
func NewPostgresIndex(pool *pgxpool.Pool) *PostgresIndex {
	return &PostgresIndex{pool: pool}
}

// Upsert stores or replaces the embedding for one record.
func (r *PostgresIndex) Upsert(ctx context.Context, item enhancer.IndexedQuestion) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO faq_embeddings (faq_id, question_text, embedding, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (faq_id) DO UPDATE
		SET question_text = EXCLUDED.question_text,
		    embedding = EXCLUDED.embedding,
		    updated_at = now()
	`, item.ID, item.Question, pgvector.NewVector(item.Embedding))
	return err
}

// Delete removes the given ids.
func (r *PostgresIndex) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM faq_embeddings WHERE faq_id = ANY($1)`, ids)
	return err
}

// Indexed lists every stored id with the question text it was embedded from.
func (r *PostgresIndex) Indexed(ctx context.Context) (map[string]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT faq_id, question_text FROM faq_embeddings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var id, question string
		if err := rows.Scan(&id, &question); err != nil {
			return nil, err
		}
		out[id] = question
	}
	return out, rows.Err()
}

// Nearest returns up to limit records ordered by cosine distance.
func (r *PostgresIndex) Nearest(ctx context.Context, embedding []float32, limit int) ([]enhancer.Match, error) {
	if limit <= 0 {
		limit = 1
	}
	rows, err := r.pool.Query(ctx, `
		SELECT faq_id, question_text, embedding <=> $1 AS distance
		FROM faq_embeddings
		ORDER BY embedding <=> $1
		LIMIT $2
	`, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []enhancer.Match
	for rows.Next() {
		var m enhancer.Match
		if err := rows.Scan(&m.ID, &m.Question, &m.Distance); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

var _ enhancer.SimilarityIndex = (*PostgresIndex)(nil)
