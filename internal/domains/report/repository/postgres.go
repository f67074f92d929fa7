package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"bookreview-backend/internal/domains/report/model"
	"bookreview-backend/internal/shared/utils"
)

type postgresAggregator struct {
	pool *pgxpool.Pool
}

func NewPostgresAggregator(pool *pgxpool.Pool) Aggregator {
	return &postgresAggregator{pool: pool}
}

// =====================================================
// AUTHORS SUMMARY
// =====================================================

// Reviews and sales are pre-aggregated per author in separate CTEs so the
// joins never multiply rows.
const authorsSummaryQuery = `
	WITH book_counts AS (
		SELECT author_id, COUNT(*) AS published_books
		FROM books
		GROUP BY author_id
	),
	review_stats AS (
		SELECT b.author_id, AVG(r.score) AS average_score
		FROM reviews r
		JOIN books b ON b.id = r.book_id
		GROUP BY b.author_id
	),
	sale_totals AS (
		SELECT b.author_id, SUM(s.units) AS total_sales
		FROM sales s
		JOIN books b ON b.id = s.book_id
		GROUP BY b.author_id
	)
	SELECT
		a.id,
		a.name,
		COALESCE(bc.published_books, 0)::bigint,
		COALESCE(rs.average_score, 0)::numeric,
		COALESCE(st.total_sales, 0)::bigint
	FROM authors a
	LEFT JOIN book_counts bc ON bc.author_id = a.id
	LEFT JOIN review_stats rs ON rs.author_id = a.id
	LEFT JOIN sale_totals st ON st.author_id = a.id
	ORDER BY a.name ASC, a.id ASC
`

func (r *postgresAggregator) GetAuthorsSummary(ctx context.Context) ([]model.AuthorSummary, error) {
	rows, err := r.pool.Query(ctx, authorsSummaryQuery)
	if err != nil {
		return nil, fmt.Errorf("query authors summary: %w", err)
	}
	defer rows.Close()

	out := make([]model.AuthorSummary, 0)
	for rows.Next() {
		var (
			s   model.AuthorSummary
			avg decimal.Decimal
		)
		if err := rows.Scan(&s.AuthorID, &s.Name, &s.PublishedBooks, &avg, &s.TotalSales); err != nil {
			return nil, fmt.Errorf("scan author summary: %w", err)
		}
		s.AverageScore = utils.DecimalToFloat(avg)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate authors summary: %w", err)
	}
	return out, nil
}

// =====================================================
// TOP RATED
// =====================================================

// Ties on score are broken by insertion order, then id.
const topRatedQuery = `
	WITH stats AS (
		SELECT book_id, AVG(score) AS average_score, COUNT(*) AS total_reviews
		FROM reviews
		GROUP BY book_id
		ORDER BY average_score DESC, total_reviews DESC, book_id
		LIMIT $1
	),
	highest AS (
		SELECT DISTINCT ON (r.book_id) r.book_id, r.id, r.text, r.score, r.up_votes
		FROM reviews r
		JOIN stats s ON s.book_id = r.book_id
		ORDER BY r.book_id, r.score DESC, r.created_at, r.id
	),
	lowest AS (
		SELECT DISTINCT ON (r.book_id) r.book_id, r.id, r.text, r.score, r.up_votes
		FROM reviews r
		JOIN stats s ON s.book_id = r.book_id
		ORDER BY r.book_id, r.score ASC, r.created_at, r.id
	)
	SELECT
		b.id, b.title, a.name, s.average_score, s.total_reviews,
		h.id, h.text, h.score, h.up_votes,
		l.id, l.text, l.score, l.up_votes
	FROM stats s
	JOIN books b ON b.id = s.book_id
	JOIN authors a ON a.id = b.author_id
	JOIN highest h ON h.book_id = s.book_id
	JOIN lowest l ON l.book_id = s.book_id
	ORDER BY s.average_score DESC, s.total_reviews DESC, b.id
`

func (r *postgresAggregator) GetTopRatedBooks(ctx context.Context) ([]model.TopRatedBook, error) {
	rows, err := r.pool.Query(ctx, topRatedQuery, model.TopRatedLimit)
	if err != nil {
		return nil, fmt.Errorf("query top rated books: %w", err)
	}
	defer rows.Close()

	out := make([]model.TopRatedBook, 0, model.TopRatedLimit)
	for rows.Next() {
		var (
			b   model.TopRatedBook
			avg decimal.Decimal
		)
		if err := rows.Scan(
			&b.BookID, &b.Title, &b.AuthorName, &avg, &b.TotalReviews,
			&b.HighestRatedReview.ID, &b.HighestRatedReview.Text, &b.HighestRatedReview.Score, &b.HighestRatedReview.UpVotes,
			&b.LowestRatedReview.ID, &b.LowestRatedReview.Text, &b.LowestRatedReview.Score, &b.LowestRatedReview.UpVotes,
		); err != nil {
			return nil, fmt.Errorf("scan top rated book: %w", err)
		}
		b.AverageScore = utils.DecimalToFloat(avg)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top rated books: %w", err)
	}
	return out, nil
}

// =====================================================
// TOP SELLING
// =====================================================

// year_rank is computed over every book with a publication year, before the
// zero-sales filter and the limit.
const topSellingQuery = `
	WITH book_totals AS (
		SELECT
			b.id,
			b.author_id,
			b.title,
			b.publication_date,
			EXTRACT(YEAR FROM b.publication_date)::int AS publication_year,
			COALESCE(SUM(s.units), 0)::bigint AS total
		FROM books b
		LEFT JOIN sales s ON s.book_id = b.id
		GROUP BY b.id
	),
	year_ranks AS (
		SELECT id, ROW_NUMBER() OVER (PARTITION BY publication_year ORDER BY total DESC, id) AS year_rank
		FROM book_totals
		WHERE publication_year IS NOT NULL
	),
	author_totals AS (
		SELECT author_id, SUM(total)::bigint AS total
		FROM book_totals
		GROUP BY author_id
	)
	SELECT
		bt.id, bt.title, a.name, bt.publication_date, bt.publication_year,
		bt.total, aut.total,
		COALESCE(yr.year_rank <= $2, false)
	FROM book_totals bt
	JOIN authors a ON a.id = bt.author_id
	JOIN author_totals aut ON aut.author_id = bt.author_id
	LEFT JOIN year_ranks yr ON yr.id = bt.id
	WHERE bt.total > 0
	ORDER BY bt.total DESC, bt.id
	LIMIT $1
`

func (r *postgresAggregator) GetTopSellingBooks(ctx context.Context) ([]model.TopSellingBook, error) {
	rows, err := r.pool.Query(ctx, topSellingQuery, model.TopSellingLimit, model.TopPerYear)
	if err != nil {
		return nil, fmt.Errorf("query top selling books: %w", err)
	}
	defer rows.Close()

	out := make([]model.TopSellingBook, 0, model.TopSellingLimit)
	for rows.Next() {
		var (
			b       model.TopSellingBook
			pubDate *time.Time
		)
		if err := rows.Scan(
			&b.BookID, &b.Title, &b.AuthorName, &pubDate, &b.PublicationYear,
			&b.BookTotalSales, &b.AuthorTotalSales, &b.WasTop5InPublicationYear,
		); err != nil {
			return nil, fmt.Errorf("scan top selling book: %w", err)
		}
		b.PublicationDate = utils.FormatDate(pubDate)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top selling books: %w", err)
	}
	return out, nil
}

// =====================================================
// SEARCH
// =====================================================

func (r *postgresAggregator) SearchBooks(ctx context.Context, query string, page, perPage int) (*model.PaginatedSearchResults, error) {
	if perPage < 1 {
		perPage = model.DefaultSearchPerPage
	}
	if page < 1 {
		page = 1
	}

	tokens := utils.SearchTokens(query)
	if len(tokens) == 0 {
		return model.EmptySearchResults(query, perPage), nil
	}

	// Step 1: One condition per token, fields ORed, tokens ANDed
	where, args := tokenFilter(tokens)

	// Step 2: Count
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM books b WHERE `+where, args...,
	).Scan(&total); err != nil {
		return nil, fmt.Errorf("count search results: %w", err)
	}

	if total == 0 {
		return model.NewSearchResults(query, page, perPage, 0, nil), nil
	}

	// Step 3: Page
	n := len(args)
	pageQuery := fmt.Sprintf(`
		SELECT b.id, b.title, a.name, b.summary, b.publication_date
		FROM books b
		JOIN authors a ON a.id = b.author_id
		WHERE %s
		ORDER BY b.title ASC, b.id ASC
		LIMIT $%d OFFSET $%d
	`, where, n+1, n+2)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.pool.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("query search page: %w", err)
	}
	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.SearchResult, error) {
		var (
			res     model.SearchResult
			pubDate *time.Time
		)
		err := row.Scan(&res.BookID, &res.Title, &res.AuthorName, &res.Summary, &pubDate)
		res.PublicationDate = utils.FormatDate(pubDate)
		return res, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan search page: %w", err)
	}

	return model.NewSearchResults(query, page, perPage, total, results), nil
}

func tokenFilter(tokens []string) (string, []interface{}) {
	conds := make([]string, 0, len(tokens))
	args := make([]interface{}, 0, len(tokens))
	for i, tok := range tokens {
		args = append(args, utils.ContainsPattern(tok))
		conds = append(conds, fmt.Sprintf("(b.title ILIKE $%d OR b.summary ILIKE $%d)", i+1, i+1))
	}
	return strings.Join(conds, " AND "), args
}

// =====================================================
// BOOK AVERAGE
// =====================================================

func (r *postgresAggregator) GetBookAverageScore(ctx context.Context, bookID uuid.UUID) (*model.BookScore, error) {
	query := `
		SELECT b.id, COALESCE(AVG(r.score), 0)::numeric, COUNT(r.id)
		FROM books b
		LEFT JOIN reviews r ON r.book_id = b.id
		WHERE b.id = $1
		GROUP BY b.id
	`

	var (
		score model.BookScore
		avg   decimal.Decimal
	)
	err := r.pool.QueryRow(ctx, query, bookID).Scan(&score.BookID, &avg, &score.TotalReviews)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("query book average score: %w", err)
	}
	score.AverageScore = utils.DecimalToFloat(avg)
	return &score, nil
}
