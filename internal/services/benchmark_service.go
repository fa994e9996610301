package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/catalogbench/backend/internal/metrics"
	"github.com/catalogbench/backend/internal/models"
	"gorm.io/gorm"
)

const (
	StrategyPlanner    = "planner"
	StrategyStructural = "structural"

	FieldKeyword = "keyword"
	FieldTitle   = "title"

	FilterAll    = "all"
	FilterTitle  = "title"
	FilterArtist = "artist"
	FilterAlbum  = "album"

	DefaultSearchLimit = 20
	MaxSearchLimit     = 100

	// rows returned by each compared lookup
	compareRowLimit = 100
	// substituted for a zero fast timing in the ratio
	minFastMs = 0.001
)

var ErrEmptyKeyword = errors.New("keyword is required")

type Explanation struct {
	Fast string `json:"fast"`
	Slow string `json:"slow"`
}

type Plans struct {
	Fast []string `json:"fast"`
	Slow []string `json:"slow"`
}

// Comparison is the outcome of running one lookup through an indexed path
// and a path that cannot use the index.
type Comparison struct {
	Keyword     string         `json:"keyword"`
	Field       string         `json:"field"`
	Strategy    string         `json:"strategy"`
	Matches     int            `json:"matches"`
	FastTimeMs  float64        `json:"fastTimeMs"`
	SlowTimeMs  float64        `json:"slowTimeMs"`
	DiffFactor  float64        `json:"diffFactor"`
	TestIDUsed  *int64         `json:"testIdUsed,omitempty"`
	Explanation Explanation    `json:"explanation"`
	Plans       *Plans         `json:"plans,omitempty"`
	RanAt       time.Time      `json:"ranAt"`
	Results     []models.Track `json:"-"`
}

type SearchParams struct {
	Query     string
	Filter    string
	Page      int
	Limit     int
	Benchmark bool
	Strategy  string
}

type SearchMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	LastPage int   `json:"lastPage"`
	Limit    int   `json:"limit"`
}

type SearchResult struct {
	Data      []models.Track `json:"data"`
	Meta      SearchMeta     `json:"meta"`
	Benchmark *Comparison    `json:"benchmark,omitempty"`
}

type accessPath struct {
	where string
	arg   any
}

type BenchmarkService struct {
	db       *gorm.DB
	dialect  string
	strategy string
	explain  bool
	log      *slog.Logger
}

func NewBenchmarkService(db *gorm.DB, strategy string, explain bool, log *slog.Logger) *BenchmarkService {
	return &BenchmarkService{
		db:       db,
		dialect:  models.Dialect(db),
		strategy: NormalizeStrategy(strategy, StrategyPlanner),
		explain:  explain,
		log:      log,
	}
}

func NormalizeStrategy(strategy, fallback string) string {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case StrategyPlanner:
		return StrategyPlanner
	case StrategyStructural:
		return StrategyStructural
	}
	return fallback
}

func NormalizeFilter(filter string) string {
	switch strings.ToLower(strings.TrimSpace(filter)) {
	case FilterTitle:
		return FilterTitle
	case FilterArtist:
		return FilterArtist
	case FilterAlbum:
		return FilterAlbum
	}
	return FilterAll
}

// Search pages through tracks matching a case-insensitive prefix on the
// filtered columns. With Benchmark set, the term is also timed through both
// access paths; a failed comparison is logged and left out.
func (s *BenchmarkService) Search(ctx context.Context, p SearchParams) (*SearchResult, error) {
	term := strings.TrimSpace(p.Query)
	filter := NormalizeFilter(p.Filter)
	page := p.Page
	if page < 1 {
		page = 1
	}
	limit := p.Limit
	if limit < 1 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	scoped := func() *gorm.DB {
		return applySearchFilter(s.db.WithContext(ctx).Model(&models.Track{}), filter, term)
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count tracks: %w", err)
	}

	tracks := make([]models.Track, 0, limit)
	if err := scoped().
		Order("benchmark_order ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&tracks).Error; err != nil {
		return nil, fmt.Errorf("failed to search tracks: %w", err)
	}

	result := &SearchResult{
		Data: tracks,
		Meta: SearchMeta{
			Total:    total,
			Page:     page,
			LastPage: lastPage(total, limit),
			Limit:    limit,
		},
	}

	if p.Benchmark && term != "" {
		field := FieldKeyword
		if filter == FilterTitle {
			field = FieldTitle
		}
		cmp, err := s.Compare(ctx, term, field, p.Strategy)
		if err != nil {
			s.log.Warn("Benchmark comparison failed", "keyword", term, "error", err)
		} else {
			result.Benchmark = cmp
		}
	}

	return result, nil
}

func applySearchFilter(q *gorm.DB, filter, term string) *gorm.DB {
	if term == "" {
		return q
	}
	pattern := EscapeLike(strings.ToLower(term)) + "%"
	switch filter {
	case FilterTitle:
		return q.Where(`LOWER(title) LIKE ? ESCAPE '\'`, pattern)
	case FilterArtist:
		return q.Where(`LOWER(artist_name) LIKE ? ESCAPE '\'`, pattern)
	case FilterAlbum:
		return q.Where(`LOWER(album_title) LIKE ? ESCAPE '\'`, pattern)
	default:
		return q.Where(
			`keyword = ? OR LOWER(title) LIKE ? ESCAPE '\' OR LOWER(artist_name) LIKE ? ESCAPE '\' OR LOWER(album_title) LIKE ? ESCAPE '\'`,
			term, pattern, pattern, pattern)
	}
}

// EscapeLike escapes LIKE wildcards so s matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Compare runs the same logical lookup twice and reports both timings. Only
// the query itself is timed.
func (s *BenchmarkService) Compare(ctx context.Context, keyword, field, strategy string) (*Comparison, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}
	if field != FieldTitle {
		field = FieldKeyword
	}
	strategy = NormalizeStrategy(strategy, s.strategy)

	cmp := &Comparison{
		Keyword:  keyword,
		Field:    field,
		Strategy: strategy,
		RanAt:    time.Now().UTC(),
	}

	fast := accessPath{where: field + " = ?", arg: keyword}
	slow := fast
	slowUsesIndex := true

	switch strategy {
	case StrategyStructural:
		if order, ok := ParseBenchmarkKeyword(keyword); ok && field == FieldKeyword {
			slow = accessPath{where: "benchmark_order = ?", arg: order}
			cmp.TestIDUsed = &order
			cmp.Explanation = Explanation{
				Fast: "equality on the indexed keyword column",
				Slow: "equality on the unindexed benchmark_order column",
			}
		} else {
			slow = accessPath{where: "LOWER(" + field + `) LIKE ? ESCAPE '\'`, arg: EscapeLike(strings.ToLower(keyword))}
			cmp.Explanation = Explanation{
				Fast: "equality on the indexed " + field + " column",
				Slow: "LIKE on LOWER(" + field + "), which no index covers",
			}
		}
	default:
		slowUsesIndex = false
		cmp.Explanation = Explanation{
			Fast: "equality on " + field + " with the planner free to use its index",
			Slow: "the same query with index access disabled",
		}
	}

	fastRows, fastTook, fastPlan, err := s.timedLookup(ctx, fast, true)
	if err != nil {
		return nil, fmt.Errorf("fast path: %w", err)
	}
	_, slowTook, slowPlan, err := s.timedLookup(ctx, slow, slowUsesIndex)
	if err != nil {
		return nil, fmt.Errorf("slow path: %w", err)
	}

	metrics.BenchmarkQuery.WithLabelValues("fast", strategy).Observe(fastTook.Seconds())
	metrics.BenchmarkQuery.WithLabelValues("slow", strategy).Observe(slowTook.Seconds())

	cmp.Results = fastRows
	cmp.Matches = len(fastRows)
	cmp.FastTimeMs = toMillis(fastTook)
	cmp.SlowTimeMs = toMillis(slowTook)
	cmp.DiffFactor = diffFactor(cmp.FastTimeMs, cmp.SlowTimeMs)
	if s.explain {
		cmp.Plans = &Plans{Fast: fastPlan, Slow: slowPlan}
	}

	s.log.Debug("Benchmark compared",
		"keyword", keyword,
		"strategy", strategy,
		"fast_ms", cmp.FastTimeMs,
		"slow_ms", cmp.SlowTimeMs,
		"diff", cmp.DiffFactor)
	return cmp, nil
}

// timedLookup runs q in its own transaction so planner settings never leak
// into other queries.
func (s *BenchmarkService) timedLookup(ctx context.Context, q accessPath, useIndex bool) ([]models.Track, time.Duration, []string, error) {
	var (
		rows    []models.Track
		elapsed time.Duration
		plan    []string
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		from := "tracks"
		if !useIndex {
			var err error
			if from, err = s.disableIndexes(tx); err != nil {
				return err
			}
		}

		query := "SELECT * FROM " + from + " WHERE " + q.where + " ORDER BY benchmark_order LIMIT ?"
		args := []any{q.arg, compareRowLimit}

		if s.explain {
			plan = s.queryPlan(tx, query, args)
		}

		start := time.Now()
		err := tx.Raw(query, args...).Scan(&rows).Error
		elapsed = time.Since(start)
		return err
	})
	if err != nil {
		return nil, 0, nil, err
	}
	return rows, elapsed, plan, nil
}

// disableIndexes makes the next lookup in tx ignore indexes and returns the
// FROM target to use.
func (s *BenchmarkService) disableIndexes(tx *gorm.DB) (string, error) {
	if s.dialect == models.DriverSQLite {
		return "tracks NOT INDEXED", nil
	}
	for _, stmt := range []string{
		"SET LOCAL enable_indexscan = off",
		"SET LOCAL enable_bitmapscan = off",
		"SET LOCAL enable_indexonlyscan = off",
	} {
		if err := tx.Exec(stmt).Error; err != nil {
			return "", fmt.Errorf("failed to disable index scans: %w", err)
		}
	}
	return "tracks", nil
}

func (s *BenchmarkService) queryPlan(tx *gorm.DB, query string, args []any) []string {
	prefix := "EXPLAIN "
	if s.dialect == models.DriverSQLite {
		prefix = "EXPLAIN QUERY PLAN "
	}

	rows, err := tx.Raw(prefix+query, args...).Rows()
	if err != nil {
		s.log.Debug("Explain failed", "error", err)
		return nil
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil || len(cols) == 0 {
		return nil
	}

	var plan []string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			s.log.Debug("Explain scan failed", "error", err)
			return plan
		}
		// the human readable detail is the last column in both dialects
		switch v := vals[len(vals)-1].(type) {
		case []byte:
			plan = append(plan, string(v))
		default:
			plan = append(plan, fmt.Sprint(v))
		}
	}
	return plan
}

func toMillis(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e3) / 1e3
}

func diffFactor(fastMs, slowMs float64) float64 {
	if fastMs < minFastMs {
		fastMs = minFastMs
	}
	return math.Round(slowMs/fastMs*100) / 100
}

func lastPage(total int64, limit int) int {
	if total == 0 || limit <= 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
