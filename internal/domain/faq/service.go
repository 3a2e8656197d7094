package faq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/yanqian/faq-admin/pkg/errors"
)

const defaultTrendingLimit = 10

// Service exposes the FAQ admin use cases.
type Service interface {
	List(ctx context.Context, req ListRequest) ([]Record, error)
	Get(ctx context.Context, id string) (Record, error)
	Create(ctx context.Context, req CreateRequest) (Record, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Record, error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context, req ExportRequest) (ExportResult, error)
	Stats(ctx context.Context) (Stats, error)
	Trending(ctx context.Context) ([]TrendingQuery, error)
	Recategorize(ctx context.Context, req RecategorizeRequest) (BulkResult, error)
	AddTags(ctx context.Context, req TagsRequest) (BulkResult, error)
	RemoveTag(ctx context.Context, tag string) (BulkResult, error)
	Migrate(ctx context.Context, items []LegacyRecord) (MigrationReport, error)
	Reload(ctx context.Context) error
}

type service struct {
	cfg        Config
	repo       Repository
	searches   SearchLog
	structurer Structurer
	clock      Clock
	logger     *slog.Logger
}

// NewService wires up the FAQ domain. structurer may be nil.
func NewService(cfg Config, repo Repository, searches SearchLog, structurer Structurer, clock Clock, logger *slog.Logger) Service {
	if cfg.TrendingLimit <= 0 {
		cfg.TrendingLimit = defaultTrendingLimit
	}
	return &service{
		cfg:        cfg,
		repo:       repo,
		searches:   searches,
		structurer: structurer,
		clock:      clock,
		logger:     logger.With("component", "faq.service"),
	}
}

func (s *service) List(ctx context.Context, req ListRequest) ([]Record, error) {
	records := s.repo.All(ctx)
	if category := strings.TrimSpace(req.Category); category != "" && !strings.EqualFold(category, "all") {
		records = ByCategory(records, ParseCategory(category))
	}
	if tag := strings.TrimSpace(req.Tag); tag != "" {
		records = ByAnyTag(records, []string{tag})
	}
	records = Filter(records, req.Query)

	if query := strings.TrimSpace(req.Query); query != "" && s.searches != nil {
		if canonical := normalizeQuestion(query); canonical != "" {
			if err := s.searches.IncrementQuery(ctx, canonical, query); err != nil {
				s.logger.Warn("faq search log increment failed", "error", err)
			}
		}
	}
	return records, nil
}

func (s *service) Get(ctx context.Context, id string) (Record, error) {
	id = strings.TrimSpace(id)
	for _, r := range s.repo.All(ctx) {
		if r.ID == id {
			return r, nil
		}
	}
	return Record{}, apperrors.Wrap(CodeNotFound, fmt.Sprintf("faq %q not found", id), ErrNotFound)
}

func (s *service) Create(ctx context.Context, req CreateRequest) (Record, error) {
	in := RecordInput{
		Question:           req.Question,
		Answer:             req.Answer,
		Category:           req.Category,
		Tags:               req.Tags,
		AlternateQuestions: req.AlternateQuestions,
	}
	if err := ValidateInput(in); err != nil {
		return Record{}, err
	}
	record := NewRecord(in, s.clock)
	if err := s.repo.Add(ctx, record); err != nil {
		return Record{}, err
	}
	s.logger.Info("faq created", "id", record.ID, "category", record.Category)
	return record, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (Record, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	in := RecordInput{
		ID:                 current.ID,
		Question:           req.Question,
		Answer:             req.Answer,
		Category:           req.Category,
		Tags:               req.Tags,
		AlternateQuestions: req.AlternateQuestions,
	}
	if err := ValidateInput(in); err != nil {
		return Record{}, err
	}
	replacement := NewRecord(in, s.clock)
	if err := s.repo.Replace(ctx, current.ID, replacement); err != nil {
		return Record{}, err
	}
	s.logger.Info("faq updated", "id", replacement.ID)
	return replacement, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.Wrap(CodeInvalidInput, "id cannot be empty", nil)
	}
	if err := s.repo.Remove(ctx, id); err != nil {
		return err
	}
	s.logger.Info("faq deleted", "id", id)
	return nil
}

func (s *service) Export(ctx context.Context, req ExportRequest) (ExportResult, error) {
	format, err := ParseExportFormat(req.Format)
	if err != nil {
		return ExportResult{}, err
	}
	category := strings.TrimSpace(req.Category)
	tags := splitTags(req.Tags)

	switch {
	case category != "" && !strings.EqualFold(category, "all"):
		parsed := ParseCategory(category)
		return encodeExport(format, fmt.Sprintf("hire_hub_%s_faqs", parsed), ByCategory(s.repo.All(ctx), parsed))
	case len(tags) > 0:
		return encodeExport(format, "hire_hub_tagged_faqs", ByAnyTag(s.repo.All(ctx), tags))
	case format == FormatCSV:
		return encodeExport(format, "hire_hub_enhanced_faqs", s.repo.All(ctx))
	default:
		data, err := s.repo.Export(ctx)
		if err != nil {
			return ExportResult{}, err
		}
		return ExportResult{
			FileName:    "hire_hub_enhanced_faqs.json",
			ContentType: contentTypeJSON,
			Data:        data,
			Count:       len(s.repo.All(ctx)),
		}, nil
	}
}

func (s *service) Stats(ctx context.Context) (Stats, error) {
	return ComputeStats(s.repo.All(ctx)), nil
}

func (s *service) Trending(ctx context.Context) ([]TrendingQuery, error) {
	if s.searches == nil {
		return []TrendingQuery{}, nil
	}
	recs, err := s.searches.TopQueries(ctx, s.cfg.TrendingLimit)
	if err != nil {
		return nil, apperrors.Wrap("faq_error", "failed to load trending searches", err)
	}
	return recs, nil
}

func (s *service) Recategorize(ctx context.Context, req RecategorizeRequest) (BulkResult, error) {
	if strings.TrimSpace(req.Target) == "" {
		return BulkResult{}, apperrors.Wrap(CodeInvalidInput, "target category is required", nil)
	}
	target := ParseCategory(req.Target)
	from := strings.TrimSpace(req.From)
	allRecords := from == "" || strings.EqualFold(from, "all")
	source := ParseCategory(from)

	updated, err := s.repo.Mutate(ctx, func(records []Record) ([]Record, int) {
		changed := 0
		for i := range records {
			if !allRecords && records[i].Category != source {
				continue
			}
			if records[i].Category == target {
				continue
			}
			records[i].Category = target
			changed++
		}
		return records, changed
	})
	if err != nil {
		return BulkResult{}, err
	}
	s.logger.Info("faq bulk recategorize", "target", target, "updated", updated)
	return BulkResult{Updated: updated}, nil
}

func (s *service) AddTags(ctx context.Context, req TagsRequest) (BulkResult, error) {
	tags := splitTags(req.Tags)
	if len(tags) == 0 {
		return BulkResult{}, apperrors.Wrap(CodeInvalidInput, "at least one tag is required", nil)
	}
	updated, err := s.repo.Mutate(ctx, func(records []Record) ([]Record, int) {
		changed := 0
		for i := range records {
			added := false
			for _, tag := range tags {
				if records[i].HasTag(tag) {
					continue
				}
				records[i].Tags = append(records[i].Tags, tag)
				added = true
			}
			if added {
				changed++
			}
		}
		return records, changed
	})
	if err != nil {
		return BulkResult{}, err
	}
	s.logger.Info("faq bulk add tags", "tags", tags, "updated", updated)
	return BulkResult{Updated: updated}, nil
}

func (s *service) RemoveTag(ctx context.Context, tag string) (BulkResult, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return BulkResult{}, apperrors.Wrap(CodeInvalidInput, "tag cannot be empty", nil)
	}
	updated, err := s.repo.Mutate(ctx, func(records []Record) ([]Record, int) {
		changed := 0
		for i := range records {
			kept := records[i].Tags[:0]
			for _, existing := range records[i].Tags {
				if !strings.EqualFold(existing, tag) {
					kept = append(kept, existing)
				}
			}
			if len(kept) != len(records[i].Tags) {
				changed++
			}
			records[i].Tags = kept
		}
		return records, changed
	})
	if err != nil {
		return BulkResult{}, err
	}
	s.logger.Info("faq bulk remove tag", "tag", tag, "updated", updated)
	return BulkResult{Updated: updated}, nil
}

// maxIDAttempts bounds how far Migrate advances the id timestamp when a
// distinct legacy question derives an id that is already taken.
const maxIDAttempts = 60

type migrationCandidate struct {
	in       RecordInput
	enhanced bool
}

// Migrate converts legacy items and persists the whole batch with a single
// save, so one backup holds the pre-migration file.
func (s *service) Migrate(ctx context.Context, items []LegacyRecord) (MigrationReport, error) {
	report := MigrationReport{Total: len(items), Duplicates: []string{}}
	candidates := make([]migrationCandidate, 0, len(items))
	for _, item := range items {
		var suggestion *Suggestion
		if s.cfg.EnhanceOnMigrate && s.structurer != nil {
			got, err := s.structurer.Structure(ctx, item.Question, item.Answer)
			if err != nil {
				s.logger.Warn("faq migrate structure failed", "error", err)
			} else {
				suggestion = &got
			}
		}
		in := MigrateLegacy(item, suggestion)
		if err := ValidateInput(in); err != nil {
			report.Skipped++
			continue
		}
		candidates = append(candidates, migrationCandidate{in: in, enhanced: suggestion != nil})
	}

	_, err := s.repo.Mutate(ctx, func(records []Record) ([]Record, int) {
		added := 0
		for _, c := range candidates {
			record, err := s.admit(records, c.in)
			if err != nil {
				report.Skipped++
				report.Duplicates = append(report.Duplicates, strings.TrimSpace(c.in.Question))
				continue
			}
			records = append(records, record)
			added++
			report.Imported++
			if c.enhanced {
				report.Enhanced++
			}
		}
		return records, added
	})
	if err != nil {
		return report, err
	}
	s.logger.Info("faq legacy migration finished", "total", report.Total, "imported", report.Imported, "skipped", report.Skipped)
	return report, nil
}

// admit builds a record that passes the guard against records. A question that
// is new but derives a taken id is retried with the id timestamp moved forward
// one second at a time.
func (s *service) admit(records []Record, in RecordInput) (Record, error) {
	base := s.now()
	var err error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		stamp := base.Add(time.Duration(attempt) * time.Second)
		record := NewRecord(in, func() time.Time { return stamp })
		err = CheckDuplicate(records, record)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, ErrDuplicateID) {
			return Record{}, err
		}
	}
	return Record{}, err
}

func (s *service) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock()
}

func (s *service) Reload(ctx context.Context) error {
	return s.repo.Load(ctx)
}

// splitTags accepts repeated values as well as comma separated lists.
func splitTags(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
