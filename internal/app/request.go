package service

import (
	"strings"

	"github.com/okian/talentradar/internal/adapters/mq/worker"
	"github.com/okian/talentradar/internal/domain/model"
)

// SourceConfig selects keywords and a result cap for one source.
type SourceConfig struct {
	Keywords   []string `json:"keywords"`
	MaxResults int      `json:"max_results,omitempty"`
}

// CollectRequest describes one collection run.
//
// Sources takes precedence. When it is empty the legacy form applies:
// Keywords and MaxResults for every source flagged in Enabled, or for every
// configured source when Enabled is empty too.
type CollectRequest struct {
	Sources map[model.Source]SourceConfig `json:"sources,omitempty"`

	Keywords   []string              `json:"keywords,omitempty"`
	Enabled    map[model.Source]bool `json:"enabled,omitempty"`
	MaxResults int                   `json:"max_results,omitempty"`
}

// tasks expands r into (source, keyword) tasks in source display order.
func (r *CollectRequest) tasks(configured func(model.Source) bool, defaultMax int) []worker.Task {
	cfgs := r.Sources
	if len(cfgs) == 0 {
		cfgs = make(map[model.Source]SourceConfig)
		for _, src := range model.Sources() {
			enabled := r.Enabled[src]
			if len(r.Enabled) == 0 {
				enabled = configured(src)
			}
			if enabled {
				cfgs[src] = SourceConfig{Keywords: r.Keywords, MaxResults: r.MaxResults}
			}
		}
	}

	var out []worker.Task
	for _, src := range model.Sources() {
		cfg, ok := cfgs[src]
		if !ok {
			continue
		}
		limit := cfg.MaxResults
		if limit <= 0 {
			limit = defaultMax
		}
		for _, kw := range cfg.Keywords {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			out = append(out, worker.Task{Source: src, Keyword: kw, Limit: limit})
		}
	}
	return out
}

// SearchFilter narrows keyword search by classification. Leaving both
// false keeps everyone.
type SearchFilter struct {
	Researchers bool
	Engineers   bool
}

func (f SearchFilter) keep(p *model.Person) bool {
	if !f.Researchers && !f.Engineers {
		return true
	}
	return (f.Researchers && p.IsResearcher) || (f.Engineers && p.IsEngineer)
}

// Ranked is one match result joined with its person.
type Ranked struct {
	Person model.Person `json:"person"`
	Score  float64      `json:"score"`
}

// MatchOutcome is the result of one match run.
type MatchOutcome struct {
	JobID   string   `json:"job_id"`
	Scored  int      `json:"scored"`
	Results []Ranked `json:"results"`
}

// Stats summarizes the service for monitoring.
type Stats struct {
	Started        bool     `json:"started"`
	Persons        int      `json:"persons"`
	Sources        []string `json:"sources"`
	CollectStatus  string   `json:"collect_status"`
	MatchStatus    string   `json:"match_status"`
	CollectWorkers int      `json:"collect_workers"`
	PersistWorkers int      `json:"persist_workers"`
}
