package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// VocabStats provides the collector access to the loaded vocabulary.
type VocabStats interface {
	Counts() (words, numbers, alphabet int)
}

// CacheStats provides the collector access to the spelling cache.
type CacheStats interface {
	CacheLen() int
}

// WatchStats provides the collector access to the vocabulary watcher.
type WatchStats interface {
	Changes() int64
}

// Collector implements prometheus.Collector to read live gauges at scrape time.
type Collector struct {
	vocab VocabStats
	cache CacheStats
	watch WatchStats

	// Descriptors for scrape-time gauges.
	vocabWords        *prometheus.Desc
	vocabNumbers      *prometheus.Desc
	vocabAlphabet     *prometheus.Desc
	spellCacheEntries *prometheus.Desc
	vocabFileChanges  *prometheus.Desc
}

// NewCollector creates a collector that reads live state at scrape time.
// Any argument may be nil; its metrics then report 0.
func NewCollector(vocab VocabStats, cache CacheStats, watch WatchStats) *Collector {
	return &Collector{
		vocab: vocab,
		cache: cache,
		watch: watch,
		vocabWords: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "vocabulary", "words"),
			"Word mapping entries loaded.",
			nil, nil,
		),
		vocabNumbers: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "vocabulary", "numbers"),
			"Number mapping entries loaded.",
			nil, nil,
		),
		vocabAlphabet: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "vocabulary", "alphabet"),
			"Alphabet mapping entries loaded.",
			nil, nil,
		),
		spellCacheEntries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "spell_cache_entries"),
			"Fingerspelling expansions currently cached.",
			nil, nil,
		),
		vocabFileChanges: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "vocabulary", "file_changes_total"),
			"Mapping file edits observed since start. Nonzero means a restart is pending.",
			nil, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.vocabWords
	ch <- c.vocabNumbers
	ch <- c.vocabAlphabet
	ch <- c.spellCacheEntries
	ch <- c.vocabFileChanges
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	var words, numbers, alphabet int
	if c.vocab != nil {
		words, numbers, alphabet = c.vocab.Counts()
	}
	ch <- prometheus.MustNewConstMetric(c.vocabWords, prometheus.GaugeValue, float64(words))
	ch <- prometheus.MustNewConstMetric(c.vocabNumbers, prometheus.GaugeValue, float64(numbers))
	ch <- prometheus.MustNewConstMetric(c.vocabAlphabet, prometheus.GaugeValue, float64(alphabet))

	var cached int
	if c.cache != nil {
		cached = c.cache.CacheLen()
	}
	ch <- prometheus.MustNewConstMetric(c.spellCacheEntries, prometheus.GaugeValue, float64(cached))

	var changes int64
	if c.watch != nil {
		changes = c.watch.Changes()
	}
	ch <- prometheus.MustNewConstMetric(c.vocabFileChanges, prometheus.CounterValue, float64(changes))
}
