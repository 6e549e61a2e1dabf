package logger

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Publisher ships a batch of aggregated entries to a log sink.
type Publisher interface {
	PublishMessage(ctx context.Context, topic string, payload interface{}) error
}

// CollectionConfig tunes the aggregation window.
type CollectionConfig struct {
	TimeInterval   time.Duration // flush interval
	CountThreshold int           // distinct entries that force an early flush
	Topic          string        // sink topic for the batches
	Publisher      Publisher
}

// AggregatedLogEntry is one deduplicated log line with its repeat count.
// Identical lines within a window collapse into a single entry.
type AggregatedLogEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
	Caller    string                 `json:"caller"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// LogCollector batches log lines and publishes them on a timer or when the
// distinct-entry threshold is hit. Publishing happens off the hot path so a
// slow sink never blocks logging.
type LogCollector struct {
	config  *CollectionConfig
	entries map[string]*AggregatedLogEntry
	mutex   sync.RWMutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewLogCollector(config *CollectionConfig) *LogCollector {
	ctx, cancel := context.WithCancel(context.Background())

	collector := &LogCollector{
		config:  config,
		entries: make(map[string]*AggregatedLogEntry),
		ctx:     ctx,
		cancel:  cancel,
	}

	collector.wg.Add(1)
	go collector.flushLoop()

	return collector
}

// AddLog records one log line, collapsing repeats of the same line.
func (d *LogCollector) AddLog(level, message string, fields map[string]interface{}, caller string) {
	now := time.Now()
	key := entryKey(level, message, fields, caller)

	d.mutex.Lock()
	if entry, exists := d.entries[key]; exists {
		entry.Count++
		entry.LastSeen = now
	} else {
		d.entries[key] = &AggregatedLogEntry{
			Level:     level,
			Message:   message,
			Fields:    fields,
			Caller:    caller,
			Count:     1,
			FirstSeen: now,
			LastSeen:  now,
		}
	}

	var batch []AggregatedLogEntry
	if len(d.entries) >= d.config.CountThreshold {
		batch = d.drain()
	}
	d.mutex.Unlock()

	d.publish(batch)
}

func entryKey(level, message string, fields map[string]interface{}, caller string) string {
	data := struct {
		Level   string                 `json:"level"`
		Message string                 `json:"message"`
		Fields  map[string]interface{} `json:"fields"`
		Caller  string                 `json:"caller"`
	}{level, message, fields, caller}

	jsonData, _ := json.Marshal(data)
	hash := sha256.Sum256(jsonData)
	return fmt.Sprintf("%x", hash)
}

func (d *LogCollector) flushLoop() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.TimeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.publish(d.snapshot())
		case <-d.ctx.Done():
			d.publish(d.snapshot())
			return
		}
	}
}

// snapshot swaps out the pending entries under lock.
func (d *LogCollector) snapshot() []AggregatedLogEntry {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.drain()
}

// drain empties the entry map. Caller holds d.mutex.
func (d *LogCollector) drain() []AggregatedLogEntry {
	if len(d.entries) == 0 {
		return nil
	}
	batch := make([]AggregatedLogEntry, 0, len(d.entries))
	for _, entry := range d.entries {
		batch = append(batch, *entry)
	}
	d.entries = make(map[string]*AggregatedLogEntry)
	return batch
}

func (d *LogCollector) publish(batch []AggregatedLogEntry) {
	if len(batch) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := d.config.Publisher.PublishMessage(ctx, d.config.Topic, batch); err != nil {
			fmt.Printf("log collector: publish failed: %v\n", err)
		}
	}()
}

// Close flushes pending entries and stops the loop.
func (d *LogCollector) Close() {
	d.cancel()
	d.wg.Wait()
}
