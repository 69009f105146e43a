package memory

import (
	"context"
	"sort"
	"sync"

	"quorum/contexts/community/poll-relay/ports"
)

// Feed is a scripted update source. Updates are served in ascending id
// order, strictly after the requested offset.
type Feed struct {
	mu      sync.Mutex
	updates []ports.Update

	PollErr error
}

func NewFeed(updates ...ports.Update) *Feed {
	feed := &Feed{}
	feed.Append(updates...)
	return feed
}

func (f *Feed) Append(updates ...ports.Update) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, updates...)
	sort.Slice(f.updates, func(i, j int) bool {
		return f.updates[i].UpdateID < f.updates[j].UpdateID
	})
}

func (f *Feed) PollUpdates(_ context.Context, offset int64, limit int) ([]ports.Update, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PollErr != nil {
		return nil, f.PollErr
	}
	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.Update, 0, limit)
	for _, update := range f.updates {
		if update.UpdateID <= offset {
			continue
		}
		items = append(items, update)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

var _ ports.UpdateSource = (*Feed)(nil)
