package service

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/rupert648/feed-the-moose/internal/model"
	"github.com/rupert648/feed-the-moose/pkg/push"
	"github.com/rupert648/feed-the-moose/pkg/storage"
)

// In-memory fakes standing in for the gorm repositories.

type fakeSchedule struct {
	windows []model.FeedingWindow
	err     error
}

func (f *fakeSchedule) GetAll() ([]model.FeedingWindow, error) {
	return f.windows, f.err
}

type fakeFeedings struct {
	mu      sync.Mutex
	records []model.Feeding
	entries map[string][]model.FeedingEntry // date -> entries
	fed     map[string]bool                 // "time|date" -> fed
	fedErr  map[string]error
	create  error
}

func newFakeFeedings() *fakeFeedings {
	return &fakeFeedings{
		entries: map[string][]model.FeedingEntry{},
		fed:     map[string]bool{},
		fedErr:  map[string]error{},
	}
}

func (f *fakeFeedings) Create(feeding *model.Feeding) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.create != nil {
		return f.create
	}
	f.records = append(f.records, *feeding)
	return nil
}

func (f *fakeFeedings) FindForDate(date string) ([]model.FeedingEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[date], nil
}

func (f *fakeFeedings) ExistsForWindowOnDate(windowTime, date string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fedErr[windowTime+"|"+date]; err != nil {
		return false, err
	}
	return f.fed[windowTime+"|"+date], nil
}

func (f *fakeFeedings) History(limit, offset int) ([]model.FeedingEntry, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []model.FeedingEntry
	for _, entries := range f.entries {
		all = append(all, entries...)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

type fakeLedger struct {
	mu      sync.Mutex
	sent    map[string]bool
	hasErr  error
	markErr error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{sent: map[string]bool{}}
}

func (f *fakeLedger) HasSent(windowTime, date string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hasErr != nil {
		return false, f.hasErr
	}
	return f.sent[windowTime+"|"+date], nil
}

func (f *fakeLedger) MarkSent(windowTime, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	f.sent[windowTime+"|"+date] = true
	return nil
}

type fakeDispatcher struct {
	mu       sync.Mutex
	payloads []push.Payload
	result   push.Result
	err      error
}

func (f *fakeDispatcher) SendToAll(_ context.Context, payload push.Payload) (push.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return push.Result{}, f.err
	}
	f.payloads = append(f.payloads, payload)
	return f.result, nil
}

func (f *fakeDispatcher) sent() []push.Payload {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]push.Payload, len(f.payloads))
	copy(out, f.payloads)
	return out
}

type fakePhotos struct {
	key     string
	err     error
	uploads int
}

func (f *fakePhotos) UploadPhoto(_ context.Context, _ io.Reader, _ int64, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads++
	return f.key, nil
}

func (f *fakePhotos) GetPhoto(context.Context, string) (io.ReadCloser, *storage.ObjectInfo, error) {
	return nil, nil, errors.New("not implemented")
}

func (f *fakePhotos) Delete(context.Context, string) error {
	return nil
}
