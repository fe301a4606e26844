package game

import (
	"context"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tamazightdev/tamazight-multi-lingual-word-game/domain"
	"github.com/tamazightdev/tamazight-multi-lingual-word-game/words"
)

// --- UniqueIdGenerator ---

type MockUniqueIdGenerator struct {
	mock.Mock
}

func (m *MockUniqueIdGenerator) Generate() string {
	args := m.Called()
	return args.String(0)
}

// --- PeriodicTickerChannelCreator ---

type MockPeriodicTickerChannelCreator struct {
	mock.Mock
}

func (m *MockPeriodicTickerChannelCreator) Create(d time.Duration) (<-chan time.Time, func()) {
	args := m.Called(d)
	return args.Get(0).(chan time.Time), func() {}
}

// --- ScoreRecorder ---

type MockScoreRecorder struct {
	mock.Mock
}

func (m *MockScoreRecorder) Record(ctx context.Context, s State) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// --- TokenManager ---

type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) Generate(id string, now time.Time) (string, error) {
	args := m.Called(id, now)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) Verify(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

// --- RoundsPreference ---

type MockRoundsPreference struct {
	mock.Mock
}

func (m *MockRoundsPreference) LoadRounds(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockRoundsPreference) SaveRounds(ctx context.Context, rounds int) error {
	args := m.Called(ctx, rounds)
	return args.Error(0)
}

// --- WebsocketConnection ---

type MockWebsocketConnection struct {
	mock.Mock
}

func (m *MockWebsocketConnection) Close(errCode string) {
	m.Called(errCode)
}

func (m *MockWebsocketConnection) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockWebsocketConnection) Read() ([]byte, error) {
	args := m.Called()
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockWebsocketConnection) Ping() error {
	args := m.Called()
	return args.Error(0)
}

// --- manual clock ---

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward and runs, in order, the timers that became due.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.fn()
	}
}

// --- fixtures ---

func testBank() []words.Word {
	return []words.Word{
		{Text: "ⴰⵎⴰⵏ", Translations: map[domain.Language]string{domain.English: "water", domain.German: "Wasser"}},
		{Text: "ⴰⵖⵔⵓⵎ", Translations: map[domain.Language]string{domain.English: "bread", domain.German: "Brot"}},
		{Text: "ⵜⴰⴷⴷⴰⵔⵜ", Translations: map[domain.Language]string{domain.English: "house", domain.German: "Haus"}},
		{Text: "ⵉⵟⵔⵉ", Translations: map[domain.Language]string{domain.English: "star", domain.German: "Stern"}},
	}
}

func newTestReducer() *Reducer {
	r := NewReducer(testBank(), words.NewGenerator(rand.New(rand.NewPCG(1, 2))), DefaultTurnSeconds)
	r.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	return r
}

func wrongOption(s State) string {
	for _, o := range s.Round.Options {
		if o != s.Round.CorrectAnswer {
			return o
		}
	}
	return ""
}
