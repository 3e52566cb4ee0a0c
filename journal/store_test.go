package journal

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/reelspin/game"
	"github.com/lixenwraith/reelspin/reel"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Migrate(); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return s
}

func testRound(number, win int, at time.Time) game.Round {
	r := game.Round{
		ID:            uuid.New(),
		Number:        number,
		Symbols:       []string{"SYM1", "SYM2", "SYM3"},
		Price:         1,
		Win:           win,
		BalanceBefore: 10,
		BalanceAfter:  10 - 1 + win,
		Stop:          reel.StopAuto,
		CompletedAt:   at,
	}
	if win > 0 {
		r.Symbols = []string{"SYM1", "SYM2", "SYM1"}
		r.Payout = game.Payout{Symbol: "SYM1", Multiplier: win, Positions: []int{0, 2}}
	}
	return r
}

func TestRecordAndGet(t *testing.T) {
	s := openTestStore(t)
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	want := testRound(1, 2, at)
	want.Stop = reel.StopQuick

	if err := s.Record(want); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err := s.Get(want.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Round changed in storage:\n got %+v\nwant %+v", got, want)
	}
}

func TestLosingRoundHasNoPositions(t *testing.T) {
	s := openTestStore(t)
	r := testRound(1, 0, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))

	if err := s.Record(r); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	got, err := s.Get(r.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Payout.Positions != nil || got.Payout.Won() {
		t.Errorf("Expected empty payout, got %+v", got.Payout)
	}
}

func TestGetUnknown(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRecentNewestFirst(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 1; i <= 5; i++ {
		if err := s.Record(testRound(i, 0, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("Record %d failed: %v", i, err)
		}
	}

	recent, err := s.Recent(3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Expected 3 rounds, got %d", len(recent))
	}
	for i, want := range []int{5, 4, 3} {
		if recent[i].Number != want {
			t.Errorf("Position %d: round %d, want %d", i, recent[i].Number, want)
		}
	}
}

func TestRecordBatchAndSummary(t *testing.T) {
	s := openTestStore(t)
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	batch := []game.Round{testRound(1, 0, at), testRound(2, 3, at), testRound(3, 2, at), testRound(4, 0, at)}
	if err := s.RecordBatch(batch); err != nil {
		t.Fatalf("RecordBatch failed: %v", err)
	}

	sum, err := s.Summary()
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if sum.Rounds != 4 || sum.Wins != 2 || sum.Wagered != 4 || sum.Paid != 5 || sum.BiggestWin != 3 {
		t.Errorf("Unexpected summary %+v", sum)
	}
	if sum.RTP().String() != "1.25" || sum.HitRate().String() != "0.5" {
		t.Errorf("Unexpected ratios rtp=%s hit=%s", sum.RTP(), sum.HitRate())
	}
}

func TestRecordBatchRollsBackOnDuplicate(t *testing.T) {
	s := openTestStore(t)
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	r := testRound(1, 0, at)

	if err := s.RecordBatch([]game.Round{r, testRound(2, 0, at), r}); err == nil {
		t.Fatal("Expected duplicate ID to fail the batch")
	}
	sum, _ := s.Summary()
	if sum.Rounds != 0 {
		t.Errorf("Failed batch left %d rounds behind", sum.Rounds)
	}
}

func TestEmptySummary(t *testing.T) {
	s := openTestStore(t)
	sum, err := s.Summary()
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if sum.Rounds != 0 || !sum.RTP().IsZero() || !sum.HitRate().IsZero() {
		t.Errorf("Unexpected empty summary %+v", sum)
	}
}

func TestFileJournalPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rounds.db")
	r := testRound(1, 2, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Migrate(); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if err := s.Record(r); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	s.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()
	if err := reopened.Migrate(); err != nil {
		t.Fatalf("Second migrate should be a no-op, got %v", err)
	}
	if reopened.Session() == s.Session() {
		t.Error("Each open should start a new session")
	}
	if _, err := reopened.Get(r.ID); err != nil {
		t.Errorf("Round lost across reopen: %v", err)
	}
}

func TestStoreIsRecorder(t *testing.T) {
	var _ game.Recorder = (*Store)(nil)
}
