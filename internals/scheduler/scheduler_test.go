package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"kantorku_backend/internals/helpers/timezone"
	"kantorku_backend/internals/scheduler/model"
	"kantorku_backend/internals/testutil"
)

func newRunner(t *testing.T, clk *testutil.Clock) *Runner {
	t.Helper()
	r := NewRunner(testutil.OpenTestDB(t))
	r.Now = clk.NowFunc()
	return r
}

// countingJob mendaftarkan job yang hanya menghitung invokasi.
func countingJob(r *Runner, name string, b Boundary, every, grace time.Duration) *atomic.Int32 {
	var calls atomic.Int32
	r.Register(Job{
		Name:     name,
		Boundary: b,
		Every:    every,
		Grace:    grace,
		Run: func(ctx context.Context) (Stats, error) {
			calls.Add(1)
			return Stats{"runs": int(calls.Load())}, nil
		},
	})
	return &calls
}

func TestDailyJobCoalescesAfterOutage(t *testing.T) {
	ctx := context.Background()

	base := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	dayStart, _ := timezone.DayWindow(timezone.Today(base))
	clk := testutil.NewClock(dayStart.Add(10 * time.Minute))
	r := newRunner(t, clk)
	calls := countingJob(r, "rollover", BoundaryDaily, 0, 5*time.Minute)

	ran, err := r.TickJob(ctx, "rollover")
	if err != nil {
		t.Fatal(err)
	}
	if !ran || calls.Load() != 1 {
		t.Fatalf("ran=%v calls=%d, run pertama harus jalan", ran, calls.Load())
	}

	// Tick kedua di hari yang sama: watermark menahan.
	if ran, _ := r.TickJob(ctx, "rollover"); ran {
		t.Fatal("hari yang sama tidak boleh jalan dua kali")
	}

	// Proses mati tiga hari. Setelah nyala lagi, yang terlewat digabung
	// jadi SATU run, bukan tiga.
	clk.Advance(72 * time.Hour)
	if ran, _ := r.TickJob(ctx, "rollover"); !ran {
		t.Fatal("catch-up setelah outage harus jalan")
	}
	if ran, _ := r.TickJob(ctx, "rollover"); ran {
		t.Fatal("catch-up hanya satu run")
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, mau 2", calls.Load())
	}
}

func TestDailyJobWaitsForGrace(t *testing.T) {
	ctx := context.Background()

	base := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	dayStart, _ := timezone.DayWindow(timezone.Today(base))
	clk := testutil.NewClock(dayStart.Add(2 * time.Minute))
	r := newRunner(t, clk)
	calls := countingJob(r, "rollover", BoundaryDaily, 0, 5*time.Minute)

	if ran, _ := r.TickJob(ctx, "rollover"); ran {
		t.Fatal("sebelum grace lewat, job harus menunggu")
	}
	clk.Advance(4 * time.Minute)
	if ran, _ := r.TickJob(ctx, "rollover"); !ran {
		t.Fatal("setelah grace lewat, job jalan")
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, mau 1", calls.Load())
	}
}

func TestIntervalJobHonorsEvery(t *testing.T) {
	ctx := context.Background()
	clk := testutil.NewClock(time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC))
	r := newRunner(t, clk)
	calls := countingJob(r, "sweep", BoundaryNone, 5*time.Minute, 0)

	if ran, _ := r.TickJob(ctx, "sweep"); !ran {
		t.Fatal("run perdana langsung jalan")
	}
	clk.Advance(2 * time.Minute)
	if ran, _ := r.TickJob(ctx, "sweep"); ran {
		t.Fatal("belum 5 menit, tahan dulu")
	}
	clk.Advance(3 * time.Minute)
	if ran, _ := r.TickJob(ctx, "sweep"); !ran {
		t.Fatal("interval penuh, jalan lagi")
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, mau 2", calls.Load())
	}
}

func TestMonthlyJobRunsOncePerMonth(t *testing.T) {
	ctx := context.Background()
	aprMid := time.Date(2026, 4, 15, 9, 0, 0, 0, time.UTC)
	clk := testutil.NewClock(aprMid)
	r := newRunner(t, clk)
	calls := countingJob(r, "coins", BoundaryMonthly, 0, 0)

	if ran, _ := r.TickJob(ctx, "coins"); !ran {
		t.Fatal("run perdana jalan di tengah bulan")
	}
	clk.Advance(24 * time.Hour)
	if ran, _ := r.TickJob(ctx, "coins"); ran {
		t.Fatal("bulan yang sama tidak jalan lagi")
	}

	clk.Set(timezone.NextMonthStart(aprMid).Add(25 * time.Minute))
	if ran, _ := r.TickJob(ctx, "coins"); !ran {
		t.Fatal("bulan baru, jalan lagi")
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, mau 2", calls.Load())
	}
}

func TestTickSkipsJobStillRunning(t *testing.T) {
	ctx := context.Background()
	clk := testutil.NewClock(time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC))
	r := newRunner(t, clk)

	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	r.Register(Job{
		Name:     "slow",
		Boundary: BoundaryNone,
		Every:    time.Minute,
		Run: func(ctx context.Context) (Stats, error) {
			calls.Add(1)
			close(started)
			<-release
			return nil, nil
		},
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.RunNow(ctx, "slow")
	}()
	<-started

	// Job pertama masih menggantung; tick berikutnya harus mundur teratur.
	if ran, err := r.TickJob(ctx, "slow"); err != nil || ran {
		t.Fatalf("ran=%v err=%v, mau skip tanpa error", ran, err)
	}
	if err := r.RunNow(ctx, "slow"); err == nil {
		t.Fatal("RunNow saat job jalan harus ditolak")
	}

	close(release)
	<-done
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, mau 1", calls.Load())
	}
}

func TestWatermarkSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	clk := testutil.NewClock(time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC))

	db := testutil.OpenTestDB(t)
	first := NewRunner(db)
	first.Now = clk.NowFunc()
	countingJob(first, "archival", BoundaryDaily, 0, 0)
	if ran, _ := first.TickJob(ctx, "archival"); !ran {
		t.Fatal("run perdana jalan")
	}

	// Runner baru di DB yang sama (proses restart): watermark dari DB
	// menahan run kedua di hari yang sama.
	second := NewRunner(db)
	second.Now = clk.NowFunc()
	calls := countingJob(second, "archival", BoundaryDaily, 0, 0)
	clk.Advance(time.Hour)
	if ran, _ := second.TickJob(ctx, "archival"); ran {
		t.Fatal("watermark persisted harus menahan run kedua")
	}
	if calls.Load() != 0 {
		t.Fatalf("calls = %d, mau 0", calls.Load())
	}
}

func TestFailedRunKeepsWatermarkAndRecordsError(t *testing.T) {
	ctx := context.Background()
	clk := testutil.NewClock(time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC))
	r := newRunner(t, clk)

	fail := true
	var calls atomic.Int32
	r.Register(Job{
		Name:     "flaky",
		Boundary: BoundaryNone,
		Every:    time.Hour,
		Run: func(ctx context.Context) (Stats, error) {
			calls.Add(1)
			if fail {
				return nil, context.DeadlineExceeded
			}
			return Stats{"ok": true}, nil
		},
	})

	if ran, _ := r.TickJob(ctx, "flaky"); !ran {
		t.Fatal("percobaan pertama jalan")
	}

	var state model.JobStateModel
	if err := r.DB.First(&state, "job_state_name = ?", "flaky").Error; err != nil {
		t.Fatal(err)
	}
	if state.JobStateLastError == "" {
		t.Error("error run harus terekam")
	}
	if state.JobStateLastSuccessAt != nil {
		t.Error("run gagal tidak boleh memajukan watermark")
	}

	// Watermark tidak maju, jadi tick berikutnya langsung retry.
	fail = false
	if ran, _ := r.TickJob(ctx, "flaky"); !ran {
		t.Fatal("retry setelah gagal harus jalan")
	}
	if err := r.DB.First(&state, "job_state_name = ?", "flaky").Error; err != nil {
		t.Fatal(err)
	}
	if state.JobStateLastSuccessAt == nil {
		t.Error("run sukses memajukan watermark")
	}
	if state.JobStateLastError != "" {
		t.Errorf("last_error = %q, mau kosong setelah sukses", state.JobStateLastError)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, mau 2", calls.Load())
	}
}
