// file: internals/scheduler/scheduler.go
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"kantorku_backend/internals/helpers/timezone"
	"kantorku_backend/internals/scheduler/model"
)

// Stats adalah ringkasan kecil hasil satu run, disimpan ke job_states
// sebagai jsonb supaya kelihatan dari DB tanpa perlu grep log.
type Stats map[string]any

// ErrJobBusy dikembalikan RunNow kalau job yang diminta sedang jalan.
var ErrJobBusy = errors.New("job masih jalan")

type Boundary int

const (
	// BoundaryNone: job interval murni, due tiap Every sejak sukses terakhir.
	BoundaryNone Boundary = iota
	// BoundaryDaily: due sekali per hari kalender lokal, setelah Grace
	// lewat dari midnight.
	BoundaryDaily
	// BoundaryMonthly: due sekali per bulan kalender lokal.
	BoundaryMonthly
)

type Job struct {
	Name     string
	Boundary Boundary
	Every    time.Duration // dipakai BoundaryNone
	Grace    time.Duration // jeda setelah boundary sebelum job boleh jalan
	Run      func(ctx context.Context) (Stats, error)
}

type managedJob struct {
	Job
	running atomic.Bool
}

// Runner menjalankan job background dengan watermark persisted di
// job_states. Setelah restart, job yang ketinggalan jatah (mati berhari-hari)
// jalan SEKALI, bukan sekali per periode yang terlewat; watermark maju ke
// sekarang dan ritme normal lanjut dari situ.
//
// Semua job wajib idempotent. Watermark cuma meredam run ganda antar
// instance, tidak menguncinya.
type Runner struct {
	DB        *gorm.DB
	Now       func() time.Time
	PollEvery time.Duration

	jobs []*managedJob
	stop chan struct{}
	wg   sync.WaitGroup
}

func NewRunner(db *gorm.DB) *Runner {
	return &Runner{
		DB:        db,
		Now:       time.Now,
		PollEvery: 30 * time.Second,
		stop:      make(chan struct{}),
	}
}

func (r *Runner) Register(j Job) {
	r.jobs = append(r.jobs, &managedJob{Job: j})
}

// Start menyalakan satu goroutine per job. Cek pertama jalan segera supaya
// catch-up setelah restart tidak menunggu tick pertama.
func (r *Runner) Start() {
	log.Printf("[SCHEDULER] runner mulai, %d job terdaftar", len(r.jobs))
	for _, j := range r.jobs {
		r.wg.Add(1)
		go r.loop(j)
	}
}

// Stop menghentikan semua loop dan menunggu job yang sedang jalan selesai.
func (r *Runner) Stop() {
	close(r.stop)
	r.wg.Wait()
	log.Println("[SCHEDULER] runner berhenti")
}

func (r *Runner) loop(j *managedJob) {
	defer r.wg.Done()
	for {
		if _, err := r.TickJob(context.Background(), j.Name); err != nil {
			log.Printf("[SCHEDULER] %s: %v", j.Name, err)
		}
		select {
		case <-r.stop:
			return
		case <-time.After(r.PollEvery):
		}
	}
}

// TickJob menjalankan job kalau due. ran=false kalau belum due atau job
// masih jalan dari tick sebelumnya.
func (r *Runner) TickJob(ctx context.Context, name string) (ran bool, err error) {
	j := r.find(name)
	if j == nil {
		return false, fmt.Errorf("job %q tidak terdaftar", name)
	}
	if !j.running.CompareAndSwap(false, true) {
		log.Printf("[SCHEDULER] %s masih jalan, giliran ini dilewati", j.Name)
		return false, nil
	}
	defer j.running.Store(false)

	now := r.Now().UTC()
	state, err := r.loadState(ctx, j.Name)
	if err != nil {
		return false, err
	}
	if !due(&j.Job, state.JobStateLastSuccessAt, now) {
		return false, nil
	}
	r.execute(ctx, j, now)
	return true, nil
}

// RunNow memaksa job jalan sekarang tanpa cek due, dipakai endpoint admin.
// Tetap menolak kalau job sedang jalan.
func (r *Runner) RunNow(ctx context.Context, name string) error {
	j := r.find(name)
	if j == nil {
		return fmt.Errorf("job %q tidak terdaftar", name)
	}
	if !j.running.CompareAndSwap(false, true) {
		return ErrJobBusy
	}
	defer j.running.Store(false)
	r.execute(ctx, j, r.Now().UTC())
	return nil
}

func (r *Runner) find(name string) *managedJob {
	for _, j := range r.jobs {
		if j.Name == name {
			return j
		}
	}
	return nil
}

func due(j *Job, last *time.Time, now time.Time) bool {
	switch j.Boundary {
	case BoundaryDaily:
		dayStart, _ := timezone.DayWindow(timezone.Today(now))
		if now.Before(dayStart.Add(j.Grace)) {
			return false
		}
		return last == nil || last.Before(dayStart)
	case BoundaryMonthly:
		monthStart := timezone.MonthStart(now)
		if now.Before(monthStart.Add(j.Grace)) {
			return false
		}
		return last == nil || last.Before(monthStart)
	default:
		return last == nil || now.Sub(*last) >= j.Every
	}
}

func (r *Runner) loadState(ctx context.Context, name string) (*model.JobStateModel, error) {
	state := model.JobStateModel{JobStateName: name}
	if err := r.DB.WithContext(ctx).
		Where("job_state_name = ?", name).
		FirstOrCreate(&state).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

// execute menjalankan job dan mencatat hasilnya. startedAt yang jadi
// watermark, bukan waktu selesai, supaya due-math tidak tergeser durasi job.
func (r *Runner) execute(ctx context.Context, j *managedJob, startedAt time.Time) {
	log.Printf("[SCHEDULER] %s jalan", j.Name)
	stats, runErr := j.Run(ctx)

	updates := map[string]any{
		"job_state_last_run_at": startedAt,
	}
	if runErr != nil {
		log.Printf("[SCHEDULER] %s gagal: %v", j.Name, runErr)
		updates["job_state_last_error"] = runErr.Error()
	} else {
		log.Printf("[SCHEDULER] %s selesai %v", j.Name, stats)
		updates["job_state_last_success_at"] = startedAt
		updates["job_state_last_error"] = ""
		if stats != nil {
			updates["job_state_last_stats"] = datatypes.JSONMap(stats)
		}
	}
	if err := r.DB.WithContext(ctx).Model(&model.JobStateModel{}).
		Where("job_state_name = ?", j.Name).
		Updates(updates).Error; err != nil {
		log.Printf("[SCHEDULER] gagal simpan state %s: %v", j.Name, err)
	}
}
