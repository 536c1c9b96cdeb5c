// internal/workers/cleanup_worker.go
package workers

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// CleanupTask периодическая уборка; Run возвращает число удаленных записей
type CleanupTask struct {
	Name string
	Run  func() int
}

// CleanupWorker по таймеру чистит отозванные токены и простаивающие лимитеры
type CleanupWorker struct {
	tasks    []CleanupTask
	interval time.Duration
	stopChan chan struct{}
	done     chan struct{}
	running  bool
	mu       sync.Mutex
}

func NewCleanupWorker(interval time.Duration, tasks ...CleanupTask) *CleanupWorker {
	return &CleanupWorker{
		tasks:    tasks,
		interval: interval,
	}
}

// Start запускает цикл в отдельной горутине и сразу возвращается.
// После возврата без ошибки Stop всегда дожидается завершения цикла.
func (w *CleanupWorker) Start() error {
	if w.interval <= 0 {
		return fmt.Errorf("cleanup interval must be positive, got %s", w.interval)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		slog.Warn("cleanup worker is already running")
		return nil
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.done = make(chan struct{})

	go w.loop(w.stopChan, w.done)
	return nil
}

func (w *CleanupWorker) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	slog.Info("cleanup worker started", "interval", w.interval, "tasks", len(w.tasks))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.RunOnce()
		case <-stop:
			slog.Info("cleanup worker stopped")
			return
		}
	}
}

// Stop останавливает цикл и ждет его завершения
func (w *CleanupWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopChan)
	done := w.done
	w.mu.Unlock()

	<-done
}

func (w *CleanupWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// RunOnce выполняет все задачи один раз
func (w *CleanupWorker) RunOnce() {
	for _, t := range w.tasks {
		if n := t.Run(); n > 0 {
			slog.Debug("cleanup", "task", t.Name, "removed", n)
		}
	}
}
