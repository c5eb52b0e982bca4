package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
)

type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

type TaskError struct {
	Task string
	Err  error
}

func (e TaskError) Error() string {
	return fmt.Sprintf("%s: %v", e.Task, e.Err)
}

func (e TaskError) Unwrap() error {
	return e.Err
}

// Run executes tasks on at most workers goroutines and returns the failures
// in task order. Tasks still queued when ctx is done fail with ctx.Err().
func Run(ctx context.Context, tasks []Task, workers int) []TaskError {
	if len(tasks) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}
	workers = min(workers, len(tasks))

	type failure struct {
		index int
		err   TaskError
	}

	jobs := make(chan int)
	errs := make(chan failure, len(tasks))
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				task := tasks[i]
				var err error
				if ctxErr := ctx.Err(); ctxErr != nil {
					err = ctxErr
				} else if task.Run != nil {
					err = task.Run(ctx)
				}
				if err != nil {
					errs <- failure{index: i, err: TaskError{Task: task.Name, Err: err}}
				}
			}
		}()
	}

	for i := range tasks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(errs)

	collected := make([]failure, 0, len(errs))
	for f := range errs {
		collected = append(collected, f)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].index < collected[j].index })

	out := make([]TaskError, 0, len(collected))
	for _, f := range collected {
		out = append(out, f.err)
	}
	return out
}
