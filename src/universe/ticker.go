package universe

import (
	"context"
	"time"
)

//ticker is a cancellable repeating task running fn on its own goroutine every interval
//the task ends when it is cancelled or when fn returns false
type ticker struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func startTicker(interval time.Duration, fn func(ctx context.Context) bool) *ticker {
	ctx, cancel := context.WithCancel(context.Background())
	t := &ticker{ctx: ctx, cancel: cancel, done: make(chan struct{})}
	go t.loop(interval, fn)
	return t
}

func (t *ticker) loop(interval time.Duration, fn func(ctx context.Context) bool) {
	defer close(t.done)
	tk := time.NewTicker(interval)
	defer tk.Stop()
	for {
		select {
		case <-t.ctx.Done():
			return
		case <-tk.C:
			//both cases may be ready, cancellation wins
			if t.ctx.Err() != nil {
				return
			}
			if !fn(t.ctx) {
				return
			}
		}
	}
}

//Cancel stops the task and waits for its goroutine to exit
//fn is never started after Cancel returns; a call already running completes first
//must not be called from inside fn
func (t *ticker) Cancel() {
	t.cancel()
	<-t.done
}

//Done is closed once the task goroutine has exited
func (t *ticker) Done() <-chan struct{} {
	return t.done
}
