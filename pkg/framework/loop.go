package framework

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/glog"
)

// DefaultInterval is the tick interval when none is set.
const DefaultInterval = 100 * time.Millisecond

// Loop runs stages at a fixed interval, phase by phase.
type Loop struct {
	Interval time.Duration
	Clock    clock.Clock

	phases  [Phases]stageList
	runners []Runnable

	tick     uint64
	stopCh   chan struct{}
	stopOnce sync.Once
	lock     sync.Mutex
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

type stageList struct {
	stages    []Stage
	postHooks []Stage
	lock      sync.Mutex
}

type tickContext struct {
	*Loop
	ctx   context.Context
	time  time.Time
	tick  uint64
	phase int
}

// NewLoop creates a Loop ticking every interval on the wall clock.
func NewLoop(interval time.Duration) *Loop {
	return &Loop{Interval: interval, Clock: clock.New()}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddStage registers stages at a phase. Stages also implementing Runnable
// are run in background while the loop runs.
func (l *Loop) AddStage(phase int, stages ...Stage) *Loop {
	lst := &l.phases[phase]
	lst.stages = append(lst.stages, stages...)
	for _, s := range stages {
		if runner, ok := s.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds Runnable implementions.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Ticks returns the number of ticks run so far.
func (l *Loop) Ticks() uint64 {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.tick
}

// Run implements Runnable. It returns nil when stopped by a stage and the
// context error when the context is done.
func (l *Loop) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	runner := NewRunnerWith(runCtx)
	runner.Go(l.runners...)
	defer runner.Wait()
	defer cancel()

	interval := l.interval()
	ticker := l.clock().Ticker(interval)
	defer ticker.Stop()
	stopCh := l.stopChan()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case now := <-ticker.C:
			l.runTick(runCtx, now)
			if l.Stopped() {
				return nil
			}
			if elapsed := l.clock().Since(now); elapsed > interval {
				glog.Warningf("tick %d overran: %v > %v", l.Ticks(), elapsed, interval)
			}
		}
	}
}

// Step runs a single tick at the current clock time, without waiting.
func (l *Loop) Step(ctx context.Context) {
	l.runTick(ctx, l.clock().Now())
}

// Stop implements LoopControl.
func (l *Loop) Stop() {
	ch := l.stopChan()
	l.stopOnce.Do(func() { close(ch) })
}

// Stopped tells whether Stop has been called.
func (l *Loop) Stopped() bool {
	select {
	case <-l.stopChan():
		return true
	default:
		return false
	}
}

// PostRunAt implements LoopControl.
func (l *Loop) PostRunAt(phase int, stages ...Stage) {
	lst := &l.phases[phase]
	lst.lock.Lock()
	lst.postHooks = append(lst.postHooks, stages...)
	lst.lock.Unlock()
}

func (l *Loop) interval() time.Duration {
	if l.Interval <= 0 {
		return DefaultInterval
	}
	return l.Interval
}

func (l *Loop) clock() clock.Clock {
	if l.Clock == nil {
		l.Clock = clock.New()
	}
	return l.Clock
}

func (l *Loop) stopChan() chan struct{} {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.stopCh == nil {
		l.stopCh = make(chan struct{})
	}
	return l.stopCh
}

func (l *Loop) runTick(ctx context.Context, now time.Time) {
	l.lock.Lock()
	l.tick++
	tc := &tickContext{Loop: l, ctx: ctx, time: now, tick: l.tick}
	l.lock.Unlock()
	for i := 0; i < Phases; i++ {
		tc.phase = i
		l.phases[i].run(tc)
	}
}

func (t *tickContext) Context() context.Context { return t.ctx }
func (t *tickContext) Time() time.Time          { return t.time }
func (t *tickContext) Tick() uint64             { return t.tick }
func (t *tickContext) Interval() time.Duration  { return t.interval() }
func (t *tickContext) Phase() int               { return t.phase }

func (t *tickContext) PostRun(stages ...Stage) {
	t.PostRunAt(t.phase, stages...)
}

func (s *stageList) run(tc *tickContext) {
	runStages(tc, s.stages)
	s.lock.Lock()
	hooks := s.postHooks
	s.postHooks = nil
	s.lock.Unlock()
	runStages(tc, hooks)
}

func runStages(tc *tickContext, stages []Stage) {
	for _, s := range stages {
		if err := s.Step(tc); err != nil {
			glog.Errorf("tick %d phase %d: %v", tc.tick, tc.phase, err)
		}
	}
}
