package review

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dshills/chorus/internal/providers"
)

// KindHandlerFailure marks a section whose reviewer panicked.
const KindHandlerFailure providers.ErrorKind = "HandlerFailure"

// Member is one reviewer in a fan-out.
type Member struct {
	Client providers.Client
	Role   string
}

// Observer is notified when each member settles.
type Observer interface {
	ObserveProviderCall(ctx context.Context, res providers.Result)
}

// Aggregator fans a review out to every member and joins all results.
type Aggregator struct {
	members  []Member
	observer Observer
}

// NewAggregator creates an Aggregator. Member order is report order.
func NewAggregator(members []Member, observer Observer) *Aggregator {
	return &Aggregator{members: members, observer: observer}
}

// DefaultRoles maps provider names to their review roles.
var DefaultRoles = map[string]string{
	"anthropic": "architecture and design",
	"openai":    "code quality and correctness",
	"gemini":    "documentation and security",
}

// MembersFor pairs clients with their default roles, preserving order.
func MembersFor(clients []providers.Client) []Member {
	members := make([]Member, len(clients))
	for i, c := range clients {
		members[i] = Member{Client: c, Role: DefaultRoles[c.Name()]}
	}
	return members
}

// Members returns the configured members in report order.
func (a *Aggregator) Members() []Member {
	return a.members
}

// Review sends code to every member concurrently and waits for all of them.
// Each member writes only its own pre-allocated slot, so section order is
// member order regardless of completion order. A failed member never
// prevents the others from reporting.
func (a *Aggregator) Review(ctx context.Context, code string, focus Focus) *CompositeReport {
	start := time.Now()
	sections := make([]providers.Result, len(a.members))

	var wg sync.WaitGroup
	for i, m := range a.members {
		wg.Add(1)
		go func(i int, m Member) {
			defer wg.Done()
			sections[i] = a.call(ctx, m, code, focus)
		}(i, m)
	}
	wg.Wait()

	return &CompositeReport{
		Focus:    focus,
		Sections: sections,
		Elapsed:  time.Since(start),
	}
}

func (a *Aggregator) call(ctx context.Context, m Member, code string, focus Focus) (res providers.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = providers.Result{
				Provider: m.Client.Name(),
				Kind:     KindHandlerFailure,
				Message:  fmt.Sprintf("panic: %v", r),
			}
		}
		res.Role = m.Role
		if a.observer != nil {
			a.observer.ObserveProviderCall(ctx, res)
		}
	}()
	return m.Client.Call(ctx, FocusPrompt(focus, m.Role), code)
}
