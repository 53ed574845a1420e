// Package worker runs background consumers for asynchronous gateway
// signals.
package worker

import (
	"context"
	"log"

	"cryptopay/internal/services/gateway"
	"cryptopay/internal/services/transfer"
)

// CompletionWorker applies the gateway's asynchronous withdrawal
// completion events to the ledger. Completion is a pure status
// transition; the funds left the balance at initiation.
type CompletionWorker struct {
	notifier gateway.CompletionNotifier
	engine   transfer.Service
}

func NewCompletionWorker(notifier gateway.CompletionNotifier, engine transfer.Service) *CompletionWorker {
	return &CompletionWorker{notifier: notifier, engine: engine}
}

// Run consumes events until the context is cancelled or the event
// channel closes. Intended to run in its own goroutine.
func (w *CompletionWorker) Run(ctx context.Context) {
	events := w.notifier.WithdrawalEvents()
	for {
		select {
		case <-ctx.Done():
			log.Println("worker: withdrawal completion worker stopped")
			return
		case event, ok := <-events:
			if !ok {
				log.Println("worker: withdrawal event channel closed")
				return
			}
			w.handle(ctx, event)
		}
	}
}

func (w *CompletionWorker) handle(ctx context.Context, event gateway.WithdrawalEvent) {
	if !event.Completed {
		log.Printf("worker: withdrawal %s reported unfinished by gateway, leaving pending", event.Reference)
		return
	}
	if err := w.engine.CompleteWithdrawal(ctx, event.Reference); err != nil {
		log.Printf("worker: failed to complete withdrawal %s: %v", event.Reference, err)
		return
	}
	log.Printf("worker: withdrawal %s completed (%s)", event.Reference, event.WithdrawalID)
}
