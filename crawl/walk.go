package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/sitecrawl"
)

// walkProcessor processes one frontier entry and returns its page.
type walkProcessor func(ctx context.Context, entry sitecrawl.FrontierEntry) *sitecrawl.PageResult

// walkResultHandler handles a completed page. It runs on the coordinator
// goroutine only, so it may enqueue discovered links into the frontier.
type walkResultHandler func(page *sitecrawl.PageResult)

// walkFrontier drains frontier with a pool of concurrency workers.
//
// The calling goroutine is the coordinator: it alone dequeues entries,
// dispatches them to workers, and hands results to handleResult. Workers
// only process entries and report pages back. An entry is dequeued (and so
// marked visited) right before dispatch, which keeps the number of
// dispatched entries at or below maxPages.
//
// The walk ends when nothing is queued or the budget is spent and no work is
// in flight. Once ctx is done nothing new is dispatched, but in-flight pages
// are still collected.
func (c *Crawler) walkFrontier(
	ctx context.Context,
	frontier *Frontier,
	maxPages int,
	concurrency int,
	processEntry walkProcessor,
	handleResult walkResultHandler,
) {
	workCh := make(chan sitecrawl.FrontierEntry)
	resultCh := make(chan *sitecrawl.PageResult)

	var wg sync.WaitGroup
	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range workCh {
				resultCh <- processEntry(ctx, entry)
			}
		}()
	}

	// pending counts entries handed to workers whose result has not been
	// received; while pending < concurrency some worker is free to receive.
	pending := 0
	for {
		for pending < concurrency && ctx.Err() == nil && frontier.Visited() < maxPages {
			entry, ok := frontier.Dequeue()
			if !ok {
				break
			}
			workCh <- entry
			pending++
		}

		if pending == 0 {
			break
		}

		page := <-resultCh
		pending--
		handleResult(page)
	}

	close(workCh)
	wg.Wait()
}
