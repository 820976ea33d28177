// Package scheduler drives paginated fetching against a rate-limited,
// anti-bot-protected explorer.
//
// Pages are assigned statically to a fixed pool of worker slots, each owning
// one renderer handle, and launched in waves sized to the pool. The delay
// between waves widens with the error count of the preceding wave, per-slot
// pacing bounds the request rate of each handle, and failed pages get one
// concurrent best-effort retry pass at the end.
//
// Example usage:
//
//	sched, err := scheduler.New(ctx, factory, cfg)
//	if err != nil {
//		return err
//	}
//	defer sched.Close(ctx)
//	result, err := sched.Run(ctx, hashSet)
//
// The scheduler:
//   - Fetches page 1 once to detect the advertised total page count
//   - Routes page p to slot (p-1) mod maxWindows
//   - Launches waves of maxWindows tasks and waits for each to settle
//   - Retries failed tasks inline with class-dependent backoff
//   - Re-attempts registered failures once, concurrently, without pacing
//   - Reports pages it permanently dropped
package scheduler
