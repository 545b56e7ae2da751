// Package coldstream provides cold, restartable, push-based event streams.
//
// A Producer is a value describing how to produce a stream of events. Building
// a Producer performs no work: events flow only once the Producer is started,
// and every start creates a fresh, independent Signal with its own disposal
// tree. A started stream delivers zero or more values followed by at most one
// terminal event: Completed, Failed, or Interrupted.
//
// Producers are constructed from values, errors, results, or sequences, and
// composed declaratively with combinators such as Map, Filter, Take, Scan,
// CombineLatestWith, and ZipWith. A producer of producers is collapsed into a
// single stream with Flatten or FlatMap, using one of three strategies:
// merge (run every inner stream concurrently), concat (run one at a time, in
// arrival order), or latest (interrupt the previous inner stream whenever a
// new one arrives).
//
// Cancellation is modeled as a tree of disposables. Starting a producer
// returns a Disposable handle; disposing it sends Interrupted to that run's
// observers and then releases every resource registered for the run, each
// exactly once.
//
// The blocking reducers First, Single, Last, and Wait bridge a started stream
// into a synchronous call site. They are the only operations in the package
// that block the calling goroutine.
package coldstream
