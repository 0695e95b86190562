// Package iterator delivers the batches of a pipeline, either from a single
// instance in the caller's goroutine or from a pool of workers that each own
// an independently constructed instance.
//
//	it := iterator.New(4, func(ctx context.Context, w iterator.Worker) (dataset.Dataset[*dataset.Batch], error) {
//		return buildPipeline(ctx, w)
//	})
//	for batch, err := range it.All(ctx) {
//		if err != nil {
//			return err
//		}
//		train(batch)
//	}
//
// Batches from different workers arrive in no particular order. Leaving the
// range loop early cancels the workers and waits for them to exit.
package iterator
