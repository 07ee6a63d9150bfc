package placement

import (
	"context"
	"sync"

	"github.com/paulmach/orb"
)

type placeJob struct {
	idx     int
	polygon orb.Polygon
}

// PlaceAllConcurrent is PlaceAll spread over a number of workers. Results
// are index-ordered and identical to PlaceAll's. Cancelling ctx stops
// workers from starting on further polygons.
func (e Evaluator) PlaceAllConcurrent(ctx context.Context, polygons []orb.Polygon, metrics TextMetrics, padding float64, workers int) ([]Placement, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(polygons) {
		workers = len(polygons)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	placements := make([]Placement, len(polygons))
	errs := make([]error, len(polygons))

	jobs := make(chan placeJob)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for job := range jobs {
				placement, err := e.Place(job.polygon, metrics, padding, job.idx)
				if err != nil {
					errs[job.idx] = err
					cancel()
					continue
				}
				placements[job.idx] = placement
			}
		}()
	}

	fed := 0
feed:
	for idx, polygon := range polygons {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break feed
		case jobs <- placeJob{idx: idx, polygon: polygon}:
			fed++
		}
	}
	close(jobs)
	wg.Wait()

	// lowest index error wins so the result matches PlaceAll
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if fed < len(polygons) {
		return nil, ctx.Err()
	}

	return placements, nil
}

func PlaceAllConcurrent(ctx context.Context, polygons []orb.Polygon, metrics TextMetrics, padding float64, workers int) ([]Placement, error) {
	return DefaultEvaluator().PlaceAllConcurrent(ctx, polygons, metrics, padding, workers)
}
