// Package shtk provides a spherical-harmonics toolkit for planetary
// shape and gravity models.
//
// The toolkit reads coefficient files in the .shape record format,
// converts between coefficient storage layouts, evaluates expansions at
// geographic points, and synthesizes full Driscoll and Healy grids.
// Named models can also be resolved through a remote catalog with local
// caching.
//
// # Basic Usage
//
// Create a client and load a model from disk:
//
//	cfg := &shtk.Config{DataDir: "./data"}
//	client, err := shtk.NewClient(cfg, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	coeffs, err := client.LoadModel(ctx, "MarsTopo719", "")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Evaluating
//
// Evaluate the expansion at a single point, or synthesize a grid:
//
//	val, err := client.EvalPoint(ctx, "MarsTopo719", 10.0, 30.0)
//
//	grid, err := client.Expand(ctx, "MarsTopo719", &sh.ExpandOptions{Sampling: 2})
//
// # Self checks
//
// Models can carry a reference-point check; Verify evaluates it:
//
//	res, err := client.Verify(ctx, "MarsTopo719", types.Check{
//		Lat: 10, Lon: 30, Want: 3395259.548270001, Tol: 1e-9,
//	})
//	if !res.OK {
//		log.Fatalf("model drifted by %g", res.Diff)
//	}
package shtk
