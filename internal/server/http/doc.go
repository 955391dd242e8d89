// Package httpserver provides the REST gateway for pl-flow: JSON endpoints
// for submit/remove/clear/stats, an SSE success feed with optional CEL
// filtering, and journal paging.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Config: config.Default()})
//	s := httpserver.New(rt, logger)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":8080")
package httpserver
