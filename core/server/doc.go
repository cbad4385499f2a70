// Package server hosts HTTP and websocket stream endpoints with graceful
// shutdown.
//
// A Server runs once. Run blocks until its context is cancelled, then stops
// accepting connections, cancels the context of every in-flight request and
// waits up to the shutdown timeout for handlers to return. Upgraded websocket
// connections are covered too, so stream handlers see their request context
// end and release their subscriptions.
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Runner(ctx, mux))
//	return g.Wait()
//
// Configuration comes from SERVER_* environment variables (see Config).
// Setting both SERVER_TLS_CERT_FILE and SERVER_TLS_KEY_FILE enables HTTPS
// with TLS 1.2 as the minimum version.
package server
