// Package relay is a ready-to-run service that streams a Redis pub/sub
// channel to websocket clients with per-client demand.
//
//	app, err := relay.NewApp()
//	if err != nil {
//		return err
//	}
//	return app.Run(ctx)
//
// Routes:
//   - GET RELAY_STREAM_PATH (default /stream): wsstream endpoint
//   - GET /health/live, GET /ping: liveness
//   - GET /health/ready: Redis ping and stream state
//
// Messages must be JSON; anything else is logged and skipped. When
// RELAY_MIRROR_CHANNEL is set, every relayed message is also published to
// that channel.
package relay
