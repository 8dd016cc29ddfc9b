// Package sdk provides an HTTP client for a remote billboard service.
//
// For in-process use (embedding the engine directly) see the root
// billboard package; this package talks to a running billboard server
// over its REST API.
//
//	client, _ := sdk.New("http://localhost:8080",
//	    sdk.WithAPIKey(os.Getenv("BILLBOARD_API_KEY")),
//	)
//
//	recs, err := client.Recommendations(ctx, "alice", &sdk.RecommendOptions{
//	    Strategy: "blended",
//	    Limit:    10,
//	})
//
// Server-side errors carry their machine-readable code and can be
// matched with errors.Is against the package sentinels:
//
//	if errors.Is(err, sdk.ErrProfileNotFound) { ... }
package sdk
