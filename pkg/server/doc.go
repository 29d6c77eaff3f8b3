// Package server exposes the layout pipeline and the preset store over HTTP.
//
// # Routes
//
//	POST   /v1/keylines                resolve keylines for a pipeline.Options body
//	POST   /v1/place                   resolve keylines and place items at "scroll"
//	GET    /v1/presets                 list presets
//	PUT    /v1/presets/{name}          create or replace a preset
//	GET    /v1/presets/{name}          fetch a preset
//	DELETE /v1/presets/{name}          delete a preset
//	GET    /v1/presets/{name}/layout   render a preset, optionally at ?scroll=
//	GET    /healthz                    liveness and build info
//
// Every response carries an X-Request-ID header. An incoming X-Request-ID is
// echoed; otherwise a UUID is generated. Failures are returned as
//
//	{"code": "INVALID_PIVOT", "message": "pivot index 7 out of range [0, 4)"}
//
// with the status derived from the error code (see [StatusFor]).
//
// # Running
//
//	srv := server.New(runner, store, cfg.Server, logger)
//	if err := srv.ListenAndServe(ctx); err != nil {
//	    return err
//	}
//
// ListenAndServe shuts down gracefully when ctx is cancelled.
package server
