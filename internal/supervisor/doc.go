// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

/*
Package supervisor provides process supervision for the crosssell server
using suture v4.

The tree has two layers for failure isolation:

	RootSupervisor ("crosssell")
	├── DataSupervisor ("data-layer")
	│   └── PipelineService (scheduled runs)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A pipeline loop that panics or returns an error is restarted with suture's
backoff while the HTTP server keeps answering from the last published
model. Supervisor events are logged through sutureslog, using a slog
logger backed by the zerolog global logger (see logging.NewSlogLogger).

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddDataService(services.NewPipelineService(runner, cfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	errCh := tree.ServeBackground(ctx)

Service wrappers live in the services subpackage.
*/
package supervisor
