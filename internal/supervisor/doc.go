// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

/*
Package supervisor runs the long-lived Recipebox services under a suture v4
supervisor tree.

# Overview

Services are grouped into three layers so that a crash in one layer
restarts only that layer:

	RootSupervisor ("recipebox")
	├── DataSupervisor ("data-layer")
	│   └── TrainingQueue
	├── MessagingSupervisor ("messaging-layer")
	│   ├── events.Router
	│   ├── RetrainService (if RETRAIN_INTERVAL > 0)
	│   └── MaintenanceService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events (starts, failures, backoff) are logged through the
sutureslog hook, backed by the zerolog-based slog handler from the logging
package.

# Usage Example

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logging.Logger()), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
	    return err
	}
	tree.AddDataService(engine.Queue())
	tree.AddMessagingService(eventRouter)
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout, logger))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

# Service Contract

Every service implements suture.Service and fmt.Stringer. Serve blocks
until its context is canceled and then returns ctx.Err(); any other
return is treated as a failure and the service is restarted with backoff.

# See Also

  - internal/supervisor/services: service wrappers
  - github.com/thejerf/suture/v4
*/
package supervisor
