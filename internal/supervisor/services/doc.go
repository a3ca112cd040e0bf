// Crosssell - Basket Analytics and Cross-Sell Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crosssell

/*
Package services provides suture.Service wrappers for the server's
long-running components.

  - HTTPServerService turns ListenAndServe into a context-aware Serve with
    graceful shutdown.
  - PipelineService runs the pipeline on startup and on a fixed interval.

Every wrapper implements fmt.Stringer so supervisor events name it.
*/
package services
