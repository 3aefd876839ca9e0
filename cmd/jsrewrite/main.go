// jsrewrite applies structural rewrite rules to JavaScript sources.
//
// Usage:
//
//	# Print rewritten sources
//	jsrewrite run app.js lib/client.mjs
//
//	# Rewrite files in place and export metrics
//	jsrewrite run --write --metrics-file /var/lib/node_exporter/jsrewrite.prom src/*.js
//
//	# Keep a source tree rewritten
//	jsrewrite watch ./src
package main

import "github.com/vitalvas/jsrewrite/cmd/jsrewrite/cmd"

func main() {
	cmd.Execute()
}
