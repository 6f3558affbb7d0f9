// Command pgqb is the CLI front-end for the pgqb query builder and
// migration engine.
//
// It supports:
//   - migrate make: scaffold a new migration file
//   - migrate up/down/status: apply, revert, and inspect registered migrations
//   - doctor: run health checks against a database
//   - version: print build version information
//   - license: print license and third-party notices
//
// Applications embedding pgqb as a library typically build their own
// thin main that blank-imports their migrations package so
// migrate.Registered() finds them; this binary is useful standalone
// for doctor/version/license and for migrate make scaffolding.
package main

func main() {
	Execute()
}
