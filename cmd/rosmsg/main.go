// Command rosmsg is a small demo CLI over this module's public API: it
// registers a message definition, prints its hashes and re-emitted text,
// and can translate a wire1/CDR payload from one representation to the
// other. It is a collaborator exercising the library, not part of the
// library's contract (spec.md section 1's stated Non-goals exclude a CLI
// from the core surface; this one exists purely as a demonstration
// harness, grounded on the teacher's own cli/ convention of shipping a
// thin cobra front-end alongside the library packages).
package main

import "github.com/ben-z/rosbags/cmd/rosmsg/cmd"

func main() {
	cmd.Execute()
}
