// jittersim feeds a jitter buffer with a simulated RTP stream that arrives
// reordered, delayed and lossy, and reports what the consumer received.
//
// Usage:
//
//	jittersim run                         # defaults: depth 6, interval 20ms
//	jittersim run --config buffer.yaml    # buffer settings from YAML
//	jittersim run --jitter 80ms --loss 0.05 --count 500
package main

import (
	"os"

	"github.com/channel-io/go-seqjitter/cmd/jittersim/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
