// Package all registers all shell commands.
package all

import (
	_ "github.com/robotalks/trackdrive/pkg/cli/cmds/robot"
	_ "github.com/robotalks/trackdrive/pkg/cli/cmds/traj"
)
