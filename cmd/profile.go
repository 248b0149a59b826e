package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/pkg/profile"
)

var profileModes = map[string]func(*profile.Profile){
	"cpu": profile.CPUProfile,
	"mem": profile.MemProfile,
}

// startProfile starts profiling if `mode` is not empty.
// The returned function stops the profile and writes it into `dir`.
func startProfile(mode string, dir string) (func(), error) {
	if mode == "" {
		return func() {}, nil
	}

	modeFn, found := profileModes[mode]
	if !found {
		return nil, fmt.Errorf(
			"Invalid profile mode `%s`: valid modes are %s",
			mode,
			strings.Join(slices.Sorted(maps.Keys(profileModes)), ", "),
		)
	}

	running := profile.Start(modeFn, profile.ProfilePath(dir), profile.Quiet, profile.NoShutdownHook)
	return running.Stop, nil
}
