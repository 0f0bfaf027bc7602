// package zcmd implements the zmachine command line tool.
package zcmd

import (
	"fmt"
	"os"
	"strconv"

	"go.brendoncarroll.net/star"
	"go.uber.org/zap"

	zdebug "github.com/DustinCampbell/ZDebug-sub001"
	"github.com/DustinCampbell/ZDebug-sub001/zconfig"
)

func Root() star.Command {
	return root
}

var root = star.NewDir(star.Metadata{
	Short: "Z-machine interpreter and story inspector",
}, map[star.Symbol]star.Command{
	"run": run,

	"header":  header,
	"disasm":  disasm,
	"objects": objects,
	"dict":    dict,
	"verify":  verify,

	"saves": savesCmd,
})

var storyParam = star.Param[[]byte]{
	Name: "story",
	Parse: func(x string) ([]byte, error) {
		data, err := os.ReadFile(x)
		if err != nil {
			return nil, err
		}
		if len(data) < zdebug.MinStorySize || len(data) > zdebug.MaxStorySize {
			return nil, fmt.Errorf("%s: %d bytes is not a plausible story size", x, len(data))
		}
		return data, nil
	},
}

// configParam loads the named file, or searches upwards from the working directory if empty.
var configParam = star.Param[*zconfig.Config]{
	Name:    "config",
	Default: star.Ptr(""),
	Parse: func(x string) (*zconfig.Config, error) {
		if x == "" {
			return zconfig.Find(".")
		}
		return zconfig.Load(x)
	},
}

// slotParam overrides the configured save slot.
var slotParam = star.Param[string]{
	Name:    "slot",
	Default: star.Ptr(""),
	Parse:   star.ParseString,
}

var addrParam = star.Param[int]{
	Name:    "addr",
	Default: star.Ptr("0"),
	Parse: func(x string) (int, error) {
		n, err := strconv.ParseUint(x, 0, 32)
		return int(n), err
	},
}

var countParam = star.Param[int]{
	Name:    "n",
	Default: star.Ptr("32"),
	Parse: func(x string) (int, error) {
		return strconv.Atoi(x)
	},
}

func newLogger(cfg *zconfig.Config) (*zap.Logger, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

func slotFor(c star.Context, cfg *zconfig.Config) string {
	if s := slotParam.Load(c); s != "" {
		return s
	}
	return cfg.Saves.Slot
}
