package zcmd

import (
	"time"

	"go.brendoncarroll.net/star"

	zdebug "github.com/DustinCampbell/ZDebug-sub001"
	"github.com/DustinCampbell/ZDebug-sub001/zsave"
)

var savesCmd = star.NewDir(star.Metadata{
	Short: "manage saved games",
}, map[star.Symbol]star.Command{
	"list":   savesList,
	"delete": savesDelete,
})

var savesList = star.Command{
	Metadata: star.Metadata{
		Short: "list the saved games for a story",
		Tags:  []string{"saves"},
	},
	Flags: []star.IParam{configParam},
	Pos:   []star.IParam{storyParam},
	F: func(c star.Context) error {
		cfg := configParam.Load(c)
		s, err := zsave.Open(c, cfg.Saves.Path)
		if err != nil {
			return err
		}
		defer s.Close()
		id := zdebug.StoryID(storyParam.Load(c))
		slots, err := s.List(c, id)
		if err != nil {
			return err
		}
		c.Printf("STORY %v\n", id)
		c.Printf("%-16s %8s  %s\n", "SLOT", "SIZE", "SAVED")
		for _, slot := range slots {
			c.Printf("%-16s %8d  %s\n", slot.Name, slot.Size, slot.CreatedAt.Format(time.DateTime))
		}
		return nil
	},
}

var savesDelete = star.Command{
	Metadata: star.Metadata{
		Short: "delete a saved game",
		Tags:  []string{"saves"},
	},
	Flags: []star.IParam{configParam, slotParam},
	Pos:   []star.IParam{storyParam},
	F: func(c star.Context) error {
		cfg := configParam.Load(c)
		s, err := zsave.Open(c, cfg.Saves.Path)
		if err != nil {
			return err
		}
		defer s.Close()
		return s.Delete(c, zdebug.StoryID(storyParam.Load(c)), slotFor(c, cfg))
	},
}
